// seehuhn.de/go/aqt - a client library for out-of-process plot viewers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package graphic

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Kind identifies the variant of an [Object].
type Kind uint8

// These are the object variants.
const (
	KindLine Kind = iota + 1
	KindPolygon
	KindPatch
	KindLabel
	KindImage
	KindClear
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	case KindPatch:
		return "patch"
	case KindLabel:
		return "label"
	case KindImage:
		return "image"
	case KindClear:
		return "clear"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Object is one drawable primitive of a plot.
//
// The set of implementations is closed; consumers dispatch on the concrete
// type or on the value returned by Kind.
type Object interface {
	Kind() Kind

	// ObjectStyle returns the style snapshot taken when the object was
	// created.
	ObjectStyle() Style

	// Bounds returns the smallest rectangle containing the object's
	// geometry.  Labels only contribute their anchor point.
	Bounds() rect.Rect

	isObject()
}

// The following types implement the Object interface:
var (
	_ Object = (*Line)(nil)
	_ Object = (*Polygon)(nil)
	_ Object = (*Patch)(nil)
	_ Object = (*Label)(nil)
	_ Object = (*Image)(nil)
	_ Object = (*ClearRegion)(nil)
)

// Line is an open polyline with at least two points.
type Line struct {
	Points []vec.Vec2
	Style  Style
	Dash   Dash

	// Clip is the clipping rectangle in effect for the object,
	// or nil if the object is not clipped.
	Clip *rect.Rect
}

// Kind implements the [Object] interface.
func (l *Line) Kind() Kind { return KindLine }

// ObjectStyle implements the [Object] interface.
func (l *Line) ObjectStyle() Style { return l.Style }

// Bounds implements the [Object] interface.
func (l *Line) Bounds() rect.Rect { return pointBounds(l.Points) }

func (l *Line) isObject() {}

// Polygon is a closed outline.  The last point is implicitly joined
// to the first one.
type Polygon struct {
	Points []vec.Vec2
	Style  Style
	Dash   Dash
	Clip   *rect.Rect
}

// Kind implements the [Object] interface.
func (p *Polygon) Kind() Kind { return KindPolygon }

// ObjectStyle implements the [Object] interface.
func (p *Polygon) ObjectStyle() Style { return p.Style }

// Bounds implements the [Object] interface.
func (p *Polygon) Bounds() rect.Rect { return pointBounds(p.Points) }

func (p *Polygon) isObject() {}

// Patch is a filled polygon.  The line width of its style is always 0.
type Patch struct {
	Points []vec.Vec2
	Style  Style
	Clip   *rect.Rect
}

// Kind implements the [Object] interface.
func (p *Patch) Kind() Kind { return KindPatch }

// ObjectStyle implements the [Object] interface.
func (p *Patch) ObjectStyle() Style { return p.Style }

// Bounds implements the [Object] interface.
func (p *Patch) Bounds() rect.Rect { return pointBounds(p.Points) }

func (p *Patch) isObject() {}

// Label is a piece of text placed at an anchor point.
type Label struct {
	Text Text
	Pos  vec.Vec2

	// Angle is the rotation of the baseline, in degrees counterclockwise.
	Angle float64

	// Shear is the slant of the glyphs, in degrees.
	Shear float64

	Align    Align
	FontName string
	FontSize float64
	Style    Style
	Clip     *rect.Rect
}

// Kind implements the [Object] interface.
func (l *Label) Kind() Kind { return KindLabel }

// ObjectStyle implements the [Object] interface.
func (l *Label) ObjectStyle() Style { return l.Style }

// Bounds implements the [Object] interface.
func (l *Label) Bounds() rect.Rect {
	return rect.Rect{LLx: l.Pos.X, LLy: l.Pos.Y, URx: l.Pos.X, URy: l.Pos.Y}
}

func (l *Label) isObject() {}

// Image is a raster image.
//
// Pix holds Width*Height pixels, row by row starting at the top, with three
// 8-bit RGB samples per pixel.  Without a transformation the image is
// scaled to fill Dest.  With a transformation, the unit square of the image
// is mapped by Transform and Dest acts as a clipping rectangle.
type Image struct {
	Pix           []byte
	Width, Height int
	Dest          rect.Rect
	Transform     matrix.Matrix
	HasTransform  bool
	Style         Style
	Clip          *rect.Rect
}

// Kind implements the [Object] interface.
func (im *Image) Kind() Kind { return KindImage }

// ObjectStyle implements the [Object] interface.
func (im *Image) ObjectStyle() Style { return im.Style }

// Bounds implements the [Object] interface.
func (im *Image) Bounds() rect.Rect { return normRect(im.Dest) }

func (im *Image) isObject() {}

// ClearRegion marks the content of a rectangle for removal.  Objects painted
// before the ClearRegion are erased inside Rect.
type ClearRegion struct {
	Rect  rect.Rect
	Style Style
}

// Kind implements the [Object] interface.
func (c *ClearRegion) Kind() Kind { return KindClear }

// ObjectStyle implements the [Object] interface.
func (c *ClearRegion) ObjectStyle() Style { return c.Style }

// Bounds implements the [Object] interface.
func (c *ClearRegion) Bounds() rect.Rect { return normRect(c.Rect) }

func (c *ClearRegion) isObject() {}

// Points returns the point list of lines, polygons and patches,
// and nil for all other objects.
func Points(obj Object) []vec.Vec2 {
	switch obj := obj.(type) {
	case *Line:
		return obj.Points
	case *Polygon:
		return obj.Points
	case *Patch:
		return obj.Points
	}
	return nil
}

// RectPoints returns the corners of r in counterclockwise order,
// starting at the lower left corner.
func RectPoints(r rect.Rect) []vec.Vec2 {
	return []vec.Vec2{
		{X: r.LLx, Y: r.LLy},
		{X: r.URx, Y: r.LLy},
		{X: r.URx, Y: r.URy},
		{X: r.LLx, Y: r.URy},
	}
}

func pointBounds(pts []vec.Vec2) rect.Rect {
	if len(pts) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for _, p := range pts {
		b.LLx = math.Min(b.LLx, p.X)
		b.LLy = math.Min(b.LLy, p.Y)
		b.URx = math.Max(b.URx, p.X)
		b.URy = math.Max(b.URy, p.Y)
	}
	return b
}

func normRect(r rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: math.Min(r.LLx, r.URx),
		LLy: math.Min(r.LLy, r.URy),
		URx: math.Max(r.LLx, r.URx),
		URy: math.Max(r.LLy, r.URy),
	}
}
