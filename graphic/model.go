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
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// DefaultSize is the canvas size of a new model.
var DefaultSize = vec.Vec2{X: 600, Y: 400}

// Size limits for the content of a model.  Content beyond these limits
// cannot be sent to a renderer.
const (
	// MaxStringLen is the maximal length in bytes of a title, a font name
	// or the text of a label.
	MaxStringLen = 1<<16 - 1

	// MaxPoints is the maximal number of points of a line, polygon or
	// patch.
	MaxPoints = 1 << 18

	// MaxImageBytes is the maximal size of the pixel data of an image.
	MaxImageBytes = 8 << 20
)

// Model is the retained document of one plot.
//
// The zero value is not ready for use; call [NewModel].
type Model struct {
	// Size is the size of the canvas.
	Size vec.Vec2

	Title      string
	Background Color

	// DefaultClip overrides the canvas rectangle as the clip region for
	// objects which are not clipped individually.  If DefaultClip is nil,
	// the canvas rectangle is used.
	DefaultClip *rect.Rect

	objects []Object
	open    bool
}

// NewModel returns an empty model with the default canvas.
func NewModel() *Model {
	m := &Model{}
	m.Clear()
	return m
}

// Clear removes all objects and resets the document attributes.
func (m *Model) Clear() {
	clear(m.objects)
	m.objects = m.objects[:0]
	m.open = false
	m.Size = DefaultSize
	m.Title = ""
	m.Background = White
	m.DefaultClip = nil
}

// Append adds obj to the end of the model.  Any open object is closed
// first.
func (m *Model) Append(obj Object) {
	m.open = false
	m.objects = append(m.objects, obj)
}

// AppendOpen adds obj to the end of the model and marks it as open, so that
// it can be extended using [Model.Extend].  Only lines and polygons can be
// open; for other objects AppendOpen is equivalent to [Model.Append].
func (m *Model) AppendOpen(obj Object) {
	m.Append(obj)
	switch obj.(type) {
	case *Line, *Polygon:
		m.open = true
	}
}

// Extend appends points to the last object, if this object is open and of
// the given kind.  The return value indicates whether the points were added.
func (m *Model) Extend(kind Kind, pts ...vec.Vec2) bool {
	obj := m.Last()
	if !m.open || obj == nil || obj.Kind() != kind {
		return false
	}
	switch obj := obj.(type) {
	case *Line:
		obj.Points = append(obj.Points, pts...)
	case *Polygon:
		obj.Points = append(obj.Points, pts...)
	default:
		return false
	}
	return true
}

// Close marks the last object as final.  After Close, [Model.Extend] fails
// until the next call to [Model.AppendOpen].
func (m *Model) Close() {
	m.open = false
}

// IsOpen reports whether the last object can still be extended.
func (m *Model) IsOpen() bool {
	return m.open
}

// Last returns the last object of the model, or nil if the model is empty.
func (m *Model) Last() Object {
	if len(m.objects) == 0 {
		return nil
	}
	return m.objects[len(m.objects)-1]
}

// Len returns the number of objects in the model.
func (m *Model) Len() int {
	return len(m.objects)
}

// Objects returns the objects of the model in paint order.
// The returned slice must not be modified.
func (m *Model) Objects() []Object {
	return m.objects
}

// Counts returns the number of objects of each kind.
func (m *Model) Counts() map[Kind]int {
	res := make(map[Kind]int)
	for _, obj := range m.objects {
		res[obj.Kind()]++
	}
	return res
}

// Bounds returns the smallest rectangle containing all objects,
// or the zero rectangle if the model is empty.
func (m *Model) Bounds() rect.Rect {
	if len(m.objects) == 0 {
		return rect.Rect{}
	}
	b := m.objects[0].Bounds()
	for _, obj := range m.objects[1:] {
		ob := obj.Bounds()
		b.LLx = math.Min(b.LLx, ob.LLx)
		b.LLy = math.Min(b.LLy, ob.LLy)
		b.URx = math.Max(b.URx, ob.URx)
		b.URy = math.Max(b.URy, ob.URy)
	}
	return b
}

// Canvas returns the canvas rectangle, with the lower left corner at the
// origin.
func (m *Model) Canvas() rect.Rect {
	return rect.Rect{URx: m.Size.X, URy: m.Size.Y}
}
