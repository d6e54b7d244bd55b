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

package plot

import (
	"fmt"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/graphic"
)

// This file implements the path construction calls.  Lines are built
// incrementally using MoveTo and LineTo, polygons using MoveToVertex and
// AddEdgeTo.  The bulk calls AddPolyline, AddPolygon, AddPatch and
// AddFilledRect append a complete object in one step.

// MoveTo finalizes any open path and starts a new line at p.
// The line becomes part of the model once a second point is added.
func (b *Builder) MoveTo(p vec.Vec2) {
	if !b.isValid() {
		return
	}
	b.Finalize()
	b.beginPath(pathLine, p)
}

// LineTo appends a segment from the current point to p.
//
// If no line is under construction, a new line is started at the current
// point.  If there is no current point either, LineTo behaves like
// [Builder.MoveTo].  A line which reaches [graphic.MaxPoints] points is
// committed and continued by a new line.
func (b *Builder) LineTo(p vec.Vec2) {
	if !b.isValid() {
		return
	}

	if b.path != pathLine {
		b.Finalize()
		if !b.hasPen {
			b.beginPath(pathLine, p)
			return
		}
		b.beginPath(pathLine, b.pen)
	} else if b.line != nil && len(b.line.Points) >= graphic.MaxPoints {
		b.Finalize()
		b.beginPath(pathLine, b.pen)
	}

	if b.line == nil {
		b.line = &graphic.Line{
			Points: []vec.Vec2{b.start, p},
			Style:  b.pathStyle,
			Dash:   b.pathDash,
			Clip:   b.pathClip,
		}
		b.model.AppendOpen(b.line)
	} else {
		b.model.Extend(graphic.KindLine, p)
	}
	b.pen = p
	b.dirty = true
}

// MoveToVertex finalizes any open path and starts a new polygon at p.
func (b *Builder) MoveToVertex(p vec.Vec2) {
	if !b.isValid() {
		return
	}
	b.Finalize()
	b.beginPath(pathPolygon, p)
	b.verts = []vec.Vec2{p}
}

// AddEdgeTo adds the vertex p to the polygon under construction.
// If no polygon is under construction, AddEdgeTo behaves like
// [Builder.MoveToVertex].
func (b *Builder) AddEdgeTo(p vec.Vec2) {
	if !b.isValid() {
		return
	}
	if b.path != pathPolygon {
		b.MoveToVertex(p)
		return
	}
	if len(b.verts) >= graphic.MaxPoints {
		b.Err = fmt.Errorf("AddEdgeTo: more than %d vertices", graphic.MaxPoints)
		return
	}
	b.verts = append(b.verts, p)
	b.pen = p
}

// ClosePolygon commits the polygon under construction.
func (b *Builder) ClosePolygon() {
	if !b.isValid() {
		return
	}
	if b.path == pathPolygon {
		b.Finalize()
	}
}

// AddPolyline appends a line through the given points.
// At least two points are required.
func (b *Builder) AddPolyline(pts []vec.Vec2) {
	if !b.isValid() {
		return
	}
	if len(pts) < 2 {
		b.Err = fmt.Errorf("AddPolyline: need at least 2 points, got %d", len(pts))
		return
	}
	if err := checkPoints("AddPolyline", pts); err != nil {
		b.Err = err
		return
	}
	b.add(&graphic.Line{
		Points: slices.Clone(pts),
		Style:  b.State.Style(),
		Dash:   b.State.LineStyle.Clone(),
		Clip:   b.State.clip(),
	})
	b.pen = pts[len(pts)-1]
	b.hasPen = true
}

// AddPolygon appends the outline of a closed polygon.
// At least three points are required.
func (b *Builder) AddPolygon(pts []vec.Vec2) {
	if !b.isValid() {
		return
	}
	if len(pts) < 3 {
		b.Err = fmt.Errorf("AddPolygon: need at least 3 points, got %d", len(pts))
		return
	}
	if err := checkPoints("AddPolygon", pts); err != nil {
		b.Err = err
		return
	}
	b.add(&graphic.Polygon{
		Points: slices.Clone(pts),
		Style:  b.State.Style(),
		Dash:   b.State.LineStyle.Clone(),
		Clip:   b.State.clip(),
	})
}

// AddPatch appends a polygon filled with the current color.
// At least three points are required.
func (b *Builder) AddPatch(pts []vec.Vec2) {
	if !b.isValid() {
		return
	}
	if len(pts) < 3 {
		b.Err = fmt.Errorf("AddPatch: need at least 3 points, got %d", len(pts))
		return
	}
	if err := checkPoints("AddPatch", pts); err != nil {
		b.Err = err
		return
	}
	b.add(b.newPatch(slices.Clone(pts)))
}

// AddFilledRect appends a rectangle filled with the current color.
func (b *Builder) AddFilledRect(r rect.Rect) {
	if !b.isValid() {
		return
	}
	b.add(b.newPatch(graphic.RectPoints(normalize(r))))
}

// EraseRect clears r to the current background color.  Objects already in
// the model are not changed.
func (b *Builder) EraseRect(r rect.Rect) {
	if !b.isValid() {
		return
	}
	style := b.State.Style()
	style.Color = b.State.Background
	b.add(&graphic.ClearRegion{
		Rect:  normalize(r),
		Style: style,
	})
}

func (b *Builder) newPatch(pts []vec.Vec2) *graphic.Patch {
	style := b.State.Style()
	style.LineWidth = 0
	return &graphic.Patch{
		Points: pts,
		Style:  style,
		Clip:   b.State.clip(),
	}
}

func checkPoints(cmd string, pts []vec.Vec2) error {
	if len(pts) > graphic.MaxPoints {
		return fmt.Errorf("%s: %d points, at most %d are allowed", cmd, len(pts), graphic.MaxPoints)
	}
	return nil
}
