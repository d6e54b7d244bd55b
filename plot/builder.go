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

// Package plot turns a sequence of stateful drawing calls into a
// [graphic.Model].
//
// A [Builder] holds the current drawing state (color, font, line style,
// clip rectangle, colormap, image transformation) and at most one path which
// is still under construction.  Consecutive line segments which share the
// same style are coalesced into a single [graphic.Line].  Any call which
// changes the style of lines finalizes the open path before the change is
// applied, so that every committed object has a consistent style.
//
// Invalid arguments set the Err field of the Builder.  Once Err is set, all
// further drawing calls are ignored until [Builder.ClearError] is called.
package plot

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/graphic"
)

type pathKind uint8

const (
	pathNone pathKind = iota
	pathLine
	pathPolygon
)

// Builder constructs the model of one plot.
type Builder struct {
	// Err is the first error encountered by a drawing call.
	Err error

	// State is the current drawing state.  It should only be modified
	// using the methods of the Builder.
	State DrawState

	// OnCommit, if set, is called for every object which becomes final.
	// A line which was still open when [Builder.MarkClean] was called is
	// not reported; the model is marked dirty instead.
	// The function is called synchronously and must not block.
	OnCommit func(graphic.Object)

	model *graphic.Model
	dirty bool

	// openSent is set if the open line was part of the model when it was
	// last marked clean.
	openSent bool

	path      pathKind
	pathStyle graphic.Style
	pathDash  graphic.Dash
	pathClip  *rect.Rect
	start     vec.Vec2
	line      *graphic.Line
	verts     []vec.Vec2

	pen    vec.Vec2
	hasPen bool
}

// NewBuilder allocates a new Builder with an empty model.
func NewBuilder() *Builder {
	return &Builder{
		State: NewDrawState(),
		model: graphic.NewModel(),
		dirty: true,
	}
}

// Model returns the model built so far.  The model must not be modified by
// the caller.
func (b *Builder) Model() *graphic.Model {
	return b.model
}

// IsDirty reports whether the model has changed since the last call to
// [Builder.MarkClean].
func (b *Builder) IsDirty() bool {
	return b.dirty
}

// MarkClean records that the current model has been transmitted.
func (b *Builder) MarkClean() {
	b.dirty = false
	b.openSent = b.line != nil
}

// ClearError resets the Err field, so that drawing calls are accepted again.
func (b *Builder) ClearError() {
	b.Err = nil
}

func (b *Builder) isValid() bool {
	return b.Err == nil
}

// Clear discards all objects and any open path.  The document attributes
// are reset to their defaults.  The drawing state is kept.
func (b *Builder) Clear() {
	b.resetPath()
	b.hasPen = false
	b.model.Clear()
	b.dirty = true
}

// Finalize commits the open line or polygon, if any.  A line with a single
// point and a polygon with fewer than three vertices are discarded.
// The current point is kept, so that a following [Builder.LineTo] continues
// from there.
func (b *Builder) Finalize() {
	switch b.path {
	case pathLine:
		if b.line != nil {
			b.model.Close()
			if b.openSent {
				b.dirty = true
			} else {
				b.commit(b.line)
			}
		}
	case pathPolygon:
		if len(b.verts) >= 3 {
			poly := &graphic.Polygon{
				Points: b.verts,
				Style:  b.pathStyle,
				Dash:   b.pathDash,
				Clip:   b.pathClip,
			}
			b.model.Append(poly)
			b.dirty = true
			b.commit(poly)
		}
	}
	b.resetPath()
}

func (b *Builder) resetPath() {
	b.path = pathNone
	b.line = nil
	b.verts = nil
	b.openSent = false
	b.pathClip = nil
	b.pathDash = graphic.Dash{}
}

// beginPath starts a new path of the given kind, taking a snapshot of the
// current drawing state.
func (b *Builder) beginPath(kind pathKind, p vec.Vec2) {
	b.path = kind
	b.pathStyle = b.State.Style()
	b.pathDash = b.State.LineStyle.Clone()
	b.pathClip = b.State.clip()
	b.start = p
	b.pen = p
	b.hasPen = true
}

// add appends a complete object to the model, after finalizing any open
// path.
func (b *Builder) add(obj graphic.Object) {
	b.Finalize()
	b.model.Append(obj)
	b.dirty = true
	b.commit(obj)
}

func (b *Builder) commit(obj graphic.Object) {
	if b.OnCommit != nil {
		b.OnCommit(obj)
	}
}
