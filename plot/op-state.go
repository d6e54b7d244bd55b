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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/aqt/graphic"
)

// This file implements the calls which change the document attributes and
// the drawing state.  Calls which change the style of lines finalize the
// open path first.  Setting a parameter to its current value has no effect.

// SetSize sets the canvas size of the plot.
func (b *Builder) SetSize(width, height float64) {
	if !b.isValid() {
		return
	}
	if !(width > 0 && height > 0) {
		b.Err = fmt.Errorf("SetSize: invalid size %gx%g", width, height)
		return
	}
	b.model.Size.X = width
	b.model.Size.Y = height
	b.dirty = true
}

// SetTitle sets the title of the plot.
func (b *Builder) SetTitle(title string) {
	if !b.isValid() {
		return
	}
	if len(title) > graphic.MaxStringLen {
		b.Err = fmt.Errorf("SetTitle: title too long (%d bytes)", len(title))
		return
	}
	b.model.Title = title
	b.dirty = true
}

// SetColor sets the color for new objects.
func (b *Builder) SetColor(c graphic.Color) {
	if !b.isValid() {
		return
	}
	c = c.Clamp()
	if c == b.State.Color {
		return
	}
	b.Finalize()
	b.State.Color = c
}

// Color returns the current color.
func (b *Builder) Color() graphic.Color {
	return b.State.Color
}

// SetBackgroundColor sets the background color of the plot.
func (b *Builder) SetBackgroundColor(c graphic.Color) {
	if !b.isValid() {
		return
	}
	c = c.Clamp()
	b.State.Background = c
	b.model.Background = c
	b.dirty = true
}

// BackgroundColor returns the background color of the plot.
func (b *Builder) BackgroundColor() graphic.Color {
	return b.State.Background
}

// SetColormapEntry changes entry i of the colormap.
// Objects which were drawn using the old entry are not affected.
func (b *Builder) SetColormapEntry(i int, c graphic.Color) {
	if !b.isValid() {
		return
	}
	if err := b.State.Colormap.Set(i, c); err != nil {
		b.Err = fmt.Errorf("SetColormapEntry: %w", err)
	}
}

// ColormapEntry returns entry i of the colormap.
func (b *Builder) ColormapEntry(i int) (graphic.Color, error) {
	return b.State.Colormap.Get(i)
}

// TakeColorFromColormap copies entry i of the colormap into the current
// color.  Later changes of the entry do not affect the current color.
func (b *Builder) TakeColorFromColormap(i int) {
	if !b.isValid() {
		return
	}
	c, err := b.State.Colormap.Get(i)
	if err != nil {
		b.Err = fmt.Errorf("TakeColorFromColormap: %w", err)
		return
	}
	b.SetColor(c)
}

// TakeBackgroundColorFromColormap copies entry i of the colormap into the
// background color.
func (b *Builder) TakeBackgroundColorFromColormap(i int) {
	if !b.isValid() {
		return
	}
	c, err := b.State.Colormap.Get(i)
	if err != nil {
		b.Err = fmt.Errorf("TakeBackgroundColorFromColormap: %w", err)
		return
	}
	b.SetBackgroundColor(c)
}

// SetFontName sets the font for new labels.
func (b *Builder) SetFontName(name string) {
	if !b.isValid() {
		return
	}
	if name == "" {
		b.Err = fmt.Errorf("SetFontName: empty font name")
		return
	}
	if len(name) > graphic.MaxStringLen {
		b.Err = fmt.Errorf("SetFontName: font name too long (%d bytes)", len(name))
		return
	}
	b.State.FontName = name
}

// SetFontSize sets the font size for new labels.
func (b *Builder) SetFontSize(size float64) {
	if !b.isValid() {
		return
	}
	if !(size > 0) {
		b.Err = fmt.Errorf("SetFontSize: invalid size %g", size)
		return
	}
	b.State.FontSize = size
}

// SetLineWidth sets the line width.
func (b *Builder) SetLineWidth(width float64) {
	if !b.isValid() {
		return
	}
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		b.Err = fmt.Errorf("SetLineWidth: invalid width %g", width)
		return
	}
	if width == b.State.LineWidth {
		return
	}
	b.Finalize()
	b.State.LineWidth = width
}

// SetLineCap sets the line cap style.
func (b *Builder) SetLineCap(c graphic.LineCap) {
	if !b.isValid() {
		return
	}
	if !c.IsValid() {
		b.Err = fmt.Errorf("SetLineCap: invalid line cap style %d", c)
		return
	}
	if c == b.State.LineCap {
		return
	}
	b.Finalize()
	b.State.LineCap = c
}

// SetLineStyle sets the dash pattern for lines and polygon outlines.
// The pattern alternates between dash and gap lengths and can have at most
// [graphic.MaxDashLen] entries.  An empty pattern selects solid lines.
func (b *Builder) SetLineStyle(pattern []float64, phase float64) {
	if !b.isValid() {
		return
	}
	dash := graphic.Dash{Pattern: pattern, Phase: phase}
	if err := dash.Check(); err != nil {
		b.Err = fmt.Errorf("SetLineStyle: %w", err)
		return
	}
	if len(pattern) == 0 {
		dash.Phase = 0
	}
	if dash.Equal(b.State.LineStyle) {
		return
	}
	b.Finalize()
	b.State.LineStyle = dash.Clone()
}

// SetLineStyleSolid selects solid lines.
func (b *Builder) SetLineStyleSolid() {
	b.SetLineStyle(nil, 0)
}

// SetClipRect sets the clipping rectangle for new objects.
func (b *Builder) SetClipRect(r rect.Rect) {
	if !b.isValid() {
		return
	}
	r = normalize(r)
	if b.State.Clip != nil && *b.State.Clip == r {
		return
	}
	b.Finalize()
	b.State.Clip = &r
}

// SetDefaultClipRect removes the clipping rectangle, so that new objects
// are clipped to the document default.
func (b *Builder) SetDefaultClipRect() {
	if !b.isValid() {
		return
	}
	if b.State.Clip == nil {
		return
	}
	b.Finalize()
	b.State.Clip = nil
}

// SetDocumentClip sets the clip rectangle which the renderer uses for
// unclipped objects.  If r is nil, the canvas rectangle is used.
func (b *Builder) SetDocumentClip(r *rect.Rect) {
	if !b.isValid() {
		return
	}
	if r != nil {
		n := normalize(*r)
		r = &n
	}
	b.model.DefaultClip = r
	b.dirty = true
}

// SetImageTransform sets the transformation used by
// [Builder.AddTransformedImage].
func (b *Builder) SetImageTransform(m matrix.Matrix) {
	if !b.isValid() {
		return
	}
	if m[0]*m[3]-m[1]*m[2] == 0 {
		b.Err = fmt.Errorf("SetImageTransform: singular matrix %v", m)
		return
	}
	b.State.ImageTransform = m
}

// ResetImageTransform restores the identity image transformation.
func (b *Builder) ResetImageTransform() {
	if !b.isValid() {
		return
	}
	b.State.ImageTransform = matrix.Identity
}

func normalize(r rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: math.Min(r.LLx, r.URx),
		LLy: math.Min(r.LLy, r.URy),
		URx: math.Max(r.LLx, r.URx),
		URy: math.Max(r.LLy, r.URy),
	}
}
