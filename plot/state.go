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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/aqt/graphic"
)

// Defaults for a freshly opened plot.
const (
	DefaultFontName = "Times-Roman"
	DefaultFontSize = 14
)

// DrawState collects the current drawing parameters of a plot.
// New objects take a snapshot of the relevant fields when they are created.
type DrawState struct {
	Color      graphic.Color
	Background graphic.Color

	FontName string
	FontSize float64

	LineWidth float64
	LineStyle graphic.Dash
	LineCap   graphic.LineCap

	// Clip is the clipping rectangle for new objects, or nil for no
	// clipping.
	Clip *rect.Rect

	// ImageTransform is used by [Builder.AddTransformedImage].
	ImageTransform matrix.Matrix

	Colormap graphic.Colormap
}

// NewDrawState returns the drawing state of a freshly opened plot.
func NewDrawState() DrawState {
	return DrawState{
		Color:          graphic.DefaultStyle.Color,
		Background:     graphic.White,
		FontName:       DefaultFontName,
		FontSize:       DefaultFontSize,
		LineWidth:      graphic.DefaultStyle.LineWidth,
		LineCap:        graphic.DefaultStyle.LineCap,
		ImageTransform: matrix.Identity,
		Colormap:       graphic.DefaultColormap(),
	}
}

// Style returns the style snapshot for new objects.
func (s *DrawState) Style() graphic.Style {
	return graphic.Style{
		Color:     s.Color,
		LineWidth: s.LineWidth,
		LineCap:   s.LineCap,
	}
}

func (s *DrawState) clip() *rect.Rect {
	if s.Clip == nil {
		return nil
	}
	r := *s.Clip
	return &r
}
