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
	"image/color"
)

// Color is an RGBA color.  All components are in the range 0 to 1.
type Color struct {
	R, G, B, A float64
}

// Some frequently used colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGB returns an opaque color with the given components.
// Components outside the range 0 to 1 are clamped.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}.Clamp()
}

// RGBA returns a color with the given components.
// Components outside the range 0 to 1 are clamped.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}.Clamp()
}

// Clamp returns a copy of c with every component restricted to [0, 1].
func (c Color) Clamp() Color {
	return Color{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: clamp01(c.A),
	}
}

// NRGBA converts c to an 8-bit color as used by the image package.
func (c Color) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%.3g, %.3g, %.3g, %.3g)", c.R, c.G, c.B, c.A)
}

func clamp01(x float64) float64 {
	// NaN is mapped to 0
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
