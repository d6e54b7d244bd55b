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

import "fmt"

// ColormapSize is the number of entries in a [Colormap].
const ColormapSize = 256

// Colormap is a fixed-size table of colors which can be referred to by
// index.
type Colormap [ColormapSize]Color

// RangeError is returned when a colormap index is out of range.
type RangeError struct {
	Index int
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("colormap index %d out of range [0, %d)", err.Index, ColormapSize)
}

var namedEntries = []Color{
	White,
	Black,
	{1, 0, 0, 1},       // red
	{0, 1, 0, 1},       // green
	{0, 0, 1, 1},       // blue
	{0, 1, 1, 1},       // cyan
	{1, 0, 1, 1},       // magenta
	{1, 1, 0, 1},       // yellow
	{1, 0.5, 0, 1},     // orange
	{0.5, 0, 0.5, 1},   // purple
	{0.6, 0.3, 0.1, 1}, // brown
	{0.5, 0.5, 0.5, 1}, // grey
}

// DefaultColormap returns the colormap of a freshly opened plot.
//
// The first entries are white, black, red, green, blue, cyan, magenta,
// yellow, orange, purple, brown and grey.  The remaining entries form a grey
// ramp from black to white.
func DefaultColormap() Colormap {
	var cm Colormap
	n := copy(cm[:], namedEntries)
	steps := float64(ColormapSize - n - 1)
	for i := n; i < ColormapSize; i++ {
		g := float64(i-n) / steps
		cm[i] = Color{g, g, g, 1}
	}
	return cm
}

// Get returns the entry at index i.
func (cm *Colormap) Get(i int) (Color, error) {
	if i < 0 || i >= ColormapSize {
		return Color{}, &RangeError{Index: i}
	}
	return cm[i], nil
}

// Set changes the entry at index i.  The color components are clamped to
// the range 0 to 1.
func (cm *Colormap) Set(i int, c Color) error {
	if i < 0 || i >= ColormapSize {
		return &RangeError{Index: i}
	}
	cm[i] = c.Clamp()
	return nil
}
