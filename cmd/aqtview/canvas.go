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

package main

import (
	"math"
	"strings"
	"unicode/utf8"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/graphic"
)

// canvas is a character grid showing a plot.  Row 0 is the top row.
type canvas struct {
	w, h  int
	size  vec.Vec2
	cells [][]rune
}

func newCanvas(w, h int, size vec.Vec2) *canvas {
	c := &canvas{w: w, h: h, size: size}
	c.cells = make([][]rune, h)
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", w))
	}
	return c
}

// toCell maps plot coordinates to a cell.  The plot's y axis points up.
func (c *canvas) toCell(p vec.Vec2) (int, int) {
	if c.size.X <= 0 || c.size.Y <= 0 {
		return -1, -1
	}
	x := int(math.Floor(p.X / c.size.X * float64(c.w)))
	y := int(math.Floor((1 - p.Y/c.size.Y) * float64(c.h)))
	return x, y
}

// fromCell returns the plot coordinates of the center of a cell.
func (c *canvas) fromCell(x, y int) vec.Vec2 {
	return vec.Vec2{
		X: (float64(x) + 0.5) / float64(c.w) * c.size.X,
		Y: (1 - (float64(y)+0.5)/float64(c.h)) * c.size.Y,
	}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

func (c *canvas) fill(r rect.Rect, ch rune) {
	x0, y1 := c.toCell(vec.Vec2{X: r.LLx, Y: r.LLy})
	x1, y0 := c.toCell(vec.Vec2{X: r.URx, Y: r.URy})
	for y := max(y0, 0); y <= min(y1, c.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.w-1); x++ {
			c.cells[y][x] = ch
		}
	}
}

func (c *canvas) segment(a, b vec.Vec2, ch rune) {
	ax, ay := c.toCell(a)
	bx, by := c.toCell(b)
	n := max(abs(bx-ax), abs(by-ay), 1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := int(math.Round(float64(ax) + t*float64(bx-ax)))
		y := int(math.Round(float64(ay) + t*float64(by-ay)))
		c.set(x, y, ch)
	}
}

func (c *canvas) path(pts []vec.Vec2, closed bool, ch rune) {
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], ch)
	}
	if closed && len(pts) > 2 {
		c.segment(pts[len(pts)-1], pts[0], ch)
	}
}

func (c *canvas) text(p vec.Vec2, align graphic.Align, s string) {
	x, y := c.toCell(p)
	n := utf8.RuneCountInString(s)
	switch align.Horizontal() {
	case graphic.AlignCenter:
		x -= n / 2
	case graphic.AlignRight:
		x -= n
	}
	for _, r := range s {
		c.set(x, y, r)
		x++
	}
}

// draw paints all objects of m, in order.
func (c *canvas) draw(m *graphic.Model) {
	for _, obj := range m.Objects() {
		switch obj := obj.(type) {
		case *graphic.Line:
			c.path(obj.Points, false, '·')
		case *graphic.Polygon:
			c.path(obj.Points, true, '+')
		case *graphic.Patch:
			c.fill(obj.Bounds(), '░')
		case *graphic.Image:
			c.fill(obj.Bounds(), '▒')
		case *graphic.ClearRegion:
			c.fill(obj.Bounds(), ' ')
		case *graphic.Label:
			c.text(obj.Pos, obj.Align, obj.Text.String())
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for i, row := range c.cells {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
