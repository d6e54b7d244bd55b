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
	"strings"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/renderer"
)

func TestCanvasMapping(t *testing.T) {
	c := newCanvas(60, 20, vec.Vec2{X: 600, Y: 400})

	x, y := c.toCell(vec.Vec2{X: 0, Y: 400})
	if x != 0 || y != 0 {
		t.Errorf("top left maps to (%d, %d)", x, y)
	}
	x, y = c.toCell(vec.Vec2{X: 599, Y: 1})
	if x != 59 || y != 19 {
		t.Errorf("bottom right maps to (%d, %d)", x, y)
	}

	for _, cell := range [][2]int{{0, 0}, {10, 5}, {59, 19}} {
		p := c.fromCell(cell[0], cell[1])
		x, y := c.toCell(p)
		if x != cell[0] || y != cell[1] {
			t.Errorf("cell %v maps to %v and back to (%d, %d)", cell, p, x, y)
		}
	}
}

func TestCanvasDraw(t *testing.T) {
	m := graphic.NewModel()
	m.Size = vec.Vec2{X: 100, Y: 100}
	m.Append(&graphic.Line{Points: []vec.Vec2{{X: 0, Y: 50}, {X: 99, Y: 50}}})
	m.Append(&graphic.Label{Text: graphic.Plain("hi"), Pos: vec.Vec2{X: 50, Y: 95}, Align: graphic.AlignCenter})
	m.Append(&graphic.ClearRegion{Rect: rect.Rect{LLx: 0, LLy: 40, URx: 20, URy: 60}})

	c := newCanvas(10, 10, m.Size)
	c.draw(m)
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0] != "    hi    " {
		t.Errorf("label row %q", lines[0])
	}
	if lines[5] != "   ·······" {
		t.Errorf("line row %q", lines[5])
	}
}

func TestPlotItem(t *testing.T) {
	item := plotItem{info: renderer.PlotInfo{
		ID:        renderer.PlotID{Conn: 1, Ref: 3},
		Client:    "demo",
		Title:     "Figure 3",
		Len:       4,
		Accepting: true,
	}}
	if item.Title() != "Figure 3 *" {
		t.Errorf("title %q", item.Title())
	}
	if item.Description() != "demo, 4 objects" {
		t.Errorf("description %q", item.Description())
	}
}
