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

	"golang.org/x/text/unicode/norm"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/graphic"
)

const validAlign = graphic.AlignLeft | graphic.AlignCenter | graphic.AlignRight |
	graphic.AlignBaseline | graphic.AlignBottom | graphic.AlignTop

// AddLabel places text at pos.  The angle gives the rotation of the
// baseline in degrees, align determines the position of the text relative
// to pos.
func (b *Builder) AddLabel(text string, pos vec.Vec2, angle float64, align graphic.Align) {
	b.AddRichLabel(graphic.Plain(text), pos, angle, 0, align)
}

// AddShearedLabel is like [Builder.AddLabel], but additionally slants the
// glyphs by the given shear angle in degrees.
func (b *Builder) AddShearedLabel(text string, pos vec.Vec2, angle, shear float64, align graphic.Align) {
	b.AddRichLabel(graphic.Plain(text), pos, angle, shear, align)
}

// AddRichLabel places text with superscript and underline attributes.
func (b *Builder) AddRichLabel(text graphic.Text, pos vec.Vec2, angle, shear float64, align graphic.Align) {
	if !b.isValid() {
		return
	}
	if align&^validAlign != 0 {
		b.Err = fmt.Errorf("AddLabel: invalid alignment %#x", uint8(align))
		return
	}
	if bits := align.Horizontal(); bits&(bits-1) != 0 {
		b.Err = fmt.Errorf("AddLabel: conflicting horizontal alignment %#x", uint8(bits))
		return
	}
	if bits := align.Vertical(); bits&(bits-1) != 0 {
		b.Err = fmt.Errorf("AddLabel: conflicting vertical alignment %#x", uint8(bits))
		return
	}
	if align.Horizontal() == 0 {
		align |= graphic.AlignLeft
	}

	runs := make(graphic.Text, 0, len(text))
	total := 0
	for _, r := range text {
		if r.Text == "" {
			continue
		}
		r.Text = norm.NFC.String(r.Text)
		total += len(r.Text)
		runs = append(runs, r)
	}
	if total > graphic.MaxStringLen {
		b.Err = fmt.Errorf("AddLabel: text too long (%d bytes)", total)
		return
	}

	b.add(&graphic.Label{
		Text:     runs,
		Pos:      pos,
		Angle:    angle,
		Shear:    shear,
		Align:    align,
		FontName: b.State.FontName,
		FontSize: b.State.FontSize,
		Style:    b.State.Style(),
		Clip:     b.State.clip(),
	})
}
