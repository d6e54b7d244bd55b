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
	"math"

	"golang.org/x/exp/slices"
)

// LineCap describes the shape at the end of open lines.
type LineCap uint8

// These are the valid line cap styles.
const (
	ButtCap   LineCap = 0
	RoundCap  LineCap = 1
	SquareCap LineCap = 2
)

// IsValid reports whether c is one of the defined line cap styles.
func (c LineCap) IsValid() bool {
	return c <= SquareCap
}

func (c LineCap) String() string {
	switch c {
	case ButtCap:
		return "butt"
	case RoundCap:
		return "round"
	case SquareCap:
		return "square"
	default:
		return fmt.Sprintf("LineCap(%d)", uint8(c))
	}
}

// Style is the snapshot of the drawing state which is stored with every
// graphic object.
type Style struct {
	Color     Color
	LineWidth float64
	LineCap   LineCap
}

// DefaultStyle is the style of a freshly opened plot.
var DefaultStyle = Style{
	Color:     Black,
	LineWidth: 1,
	LineCap:   RoundCap,
}

// MaxDashLen is the maximal number of entries in a dash pattern.
const MaxDashLen = 8

// Dash describes a line dash pattern.  The entries of Pattern alternate
// between the lengths of dashes and gaps.  An empty pattern denotes a solid
// line.
type Dash struct {
	Pattern []float64
	Phase   float64
}

// IsSolid reports whether d describes a solid line.
func (d Dash) IsSolid() bool {
	return len(d.Pattern) == 0
}

// Check verifies that d is a valid dash pattern.
func (d Dash) Check() error {
	if len(d.Pattern) > MaxDashLen {
		return fmt.Errorf("dash pattern too long (%d > %d)", len(d.Pattern), MaxDashLen)
	}
	if math.IsNaN(d.Phase) || math.IsInf(d.Phase, 0) {
		return fmt.Errorf("invalid dash phase %g", d.Phase)
	}
	allZero := true
	for _, x := range d.Pattern {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("invalid dash length %g", x)
		}
		if x < 0 {
			return fmt.Errorf("negative dash length %g", x)
		}
		if x > 0 {
			allZero = false
		}
	}
	if len(d.Pattern) > 0 && allZero {
		return fmt.Errorf("dash pattern %v has zero length", d.Pattern)
	}
	return nil
}

// Equal reports whether d and other describe the same pattern.
func (d Dash) Equal(other Dash) bool {
	return d.Phase == other.Phase && slices.Equal(d.Pattern, other.Pattern)
}

// Clone returns a copy of d which does not share memory with d.
func (d Dash) Clone() Dash {
	return Dash{Pattern: slices.Clone(d.Pattern), Phase: d.Phase}
}

// Align is a bit mask which describes how a label is positioned relative to
// its anchor point.  A value combines one horizontal flag with one vertical
// flag.
type Align uint8

// Horizontal alignment flags.
const (
	AlignLeft   Align = 0x01
	AlignCenter Align = 0x02
	AlignRight  Align = 0x04
)

// Vertical alignment flags.
const (
	AlignMiddle   Align = 0x00
	AlignBaseline Align = 0x08
	AlignBottom   Align = 0x10
	AlignTop      Align = 0x20
)

const (
	horizontalMask = AlignLeft | AlignCenter | AlignRight
	verticalMask   = AlignBaseline | AlignBottom | AlignTop
)

// Horizontal returns the horizontal part of a.
func (a Align) Horizontal() Align {
	return a & horizontalMask
}

// Vertical returns the vertical part of a.
func (a Align) Vertical() Align {
	return a & verticalMask
}
