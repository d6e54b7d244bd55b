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

import "strings"

// Run is a piece of label text with uniform attributes.
type Run struct {
	Text string

	// Superscript gives the vertical shift level of the run.  Positive
	// values denote superscripts, negative values denote subscripts.
	Superscript int

	Underline bool
}

// Text is the content of a label, as a sequence of runs.
type Text []Run

// Plain returns a text consisting of a single run without attributes.
func Plain(s string) Text {
	return Text{{Text: s}}
}

// String returns the characters of all runs, without attributes.
func (t Text) String() string {
	if len(t) == 1 {
		return t[0].Text
	}
	var b strings.Builder
	for _, r := range t {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsRich reports whether any run of t carries attributes.
func (t Text) IsRich() bool {
	for _, r := range t {
		if r.Superscript != 0 || r.Underline {
			return true
		}
	}
	return false
}
