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

// Package event implements the user interaction events which a renderer
// sends back to the client.
//
// On the wire an event is a string of colon-separated fields.  The first
// field is the numeric [Kind]:
//
//	0                  no event
//	1:x,y:button       mouse button pressed at (x, y)
//	2:x,y:key          key pressed while the pointer was at (x, y)
//	42:message         error reported by the renderer
//	43:message         error detected by the client
//
// A [Channel] buffers the most recent event and lets the caller poll for it
// or wait for the next one.
package event

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/internal/float"
)

// Kind identifies the type of an event.
type Kind int

// These are the event kinds.
const (
	NoEvent     Kind = 0
	MouseDown   Kind = 1
	KeyDown     Kind = 2
	ServerError Kind = 42
	ClientError Kind = 43
)

func (k Kind) String() string {
	switch k {
	case NoEvent:
		return "none"
	case MouseDown:
		return "mouse"
	case KeyDown:
		return "key"
	case ServerError:
		return "server error"
	case ClientError:
		return "client error"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event is a user interaction event or an error notification.
type Event struct {
	Kind Kind

	// Ref is the reference number of the plot the event belongs to.
	Ref int

	// Pos is the pointer position in canvas coordinates.
	// It is only valid if HasPos is true.
	Pos    vec.Vec2
	HasPos bool

	// Code is the mouse button for MouseDown events and the character
	// code for KeyDown events.
	Code int

	// Text is the message of ServerError and ClientError events.
	Text string
}

// None is the sentinel value returned when no event is available.
var None = Event{Kind: NoEvent}

// IsNone reports whether e is the NoEvent sentinel.
func (e Event) IsNone() bool {
	return e.Kind == NoEvent
}

// Mouse returns a MouseDown event.
func Mouse(ref int, pos vec.Vec2, button int) Event {
	return Event{Kind: MouseDown, Ref: ref, Pos: pos, HasPos: true, Code: button}
}

// Key returns a KeyDown event.
func Key(ref int, pos vec.Vec2, key int) Event {
	return Event{Kind: KeyDown, Ref: ref, Pos: pos, HasPos: true, Code: key}
}

// Error returns an error event of the given kind.
func Error(kind Kind, ref int, msg string) Event {
	return Event{Kind: kind, Ref: ref, Text: msg}
}

// String returns the wire representation of e.
// The plot reference is not part of the string.
func (e Event) String() string {
	switch e.Kind {
	case NoEvent:
		return "0"
	case MouseDown, KeyDown:
		return fmt.Sprintf("%d:%s,%s:%d", int(e.Kind),
			float.Format(e.Pos.X, 2), float.Format(e.Pos.Y, 2), e.Code)
	default:
		return strconv.Itoa(int(e.Kind)) + ":" + e.Text
	}
}

// Parse decodes the wire representation of an event.  The point may be
// given either as "x,y" or in the form "{x, y}".
//
// Malformed input is returned as a ClientError event which carries the
// offending string, so that Parse never fails.
func Parse(s string) Event {
	s = strings.TrimSpace(s)
	head, rest, hasRest := strings.Cut(s, ":")
	k, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return badEvent(s)
	}
	kind := Kind(k)

	switch kind {
	case NoEvent:
		return None
	case MouseDown, KeyDown:
		if !hasRest {
			return badEvent(s)
		}
		ptStr, codeStr, ok := cutLast(rest, ":")
		if !ok {
			return badEvent(s)
		}
		pos, ok := parsePoint(ptStr)
		if !ok {
			return badEvent(s)
		}
		code, err := strconv.Atoi(strings.TrimSpace(codeStr))
		if err != nil {
			return badEvent(s)
		}
		return Event{Kind: kind, Pos: pos, HasPos: true, Code: code}
	default:
		return Event{Kind: kind, Text: rest}
	}
}

func badEvent(s string) Event {
	return Event{Kind: ClientError, Text: "malformed event " + strconv.Quote(s)}
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}

func parsePoint(s string) (vec.Vec2, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return vec.Vec2{}, false
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err1 != nil || err2 != nil {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: x, Y: y}, true
}
