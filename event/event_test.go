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

package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"
)

func TestString(t *testing.T) {
	cases := []struct {
		e    Event
		want string
	}{
		{None, "0"},
		{Mouse(1, vec.Vec2{X: 10, Y: 20.5}, 1), "1:10,20.5:1"},
		{Key(3, vec.Vec2{X: -1, Y: 0}, 'q'), "2:-1,0:113"},
		{Error(ServerError, 0, "renderer gone"), "42:renderer gone"},
		{Error(ClientError, 0, "bad: thing"), "43:bad: thing"},
	}
	for _, c := range cases {
		if got := c.e.String(); got != c.want {
			t.Errorf("%v: got %q, want %q", c.e.Kind, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Event
	}{
		{"0", None},
		{" 0 ", None},
		{"1:10,20.5:1", Event{Kind: MouseDown, Pos: vec.Vec2{X: 10, Y: 20.5}, HasPos: true, Code: 1}},
		{"1:{100, 200}:3", Event{Kind: MouseDown, Pos: vec.Vec2{X: 100, Y: 200}, HasPos: true, Code: 3}},
		{"2:0,0:97", Event{Kind: KeyDown, HasPos: true, Code: 97}},
		{"42:Server error", Event{Kind: ServerError, Text: "Server error"}},
		{"43:a:b", Event{Kind: ClientError, Text: "a:b"}},
	}
	for _, c := range cases {
		got := Parse(c.in)
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("Parse(%q): %s", c.in, d)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "x", "1", "1:5:1", "1:a,b:1", "2:1,2:z"} {
		e := Parse(in)
		if e.Kind != ClientError {
			t.Errorf("Parse(%q) = %v, want client error", in, e)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	events := []Event{
		Mouse(0, vec.Vec2{X: 1.25, Y: -3}, 2),
		Key(0, vec.Vec2{X: 600, Y: 400}, 27),
		Error(ServerError, 0, "x"),
	}
	for _, e := range events {
		got := Parse(e.String())
		if d := cmp.Diff(e, got); d != "" {
			t.Error(d)
		}
	}
}

func TestPoll(t *testing.T) {
	c := NewChannel()
	if e := c.Poll(); !e.IsNone() {
		t.Fatalf("got %v from empty channel", e)
	}

	c.Push(Mouse(1, vec.Vec2{}, 1))
	c.Push(Key(1, vec.Vec2{}, 'a'))
	e := c.Poll()
	if e.Kind != KeyDown {
		t.Errorf("got %v, want the most recent event", e)
	}
	if e := c.Poll(); !e.IsNone() {
		t.Errorf("event delivered twice: %v", e)
	}
}

func TestPollGrace(t *testing.T) {
	c := NewChannel()
	c.PollGrace = time.Second
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Push(Mouse(2, vec.Vec2{}, 1))
	}()
	if e := c.Poll(); e.Kind != MouseDown {
		t.Errorf("got %v, want mouse event", e)
	}
}

func TestWaitTimeout(t *testing.T) {
	c := NewChannel()
	timeout := 10 * time.Millisecond
	start := time.Now()
	e := c.Wait(context.Background(), timeout)
	if !e.IsNone() {
		t.Errorf("got %v", e)
	}
	if elapsed := time.Since(start); elapsed < timeout {
		t.Errorf("Wait returned after %v, before the timeout", elapsed)
	}
}

func TestWaitEvent(t *testing.T) {
	c := NewChannel()
	go func() {
		time.Sleep(5 * time.Millisecond)
		c.Push(Key(4, vec.Vec2{X: 1, Y: 2}, 'x'))
	}()
	e := c.Wait(context.Background(), 10*time.Second)
	if e.Kind != KeyDown || e.Ref != 4 || e.Code != 'x' {
		t.Errorf("unexpected event %v", e)
	}
}

func TestWaitCancel(t *testing.T) {
	c := NewChannel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if e := c.Wait(ctx, time.Hour); !e.IsNone() {
		t.Errorf("got %v", e)
	}
}

func TestHandlerAndReset(t *testing.T) {
	c := NewChannel()
	var mu sync.Mutex
	var seen []Kind
	c.SetHandler(func(e Event) {
		mu.Lock()
		seen = append(seen, e.Kind)
		mu.Unlock()
	})
	c.Push(Mouse(0, vec.Vec2{}, 1))
	c.Push(None) // ignored
	c.Reset()
	c.PollGrace = 0
	if e := c.Poll(); !e.IsNone() {
		t.Errorf("event survived Reset: %v", e)
	}

	c.SetHandler(nil)
	c.Push(Key(0, vec.Vec2{}, 1))

	mu.Lock()
	defer mu.Unlock()
	if d := cmp.Diff([]Kind{MouseDown}, seen); d != "" {
		t.Error(d)
	}
}
