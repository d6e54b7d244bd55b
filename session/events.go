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

package session

import (
	"context"
	"time"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/wire"
)

// DefaultWaitTimeout is the timeout used by callers which wait for an event
// without specifying a timeout.
const DefaultWaitTimeout = 60 * time.Second

// SetAcceptingEvents switches event delivery for the selected plot on or
// off.  At most one plot receives events at any time: switching events on
// for one plot switches them off for all others.
func (s *Session) SetAcceptingEvents(ctx context.Context, on bool) error {
	ref, ok := s.Selected()
	if !ok {
		return ErrNoPlot
	}
	return s.setAccepting(ctx, ref, on)
}

// AcceptingEvents reports whether event delivery is switched on for the
// plot with the given reference number.
func (s *Session) AcceptingEvents(ref int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAccepting && s.accepting == ref
}

func (s *Session) setAccepting(ctx context.Context, ref int, on bool) error {
	if !on {
		s.mu.Lock()
		was := s.hasAccepting && s.accepting == ref
		if was {
			s.hasAccepting = false
		}
		s.mu.Unlock()
		if !was {
			return nil
		}
		return s.sendEvents(ctx, ref, false)
	}

	s.mu.Lock()
	prev, hadPrev := s.accepting, s.hasAccepting
	s.accepting = ref
	s.hasAccepting = true
	s.mu.Unlock()

	if hadPrev && prev != ref {
		if err := s.sendEvents(ctx, prev, false); err != nil {
			s.log.Printf("plot %d: disabling events: %v", prev, err)
		}
	}
	s.events.Reset()
	err := s.sendEvents(ctx, ref, true)
	if err != nil {
		s.mu.Lock()
		if s.hasAccepting && s.accepting == ref {
			s.hasAccepting = false
		}
		s.mu.Unlock()
	}
	return err
}

func (s *Session) sendEvents(ctx context.Context, ref int, on bool) error {
	_, err := s.call(ctx, &wire.Msg{Type: wire.Tevents, Ref: int32(ref), On: on})
	return err
}

// PollEvent returns the most recent event, or [event.None] if no event has
// arrived.  PollEvent waits at most a millisecond for an event which is
// still in transit.
func (s *Session) PollEvent() event.Event {
	return s.events.Poll()
}

// WaitEvent switches on event delivery for the selected plot and waits
// until an event arrives, the timeout expires or ctx is cancelled.  Event
// delivery is switched off again before WaitEvent returns.  If no event
// arrives in time, [event.None] is returned.
func (s *Session) WaitEvent(ctx context.Context, timeout time.Duration) event.Event {
	ref, ok := s.Selected()
	if !ok {
		s.log.Printf("WaitEvent: %v", ErrNoPlot)
		return event.None
	}
	if err := s.setAccepting(ctx, ref, true); err != nil {
		s.log.Printf("WaitEvent: %v", err)
		return event.None
	}

	ev := s.events.Wait(ctx, timeout)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RequestTimeout)
	defer cancel()
	if err := s.setAccepting(ctx, ref, false); err != nil {
		s.log.Printf("WaitEvent: %v", err)
	}
	return ev
}

// SetEventHandler installs h as the event handler.  The handler is called
// on the connection's reader goroutine for every event received, in
// addition to the event being buffered for [Session.PollEvent] and
// [Session.WaitEvent].  It must not block.  If h is nil, the handler is
// removed.
func (s *Session) SetEventHandler(h event.Handler) {
	s.events.SetHandler(h)
}

// handleEvent is called by the reader goroutine for every event.
// Interaction events for plots which do not accept events are dropped.
func (s *Session) handleEvent(ref int, msg string) {
	ev := event.Parse(msg)
	ev.Ref = ref
	switch ev.Kind {
	case event.NoEvent:
		return
	case event.MouseDown, event.KeyDown:
		if !s.AcceptingEvents(ref) {
			s.log.Printf("plot %d: dropping %s event", ref, ev.Kind)
			return
		}
	}
	s.events.Push(ev)
}
