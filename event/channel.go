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
	"time"
)

// DefaultPollGrace is the time [Channel.Poll] waits for an event which is
// still in transit.
const DefaultPollGrace = time.Millisecond

// Handler is a function which is called for every incoming event.
type Handler func(Event)

// Channel buffers the most recent event received from a renderer.
//
// Push is called by the transport, Poll and Wait by the client.  A Channel
// can be used concurrently from several goroutines.
type Channel struct {
	// PollGrace is the maximal time Poll waits for an event.
	PollGrace time.Duration

	mu      sync.Mutex
	last    Event
	pending bool
	handler Handler

	notify chan struct{}
}

// NewChannel allocates a new, empty Channel.
func NewChannel() *Channel {
	return &Channel{
		PollGrace: DefaultPollGrace,
		notify:    make(chan struct{}, 1),
	}
}

// Push stores e as the most recent event, replacing any event which has not
// been retrieved yet.  If a handler is installed, it is called with e on the
// calling goroutine.  Push never blocks on the reader.
func (c *Channel) Push(e Event) {
	if e.IsNone() {
		return
	}
	c.mu.Lock()
	c.last = e
	c.pending = true
	h := c.handler
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}

	if h != nil {
		h(e)
	}
}

// SetHandler installs h as the event handler, replacing any previous
// handler.  If h is nil, the handler is removed.
func (c *Channel) SetHandler(h Handler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// Reset discards an event which has not been retrieved yet.
func (c *Channel) Reset() {
	c.mu.Lock()
	c.pending = false
	c.last = None
	c.mu.Unlock()
	select {
	case <-c.notify:
	default:
	}
}

func (c *Channel) take() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pending {
		return None, false
	}
	e := c.last
	c.pending = false
	c.last = None
	return e, true
}

// Poll returns the most recent event and removes it from the channel.  If
// no event is available, Poll waits at most PollGrace for one to arrive and
// then returns [None].
func (c *Channel) Poll() Event {
	if e, ok := c.take(); ok {
		return e
	}
	if c.PollGrace <= 0 {
		return None
	}
	timer := time.NewTimer(c.PollGrace)
	defer timer.Stop()
	select {
	case <-c.notify:
	case <-timer.C:
	}
	e, _ := c.take()
	return e
}

// Wait blocks until an event arrives, the timeout expires or ctx is
// cancelled.  If no event arrived, [None] is returned.
func (c *Channel) Wait(ctx context.Context, timeout time.Duration) Event {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if e, ok := c.take(); ok {
			return e
		}
		select {
		case <-c.notify:
		case <-timer.C:
			return None
		case <-ctx.Done():
			return None
		}
	}
}
