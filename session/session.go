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

// Package session manages the connection between a plotting client and a
// renderer.
//
// A [Session] owns the connection, the registry of plots, the current plot
// selection and the event channel.  The connection is established lazily:
// [Session.OpenPlot] connects to a running renderer, or starts a new one if
// none is listening.  If the renderer goes away, the session becomes
// [Dead].  The plot selection is dropped, but the plots themselves are
// retained and are sent to the next renderer when the session reconnects.
//
// All methods of a Session can be called concurrently.  Calls which target
// the same plot are serialized.
package session

import (
	"fmt"
	"log"
	"sync"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/plot"
	"seehuhn.de/go/aqt/wire"
)

// State is the state of the connection to the renderer.
type State int

// These are the connection states.
const (
	Disconnected State = iota
	Connecting
	Connected
	Dead
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is a client session with a renderer.
type Session struct {
	opts       Options
	clientName string
	log        *log.Logger
	events     *event.Channel
	maxDoc     int // document bytes per message

	connMu sync.Mutex // held while connecting

	mu           sync.Mutex // protects the fields below
	state        State
	conn         *conn
	closed       bool
	selected     int
	hasSelected  bool
	accepting    int
	hasAccepting bool
	errHandler   func(error)

	plotsMu sync.RWMutex
	plots   map[int]*plotEntry
}

// plotEntry is a plot in the registry.  The mutex serializes all access to
// the builder.
type plotEntry struct {
	mu  sync.Mutex
	ref int
	b   *plot.Builder
}

// New allocates a new session.  No connection is made until a plot is
// opened or [Session.EnsureConnected] is called.
func New(opts Options) *Session {
	opts.defaults()
	s := &Session{
		opts:       opts,
		clientName: normalizeName(opts.ClientName),
		log:        opts.Logger,
		events:     event.NewChannel(),
		maxDoc:     wire.MaxDoc,
		errHandler: opts.ErrorHandler,
		plots:      make(map[int]*plotEntry),
	}
	return s
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ClientName returns the name under which the session identifies itself to
// the renderer.
func (s *Session) ClientName() string {
	return s.clientName
}

// SetErrorHandler installs h as the handler for connection errors,
// replacing the handler given in the options.  If h is nil, connection
// errors are only logged.
func (s *Session) SetErrorHandler(h func(error)) {
	s.mu.Lock()
	s.errHandler = h
	s.mu.Unlock()
}

func (s *Session) report(err error) {
	s.log.Print(err)
	s.mu.Lock()
	h := s.errHandler
	s.mu.Unlock()
	if h != nil {
		h(err)
	}
}

// Selected returns the reference number of the selected plot.
func (s *Session) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.hasSelected
}

// Plots returns the reference numbers of all plots in the registry,
// in increasing order.
func (s *Session) Plots() []int {
	s.plotsMu.RLock()
	refs := make([]int, 0, len(s.plots))
	for ref := range s.plots {
		refs = append(refs, ref)
	}
	s.plotsMu.RUnlock()
	slices.Sort(refs)
	return refs
}

// Builder returns the builder of the plot with the given reference number.
// The builder must not be used concurrently with the session.
func (s *Session) Builder(ref int) (*plot.Builder, bool) {
	e := s.lookup(ref)
	if e == nil {
		return nil, false
	}
	return e.b, true
}

func (s *Session) lookup(ref int) *plotEntry {
	s.plotsMu.RLock()
	defer s.plotsMu.RUnlock()
	return s.plots[ref]
}

// Do calls fn with the builder of the selected plot.  The builder is locked
// while fn runs.  If no plot is selected, a warning is logged and fn is not
// called.  If fn leaves an error in the builder, the error is logged and
// cleared.  The name op is used in log messages.
//
// The return value reports whether fn was called.
func (s *Session) Do(op string, fn func(b *plot.Builder)) bool {
	ref, ok := s.Selected()
	var e *plotEntry
	if ok {
		e = s.lookup(ref)
	}
	if e == nil {
		s.log.Printf("%s: %v", op, ErrNoPlot)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.b)
	if e.b.Err != nil {
		s.log.Printf("%s: %v", op, e.b.Err)
		e.b.ClearError()
	}
	return true
}

// newEntry creates the registry entry for a new plot.
func (s *Session) newEntry(ref int) *plotEntry {
	e := &plotEntry{ref: ref, b: plot.NewBuilder()}
	e.b.SetTitle(defaultTitle(ref))
	if s.opts.Stream {
		e.b.OnCommit = func(obj graphic.Object) {
			s.stream(ref, obj)
		}
	}
	return e
}

func defaultTitle(ref int) string {
	return fmt.Sprintf("Figure %d", ref)
}

// stream forwards a newly committed object to the renderer.  Failures are
// only logged.
func (s *Session) stream(ref int, obj graphic.Object) {
	c := s.currentConn()
	if c == nil {
		return
	}
	doc, err := wire.EncodeObjects([]graphic.Object{obj})
	if err == nil {
		err = c.send(&wire.Msg{Type: wire.Tdraw, Ref: int32(ref), Doc: doc})
	}
	if err != nil {
		s.log.Printf("plot %d: streaming %s failed: %v", ref, obj.Kind(), err)
	}
}

func (s *Session) currentConn() *conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Connected {
		return nil
	}
	return s.conn
}

// Close shuts down the session.  The connection to the renderer is closed
// and all plots are discarded.
func (s *Session) Close() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	c := s.conn
	s.conn = nil
	s.state = Disconnected
	s.hasSelected = false
	s.hasAccepting = false
	s.mu.Unlock()

	s.plotsMu.Lock()
	clear(s.plots)
	s.plotsMu.Unlock()

	s.events.SetHandler(nil)
	s.events.Reset()

	if c != nil {
		return c.close()
	}
	return nil
}
