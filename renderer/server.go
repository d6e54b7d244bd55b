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

// Package renderer implements the receiving side of the plot protocol.
//
// A [Server] accepts connections from clients, keeps the decoded model of
// every plot and sends user events back to the plot which currently
// accepts them.  The server does not rasterize anything; front ends like
// the terminal viewer in cmd/aqtview inspect the retained models through
// [Server.Plots] and [Server.Plot] and report user input with
// [Server.Inject].
package renderer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/wire"
)

// PlotID identifies a plot on the server.
type PlotID struct {
	// Conn is the number of the client connection.
	Conn uint32

	// Ref is the reference number chosen by the client.
	Ref int
}

func (id PlotID) String() string {
	return fmt.Sprintf("%d/%d", id.Conn, id.Ref)
}

func (id PlotID) less(other PlotID) bool {
	if id.Conn != other.Conn {
		return id.Conn < other.Conn
	}
	return id.Ref < other.Ref
}

// PlotInfo summarizes the state of a plot.
type PlotInfo struct {
	ID     PlotID
	Client string
	Title  string
	Size   vec.Vec2
	Len    int
	Counts map[graphic.Kind]int

	// Selected is set for the plot most recently opened or selected by
	// its client.
	Selected bool

	// Accepting is set if the plot currently receives events.
	Accepting bool

	// Detached is set for plots which have been closed by the client, or
	// whose client has disconnected.  Detached plots keep their last
	// state but receive no further updates.
	Detached bool
}

type plotState struct {
	model     *graphic.Model
	accepting bool
	detached  bool
}

type client struct {
	id   uint32
	name string
	pid  uint32
	rwc  io.ReadWriteCloser

	w sync.Mutex // serializes writes to rwc

	selected    int
	hasSelected bool
}

// Server retains the plots of all connected clients.
type Server struct {
	// Logger, if set, receives a line for every connection and for
	// protocol errors.
	Logger *log.Logger

	// OnChange, if set, is called after every change to the set of plots
	// or to a plot.  It is called without any locks held and must not
	// block.
	OnChange func()

	mu        sync.Mutex
	nextConn  uint32
	clients   map[uint32]*client
	plots     map[PlotID]*plotState
	listeners []net.Listener
	closed    bool
}

// ErrServerClosed is returned by [Server.Serve] after [Server.Close] has
// been called.
var ErrServerClosed = errors.New("renderer: server closed")

// NewServer allocates a new server without any plots.
func NewServer() *Server {
	return &Server{
		clients: make(map[uint32]*client),
		plots:   make(map[PlotID]*plotState),
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s *Server) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Serve accepts connections on l and serves each of them in a new
// goroutine.  Serve always returns a non-nil error.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	for {
		conn, err := l.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return ErrServerClosed
			}
			return err
		}
		go s.ServeConn(conn)
	}
}

// ServeConn serves a single client connection until the connection is
// closed or a malformed message is received.  When ServeConn returns, all
// plots of the client are detached.
func (s *Server) ServeConn(rwc io.ReadWriteCloser) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		rwc.Close()
		return ErrServerClosed
	}
	s.nextConn++
	c := &client{id: s.nextConn, rwc: rwc}
	s.clients[c.id] = c
	s.mu.Unlock()

	err := s.serve(c)

	s.mu.Lock()
	delete(s.clients, c.id)
	for id, p := range s.plots {
		if id.Conn == c.id {
			p.detached = true
			p.accepting = false
		}
	}
	s.mu.Unlock()
	rwc.Close()
	s.changed()

	if err == io.EOF {
		err = nil
	}
	return err
}

func (s *Server) serve(c *client) error {
	for {
		m, err := wire.ReadMsg(c.rwc)
		if err != nil {
			if err != io.EOF {
				s.logf("client %d: cannot read message: %v", c.id, err)
			}
			return err
		}
		if !m.IsOneWay() && m.Type%2 != 0 {
			s.logf("client %d: unexpected %s", c.id, m)
			return wire.ProtocolError("unexpected message " + m.String())
		}
		s.runmsg(c, m)
	}
}

func (s *Server) runmsg(c *client, m *wire.Msg) {
	err := s.apply(c, m)
	if m.IsOneWay() {
		if err != nil {
			s.logf("client %d: %s: %v", c.id, m, err)
		}
		return
	}
	if err != nil {
		s.replyerror(c, m, err)
		return
	}
	s.replymsg(c, m)
}

// apply changes the server state according to the request m.
func (s *Server) apply(c *client, m *wire.Msg) error {
	if m.Type == wire.Tversion {
		if m.Version != wire.Version {
			return fmt.Errorf("unsupported version %q", m.Version)
		}
		s.mu.Lock()
		c.name = m.Client
		c.pid = m.PID
		s.mu.Unlock()
		s.logf("client %d: %s (pid %d) connected", c.id, m.Client, m.PID)
		return nil
	}

	var doc *graphic.Model
	var objs []graphic.Object
	var err error
	switch m.Type {
	case wire.Trender:
		doc, err = wire.DecodeModel(m.Doc)
	case wire.Tdraw:
		objs, err = wire.DecodeObjects(m.Doc)
	}
	if err != nil {
		return err
	}

	id := PlotID{Conn: c.id, Ref: int(m.Ref)}
	s.mu.Lock()
	err = s.applyLocked(c, id, m, doc, objs)
	s.mu.Unlock()
	if err == nil {
		s.changed()
	}
	return err
}

func (s *Server) applyLocked(c *client, id PlotID, m *wire.Msg, doc *graphic.Model, objs []graphic.Object) error {
	if m.Type == wire.Topen {
		p := s.plots[id]
		if p == nil {
			p = &plotState{model: graphic.NewModel()}
			s.plots[id] = p
		}
		p.model.Clear()
		p.detached = false
		c.selected, c.hasSelected = id.Ref, true
		return nil
	}

	p := s.plots[id]
	if p == nil || p.detached {
		return fmt.Errorf("plot %d: no such plot", id.Ref)
	}
	switch m.Type {
	case wire.Tselect:
		c.selected, c.hasSelected = id.Ref, true
	case wire.Tclear:
		p.model.Clear()
	case wire.Tclose:
		p.detached = true
		p.accepting = false
		if c.hasSelected && c.selected == id.Ref {
			c.hasSelected = false
		}
	case wire.Trender:
		p.model = doc
	case wire.Tdraw:
		for _, obj := range objs {
			p.model.Append(obj)
		}
	case wire.Tevents:
		if m.On {
			for _, other := range s.plots {
				other.accepting = false
			}
		}
		p.accepting = m.On
	default:
		return fmt.Errorf("unexpected message %s", m)
	}
	return nil
}

func (s *Server) replymsg(c *client, m *wire.Msg) {
	rx := &wire.Msg{Type: m.Type + 1, Tag: m.Tag}
	if m.Type == wire.Tversion {
		rx.Version = wire.Version
	}
	s.write(c, rx)
}

func (s *Server) replyerror(c *client, m *wire.Msg, err error) {
	s.write(c, &wire.Msg{Type: wire.Rerror, Tag: m.Tag, Ename: err.Error()})
}

func (s *Server) write(c *client, m *wire.Msg) error {
	c.w.Lock()
	defer c.w.Unlock()
	err := wire.WriteMsg(c.rwc, m)
	if err != nil {
		s.logf("client %d: write: %v", c.id, err)
	}
	return err
}

// Plots returns a summary of all plots, ordered by connection and
// reference number.
func (s *Server) Plots() []PlotInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]PlotInfo, 0, len(s.plots))
	for id, p := range s.plots {
		info := PlotInfo{
			ID:        id,
			Title:     p.model.Title,
			Size:      p.model.Size,
			Len:       p.model.Len(),
			Counts:    p.model.Counts(),
			Accepting: p.accepting,
			Detached:  p.detached,
		}
		if c := s.clients[id.Conn]; c != nil {
			info.Client = c.name
			info.Selected = c.hasSelected && c.selected == id.Ref
		}
		res = append(res, info)
	}
	slices.SortFunc(res, func(a, b PlotInfo) int {
		switch {
		case a.ID.less(b.ID):
			return -1
		case b.ID.less(a.ID):
			return 1
		default:
			return 0
		}
	})
	return res
}

// Plot returns a snapshot of the model of a plot.
func (s *Server) Plot(id PlotID) (*graphic.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.plots[id]
	if p == nil {
		return nil, false
	}
	snap := graphic.NewModel()
	snap.Size = p.model.Size
	snap.Title = p.model.Title
	snap.Background = p.model.Background
	if p.model.DefaultClip != nil {
		clip := *p.model.DefaultClip
		snap.DefaultClip = &clip
	}
	for _, obj := range p.model.Objects() {
		snap.Append(obj)
	}
	return snap, true
}

// Accepting returns the plot which currently receives events.
func (s *Server) Accepting() (PlotID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.plots {
		if p.accepting {
			return id, true
		}
	}
	return PlotID{}, false
}

// Inject sends an event to the client owning the plot id.  Mouse and key
// events are only sent if the plot accepts events; error events are always
// sent.  The return value reports whether the event was sent.
func (s *Server) Inject(id PlotID, ev event.Event) bool {
	s.mu.Lock()
	p := s.plots[id]
	c := s.clients[id.Conn]
	ok := p != nil && c != nil && !p.detached
	if ok && (ev.Kind == event.MouseDown || ev.Kind == event.KeyDown) {
		ok = p.accepting
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	m := &wire.Msg{Type: wire.Revent, Tag: wire.NOTAG, Ref: int32(id.Ref), Event: ev.String()}
	return s.write(c, m) == nil
}

// Close stops all listeners and closes all client connections.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listeners := s.listeners
	s.listeners = nil
	var conns []io.Closer
	for _, c := range s.clients {
		conns = append(conns, c.rwc)
	}
	s.mu.Unlock()

	var errs []error
	for _, l := range listeners {
		errs = append(errs, l.Close())
	}
	for _, c := range conns {
		c.Close()
	}
	return errors.Join(errs...)
}
