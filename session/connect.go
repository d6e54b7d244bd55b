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
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"seehuhn.de/go/aqt/wire"
)

// EnsureConnected connects to the renderer, unless the session is
// connected already.  If no renderer is listening, a new renderer is
// launched and the session retries with exponential backoff.  After
// reconnecting, all retained plots are sent to the new renderer.
//
// If no connection can be made, the returned error wraps
// [ErrConnectionFailed] and the error handler is called.
func (s *Session) EnsureConnected(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == Connected {
		s.mu.Unlock()
		return nil
	}
	s.state = Connecting
	s.mu.Unlock()

	c, err := s.connect(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = Disconnected
		s.mu.Unlock()
		err = fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		s.report(err)
		return err
	}

	s.mu.Lock()
	s.conn = c
	s.state = Connected
	s.mu.Unlock()

	s.restore(ctx, c)
	return nil
}

// connect dials the renderer, launching it if necessary, and performs the
// handshake.
func (s *Session) connect(ctx context.Context) (*conn, error) {
	addr := s.opts.Addr
	rwc, err := s.opts.Dial(ctx, addr)
	if err == nil {
		return s.handshake(ctx, rwc)
	}

	argv := rendererArgv(s.opts.RendererCommand, addr)
	if len(argv) <= 2 {
		return nil, fmt.Errorf("no renderer at %s and no renderer command", addr)
	}
	s.log.Printf("no renderer at %s, starting %q", addr, argv[0])
	if err := s.opts.Launch(ctx, argv); err != nil {
		return nil, fmt.Errorf("starting renderer: %w", err)
	}

	delay := s.opts.Backoff
	for range s.opts.LaunchRetries {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}

		rwc, err = s.opts.Dial(ctx, addr)
		if err == nil {
			return s.handshake(ctx, rwc)
		}
		delay = min(2*delay, s.opts.MaxBackoff)
	}
	return nil, err
}

// handshake starts the reader for a new connection and exchanges the
// version messages.
func (s *Session) handshake(ctx context.Context, rwc io.ReadWriteCloser) (*conn, error) {
	c := newConn(rwc, s.handleEvent)
	c.start(func(err error) { s.connDied(c, err) })

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()
	tx := &wire.Msg{
		Type:    wire.Tversion,
		Version: wire.Version,
		Client:  s.clientName,
		PID:     uint32(os.Getpid()),
	}
	rx, err := c.rpc(ctx, tx)
	if err == nil && rx.Version != wire.Version {
		err = wire.ProtocolError(fmt.Sprintf("renderer speaks %q, not %q", rx.Version, wire.Version))
	}
	if err != nil {
		c.close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	return c, nil
}

// restore sends all retained plots to a new renderer.
func (s *Session) restore(ctx context.Context, c *conn) {
	for _, ref := range s.Plots() {
		e := s.lookup(ref)
		if e == nil {
			continue
		}
		e.mu.Lock()
		err := s.sendOpen(ctx, c, ref)
		if err == nil {
			err = s.sendModel(ctx, c, e)
		}
		e.mu.Unlock()
		if err != nil {
			s.log.Printf("plot %d: restoring failed: %v", ref, err)
		}
	}
}

// connDied is called by the reader goroutine of c when the connection
// fails.
func (s *Session) connDied(c *conn, err error) {
	s.mu.Lock()
	if s.conn != c {
		// the connection was closed by us, or was never established
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.state = Dead
	s.hasSelected = false
	s.hasAccepting = false
	s.mu.Unlock()

	c.rwc.Close()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrConnectionLost
	} else {
		err = fmt.Errorf("%w: %w", ErrConnectionLost, err)
	}
	s.report(err)
}

func (s *Session) call(ctx context.Context, tx *wire.Msg) (*wire.Msg, error) {
	s.mu.Lock()
	c, state, closed := s.conn, s.state, s.closed
	s.mu.Unlock()
	switch {
	case closed:
		return nil, ErrClosed
	case state == Dead:
		return nil, ErrConnectionLost
	case state != Connected || c == nil:
		return nil, ErrNotConnected
	}
	return c.rpc(ctx, tx)
}

func (s *Session) sendOpen(ctx context.Context, c *conn, ref int) error {
	_, err := c.rpc(ctx, &wire.Msg{Type: wire.Topen, Ref: int32(ref)})
	return err
}

// sendModel transmits the complete model of e and marks it clean.  Models
// which do not fit into a single message are sent as a Trender message
// followed by Tdraw messages for the remaining objects.
// The caller must hold e.mu.
func (s *Session) sendModel(ctx context.Context, c *conn, e *plotEntry) error {
	doc, more, err := wire.SplitModel(e.b.Model(), s.maxDoc)
	if err != nil {
		return err
	}
	_, err = c.rpc(ctx, &wire.Msg{Type: wire.Trender, Ref: int32(e.ref), Doc: doc})
	if err != nil {
		return err
	}
	for _, chunk := range more {
		err = c.send(&wire.Msg{Type: wire.Tdraw, Ref: int32(e.ref), Doc: chunk})
		if err != nil {
			return err
		}
	}
	e.b.MarkClean()
	return nil
}
