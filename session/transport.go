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
	"sync"

	"seehuhn.de/go/aqt/wire"
)

var errConnClosed = errors.New("connection has been closed")

// conn is a connection to a renderer.  Requests are matched to their
// replies by tag.  A single reader goroutine receives all messages; it
// forwards replies to the waiting callers and events to the session.
type conn struct {
	rwc io.ReadWriteCloser

	w sync.Mutex // serializes writes

	x       sync.Mutex // protects the fields below
	err     error
	tagmap  map[uint16]chan *wire.Msg
	freetag map[uint16]bool
	nexttag uint16

	onEvent func(ref int, ev string)
	done    chan struct{}
}

func newConn(rwc io.ReadWriteCloser, onEvent func(ref int, ev string)) *conn {
	return &conn{
		rwc:     rwc,
		tagmap:  make(map[uint16]chan *wire.Msg),
		freetag: make(map[uint16]bool),
		nexttag: 1,
		onEvent: onEvent,
		done:    make(chan struct{}),
	}
}

// start launches the reader goroutine.  When reading fails, all pending
// requests fail and then onDead is called with the read error.
func (c *conn) start(onDead func(error)) {
	go c.readLoop(onDead)
}

func (c *conn) readLoop(onDead func(error)) {
	defer close(c.done)
	for {
		rx, err := wire.ReadMsg(c.rwc)
		if err != nil {
			c.fail(err)
			onDead(err)
			return
		}
		if rx.Type == wire.Revent {
			if c.onEvent != nil {
				c.onEvent(int(rx.Ref), rx.Event)
			}
			continue
		}
		c.mux(rx)
	}
}

func (c *conn) newtag(ch chan *wire.Msg) (uint16, error) {
	c.x.Lock()
	defer c.x.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	var tag uint16
	for tag = range c.freetag {
		delete(c.freetag, tag)
		goto found
	}
	tag = c.nexttag
	if c.nexttag == wire.NOTAG {
		return 0, wire.ProtocolError("out of tags")
	}
	c.nexttag++
found:
	c.tagmap[tag] = ch
	return tag, nil
}

func (c *conn) puttag(tag uint16) {
	c.x.Lock()
	defer c.x.Unlock()
	if _, ok := c.tagmap[tag]; ok {
		delete(c.tagmap, tag)
		c.freetag[tag] = true
	}
}

// mux delivers a reply to the caller waiting for it.  The reply channels
// are buffered, so that replies to abandoned requests are discarded
// without blocking.
func (c *conn) mux(rx *wire.Msg) {
	c.x.Lock()
	defer c.x.Unlock()
	ch, ok := c.tagmap[rx.Tag]
	if !ok {
		return
	}
	delete(c.tagmap, rx.Tag)
	c.freetag[rx.Tag] = true
	ch <- rx
}

// fail records err as the connection error and wakes up all callers which
// are waiting for a reply.
func (c *conn) fail(err error) {
	c.x.Lock()
	defer c.x.Unlock()
	if c.err == nil {
		c.err = err
	}
	for tag, ch := range c.tagmap {
		close(ch)
		delete(c.tagmap, tag)
	}
}

func (c *conn) getErr() error {
	c.x.Lock()
	defer c.x.Unlock()
	return c.err
}

func (c *conn) write(m *wire.Msg) error {
	if err := c.getErr(); err != nil {
		return err
	}
	c.w.Lock()
	err := wire.WriteMsg(c.rwc, m)
	c.w.Unlock()
	return err
}

// rpc sends tx and waits for the reply.
func (c *conn) rpc(ctx context.Context, tx *wire.Msg) (*wire.Msg, error) {
	ch := make(chan *wire.Msg, 1)
	tag, err := c.newtag(ch)
	if err != nil {
		return nil, err
	}
	tx.Tag = tag
	err = c.write(tx)
	if err != nil {
		c.puttag(tag)
		return nil, err
	}

	var rx *wire.Msg
	select {
	case rx = <-ch:
	case <-ctx.Done():
		// The tag stays in use until the late reply is dropped by mux or
		// the connection fails.
		return nil, ctx.Err()
	}
	if rx == nil {
		err := c.getErr()
		if err == nil || err == io.EOF {
			err = errConnClosed
		}
		return nil, err
	}
	if rx.Type == wire.Rerror {
		return nil, RendererError(rx.Ename)
	}
	if rx.Type != tx.Type+1 {
		return nil, wire.ProtocolError(fmt.Sprintf("unexpected reply %s to %s", rx, tx))
	}
	return rx, nil
}

// send writes a one-way message.
func (c *conn) send(tx *wire.Msg) error {
	tx.Tag = wire.NOTAG
	return c.write(tx)
}

// close shuts down the connection and waits for the reader to exit.
func (c *conn) close() error {
	err := c.rwc.Close()
	<-c.done
	return err
}
