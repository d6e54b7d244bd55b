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

package renderer

import (
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/wire"
)

type testClient struct {
	t    *testing.T
	conn net.Conn
	tag  uint16
}

func newTestClient(t *testing.T, srv *Server) *testClient {
	t.Helper()
	client, server := net.Pipe()
	go srv.ServeConn(server)
	t.Cleanup(func() { client.Close() })
	c := &testClient{t: t, conn: client}
	rx := c.rpc(&wire.Msg{Type: wire.Tversion, Version: wire.Version, Client: "test", PID: 42})
	if rx.Type != wire.Rversion || rx.Version != wire.Version {
		t.Fatalf("handshake: %s", rx)
	}
	return c
}

func (c *testClient) rpc(tx *wire.Msg) *wire.Msg {
	c.t.Helper()
	c.tag++
	tx.Tag = c.tag
	if err := wire.WriteMsg(c.conn, tx); err != nil {
		c.t.Fatal(err)
	}
	rx, err := wire.ReadMsg(c.conn)
	if err != nil {
		c.t.Fatal(err)
	}
	if rx.Tag != tx.Tag {
		c.t.Fatalf("reply %s has wrong tag", rx)
	}
	return rx
}

func (c *testClient) send(tx *wire.Msg) {
	c.t.Helper()
	tx.Tag = wire.NOTAG
	if err := wire.WriteMsg(c.conn, tx); err != nil {
		c.t.Fatal(err)
	}
}

func TestServerPlotLifecycle(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newTestClient(t, srv)

	rx := c.rpc(&wire.Msg{Type: wire.Tselect, Ref: 1})
	if rx.Type != wire.Rerror {
		t.Errorf("selecting an unknown plot: %s", rx)
	}

	if rx := c.rpc(&wire.Msg{Type: wire.Topen, Ref: 1}); rx.Type != wire.Ropen {
		t.Fatalf("Topen: %s", rx)
	}

	m := graphic.NewModel()
	m.Title = "test"
	m.Append(&graphic.Patch{
		Points: []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		Style:  graphic.DefaultStyle,
	})
	doc, err := wire.EncodeModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if rx := c.rpc(&wire.Msg{Type: wire.Trender, Ref: 1, Doc: doc}); rx.Type != wire.Rrender {
		t.Fatalf("Trender: %s", rx)
	}

	objs, err := wire.EncodeObjects([]graphic.Object{
		&graphic.Label{Text: graphic.Plain("A"), FontName: "Times-Roman", FontSize: 14, Style: graphic.DefaultStyle},
	})
	if err != nil {
		t.Fatal(err)
	}
	c.send(&wire.Msg{Type: wire.Tdraw, Ref: 1, Doc: objs})
	c.rpc(&wire.Msg{Type: wire.Tselect, Ref: 1})

	infos := srv.Plots()
	if len(infos) != 1 {
		t.Fatalf("got %d plots", len(infos))
	}
	want := PlotInfo{
		ID:       PlotID{Conn: 1, Ref: 1},
		Client:   "test",
		Title:    "test",
		Size:     graphic.DefaultSize,
		Len:      2,
		Counts:   map[graphic.Kind]int{graphic.KindPatch: 1, graphic.KindLabel: 1},
		Selected: true,
	}
	if d := cmp.Diff(want, infos[0]); d != "" {
		t.Errorf("(-want +got)\n%s", d)
	}

	if rx := c.rpc(&wire.Msg{Type: wire.Tclear, Ref: 1}); rx.Type != wire.Rclear {
		t.Fatalf("Tclear: %s", rx)
	}
	snap, _ := srv.Plot(PlotID{Conn: 1, Ref: 1})
	if snap.Len() != 0 {
		t.Errorf("cleared plot has %d objects", snap.Len())
	}

	c.rpc(&wire.Msg{Type: wire.Tclose, Ref: 1})
	if !srv.Plots()[0].Detached {
		t.Error("closed plot is not detached")
	}
	if rx := c.rpc(&wire.Msg{Type: wire.Tclear, Ref: 1}); rx.Type != wire.Rerror {
		t.Errorf("clearing a closed plot: %s", rx)
	}
}

func TestServerBadDocument(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newTestClient(t, srv)

	c.rpc(&wire.Msg{Type: wire.Topen, Ref: 1})
	rx := c.rpc(&wire.Msg{Type: wire.Trender, Ref: 1, Doc: []byte{1, 2, 3}})
	if rx.Type != wire.Rerror {
		t.Errorf("corrupt document: %s", rx)
	}
}

func TestServerEvents(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newTestClient(t, srv)

	c.rpc(&wire.Msg{Type: wire.Topen, Ref: 1})
	c.rpc(&wire.Msg{Type: wire.Topen, Ref: 2})
	id1 := PlotID{Conn: 1, Ref: 1}
	id2 := PlotID{Conn: 1, Ref: 2}

	if srv.Inject(id1, event.Mouse(1, vec.Vec2{}, 1)) {
		t.Error("event sent to a plot which does not accept events")
	}

	c.rpc(&wire.Msg{Type: wire.Tevents, Ref: 1, On: true})
	c.rpc(&wire.Msg{Type: wire.Tevents, Ref: 2, On: true})
	if id, ok := srv.Accepting(); !ok || id != id2 {
		t.Errorf("accepting %v, %t", id, ok)
	}
	if srv.Inject(id1, event.Mouse(1, vec.Vec2{}, 1)) {
		t.Error("event sent to plot 1")
	}

	done := make(chan *wire.Msg)
	go func() {
		m, err := wire.ReadMsg(c.conn)
		if err != nil {
			m = nil
		}
		done <- m
	}()
	if !srv.Inject(id2, event.Key(2, vec.Vec2{X: 3, Y: 4}, 'x')) {
		t.Fatal("event was not sent")
	}
	select {
	case m := <-done:
		if m == nil || m.Type != wire.Revent || m.Ref != 2 || m.Event != "2:3,4:120" {
			t.Errorf("got %v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestServerDisconnect(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	changes := make(chan struct{}, 100)
	srv.OnChange = func() { changes <- struct{}{} }

	c := newTestClient(t, srv)
	c.rpc(&wire.Msg{Type: wire.Topen, Ref: 5})
	c.rpc(&wire.Msg{Type: wire.Tevents, Ref: 5, On: true})
	c.conn.Close()

	deadline := time.After(5 * time.Second)
	for {
		infos := srv.Plots()
		if len(infos) == 1 && infos[0].Detached {
			if infos[0].Accepting {
				t.Error("detached plot accepts events")
			}
			break
		}
		select {
		case <-changes:
		case <-deadline:
			t.Fatal("plot was not detached")
		}
	}
}
