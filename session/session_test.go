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
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"math"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/plot"
	"seehuhn.de/go/aqt/renderer"
)

// pipeDialer connects sessions to an in-process server.
type pipeDialer struct {
	mu    sync.Mutex
	srv   *renderer.Server
	dials int
}

func (d *pipeDialer) setServer(srv *renderer.Server) {
	d.mu.Lock()
	d.srv = srv
	d.mu.Unlock()
}

func (d *pipeDialer) dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	d.mu.Lock()
	srv := d.srv
	d.dials++
	d.mu.Unlock()
	if srv == nil {
		return nil, errors.New("connection refused")
	}
	client, server := net.Pipe()
	go srv.ServeConn(server)
	return client, nil
}

func newTestSession(t *testing.T, opts Options) (*Session, *renderer.Server) {
	t.Helper()
	srv := renderer.NewServer()
	d := &pipeDialer{srv: srv}
	opts.Addr = "test"
	opts.Dial = d.dial
	opts.Launch = func(context.Context, []string) error {
		return errors.New("launching is disabled")
	}
	s := New(opts)
	t.Cleanup(func() {
		s.Close()
		srv.Close()
	})
	return s, srv
}

func mkRect(llx, lly, urx, ury float64) rect.Rect {
	return rect.Rect{LLx: llx, LLy: lly, URx: urx, URy: ury}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLabelScenario(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})

	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	s.Do("SetSize", func(b *plot.Builder) { b.SetSize(600, 400) })
	s.Do("AddLabel", func(b *plot.Builder) {
		b.AddLabel("Hello", vec.Vec2{X: 300, Y: 200}, 0, graphic.AlignLeft|graphic.AlignBaseline)
	})
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}

	m, ok := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if !ok {
		t.Fatal("plot not found on the server")
	}
	if d := cmp.Diff(vec.Vec2{X: 600, Y: 400}, m.Size); d != "" {
		t.Error(d)
	}
	want := map[graphic.Kind]int{graphic.KindLabel: 1}
	if d := cmp.Diff(want, m.Counts()); d != "" {
		t.Error(d)
	}
	if m.Title != "Figure 1" {
		t.Errorf("title %q", m.Title)
	}

	b, _ := s.Builder(1)
	if b.IsDirty() {
		t.Error("plot is dirty after rendering")
	}
}

func TestSelectNonexistent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, Options{})

	for _, ref := range []int{1, 2} {
		if err := s.OpenPlot(ctx, ref); err != nil {
			t.Fatal(err)
		}
	}
	found, err := s.SelectPlot(ctx, 5)
	if found || err != nil {
		t.Errorf("SelectPlot(5) = %t, %v", found, err)
	}
	if ref, ok := s.Selected(); !ok || ref != 2 {
		t.Errorf("selection changed to %d, %t", ref, ok)
	}

	found, err = s.SelectPlot(ctx, 1)
	if !found || err != nil {
		t.Errorf("SelectPlot(1) = %t, %v", found, err)
	}
	if ref, _ := s.Selected(); ref != 1 {
		t.Errorf("selected %d", ref)
	}
	if d := cmp.Diff([]int{1, 2}, s.Plots()); d != "" {
		t.Error(d)
	}
}

func TestReopenClears(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})

	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	s.Do("draw", func(b *plot.Builder) {
		b.SetSize(100, 100)
		b.SetTitle("old")
		b.AddFilledRect(mkRect(0, 0, 10, 10))
		b.MoveTo(vec.Vec2{})
		b.LineTo(vec.Vec2{X: 5, Y: 5})
	})
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Builder(1)
	m := b.Model()
	if m.Len() != 0 {
		t.Errorf("reopened plot has %d objects", m.Len())
	}
	if m.Title != "Figure 1" || m.Size != graphic.DefaultSize {
		t.Errorf("reopened plot has title %q and size %v", m.Title, m.Size)
	}
	srvModel, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if srvModel.Len() != 0 {
		t.Errorf("renderer still shows %d objects", srvModel.Len())
	}
}

func TestCloseAndClear(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})

	if err := s.OpenPlot(ctx, 3); err != nil {
		t.Fatal(err)
	}
	s.Do("AddFilledRect", func(b *plot.Builder) { b.AddFilledRect(mkRect(0, 0, 1, 1)) })
	if err := s.ClearPlot(ctx); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Builder(3)
	if b.Model().Len() != 0 {
		t.Error("ClearPlot left objects behind")
	}

	if err := s.ClosePlot(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Selected(); ok {
		t.Error("closed plot is still selected")
	}
	if len(s.Plots()) != 0 {
		t.Errorf("registry still contains %v", s.Plots())
	}
	if err := s.ClosePlot(ctx); !errors.Is(err, ErrNoPlot) {
		t.Errorf("second ClosePlot: %v", err)
	}

	infos := srv.Plots()
	if len(infos) != 1 || !infos[0].Detached {
		t.Errorf("renderer plots: %+v", infos)
	}
}

func TestAcceptingEventsExclusive(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})

	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAcceptingEvents(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := s.OpenPlot(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if s.AcceptingEvents(1) {
		t.Error("plot 1 still accepts events after the selection changed")
	}
	if err := s.SetAcceptingEvents(ctx, true); err != nil {
		t.Fatal(err)
	}
	if s.AcceptingEvents(1) || !s.AcceptingEvents(2) {
		t.Errorf("accepting: 1=%t 2=%t", s.AcceptingEvents(1), s.AcceptingEvents(2))
	}
	id, ok := srv.Accepting()
	if !ok || id.Ref != 2 {
		t.Errorf("renderer: plot %v accepts events", id)
	}

	if err := s.SetAcceptingEvents(ctx, false); err != nil {
		t.Fatal(err)
	}
	if s.AcceptingEvents(2) {
		t.Error("plot 2 still accepts events")
	}
}

func TestWaitEventTimeout(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}

	const timeout = 10 * time.Millisecond
	start := time.Now()
	ev := s.WaitEvent(ctx, timeout)
	elapsed := time.Since(start)

	if !ev.IsNone() {
		t.Errorf("got event %v", ev)
	}
	if elapsed < timeout {
		t.Errorf("WaitEvent returned after %v", elapsed)
	}
	if s.AcceptingEvents(1) {
		t.Error("events still enabled after WaitEvent")
	}
	if id, ok := srv.Accepting(); ok {
		t.Errorf("renderer: plot %v accepts events", id)
	}
}

func TestWaitEvent(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})
	if err := s.OpenPlot(ctx, 7); err != nil {
		t.Fatal(err)
	}

	id := renderer.PlotID{Conn: 1, Ref: 7}
	go func() {
		for {
			if acc, ok := srv.Accepting(); ok && acc == id {
				srv.Inject(id, event.Mouse(7, vec.Vec2{X: 12.5, Y: 30}, 1))
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	ev := s.WaitEvent(ctx, 5*time.Second)
	want := event.Event{Kind: event.MouseDown, Ref: 7, Pos: vec.Vec2{X: 12.5, Y: 30}, HasPos: true, Code: 1}
	if d := cmp.Diff(want, ev); d != "" {
		t.Errorf("(-want +got)\n%s", d)
	}
	if s.AcceptingEvents(7) {
		t.Error("events still enabled after WaitEvent")
	}
}

func TestPollEventAndHandler(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var seen []event.Event
	s.SetEventHandler(func(ev event.Event) {
		mu.Lock()
		seen = append(seen, ev)
		mu.Unlock()
	})

	id := renderer.PlotID{Conn: 1, Ref: 1}
	if srv.Inject(id, event.Key(1, vec.Vec2{}, 'q')) {
		t.Error("event injected while plot does not accept events")
	}
	if err := s.SetAcceptingEvents(ctx, true); err != nil {
		t.Fatal(err)
	}
	if !srv.Inject(id, event.Key(1, vec.Vec2{X: 1, Y: 2}, 'q')) {
		t.Fatal("event was not injected")
	}

	var ev event.Event
	waitFor(t, "event", func() bool {
		ev = s.PollEvent()
		return !ev.IsNone()
	})
	if ev.Kind != event.KeyDown || ev.Code != 'q' || ev.Ref != 1 {
		t.Errorf("got %+v", ev)
	}
	if ev := s.PollEvent(); !ev.IsNone() {
		t.Errorf("event %v was delivered twice", ev)
	}

	waitFor(t, "handler", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	})
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0].Code != 'q' {
		t.Errorf("handler saw %v", seen)
	}
}

func TestStream(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{Stream: true})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	s.Do("draw", func(b *plot.Builder) {
		b.MoveTo(vec.Vec2{X: 0, Y: 0})
		b.LineTo(vec.Vec2{X: 10, Y: 0})
		b.LineTo(vec.Vec2{X: 10, Y: 10})
		b.SetLineWidth(3)
		b.AddLabel("x", vec.Vec2{X: 5, Y: 5}, 0, graphic.AlignCenter)
	})

	// the reply to Tselect arrives after all earlier messages were applied
	if _, err := s.SelectPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	m, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	want := map[graphic.Kind]int{graphic.KindLine: 1, graphic.KindLabel: 1}
	if d := cmp.Diff(want, m.Counts()); d != "" {
		t.Error(d)
	}
	if line, ok := m.Objects()[0].(*graphic.Line); !ok || len(line.Points) != 3 {
		t.Errorf("unexpected first object %#v", m.Objects()[0])
	}
}

func TestStreamLineOpenAtRender(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{Stream: true})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	s.Do("draw", func(b *plot.Builder) {
		b.MoveTo(vec.Vec2{X: 0, Y: 0})
		b.LineTo(vec.Vec2{X: 10, Y: 0})
	})
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}
	s.Do("draw", func(b *plot.Builder) {
		b.LineTo(vec.Vec2{X: 10, Y: 10})
		b.SetLineWidth(3)
	})
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SelectPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Builder(1)
	m, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if b.Model().Len() != 1 || m.Len() != 1 {
		t.Fatalf("client has %d objects, renderer has %d, want 1",
			b.Model().Len(), m.Len())
	}
	if line, ok := m.Objects()[0].(*graphic.Line); !ok || len(line.Points) != 3 {
		t.Errorf("unexpected object %#v", m.Objects()[0])
	}
}

func TestRenderOversizedInput(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	s, srv := newTestSession(t, Options{Logger: log.New(buf, "", 0)})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}

	long := strings.Repeat("x", graphic.MaxStringLen+1)
	s.Do("AddLabel", func(b *plot.Builder) {
		b.AddLabel(long, vec.Vec2{}, 0, graphic.AlignLeft)
	})
	s.Do("SetPlotTitle", func(b *plot.Builder) { b.SetTitle(long) })
	s.Do("AddPolyline", func(b *plot.Builder) {
		b.AddPolyline(make([]vec.Vec2, graphic.MaxPoints+1))
	})
	for _, cmd := range []string{"AddLabel:", "SetTitle:", "AddPolyline:"} {
		if !strings.Contains(buf.String(), cmd) {
			t.Errorf("no log message for %s in %q", cmd, buf.String())
		}
	}

	s.Do("AddPolyline", func(b *plot.Builder) {
		b.AddPolyline([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}})
	})
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}
	m, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if m.Len() != 1 || m.Title != "Figure 1" {
		t.Errorf("renderer has %d objects and title %q", m.Len(), m.Title)
	}
}

func TestRenderSplitsLargeModel(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})
	s.maxDoc = 300
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		y := float64(i)
		s.Do("AddPolyline", func(b *plot.Builder) {
			b.AddPolyline([]vec.Vec2{{X: 0, Y: y}, {X: 10, Y: y}})
		})
	}
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SelectPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Builder(1)
	m, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if d := cmp.Diff(b.Model().Objects(), m.Objects()); d != "" {
		t.Errorf("(-client +renderer)\n%s", d)
	}
	if b.IsDirty() {
		t.Error("plot is dirty after rendering")
	}
}

func TestOpenPlotRefRange(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits wide")
	}
	ctx := context.Background()
	s, srv := newTestSession(t, Options{})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	s.Do("AddPolyline", func(b *plot.Builder) {
		b.AddPolyline([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}})
	})
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}

	var big int64 = 1<<32 + 1 // equal to 1 in the low 32 bits
	for _, ref := range []int64{big, -big, math.MaxInt32 + 1, math.MinInt32 - 1} {
		err := s.OpenPlot(ctx, int(ref))
		if !errors.Is(err, ErrBadRef) {
			t.Errorf("OpenPlot(%d): got %v, want ErrBadRef", ref, err)
		}
	}

	if d := cmp.Diff([]int{1}, s.Plots()); d != "" {
		t.Error(d)
	}
	if ref, ok := s.Selected(); !ok || ref != 1 {
		t.Errorf("selection changed to %d, %t", ref, ok)
	}
	m, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if m.Len() != 1 {
		t.Errorf("renderer plot 1 has %d objects", m.Len())
	}
	if err := s.OpenPlot(ctx, math.MaxInt32); err != nil {
		t.Errorf("OpenPlot(MaxInt32): %v", err)
	}
}

func TestConnectionLost(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var reported []error
	srv := renderer.NewServer()
	d := &pipeDialer{srv: srv}
	s := New(Options{
		Addr: "test",
		Dial: d.dial,
		Launch: func(context.Context, []string) error {
			return errors.New("launching is disabled")
		},
		ErrorHandler: func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		},
	})
	defer s.Close()

	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}
	s.Do("AddPolyline", func(b *plot.Builder) {
		b.AddPolyline([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}})
	})
	if err := s.SetAcceptingEvents(ctx, true); err != nil {
		t.Fatal(err)
	}

	srv.Close()
	waitFor(t, "dead connection", func() bool { return s.State() == Dead })

	if _, ok := s.Selected(); ok {
		t.Error("selection survived the connection")
	}
	if s.AcceptingEvents(1) {
		t.Error("events still enabled")
	}
	b, ok := s.Builder(1)
	if !ok || b.Model().Len() != 1 {
		t.Error("plot was not retained")
	}
	if s.Do("SetColor", func(b *plot.Builder) { b.SetColor(graphic.Black) }) {
		t.Error("Do ran without a selection")
	}
	if err := s.Render(ctx); !errors.Is(err, ErrNoPlot) {
		t.Errorf("Render: %v", err)
	}

	waitFor(t, "error report", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) > 0
	})
	mu.Lock()
	if len(reported) != 1 || !errors.Is(reported[0], ErrConnectionLost) {
		t.Errorf("reported %v", reported)
	}
	mu.Unlock()

	// reconnect to a new renderer
	srv2 := renderer.NewServer()
	defer srv2.Close()
	d.setServer(srv2)
	if err := s.OpenPlot(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if s.State() != Connected {
		t.Errorf("state %s", s.State())
	}
	m, ok := srv2.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if !ok || m.Len() != 1 {
		t.Error("retained plot was not restored")
	}
	if _, ok := srv2.Plot(renderer.PlotID{Conn: 1, Ref: 2}); !ok {
		t.Error("new plot is missing")
	}
}

func TestConnectFailed(t *testing.T) {
	var mu sync.Mutex
	var reported []error
	var launches [][]string
	dials := 0
	s := New(Options{
		Addr:            "/nonexistent/socket",
		RendererCommand: "fake-renderer -headless",
		LaunchRetries:   2,
		Backoff:         time.Millisecond,
		Dial: func(context.Context, string) (io.ReadWriteCloser, error) {
			mu.Lock()
			dials++
			mu.Unlock()
			return nil, errors.New("connection refused")
		},
		Launch: func(_ context.Context, argv []string) error {
			mu.Lock()
			launches = append(launches, argv)
			mu.Unlock()
			return nil
		},
		ErrorHandler: func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		},
	})
	defer s.Close()

	err := s.OpenPlot(context.Background(), 1)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("OpenPlot: %v", err)
	}
	if s.State() != Disconnected {
		t.Errorf("state %s", s.State())
	}
	if len(s.Plots()) != 0 {
		t.Error("plot created without a connection")
	}

	mu.Lock()
	defer mu.Unlock()
	if dials != 3 {
		t.Errorf("%d dial attempts", dials)
	}
	wantArgv := [][]string{{"fake-renderer", "-headless", "-addr", "/nonexistent/socket"}}
	if d := cmp.Diff(wantArgv, launches); d != "" {
		t.Error(d)
	}
	if len(reported) != 1 || !errors.Is(reported[0], ErrConnectionFailed) {
		t.Errorf("reported %v", reported)
	}
}

func TestLaunchThenConnect(t *testing.T) {
	srv := renderer.NewServer()
	defer srv.Close()
	d := &pipeDialer{}
	s := New(Options{
		Addr:            "test",
		RendererCommand: "fake-renderer",
		Backoff:         time.Millisecond,
		Dial:            d.dial,
		Launch: func(context.Context, []string) error {
			d.setServer(srv)
			return nil
		},
	})
	defer s.Close()

	if err := s.EnsureConnected(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.State() != Connected {
		t.Errorf("state %s", s.State())
	}
	if d.dials != 2 {
		t.Errorf("%d dial attempts", d.dials)
	}
}

func TestDoWithoutPlot(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(Options{Logger: log.New(buf, "", 0)})
	defer s.Close()

	called := s.Do("SetColor", func(b *plot.Builder) {})
	if called {
		t.Error("Do called fn without a selected plot")
	}
	if got := buf.String(); !strings.Contains(got, "SetColor: no plot selected") {
		t.Errorf("log output %q", got)
	}
	if ev := s.WaitEvent(context.Background(), time.Hour); !ev.IsNone() {
		t.Errorf("got event %v", ev)
	}
}

func TestDoClearsBuilderError(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	s, _ := newTestSession(t, Options{Logger: log.New(buf, "", 0)})
	if err := s.OpenPlot(ctx, 1); err != nil {
		t.Fatal(err)
	}

	s.Do("SetLineWidth", func(b *plot.Builder) { b.SetLineWidth(-1) })
	if !strings.Contains(buf.String(), "SetLineWidth:") {
		t.Errorf("log output %q", buf.String())
	}
	b, _ := s.Builder(1)
	if b.Err != nil {
		t.Errorf("builder error was not cleared: %v", b.Err)
	}
}

func TestClientName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plotter", "plotter"},
		{"I\u00adX", "IX"},
		{"\u2168", "IX"},
		{"", "aqt-client"},
		{"bad\u0007name", "aqt-client"},
	}
	for _, c := range cases {
		if got := normalizeName(c.in); got != c.want {
			t.Errorf("normalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOptionsFromEnvironment(t *testing.T) {
	t.Setenv("AQT_ADDR", "/run/aqt/sock")
	t.Setenv("AQT_RENDERER", "my-viewer --quiet")

	var o Options
	o.defaults()
	if o.Addr != "/run/aqt/sock" {
		t.Errorf("Addr = %q", o.Addr)
	}
	want := []string{"my-viewer", "--quiet", "-addr", "/run/aqt/sock"}
	if d := cmp.Diff(want, rendererArgv(o.RendererCommand, o.Addr)); d != "" {
		t.Error(d)
	}
	if o.Backoff != DefaultBackoff || o.LaunchRetries != DefaultLaunchRetries {
		t.Errorf("backoff %v, retries %d", o.Backoff, o.LaunchRetries)
	}

	explicit := Options{Addr: "/tmp/x", RendererCommand: "viewer"}
	explicit.defaults()
	if explicit.Addr != "/tmp/x" || explicit.RendererCommand != "viewer" {
		t.Errorf("explicit options were overridden: %+v", explicit)
	}
}
