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

package aqt

import (
	"bytes"
	"context"
	"io"
	"log"
	"math"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/renderer"
	"seehuhn.de/go/aqt/session"
)

func newTestAdapter(t *testing.T) (*Adapter, *renderer.Server, *bytes.Buffer) {
	t.Helper()
	srv := renderer.NewServer()
	buf := &bytes.Buffer{}
	a := Init(session.Options{
		Addr:   "test",
		Logger: log.New(buf, "aqt: ", 0),
		Dial: func(context.Context, string) (io.ReadWriteCloser, error) {
			client, server := net.Pipe()
			go srv.ServeConn(server)
			return client, nil
		},
	})
	t.Cleanup(func() {
		a.Terminate()
		srv.Close()
	})
	return a, srv, buf
}

func TestLineWidthSplit(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	if !a.OpenPlot(2) {
		t.Fatal("OpenPlot failed")
	}
	a.MoveTo(0, 0)
	a.AddLineTo(10, 0)
	a.AddLineTo(10, 10)
	a.SetLineWidth(3)
	a.AddLineTo(0, 10)
	a.RenderPlot()

	b, _ := a.Session().Builder(2)
	objs := b.Model().Objects()
	if len(objs) != 2 {
		t.Fatalf("got %d objects", len(objs))
	}
	first := objs[0].(*graphic.Line)
	second := objs[1].(*graphic.Line)
	if len(first.Points) != 3 || first.Style.LineWidth != 1 {
		t.Errorf("first line: %d points, width %g", len(first.Points), first.Style.LineWidth)
	}
	if len(second.Points) != 2 || second.Style.LineWidth != 3 {
		t.Errorf("second line: %d points, width %g", len(second.Points), second.Style.LineWidth)
	}
}

func TestLabel(t *testing.T) {
	a, srv, _ := newTestAdapter(t)
	a.OpenPlot(1)
	a.SetPlotSize(600, 400)
	a.AddLabel("Hello", 300, 200, 0, graphic.AlignLeft|graphic.AlignBaseline)
	a.RenderPlot()

	m, ok := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if !ok {
		t.Fatal("plot missing on the renderer")
	}
	if m.Len() != 1 || m.Size != (vec.Vec2{X: 600, Y: 400}) {
		t.Errorf("renderer has %d objects, size %v", m.Len(), m.Size)
	}
	label, ok := m.Objects()[0].(*graphic.Label)
	if !ok {
		t.Fatalf("got %s", m.Objects()[0].Kind())
	}
	if label.Text.String() != "Hello" || label.FontName != "Times-Roman" || label.FontSize != 14 {
		t.Errorf("unexpected label %+v", label)
	}
}

func TestPlotClipRect(t *testing.T) {
	a, srv, _ := newTestAdapter(t)
	a.OpenPlot(1)
	a.SetPlotClipRect(10, 20, 100, 50)
	a.AddPolyline([]float64{0, 200}, []float64{0, 200})
	a.RenderPlot()

	m, _ := srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	want := &rect.Rect{LLx: 10, LLy: 20, URx: 110, URy: 70}
	if d := cmp.Diff(want, m.DefaultClip); d != "" {
		t.Error(d)
	}

	a.ResetPlotClipRect()
	a.RenderPlot()
	m, _ = srv.Plot(renderer.PlotID{Conn: 1, Ref: 1})
	if m.DefaultClip != nil {
		t.Errorf("document clip %v was not reset", m.DefaultClip)
	}
}

func TestOpenPlotRefRange(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits wide")
	}
	a, _, buf := newTestAdapter(t)
	if !a.OpenPlot(1) {
		t.Fatal("OpenPlot failed")
	}
	var big int64 = 1<<32 + 1
	if a.OpenPlot(int(big)) {
		t.Error("out of range reference accepted")
	}
	if !strings.Contains(buf.String(), "OpenPlot:") {
		t.Errorf("log output %q", buf.String())
	}
	if d := cmp.Diff([]int{1}, a.Session().Plots()); d != "" {
		t.Error(d)
	}
}

func TestColormap(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	a.OpenPlot(1)

	a.SetColormapEntry(5, 0.2, 0.4, 0.6, 1.0)
	r, g, b, alpha := a.ColormapEntry(5)
	if d := cmp.Diff([]float64{0.2, 0.4, 0.6, 1.0}, []float64{r, g, b, alpha}); d != "" {
		t.Error(d)
	}

	a.TakeColorFromColormapEntry(5)
	r, g, b, _ = a.Color()
	if r != 0.2 || g != 0.4 || b != 0.6 {
		t.Errorf("color is %g %g %g", r, g, b)
	}

	a.TakeBackgroundColorFromColormapEntry(2)
	r, g, b, _ = a.BackgroundColor()
	if r != 1 || g != 0 || b != 0 {
		t.Errorf("background is %g %g %g", r, g, b)
	}
}

func TestNoPlotSelected(t *testing.T) {
	buf := &bytes.Buffer{}
	a := Init(session.Options{Logger: log.New(buf, "aqt: ", 0)})
	defer a.Terminate()

	a.SetColor(1, 0, 0)
	a.AddLineTo(1, 1)
	a.RenderPlot()
	r, g, b, alpha := a.Color()
	if r != 0 || g != 0 || b != 0 || alpha != 0 {
		t.Errorf("got color %g %g %g %g", r, g, b, alpha)
	}
	if ev := a.GetLastEvent(); !ev.IsNone() {
		t.Errorf("got event %v", ev)
	}

	out := buf.String()
	for _, want := range []string{
		"aqt: SetColor: no plot selected",
		"aqt: AddLineTo: no plot selected",
		"aqt: RenderPlot: no plot selected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing log line %q", want)
		}
	}
}

func TestMismatchedPoints(t *testing.T) {
	a, _, buf := newTestAdapter(t)
	a.OpenPlot(1)
	a.AddPolygon([]float64{0, 1, 2}, []float64{0, 1})
	a.AddPatch([]float64{0, 1, 0}, []float64{0, 0, 1})

	b, _ := a.Session().Builder(1)
	if n := b.Model().Len(); n != 1 {
		t.Errorf("got %d objects", n)
	}
	if !strings.Contains(buf.String(), "AddPolygon: 3 x values but 2 y values") {
		t.Errorf("log output %q", buf.String())
	}
}

func TestWaitNextEvent(t *testing.T) {
	a, srv, _ := newTestAdapter(t)
	a.OpenPlot(4)

	start := time.Now()
	ev := a.WaitNextEventTimeout(10 * time.Millisecond)
	if !ev.IsNone() || time.Since(start) < 10*time.Millisecond {
		t.Errorf("got %v after %v", ev, time.Since(start))
	}

	id := renderer.PlotID{Conn: 1, Ref: 4}
	go func() {
		for {
			if acc, ok := srv.Accepting(); ok && acc == id {
				srv.Inject(id, event.Key(4, vec.Vec2{X: 1, Y: 1}, 'a'))
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()
	ev = a.WaitNextEventTimeout(5 * time.Second)
	if ev.Kind != event.KeyDown || ev.Code != 'a' || ev.Ref != 4 {
		t.Errorf("got %+v", ev)
	}
	if ev.String() != "2:1,1:97" {
		t.Errorf("event string %q", ev.String())
	}
}
