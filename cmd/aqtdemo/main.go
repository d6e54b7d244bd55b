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

// Aqtdemo draws a demonstration plot.
//
// If a terminal is attached, aqtdemo then waits for a mouse click or a key
// press in the plot window and prints the event.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"golang.org/x/term"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/plot"
	"seehuhn.de/go/aqt/session"
)

func main() {
	log.SetPrefix("aqtdemo: ")
	log.SetFlags(0)

	addr := flag.String("addr", "", "renderer socket (default $AQT_ADDR)")
	wait := flag.Duration("wait", session.DefaultWaitTimeout, "how long to wait for an event")
	flag.Parse()

	a := aqt.Init(session.Options{
		Addr:   *addr,
		Logger: log.Default(),
	})
	defer a.Terminate()

	if !a.OpenPlot(1) {
		log.Fatal("no renderer available")
	}
	drawDemo(a)
	a.RenderPlot()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	fmt.Println("click into the plot or press a key there")
	ev := a.WaitNextEventTimeout(*wait)
	if ev.IsNone() {
		fmt.Println("no event")
		return
	}
	fmt.Println("event:", ev)
}

func drawDemo(a *aqt.Adapter) {
	const w, h = 620, 420
	a.SetPlotSize(w, h)
	a.SetPlotTitle("aqt demo")

	// frame
	a.SetLineWidth(0.5)
	a.TakeColorFromColormapEntry(1)
	a.AddPolygon([]float64{60, 580, 580, 60}, []float64{60, 60, 380, 380})

	// a sine curve
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		t := float64(i) / float64(n-1)
		x[i] = 60 + 520*t
		y[i] = 220 + 140*math.Sin(2*math.Pi*t)
	}
	a.SetLineWidth(2)
	a.TakeColorFromColormapEntry(2)
	a.AddPolyline(x, y)

	// a dashed line segment by segment
	a.SetLinestylePattern([]float64{6, 3}, 0)
	a.TakeColorFromColormapEntry(4)
	a.MoveTo(60, 220)
	for i := 1; i <= 8; i++ {
		a.AddLineTo(60+65*float64(i), 220)
	}
	a.SetLinestyleSolid()

	// colormap swatches
	for i := 0; i < 12; i++ {
		a.TakeColorFromColormapEntry(i)
		a.AddFilledRect(60+float64(i)*20, 20, 16, 16)
	}

	a.SetColor(0, 0, 0)
	a.SetFontName("Helvetica")
	a.SetFontSize(16)
	a.AddLabel("sin(2πt)", w/2, 395, 0, graphic.AlignCenter|graphic.AlignBaseline)
	a.AddShearedLabel("slanted", 600, 220, 90, 20, graphic.AlignCenter|graphic.AlignMiddle)

	a.Session().Do("AddRichLabel", func(b *plot.Builder) {
		b.AddRichLabel(graphic.Text{
			{Text: "e"},
			{Text: "iπ", Superscript: 1},
			{Text: " + 1 = 0"},
		}, vec.Vec2{X: 80, Y: 340}, 0, 0, graphic.AlignLeft|graphic.AlignBaseline)
	})

	// a small gradient image
	const iw, ih = 16, 8
	pix := make([]byte, 0, 3*iw*ih)
	for j := 0; j < ih; j++ {
		for i := 0; i < iw; i++ {
			pix = append(pix, byte(255*i/(iw-1)), byte(255*j/(ih-1)), 128)
		}
	}
	a.AddImageWithBitmap(pix, iw, ih, 460, 300, 100, 50)
}
