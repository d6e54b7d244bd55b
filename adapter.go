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
	"context"
	"log"
	"os"
	"sync"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/plot"
	"seehuhn.de/go/aqt/session"
)

// Adapter is the procedural front end of a session.
type Adapter struct {
	s       *session.Session
	log     *log.Logger
	timeout time.Duration
}

// Init creates a new adapter.  No connection is made until the first plot
// is opened.  If opts.Logger is nil, messages are written to standard error
// with the prefix "aqt: ".
func Init(opts session.Options) *Adapter {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr, "aqt: ", 0)
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = session.DefaultRequestTimeout
	}
	return &Adapter{
		s:       session.New(opts),
		log:     opts.Logger,
		timeout: timeout,
	}
}

var (
	defaultOnce    sync.Once
	defaultAdapter *Adapter
)

// Default returns a process-wide adapter with default options, creating it
// on first use.
func Default() *Adapter {
	defaultOnce.Do(func() {
		defaultAdapter = Init(session.Options{})
	})
	return defaultAdapter
}

// Terminate closes the connection to the renderer and discards all plots.
func (a *Adapter) Terminate() {
	if err := a.s.Close(); err != nil {
		a.log.Printf("Terminate: %v", err)
	}
}

// Session returns the session used by a.
func (a *Adapter) Session() *session.Session {
	return a.s
}

func (a *Adapter) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout)
}

// SetErrorHandler installs a function which is called when the renderer
// cannot be reached or when the connection is lost.
func (a *Adapter) SetErrorHandler(h func(error)) {
	a.s.SetErrorHandler(h)
}

// SetEventHandler installs a function which is called for every event
// received from the renderer.  See [session.Session.SetEventHandler].
func (a *Adapter) SetEventHandler(h event.Handler) {
	a.s.SetEventHandler(h)
}

// OpenPlot selects the plot with the given reference number, creating it
// if needed.  An existing plot is cleared.  The return value reports
// whether the plot was opened.  Reference numbers outside the 32-bit range
// are logged and ignored.
func (a *Adapter) OpenPlot(ref int) bool {
	ctx, cancel := a.ctx()
	defer cancel()
	err := a.s.OpenPlot(ctx, ref)
	if err != nil {
		a.log.Printf("OpenPlot: %v", err)
	}
	return err == nil
}

// SelectPlot selects an existing plot.  If the plot does not exist, the
// selection is not changed and false is returned.
func (a *Adapter) SelectPlot(ref int) bool {
	ctx, cancel := a.ctx()
	defer cancel()
	found, err := a.s.SelectPlot(ctx, ref)
	if err != nil {
		a.log.Printf("SelectPlot: %v", err)
	}
	return found
}

// ClearPlot removes everything from the selected plot.
func (a *Adapter) ClearPlot() {
	ctx, cancel := a.ctx()
	defer cancel()
	a.check("ClearPlot", a.s.ClearPlot(ctx))
}

// ClosePlot closes the selected plot.
func (a *Adapter) ClosePlot() {
	ctx, cancel := a.ctx()
	defer cancel()
	a.check("ClosePlot", a.s.ClosePlot(ctx))
}

// RenderPlot sends the selected plot to the renderer.
func (a *Adapter) RenderPlot() {
	ctx, cancel := a.ctx()
	defer cancel()
	a.check("RenderPlot", a.s.Render(ctx))
}

func (a *Adapter) check(op string, err error) {
	if err != nil {
		a.log.Printf("%s: %v", op, err)
	}
}

// SetPlotSize sets the canvas size of the selected plot.
func (a *Adapter) SetPlotSize(width, height float64) {
	a.s.Do("SetPlotSize", func(b *plot.Builder) { b.SetSize(width, height) })
}

// SetPlotTitle sets the title of the selected plot.
func (a *Adapter) SetPlotTitle(title string) {
	a.s.Do("SetPlotTitle", func(b *plot.Builder) { b.SetTitle(title) })
}

// SetColor sets the drawing color.  Components are clamped to [0, 1].
func (a *Adapter) SetColor(r, g, b float64) {
	a.s.Do("SetColor", func(pb *plot.Builder) { pb.SetColor(graphic.RGB(r, g, b)) })
}

// SetAlphaColor sets the drawing color including its opacity.
func (a *Adapter) SetAlphaColor(r, g, b, alpha float64) {
	a.s.Do("SetAlphaColor", func(pb *plot.Builder) { pb.SetColor(graphic.RGBA(r, g, b, alpha)) })
}

// SetBackgroundColor sets the background color of the selected plot.
func (a *Adapter) SetBackgroundColor(r, g, b float64) {
	a.s.Do("SetBackgroundColor", func(pb *plot.Builder) {
		pb.SetBackgroundColor(graphic.RGB(r, g, b))
	})
}

// Color returns the drawing color.  Without a selected plot, all
// components are 0.
func (a *Adapter) Color() (r, g, b, alpha float64) {
	a.s.Do("Color", func(pb *plot.Builder) {
		c := pb.Color()
		r, g, b, alpha = c.R, c.G, c.B, c.A
	})
	return
}

// BackgroundColor returns the background color.  Without a selected plot,
// all components are 0.
func (a *Adapter) BackgroundColor() (r, g, b, alpha float64) {
	a.s.Do("BackgroundColor", func(pb *plot.Builder) {
		c := pb.BackgroundColor()
		r, g, b, alpha = c.R, c.G, c.B, c.A
	})
	return
}

// SetColormapEntry changes entry i of the colormap.
func (a *Adapter) SetColormapEntry(i int, r, g, b, alpha float64) {
	a.s.Do("SetColormapEntry", func(pb *plot.Builder) {
		pb.SetColormapEntry(i, graphic.RGBA(r, g, b, alpha))
	})
}

// ColormapEntry returns entry i of the colormap.  If i is out of range, or
// if no plot is selected, all components are 0.
func (a *Adapter) ColormapEntry(i int) (r, g, b, alpha float64) {
	a.s.Do("ColormapEntry", func(pb *plot.Builder) {
		c, err := pb.ColormapEntry(i)
		if err != nil {
			a.log.Printf("ColormapEntry: %v", err)
			return
		}
		r, g, b, alpha = c.R, c.G, c.B, c.A
	})
	return
}

// TakeColorFromColormapEntry sets the drawing color to entry i of the
// colormap.
func (a *Adapter) TakeColorFromColormapEntry(i int) {
	a.s.Do("TakeColorFromColormapEntry", func(pb *plot.Builder) { pb.TakeColorFromColormap(i) })
}

// TakeBackgroundColorFromColormapEntry sets the background color to entry i
// of the colormap.
func (a *Adapter) TakeBackgroundColorFromColormapEntry(i int) {
	a.s.Do("TakeBackgroundColorFromColormapEntry", func(pb *plot.Builder) {
		pb.TakeBackgroundColorFromColormap(i)
	})
}

// SetFontName sets the font for new labels.
func (a *Adapter) SetFontName(name string) {
	a.s.Do("SetFontName", func(b *plot.Builder) { b.SetFontName(name) })
}

// SetFontSize sets the font size for new labels, in points.
func (a *Adapter) SetFontSize(size float64) {
	a.s.Do("SetFontSize", func(b *plot.Builder) { b.SetFontSize(size) })
}

// AddLabel adds a text label anchored at (x, y).  The angle is in degrees.
func (a *Adapter) AddLabel(text string, x, y, angle float64, align graphic.Align) {
	a.s.Do("AddLabel", func(b *plot.Builder) {
		b.AddLabel(text, vec.Vec2{X: x, Y: y}, angle, align)
	})
}

// AddShearedLabel adds a text label with slanted glyphs.
func (a *Adapter) AddShearedLabel(text string, x, y, angle, shear float64, align graphic.Align) {
	a.s.Do("AddShearedLabel", func(b *plot.Builder) {
		b.AddShearedLabel(text, vec.Vec2{X: x, Y: y}, angle, shear, align)
	})
}

// SetLineWidth sets the width of lines and polygon outlines.
func (a *Adapter) SetLineWidth(width float64) {
	a.s.Do("SetLineWidth", func(b *plot.Builder) { b.SetLineWidth(width) })
}

// SetLinestylePattern sets a dash pattern of at most eight entries.
func (a *Adapter) SetLinestylePattern(pattern []float64, phase float64) {
	a.s.Do("SetLinestylePattern", func(b *plot.Builder) { b.SetLineStyle(pattern, phase) })
}

// SetLinestyleSolid switches back to solid lines.
func (a *Adapter) SetLinestyleSolid() {
	a.s.Do("SetLinestyleSolid", func(b *plot.Builder) { b.SetLineStyleSolid() })
}

// SetLineCapStyle sets the shape of line ends.
func (a *Adapter) SetLineCapStyle(lineCap graphic.LineCap) {
	a.s.Do("SetLineCapStyle", func(b *plot.Builder) { b.SetLineCap(lineCap) })
}

// MoveTo starts a new line at (x, y).
func (a *Adapter) MoveTo(x, y float64) {
	a.s.Do("MoveTo", func(b *plot.Builder) { b.MoveTo(vec.Vec2{X: x, Y: y}) })
}

// AddLineTo extends the current line to (x, y).
func (a *Adapter) AddLineTo(x, y float64) {
	a.s.Do("AddLineTo", func(b *plot.Builder) { b.LineTo(vec.Vec2{X: x, Y: y}) })
}

// AddPolyline adds a complete line through the given points.
func (a *Adapter) AddPolyline(x, y []float64) {
	pts, ok := a.points("AddPolyline", x, y)
	if !ok {
		return
	}
	a.s.Do("AddPolyline", func(b *plot.Builder) { b.AddPolyline(pts) })
}

// MoveToVertex starts a new polygon at (x, y).
func (a *Adapter) MoveToVertex(x, y float64) {
	a.s.Do("MoveToVertex", func(b *plot.Builder) { b.MoveToVertex(vec.Vec2{X: x, Y: y}) })
}

// AddEdgeToVertex adds a vertex to the current polygon.
func (a *Adapter) AddEdgeToVertex(x, y float64) {
	a.s.Do("AddEdgeToVertex", func(b *plot.Builder) { b.AddEdgeTo(vec.Vec2{X: x, Y: y}) })
}

// AddPolygon adds a complete polygon outline.
func (a *Adapter) AddPolygon(x, y []float64) {
	pts, ok := a.points("AddPolygon", x, y)
	if !ok {
		return
	}
	a.s.Do("AddPolygon", func(b *plot.Builder) { b.AddPolygon(pts) })
}

// AddPatch adds a filled polygon.
func (a *Adapter) AddPatch(x, y []float64) {
	pts, ok := a.points("AddPatch", x, y)
	if !ok {
		return
	}
	a.s.Do("AddPatch", func(b *plot.Builder) { b.AddPatch(pts) })
}

// AddFilledRect adds a filled rectangle with lower left corner (x, y).
func (a *Adapter) AddFilledRect(x, y, width, height float64) {
	a.s.Do("AddFilledRect", func(b *plot.Builder) { b.AddFilledRect(xywh(x, y, width, height)) })
}

// EraseRect clears a rectangle to the background color.
func (a *Adapter) EraseRect(x, y, width, height float64) {
	a.s.Do("EraseRect", func(b *plot.Builder) { b.EraseRect(xywh(x, y, width, height)) })
}

// SetImageTransform sets the transformation used by
// [Adapter.AddTransformedImageWithBitmap].
func (a *Adapter) SetImageTransform(m11, m12, m21, m22, tx, ty float64) {
	a.s.Do("SetImageTransform", func(b *plot.Builder) {
		b.SetImageTransform(matrix.Matrix{m11, m12, m21, m22, tx, ty})
	})
}

// ResetImageTransform resets the image transformation to the identity.
func (a *Adapter) ResetImageTransform() {
	a.s.Do("ResetImageTransform", func(b *plot.Builder) { b.ResetImageTransform() })
}

// AddImageWithBitmap adds an RGB image, scaled to fill the given
// rectangle.  The bitmap holds three bytes per pixel.
func (a *Adapter) AddImageWithBitmap(bitmap []byte, pixWide, pixHigh int, destX, destY, destWidth, destHeight float64) {
	a.s.Do("AddImageWithBitmap", func(b *plot.Builder) {
		b.AddImageRGB(bitmap, pixWide, pixHigh, xywh(destX, destY, destWidth, destHeight))
	})
}

// AddTransformedImageWithBitmap adds an RGB image, placed using the image
// transformation and clipped to the given rectangle.
func (a *Adapter) AddTransformedImageWithBitmap(bitmap []byte, pixWide, pixHigh int, clipX, clipY, clipWidth, clipHeight float64) {
	a.s.Do("AddTransformedImageWithBitmap", func(b *plot.Builder) {
		b.AddTransformedImageRGB(bitmap, pixWide, pixHigh, xywh(clipX, clipY, clipWidth, clipHeight))
	})
}

// SetClipRect restricts new objects to a rectangle.
func (a *Adapter) SetClipRect(x, y, width, height float64) {
	a.s.Do("SetClipRect", func(b *plot.Builder) { b.SetClipRect(xywh(x, y, width, height)) })
}

// SetDefaultClipRect removes the clip rectangle for new objects.
func (a *Adapter) SetDefaultClipRect() {
	a.s.Do("SetDefaultClipRect", func(b *plot.Builder) { b.SetDefaultClipRect() })
}

// SetPlotClipRect sets the rectangle to which the renderer clips objects
// without a clip rectangle of their own.
func (a *Adapter) SetPlotClipRect(x, y, width, height float64) {
	a.s.Do("SetPlotClipRect", func(b *plot.Builder) {
		r := xywh(x, y, width, height)
		b.SetDocumentClip(&r)
	})
}

// ResetPlotClipRect makes the renderer clip unclipped objects to the canvas.
func (a *Adapter) ResetPlotClipRect() {
	a.s.Do("ResetPlotClipRect", func(b *plot.Builder) { b.SetDocumentClip(nil) })
}

// SetAcceptingEvents switches event delivery for the selected plot on or
// off.
func (a *Adapter) SetAcceptingEvents(on bool) {
	ctx, cancel := a.ctx()
	defer cancel()
	a.check("SetAcceptingEvents", a.s.SetAcceptingEvents(ctx, on))
}

// GetLastEvent returns the most recent event, or [event.None].
func (a *Adapter) GetLastEvent() event.Event {
	return a.s.PollEvent()
}

// WaitNextEvent waits up to 60 seconds for an event in the selected plot.
func (a *Adapter) WaitNextEvent() event.Event {
	return a.WaitNextEventTimeout(session.DefaultWaitTimeout)
}

// WaitNextEventTimeout waits up to the given time for an event in the
// selected plot.  If no event arrives, [event.None] is returned.
func (a *Adapter) WaitNextEventTimeout(timeout time.Duration) event.Event {
	return a.s.WaitEvent(context.Background(), timeout)
}

func (a *Adapter) points(op string, x, y []float64) ([]vec.Vec2, bool) {
	if len(x) != len(y) {
		a.log.Printf("%s: %d x values but %d y values", op, len(x), len(y))
		return nil, false
	}
	pts := make([]vec.Vec2, len(x))
	for i := range x {
		pts[i] = vec.Vec2{X: x[i], Y: y[i]}
	}
	return pts, true
}

func xywh(x, y, width, height float64) rect.Rect {
	return rect.Rect{LLx: x, LLy: y, URx: x + width, URy: y + height}
}
