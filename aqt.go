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

// Package aqt is a procedural interface for drawing plots in an external
// renderer.
//
// An [Adapter] owns a [session.Session] and exposes its operations as
// simple calls with numeric arguments:
//
//	a := aqt.Init(session.Options{})
//	defer a.Terminate()
//	a.OpenPlot(1)
//	a.SetPlotSize(600, 400)
//	a.AddLabel("Hello", 300, 200, 0, graphic.AlignCenter|graphic.AlignMiddle)
//	a.RenderPlot()
//
// Plotting is best effort: no method of an Adapter returns an error or
// panics.  Problems are logged, and connection failures are in addition
// reported to the error handler.  Calls which need a selected plot do
// nothing when no plot is selected.
package aqt
