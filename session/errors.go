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

import "errors"

var (
	// ErrConnectionFailed indicates that no renderer could be reached,
	// even after trying to launch one.
	ErrConnectionFailed = errors.New("cannot connect to renderer")

	// ErrConnectionLost indicates that the renderer went away while the
	// session was connected.
	ErrConnectionLost = errors.New("renderer connection lost")

	// ErrNotConnected is returned by operations which need a renderer
	// while the session is not connected.
	ErrNotConnected = errors.New("not connected to a renderer")

	// ErrNoPlot is returned by operations on the selected plot when no
	// plot is selected.
	ErrNoPlot = errors.New("no plot selected")

	// ErrBadRef is returned by OpenPlot for reference numbers which cannot
	// be represented on the wire.
	ErrBadRef = errors.New("plot reference out of range")

	// ErrClosed is returned after the session has been closed.
	ErrClosed = errors.New("session closed")
)

// RendererError is an error reported by the renderer in reply to a request.
type RendererError string

func (e RendererError) Error() string { return "renderer: " + string(e) }
