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
	"fmt"
	"math"

	"seehuhn.de/go/aqt/wire"
)

// OpenPlot makes the plot with the given reference number the selected
// plot.  If the plot does not exist yet, it is created.  If it exists, its
// contents and document attributes are reset, so that the plot is always
// empty after OpenPlot returns.  The drawing state of an existing plot is
// kept.
//
// Reference numbers must fit into 32 bits; for other values [ErrBadRef] is
// returned and the session is left unchanged.
// OpenPlot connects to the renderer if needed.
func (s *Session) OpenPlot(ctx context.Context, ref int) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if err := s.EnsureConnected(ctx); err != nil {
		return err
	}

	s.plotsMu.Lock()
	e, exists := s.plots[ref]
	if !exists {
		e = s.newEntry(ref)
		s.plots[ref] = e
	}
	s.plotsMu.Unlock()

	s.deselect(ctx, ref)
	if exists {
		e.mu.Lock()
		e.b.Clear()
		e.b.SetTitle(defaultTitle(ref))
		e.mu.Unlock()
	}
	s.setSelected(ref)

	_, err := s.call(ctx, &wire.Msg{Type: wire.Topen, Ref: int32(ref)})
	return err
}

// SelectPlot makes an existing plot the selected plot.  If there is no plot
// with the given reference number, false is returned and the selection is
// not changed.
func (s *Session) SelectPlot(ctx context.Context, ref int) (bool, error) {
	if err := s.checkConnected(); err != nil {
		return false, err
	}
	if s.lookup(ref) == nil {
		return false, nil
	}

	s.deselect(ctx, ref)
	s.setSelected(ref)

	_, err := s.call(ctx, &wire.Msg{Type: wire.Tselect, Ref: int32(ref)})
	return true, err
}

// ClearPlot removes all objects from the selected plot and resets its
// document attributes.
func (s *Session) ClearPlot(ctx context.Context) error {
	e, err := s.selectedEntry()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.b.Clear()
	e.b.SetTitle(defaultTitle(e.ref))
	e.mu.Unlock()

	_, err = s.call(ctx, &wire.Msg{Type: wire.Tclear, Ref: int32(e.ref)})
	return err
}

// ClosePlot closes the selected plot.  See [Session.ClosePlotRef].
func (s *Session) ClosePlot(ctx context.Context) error {
	ref, ok := s.Selected()
	if !ok {
		return ErrNoPlot
	}
	return s.ClosePlotRef(ctx, ref)
}

// ClosePlotRef removes a plot from the registry.  The renderer is told that
// the plot will receive no further updates; it may keep showing the last
// rendered state.
func (s *Session) ClosePlotRef(ctx context.Context, ref int) error {
	s.plotsMu.Lock()
	_, ok := s.plots[ref]
	delete(s.plots, ref)
	s.plotsMu.Unlock()
	if !ok {
		return fmt.Errorf("plot %d: no such plot", ref)
	}

	s.mu.Lock()
	if s.hasSelected && s.selected == ref {
		s.hasSelected = false
	}
	if s.hasAccepting && s.accepting == ref {
		s.hasAccepting = false
	}
	s.mu.Unlock()

	if s.checkConnected() != nil {
		return nil
	}
	_, err := s.call(ctx, &wire.Msg{Type: wire.Tclose, Ref: int32(ref)})
	return err
}

// Render sends the selected plot to the renderer.  Nothing is sent if the
// plot has not changed since it was last rendered.
func (s *Session) Render(ctx context.Context) error {
	e, err := s.selectedEntry()
	if err != nil {
		return err
	}
	c := s.currentConn()
	if c == nil {
		return s.checkConnected()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.b.IsDirty() {
		return nil
	}
	return s.sendModel(ctx, c, e)
}

// deselect prepares the change of the selection to ref.  The open path of
// the previously selected plot is finalized and event delivery for any
// other plot is switched off.
func (s *Session) deselect(ctx context.Context, ref int) {
	s.mu.Lock()
	prev, hadPrev := s.selected, s.hasSelected
	acc, hadAcc := s.accepting, s.hasAccepting
	s.mu.Unlock()

	if hadPrev && prev != ref {
		if e := s.lookup(prev); e != nil {
			e.mu.Lock()
			e.b.Finalize()
			e.mu.Unlock()
		}
	}
	if hadAcc && acc != ref {
		if err := s.setAccepting(ctx, acc, false); err != nil {
			s.log.Printf("plot %d: disabling events: %v", acc, err)
		}
	}
}

func (s *Session) setSelected(ref int) {
	s.mu.Lock()
	s.selected = ref
	s.hasSelected = true
	s.mu.Unlock()
}

func (s *Session) selectedEntry() (*plotEntry, error) {
	ref, ok := s.Selected()
	if !ok {
		return nil, ErrNoPlot
	}
	e := s.lookup(ref)
	if e == nil {
		return nil, ErrNoPlot
	}
	return e, nil
}

func (s *Session) checkConnected() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return ErrClosed
	case s.state == Dead:
		return ErrConnectionLost
	case s.state != Connected:
		return ErrNotConnected
	}
	return nil
}

func checkRef(ref int) error {
	if int64(ref) < math.MinInt32 || int64(ref) > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrBadRef, ref)
	}
	return nil
}
