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

// Aqtview is a renderer for plots drawn with seehuhn.de/go/aqt.
//
// Usage:
//
//	aqtview [-addr socket] [-headless]
//
// Aqtview listens on a unix socket for client connections.  By default it
// shows the received plots in the terminal: the list on the left selects a
// plot, mouse clicks on the canvas and key presses are sent to the client
// when the plot accepts events.  With -headless, aqtview only retains the
// plots and logs connections; clients start it in this mode when no
// renderer is running.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"seehuhn.de/go/aqt/renderer"
	"seehuhn.de/go/aqt/session"
)

func main() {
	log.SetPrefix("aqtview: ")
	log.SetFlags(0)

	defaultAddr := os.Getenv("AQT_ADDR")
	if defaultAddr == "" {
		defaultAddr = session.DefaultAddr()
	}
	addr := flag.String("addr", defaultAddr, "unix socket to listen on")
	headless := flag.Bool("headless", false, "serve plots without a terminal user interface")
	flag.Parse()

	l, err := listen(*addr)
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(*addr)

	srv := renderer.NewServer()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		srv.Logger = log.Default()
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		err = srv.Serve(l)
		if err != nil && !errors.Is(err, renderer.ErrServerClosed) {
			log.Print(err)
		}
		return
	}

	p := tea.NewProgram(newModel(srv, *addr), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	srv.OnChange = func() {
		go p.Send(plotsChangedMsg{})
	}
	go srv.Serve(l)
	_, err = p.Run()
	srv.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Print(err)
	}
}

// listen creates the socket directory if needed and removes a stale
// socket left behind by a previous renderer.
func listen(addr string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(addr), 0o700); err != nil {
		return nil, err
	}
	if conn, err := net.Dial("unix", addr); err == nil {
		conn.Close()
		return nil, errors.New("another renderer is listening on " + addr)
	}
	if err := os.Remove(addr); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return net.Listen("unix", addr)
}
