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
	"io"
	"log"
	"net"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/xdg-go/stringprep"
)

// Defaults for the zero values in [Options].
const (
	DefaultRendererCommand = "aqtview -headless"
	DefaultDialTimeout     = 2 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultLaunchRetries   = 8
	DefaultBackoff         = 50 * time.Millisecond
	DefaultMaxBackoff      = 2 * time.Second
)

// Options configures a [Session].  The zero value is valid.
type Options struct {
	// Addr is the path of the unix socket where the renderer listens.
	// If this is empty, $AQT_ADDR is used, and if this is not set either,
	// [DefaultAddr].
	Addr string

	// RendererCommand is the command line used to start a renderer if
	// none is listening at Addr.  The arguments "-addr <Addr>" are
	// appended.  If this is empty, $AQT_RENDERER is used, and if this is
	// not set either, [DefaultRendererCommand].
	RendererCommand string

	// ClientName identifies the client to the renderer.  The name is
	// normalized using SASLprep.  The default is the base name of the
	// running program.
	ClientName string

	DialTimeout    time.Duration
	RequestTimeout time.Duration

	// After launching a renderer, the session tries LaunchRetries times
	// to connect.  The delay between attempts starts at Backoff and
	// doubles after every attempt, up to MaxBackoff.
	LaunchRetries int
	Backoff       time.Duration
	MaxBackoff    time.Duration

	// Stream enables sending every committed object to the renderer
	// immediately, instead of only when the plot is rendered.
	Stream bool

	// Logger receives warnings about ignored calls and connection
	// problems.  If this is nil, log messages are discarded.
	Logger *log.Logger

	// ErrorHandler, if set, is called when a connection attempt fails and
	// when the connection to the renderer is lost.
	ErrorHandler func(error)

	// Dial connects to a renderer.  The default dials the unix socket
	// at addr.
	Dial func(ctx context.Context, addr string) (io.ReadWriteCloser, error)

	// Launch starts a renderer process.  The default starts argv[0] with
	// the remaining elements of argv as arguments and does not wait for
	// the process to exit.
	Launch func(ctx context.Context, argv []string) error
}

// DefaultAddr returns the default socket path, $TMPDIR/aqt-$USER/renderer.
func DefaultAddr() string {
	name := os.Getenv("USER")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(os.TempDir(), "aqt-"+name, "renderer")
}

func (o *Options) defaults() {
	if o.Addr == "" {
		o.Addr = os.Getenv("AQT_ADDR")
	}
	if o.Addr == "" {
		o.Addr = DefaultAddr()
	}
	if o.RendererCommand == "" {
		o.RendererCommand = os.Getenv("AQT_RENDERER")
	}
	if o.RendererCommand == "" {
		o.RendererCommand = DefaultRendererCommand
	}
	if o.ClientName == "" {
		o.ClientName = filepath.Base(os.Args[0])
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.LaunchRetries <= 0 {
		o.LaunchRetries = DefaultLaunchRetries
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	if o.MaxBackoff < o.Backoff {
		o.MaxBackoff = max(DefaultMaxBackoff, o.Backoff)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	if o.Dial == nil {
		timeout := o.DialTimeout
		o.Dial = func(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
			d := net.Dialer{Timeout: timeout}
			return d.DialContext(ctx, "unix", addr)
		}
	}
	if o.Launch == nil {
		o.Launch = launch
	}
}

// normalizeName prepares a client name for the handshake.  Names which
// SASLprep rejects are replaced by a neutral one.
func normalizeName(name string) string {
	prepped, err := stringprep.SASLprep.Prepare(name)
	if err != nil || prepped == "" {
		return "aqt-client"
	}
	return prepped
}

// rendererArgv returns the command line used to launch a renderer for
// the socket at addr.
func rendererArgv(command, addr string) []string {
	argv := strings.Fields(command)
	return append(argv, "-addr", addr)
}

func launch(_ context.Context, argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
