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

// Package wire implements the messages exchanged between a plotting client
// and a renderer.
//
// Every message starts with a four byte size (which includes the size field
// itself), followed by a one byte type and a two byte tag.  All integers are
// little endian.  Requests have T-types and are answered by the matching
// R-type, or by Rerror.  The client chooses the tag of a request and the
// renderer copies it into the reply.  Messages with tag NOTAG are one-way:
// Tdraw streams new objects to the renderer and Revent pushes user events
// to the client.
package wire

import (
	"fmt"
	"io"
)

// Version is the protocol version negotiated by Tversion.
const Version = "aqt1"

// MaxMsg is the maximal size of a message.
const MaxMsg = 16 << 20

// NOTAG is the tag of one-way messages.
const NOTAG uint16 = 0xFFFF

// Message types.
const (
	Tversion = 100 + iota
	Rversion
	Terror // illegal
	Rerror
	Topen
	Ropen
	Tselect
	Rselect
	Tclear
	Rclear
	Tclose
	Rclose
	Trender
	Rrender
	Tevents
	Revents
	Tdraw
	Rdraw  // illegal
	Tevent // illegal
	Revent
	Tmax
)

// ProtocolError is returned for messages which cannot be decoded.
type ProtocolError string

func (e ProtocolError) Error() string { return "aqt protocol error: " + string(e) }

// Msg is a single protocol message.  Only the fields relevant for the
// message type are used.
type Msg struct {
	Type uint8
	Tag  uint16

	Ref int32 // all plot operations, Revent

	Version string // Tversion, Rversion
	Client  string // Tversion
	PID     uint32 // Tversion

	On bool // Tevents

	Doc []byte // Trender, Tdraw

	Event string // Revent
	Ename string // Rerror
}

// IsOneWay reports whether m is sent without expecting a reply.
func (m *Msg) IsOneWay() bool {
	return m.Type == Tdraw || m.Type == Revent
}

// Bytes returns the wire representation of m.
func (m *Msg) Bytes() (res []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(ProtocolError)
			if !ok {
				panic(r)
			}
			res = nil
			err = perr
		}
	}()

	b := pbit32(nil, 0) // size, filled in below
	b = pbit8(b, m.Type)
	b = pbit16(b, m.Tag)

	switch m.Type {
	default:
		return nil, ProtocolError(fmt.Sprintf("invalid type %d", m.Type))

	case Tversion:
		b = pstring(b, m.Version)
		b = pstring(b, m.Client)
		b = pbit32(b, m.PID)

	case Rversion:
		b = pstring(b, m.Version)

	case Rerror:
		b = pstring(b, m.Ename)

	case Topen, Tselect, Tclear, Tclose:
		b = pbit32(b, uint32(m.Ref))

	case Trender, Tdraw:
		b = pbit32(b, uint32(m.Ref))
		b = pbytes(b, m.Doc)

	case Tevents:
		b = pbit32(b, uint32(m.Ref))
		b = pbool(b, m.On)

	case Revent:
		b = pbit32(b, uint32(m.Ref))
		b = pstring(b, m.Event)

	case Ropen, Rselect, Rclear, Rclose, Rrender, Revents:
		// nothing
	}

	if len(b) > MaxMsg {
		return nil, ProtocolError(fmt.Sprintf("message too large (%d bytes)", len(b)))
	}
	pbit32(b[0:0], uint32(len(b)))
	return b, nil
}

// Unmarshal decodes a complete message, including the size field.
func Unmarshal(b []byte) (m *Msg, err error) {
	defer func() {
		if recover() != nil {
			m = nil
			err = ProtocolError("malformed message")
		}
	}()

	n, b := gbit32(b)
	if len(b) != int(n)-4 {
		panic(1)
	}

	m = new(Msg)
	m.Type, b = gbit8(b)
	m.Tag, b = gbit16(b)

	var ref uint32
	switch m.Type {
	default:
		panic(1)

	case Tversion:
		m.Version, b = gstring(b)
		m.Client, b = gstring(b)
		m.PID, b = gbit32(b)

	case Rversion:
		m.Version, b = gstring(b)

	case Rerror:
		m.Ename, b = gstring(b)

	case Topen, Tselect, Tclear, Tclose:
		ref, b = gbit32(b)

	case Trender, Tdraw:
		ref, b = gbit32(b)
		m.Doc, b = gbytes(b)

	case Tevents:
		ref, b = gbit32(b)
		m.On, b = gbool(b)

	case Revent:
		ref, b = gbit32(b)
		m.Event, b = gstring(b)

	case Ropen, Rselect, Rclear, Rclose, Rrender, Revents:
		// nothing
	}
	m.Ref = int32(ref)

	if len(b) != 0 {
		panic(1)
	}
	return m, nil
}

// ReadMsg reads one message from r.
func ReadMsg(r io.Reader) (*Msg, error) {
	var size [4]byte
	_, err := io.ReadFull(r, size[:])
	if err != nil {
		return nil, err
	}
	n, _ := gbit32(size[:])
	if n < 7 || n > MaxMsg {
		return nil, ProtocolError(fmt.Sprintf("invalid length %d", n))
	}
	buf := make([]byte, n)
	copy(buf, size[:])
	_, err = io.ReadFull(r, buf[4:])
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return Unmarshal(buf)
}

// WriteMsg writes m to w.
func WriteMsg(w io.Writer, m *Msg) error {
	b, err := m.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

var typeNames = map[uint8]string{
	Tversion: "Tversion",
	Rversion: "Rversion",
	Rerror:   "Rerror",
	Topen:    "Topen",
	Ropen:    "Ropen",
	Tselect:  "Tselect",
	Rselect:  "Rselect",
	Tclear:   "Tclear",
	Rclear:   "Rclear",
	Tclose:   "Tclose",
	Rclose:   "Rclose",
	Trender:  "Trender",
	Rrender:  "Rrender",
	Tevents:  "Tevents",
	Revents:  "Revents",
	Tdraw:    "Tdraw",
	Revent:   "Revent",
}

func (m *Msg) String() string {
	name, ok := typeNames[m.Type]
	if !ok {
		return fmt.Sprintf("unknown type %d", m.Type)
	}
	s := fmt.Sprintf("%s tag %d", name, m.Tag)
	switch m.Type {
	case Tversion:
		s += fmt.Sprintf(" version %q client %q pid %d", m.Version, m.Client, m.PID)
	case Rversion:
		s += fmt.Sprintf(" version %q", m.Version)
	case Rerror:
		s += fmt.Sprintf(" ename %q", m.Ename)
	case Topen, Tselect, Tclear, Tclose:
		s += fmt.Sprintf(" ref %d", m.Ref)
	case Trender, Tdraw:
		s += fmt.Sprintf(" ref %d doc %d bytes", m.Ref, len(m.Doc))
	case Tevents:
		s += fmt.Sprintf(" ref %d on %t", m.Ref, m.On)
	case Revent:
		s += fmt.Sprintf(" ref %d event %q", m.Ref, m.Event)
	}
	return s
}
