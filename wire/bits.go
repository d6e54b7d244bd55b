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

package wire

import (
	"encoding/binary"
	"math"
)

// The p* functions append a value to a buffer, the g* functions consume a
// value from the start of a buffer.  The g* functions panic on short input;
// the decoders recover from this.

func pbit8(b []byte, x uint8) []byte {
	return append(b, x)
}

func pbit16(b []byte, x uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, x)
}

func pbit32(b []byte, x uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, x)
}

func pbit64(b []byte, x uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, x)
}

func pbool(b []byte, x bool) []byte {
	if x {
		return pbit8(b, 1)
	}
	return pbit8(b, 0)
}

func pfloat(b []byte, x float64) []byte {
	return pbit64(b, math.Float64bits(x))
}

func pstring(b []byte, s string) []byte {
	if len(s) >= 1<<16 {
		panic(ProtocolError("string too long"))
	}
	b = pbit16(b, uint16(len(s)))
	return append(b, s...)
}

func pbytes(b []byte, data []byte) []byte {
	b = pbit32(b, uint32(len(data)))
	return append(b, data...)
}

func gbit8(b []byte) (uint8, []byte) {
	return b[0], b[1:]
}

func gbit16(b []byte) (uint16, []byte) {
	return binary.LittleEndian.Uint16(b), b[2:]
}

func gbit32(b []byte) (uint32, []byte) {
	return binary.LittleEndian.Uint32(b), b[4:]
}

func gbit64(b []byte) (uint64, []byte) {
	return binary.LittleEndian.Uint64(b), b[8:]
}

func gbool(b []byte) (bool, []byte) {
	x, b := gbit8(b)
	if x > 1 {
		panic(ProtocolError("invalid boolean"))
	}
	return x == 1, b
}

func gfloat(b []byte) (float64, []byte) {
	x, b := gbit64(b)
	return math.Float64frombits(x), b
}

func gstring(b []byte) (string, []byte) {
	n, b := gbit16(b)
	return string(b[:n]), b[n:]
}

func gbytes(b []byte) ([]byte, []byte) {
	n, b := gbit32(b)
	if uint64(n) > uint64(len(b)) {
		panic(ProtocolError("short buffer"))
	}
	return append([]byte(nil), b[:n]...), b[n:]
}
