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
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/graphic"
)

// A document is the encoded form of a [graphic.Model]:
//
//	size[2 floats] title[s] background[color] defaultclip[clip]
//	n[4] object[n]
//
// Each object starts with its kind byte, followed by the style and the
// variant-specific fields.  An object list, as sent by Tdraw, consists of
// the part starting at n[4].

const maxPoints = MaxMsg / 16

// MaxDoc is the maximal size of a document or object list which fits into
// a single Trender or Tdraw message.
const MaxDoc = MaxMsg - 64

// EncodeModel returns the document form of m.
func EncodeModel(m *graphic.Model) (res []byte, err error) {
	defer recoverEncode(&res, &err)

	b := pvec(nil, m.Size)
	b = pstring(b, m.Title)
	b = pcolor(b, m.Background)
	b = pclip(b, m.DefaultClip)
	return pobjects(b, m.Objects()), nil
}

// SplitModel encodes m for transmission in messages carrying at most limit
// bytes of document data each.  The returned doc holds the header of m
// together with as many objects as fit, and each element of more is an
// object list with the following objects.  An error is returned if a
// single object does not fit into limit bytes.
func SplitModel(m *graphic.Model, limit int) (doc []byte, more [][]byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(ProtocolError)
			if !ok {
				panic(r)
			}
			doc, more, err = nil, nil, perr
		}
	}()

	b := pvec(nil, m.Size)
	b = pstring(b, m.Title)
	b = pcolor(b, m.Background)
	b = pclip(b, m.DefaultClip)

	objs := m.Objects()
	doc, n := packObjects(b, objs, limit)
	objs = objs[n:]
	for len(objs) > 0 {
		var chunk []byte
		chunk, n = packObjects(nil, objs, limit)
		more = append(more, chunk)
		objs = objs[n:]
	}
	return doc, more, nil
}

// packObjects appends an object list holding a prefix of objs to b, such
// that the result is at most limit bytes long.  The number of objects used
// is returned.  At least one object is used, unless objs is empty.
func packObjects(b []byte, objs []graphic.Object, limit int) ([]byte, int) {
	countAt := len(b)
	b = pbit32(b, 0)
	if len(b) > limit {
		panic(ProtocolError("document header too large"))
	}
	n := 0
	for _, obj := range objs {
		next := pobject(b, obj)
		if len(next) > limit {
			if n == 0 && countAt == 0 {
				panic(ProtocolError(fmt.Sprintf("%s too large", obj.Kind())))
			}
			break
		}
		b = next
		n++
	}
	pbit32(b[countAt:countAt], uint32(n))
	return b, n
}

// EncodeObjects returns the encoded form of an object list.
func EncodeObjects(objs []graphic.Object) (res []byte, err error) {
	defer recoverEncode(&res, &err)
	return pobjects(nil, objs), nil
}

// DecodeModel decodes a document.
func DecodeModel(b []byte) (m *graphic.Model, err error) {
	defer recoverDecode(&err)

	m = graphic.NewModel()
	m.Size, b = gvec(b)
	m.Title, b = gstring(b)
	m.Background, b = gcolor(b)
	m.DefaultClip, b = gclip(b)
	objs, b := gobjects(b)
	if len(b) != 0 {
		panic(ProtocolError("trailing data after document"))
	}
	for _, obj := range objs {
		m.Append(obj)
	}
	return m, nil
}

// DecodeObjects decodes an object list.
func DecodeObjects(b []byte) (objs []graphic.Object, err error) {
	defer recoverDecode(&err)

	objs, b = gobjects(b)
	if len(b) != 0 {
		panic(ProtocolError("trailing data after object list"))
	}
	return objs, nil
}

func recoverEncode(res *[]byte, err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(ProtocolError)
		if !ok {
			panic(r)
		}
		*res = nil
		*err = perr
	}
}

func recoverDecode(err *error) {
	if r := recover(); r != nil {
		if perr, ok := r.(ProtocolError); ok {
			*err = perr
		} else {
			*err = ProtocolError("malformed document")
		}
	}
}

func pobjects(b []byte, objs []graphic.Object) []byte {
	b = pbit32(b, uint32(len(objs)))
	for _, obj := range objs {
		b = pobject(b, obj)
	}
	return b
}

func gobjects(b []byte) ([]graphic.Object, []byte) {
	n, b := gbit32(b)
	if n > maxPoints {
		panic(ProtocolError("too many objects"))
	}
	objs := make([]graphic.Object, 0, n)
	for i := uint32(0); i < n; i++ {
		var obj graphic.Object
		obj, b = gobject(b)
		objs = append(objs, obj)
	}
	return objs, b
}

func pobject(b []byte, obj graphic.Object) []byte {
	b = pbit8(b, uint8(obj.Kind()))
	b = pstyle(b, obj.ObjectStyle())

	switch obj := obj.(type) {
	case *graphic.Line:
		b = pclip(b, obj.Clip)
		b = pdash(b, obj.Dash)
		b = ppoints(b, obj.Points)
	case *graphic.Polygon:
		b = pclip(b, obj.Clip)
		b = pdash(b, obj.Dash)
		b = ppoints(b, obj.Points)
	case *graphic.Patch:
		b = pclip(b, obj.Clip)
		b = ppoints(b, obj.Points)
	case *graphic.Label:
		b = pclip(b, obj.Clip)
		b = ptext(b, obj.Text)
		b = pvec(b, obj.Pos)
		b = pfloat(b, obj.Angle)
		b = pfloat(b, obj.Shear)
		b = pbit8(b, uint8(obj.Align))
		b = pstring(b, obj.FontName)
		b = pfloat(b, obj.FontSize)
	case *graphic.Image:
		b = pclip(b, obj.Clip)
		b = pbit32(b, uint32(obj.Width))
		b = pbit32(b, uint32(obj.Height))
		b = pbytes(b, obj.Pix)
		b = prect(b, obj.Dest)
		b = pbool(b, obj.HasTransform)
		if obj.HasTransform {
			for _, x := range obj.Transform {
				b = pfloat(b, x)
			}
		}
	case *graphic.ClearRegion:
		b = prect(b, obj.Rect)
	default:
		panic(ProtocolError(fmt.Sprintf("cannot encode %T", obj)))
	}
	return b
}

func gobject(b []byte) (graphic.Object, []byte) {
	kind, b := gbit8(b)
	style, b := gstyle(b)

	switch graphic.Kind(kind) {
	case graphic.KindLine:
		obj := &graphic.Line{Style: style}
		obj.Clip, b = gclip(b)
		obj.Dash, b = gdash(b)
		obj.Points, b = gpoints(b)
		return obj, b
	case graphic.KindPolygon:
		obj := &graphic.Polygon{Style: style}
		obj.Clip, b = gclip(b)
		obj.Dash, b = gdash(b)
		obj.Points, b = gpoints(b)
		return obj, b
	case graphic.KindPatch:
		obj := &graphic.Patch{Style: style}
		obj.Clip, b = gclip(b)
		obj.Points, b = gpoints(b)
		return obj, b
	case graphic.KindLabel:
		obj := &graphic.Label{Style: style}
		obj.Clip, b = gclip(b)
		obj.Text, b = gtext(b)
		obj.Pos, b = gvec(b)
		obj.Angle, b = gfloat(b)
		obj.Shear, b = gfloat(b)
		var align uint8
		align, b = gbit8(b)
		obj.Align = graphic.Align(align)
		obj.FontName, b = gstring(b)
		obj.FontSize, b = gfloat(b)
		return obj, b
	case graphic.KindImage:
		obj := &graphic.Image{Style: style}
		obj.Clip, b = gclip(b)
		var w, h uint32
		w, b = gbit32(b)
		h, b = gbit32(b)
		obj.Pix, b = gbytes(b)
		if uint64(len(obj.Pix)) != 3*uint64(w)*uint64(h) {
			panic(ProtocolError("image size mismatch"))
		}
		obj.Width, obj.Height = int(w), int(h)
		obj.Dest, b = grect(b)
		obj.HasTransform, b = gbool(b)
		if obj.HasTransform {
			var M matrix.Matrix
			for i := range M {
				M[i], b = gfloat(b)
			}
			obj.Transform = M
		}
		return obj, b
	case graphic.KindClear:
		obj := &graphic.ClearRegion{Style: style}
		obj.Rect, b = grect(b)
		return obj, b
	default:
		panic(ProtocolError(fmt.Sprintf("unknown object kind %d", kind)))
	}
}

func pcolor(b []byte, c graphic.Color) []byte {
	b = pfloat(b, c.R)
	b = pfloat(b, c.G)
	b = pfloat(b, c.B)
	return pfloat(b, c.A)
}

func gcolor(b []byte) (graphic.Color, []byte) {
	var c graphic.Color
	c.R, b = gfloat(b)
	c.G, b = gfloat(b)
	c.B, b = gfloat(b)
	c.A, b = gfloat(b)
	return c, b
}

func pstyle(b []byte, s graphic.Style) []byte {
	b = pcolor(b, s.Color)
	b = pfloat(b, s.LineWidth)
	return pbit8(b, uint8(s.LineCap))
}

func gstyle(b []byte) (graphic.Style, []byte) {
	var s graphic.Style
	s.Color, b = gcolor(b)
	s.LineWidth, b = gfloat(b)
	var lineCap uint8
	lineCap, b = gbit8(b)
	s.LineCap = graphic.LineCap(lineCap)
	if !s.LineCap.IsValid() {
		panic(ProtocolError(fmt.Sprintf("invalid line cap %d", lineCap)))
	}
	return s, b
}

func pvec(b []byte, v vec.Vec2) []byte {
	b = pfloat(b, v.X)
	return pfloat(b, v.Y)
}

func gvec(b []byte) (vec.Vec2, []byte) {
	var v vec.Vec2
	v.X, b = gfloat(b)
	v.Y, b = gfloat(b)
	return v, b
}

func prect(b []byte, r rect.Rect) []byte {
	b = pfloat(b, r.LLx)
	b = pfloat(b, r.LLy)
	b = pfloat(b, r.URx)
	return pfloat(b, r.URy)
}

func grect(b []byte) (rect.Rect, []byte) {
	var r rect.Rect
	r.LLx, b = gfloat(b)
	r.LLy, b = gfloat(b)
	r.URx, b = gfloat(b)
	r.URy, b = gfloat(b)
	return r, b
}

func pclip(b []byte, r *rect.Rect) []byte {
	if r == nil {
		return pbool(b, false)
	}
	b = pbool(b, true)
	return prect(b, *r)
}

func gclip(b []byte) (*rect.Rect, []byte) {
	ok, b := gbool(b)
	if !ok {
		return nil, b
	}
	r, b := grect(b)
	return &r, b
}

func ppoints(b []byte, pts []vec.Vec2) []byte {
	if len(pts) > maxPoints {
		panic(ProtocolError("too many points"))
	}
	b = pbit32(b, uint32(len(pts)))
	for _, p := range pts {
		b = pvec(b, p)
	}
	return b
}

func gpoints(b []byte) ([]vec.Vec2, []byte) {
	n, b := gbit32(b)
	if uint64(n)*16 > uint64(len(b)) {
		panic(ProtocolError("short point list"))
	}
	pts := make([]vec.Vec2, n)
	for i := range pts {
		pts[i], b = gvec(b)
	}
	return pts, b
}

func pdash(b []byte, d graphic.Dash) []byte {
	if len(d.Pattern) > graphic.MaxDashLen {
		panic(ProtocolError("dash pattern too long"))
	}
	b = pbit8(b, uint8(len(d.Pattern)))
	for _, x := range d.Pattern {
		b = pfloat(b, x)
	}
	return pfloat(b, d.Phase)
}

func gdash(b []byte) (graphic.Dash, []byte) {
	n, b := gbit8(b)
	if int(n) > graphic.MaxDashLen {
		panic(ProtocolError("dash pattern too long"))
	}
	var d graphic.Dash
	if n > 0 {
		d.Pattern = make([]float64, n)
		for i := range d.Pattern {
			d.Pattern[i], b = gfloat(b)
		}
	}
	d.Phase, b = gfloat(b)
	return d, b
}

func ptext(b []byte, t graphic.Text) []byte {
	if len(t) >= 1<<16 {
		panic(ProtocolError("too many text runs"))
	}
	b = pbit16(b, uint16(len(t)))
	for _, r := range t {
		b = pstring(b, r.Text)
		b = pbit8(b, uint8(int8(r.Superscript)))
		b = pbool(b, r.Underline)
	}
	return b
}

func gtext(b []byte) (graphic.Text, []byte) {
	n, b := gbit16(b)
	t := make(graphic.Text, n)
	for i := range t {
		t[i].Text, b = gstring(b)
		var sup uint8
		sup, b = gbit8(b)
		t[i].Superscript = int(int8(sup))
		t[i].Underline, b = gbool(b)
	}
	return t, b
}
