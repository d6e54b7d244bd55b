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

package plot

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/aqt/graphic"
)

// AddImage appends img, scaled to fill dest.
func (b *Builder) AddImage(img image.Image, dest rect.Rect) {
	if !b.isValid() {
		return
	}
	if err := checkImageSize("AddImage", img.Bounds()); err != nil {
		b.Err = err
		return
	}
	pix, w, h := packRGB(img)
	b.addImage("AddImage", pix, w, h, dest, false)
}

// AddImageRGB appends an image given as packed 8-bit RGB samples, scaled to
// fill dest.  The buffer must contain exactly 3*width*height bytes and is
// copied.
func (b *Builder) AddImageRGB(pix []byte, width, height int, dest rect.Rect) {
	if !b.isValid() {
		return
	}
	b.addImage("AddImageRGB", append([]byte(nil), pix...), width, height, dest, false)
}

// AddTransformedImage appends img, mapped by the current image
// transformation and clipped to clip.
func (b *Builder) AddTransformedImage(img image.Image, clip rect.Rect) {
	if !b.isValid() {
		return
	}
	if err := checkImageSize("AddTransformedImage", img.Bounds()); err != nil {
		b.Err = err
		return
	}
	pix, w, h := packRGB(img)
	b.addImage("AddTransformedImage", pix, w, h, clip, true)
}

// AddTransformedImageRGB is like [Builder.AddTransformedImage] for packed
// RGB samples.
func (b *Builder) AddTransformedImageRGB(pix []byte, width, height int, clip rect.Rect) {
	if !b.isValid() {
		return
	}
	b.addImage("AddTransformedImageRGB", append([]byte(nil), pix...), width, height, clip, true)
}

func (b *Builder) addImage(cmd string, pix []byte, w, h int, dest rect.Rect, transformed bool) {
	if err := checkImageSize(cmd, image.Rect(0, 0, w, h)); err != nil {
		b.Err = err
		return
	}
	if len(pix) != 3*w*h {
		b.Err = fmt.Errorf("%s: got %d bytes for a %dx%d image, want %d",
			cmd, len(pix), w, h, 3*w*h)
		return
	}
	im := &graphic.Image{
		Pix:    pix,
		Width:  w,
		Height: h,
		Dest:   normalize(dest),
		Style:  b.State.Style(),
		Clip:   b.State.clip(),
	}
	if transformed {
		im.Transform = b.State.ImageTransform
		im.HasTransform = true
	}
	b.add(im)
}

// checkImageSize verifies that an image with the given bounds is not empty
// and that its pixel data fits into [graphic.MaxImageBytes].
func checkImageSize(cmd string, r image.Rectangle) error {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%s: invalid image size %dx%d", cmd, w, h)
	}
	if w > graphic.MaxImageBytes/(3*h) {
		return fmt.Errorf("%s: %dx%d image too large", cmd, w, h)
	}
	return nil
}

// packRGB converts img to packed 8-bit RGB samples, dropping the alpha
// channel.
func packRGB(img image.Image) ([]byte, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(tmp, tmp.Bounds(), img, bounds.Min, draw.Src)

	pix := make([]byte, 0, 3*w*h)
	for y := 0; y < h; y++ {
		row := tmp.Pix[y*tmp.Stride : y*tmp.Stride+4*w]
		for x := 0; x < w; x++ {
			pix = append(pix, row[4*x], row[4*x+1], row[4*x+2])
		}
	}
	return pix, w, h
}
