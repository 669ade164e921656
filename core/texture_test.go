// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/devblok/shed/core"
	"github.com/devblok/shed/device"
	"github.com/devblok/shed/device/devicetest"
	qt "github.com/frankban/quicktest"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestCreateTexture(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.rec.Reset()

	tex, err := f.engine.CreateTexture(128, 64)
	c.Assert(err, qt.IsNil)
	w, h := tex.Size()
	c.Assert(w, qt.Equals, 128)
	c.Assert(h, qt.Equals, 64)

	params := map[device.Enum]int{}
	for _, call := range f.rec.Calls {
		if call.Name == "TexParameteri" {
			params[call.Args[1].(device.Enum)] = call.Args[2].(int)
		}
	}
	c.Assert(params, qt.DeepEquals, map[device.Enum]int{
		device.TEXTURE_MIN_FILTER: int(device.LINEAR),
		device.TEXTURE_MAG_FILTER: int(device.LINEAR),
		device.TEXTURE_WRAP_S:     int(device.CLAMP_TO_EDGE),
		device.TEXTURE_WRAP_T:     int(device.CLAMP_TO_EDGE),
	})
	c.Assert(f.rec.Count("TexImage2D"), qt.Equals, 1)
	c.Assert(f.rec.UnitTextures[device.TEXTURE0], qt.Equals, device.Texture(0))
}

func TestCreateTextureInvalidSize(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := f.engine.CreateTexture(0, 16)
	c.Assert(err, qt.ErrorIs, core.ErrInvalidSize)
	_, err = f.engine.CreateTexture(16, -1)
	c.Assert(err, qt.ErrorIs, core.ErrInvalidSize)
	c.Assert(f.rec.Live(devicetest.KindTexture), qt.HasLen, 0)
}

func TestCreateTextureFromImage(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.rec.Reset()

	img := checkerboard(4, 2)
	tex, err := f.engine.CreateTextureFromImage(img)
	c.Assert(err, qt.IsNil)

	w, h := tex.Size()
	c.Assert([]int{w, h}, qt.DeepEquals, []int{4, 2})
	c.Assert(f.rec.TexImages, qt.HasLen, 2)
	c.Assert(f.rec.TexImages[1], qt.DeepEquals, []byte(img.Pix))
}

func TestTextureUploadScales(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	tex, err := f.engine.CreateTexture(8, 8)
	c.Assert(err, qt.IsNil)
	f.rec.Reset()

	c.Assert(tex.Upload(checkerboard(32, 16)), qt.IsNil)
	c.Assert(f.rec.TexImages, qt.HasLen, 1)
	c.Assert(f.rec.TexImages[0], qt.HasLen, 8*8*4)

	tex.Dispose()
	c.Assert(tex.Upload(checkerboard(8, 8)), qt.ErrorIs, core.ErrResourceDisposed)
}
