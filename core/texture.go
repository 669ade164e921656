// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"image"

	"github.com/devblok/shed/device"
)

// CreateTexture allocates an RGBA8 texture with linear filtering,
// clamped at the edges and without mipmaps. Its contents are undefined.
func (e *Engine) CreateTexture(width, height int) (*Texture, error) {
	if !e.running {
		return nil, ErrEngineDisposed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture %dx%d: %w", width, height, ErrInvalidSize)
	}

	gl := e.gl
	t := &Texture{
		handle:  e.resources.mint(),
		engine:  e,
		texture: gl.CreateTexture(),
		width:   width,
		height:  height,
	}

	t.bind()
	gl.TexImage2D(device.TEXTURE_2D, 0, device.RGBA8, width, height, device.RGBA, device.UNSIGNED_BYTE, nil)
	gl.TexParameteri(device.TEXTURE_2D, device.TEXTURE_MIN_FILTER, int(device.LINEAR))
	gl.TexParameteri(device.TEXTURE_2D, device.TEXTURE_MAG_FILTER, int(device.LINEAR))
	gl.TexParameteri(device.TEXTURE_2D, device.TEXTURE_WRAP_S, int(device.CLAMP_TO_EDGE))
	gl.TexParameteri(device.TEXTURE_2D, device.TEXTURE_WRAP_T, int(device.CLAMP_TO_EDGE))
	t.unbind()

	e.resources.Manage(t)
	return t, nil
}

// CreateTextureFromImage creates a texture the size of img holding its pixels
func (e *Engine) CreateTextureFromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	t, err := e.CreateTexture(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	if err := t.Upload(img); err != nil {
		t.Dispose()
		return nil, err
	}
	return t, nil
}

// Texture is a 2D RGBA8 texture
type Texture struct {
	handle  Handle
	engine  *Engine
	texture device.Texture

	width, height int
}

// Handle implements Resource
func (t *Texture) Handle() Handle {
	if t == nil {
		return 0
	}
	return t.handle
}

// Size returns the texture dimensions in pixels
func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Upload replaces the texture contents with img, scaled to the texture size
func (t *Texture) Upload(img image.Image) error {
	if err := t.engine.verify(t, t.engine); err != nil {
		return err
	}

	pixels := GetPixels(img, t.width, t.height)
	t.bind()
	t.engine.gl.TexImage2D(device.TEXTURE_2D, 0, device.RGBA8, t.width, t.height, device.RGBA, device.UNSIGNED_BYTE, pixels)
	t.unbind()
	return nil
}

// Dispose implements Disposable
func (t *Texture) Dispose() {
	t.engine.resources.Dispose(t)
}

func (t *Texture) release() {
	t.engine.gl.DeleteTexture(t.texture)
}

func (t *Texture) kind() string {
	return "texture"
}

func (t *Texture) bind() {
	t.engine.gl.BindTexture(device.TEXTURE_2D, t.texture)
}

func (t *Texture) unbind() {
	t.engine.gl.BindTexture(device.TEXTURE_2D, 0)
}
