// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/shed/device"
)

// CreateFrameBuffer creates an offscreen target with one color texture
// of scale times the engine size at attachment 0.
func (e *Engine) CreateFrameBuffer(scale float64) (*FrameBuffer, error) {
	if !e.running {
		return nil, ErrEngineDisposed
	}

	tex, err := e.CreateTexture(int(float64(e.width)*scale), int(float64(e.height)*scale))
	if err != nil {
		return nil, err
	}

	f := &FrameBuffer{
		handle:      e.resources.mint(),
		engine:      e,
		framebuffer: e.gl.CreateFramebuffer(),
	}
	e.resources.Manage(f)

	if _, err := f.AddColorAttachment(tex); err != nil {
		f.Dispose()
		tex.Dispose()
		return nil, err
	}
	return f, nil
}

// FrameBuffer is an offscreen render target. It owns its color
// attachments and disposes them with itself.
type FrameBuffer struct {
	handle      Handle
	engine      *Engine
	framebuffer device.Framebuffer
	textures    []*Texture
}

// Handle implements Resource
func (f *FrameBuffer) Handle() Handle {
	if f == nil {
		return 0
	}
	return f.handle
}

// AddColorAttachment attaches t to the next color slot and returns the
// slot index, which equals the number of previous attachments.
func (f *FrameBuffer) AddColorAttachment(t *Texture) (int, error) {
	if err := f.engine.verify(f, f.engine); err != nil {
		return 0, err
	}
	if t == nil {
		return 0, ErrNilResource
	}
	if err := f.engine.verify(t, t.engine); err != nil {
		return 0, err
	}

	slot := len(f.textures)
	f.textures = append(f.textures, t)

	gl := f.engine.gl
	f.bind()
	gl.FramebufferTexture2D(device.FRAMEBUFFER, device.COLOR_ATTACHMENT0+device.Enum(slot), device.TEXTURE_2D, t.texture, 0)

	buffers := make([]device.Enum, len(f.textures))
	for i := range buffers {
		buffers[i] = device.COLOR_ATTACHMENT0 + device.Enum(i)
	}
	gl.DrawBuffers(buffers)

	if status := gl.CheckFramebufferStatus(device.FRAMEBUFFER); status != device.FRAMEBUFFER_COMPLETE {
		f.engine.log.WithField("status", status).Warn("framebuffer incomplete")
	}
	f.unbind()
	return slot, nil
}

// Texture returns the texture at attachment slot i, nil if none
func (f *FrameBuffer) Texture(i int) *Texture {
	if i < 0 || i >= len(f.textures) {
		return nil
	}
	return f.textures[i]
}

// Attachments returns the number of color attachments
func (f *FrameBuffer) Attachments() int {
	return len(f.textures)
}

// Dispose implements Disposable
func (f *FrameBuffer) Dispose() {
	f.engine.resources.Dispose(f)
}

func (f *FrameBuffer) release() {
	f.engine.gl.DeleteFramebuffer(f.framebuffer)
	for _, t := range f.textures {
		t.Dispose()
	}
}

func (f *FrameBuffer) kind() string {
	return "framebuffer"
}

func (f *FrameBuffer) bind() {
	f.engine.gl.BindFramebuffer(device.FRAMEBUFFER, f.framebuffer)
}

func (f *FrameBuffer) unbind() {
	f.engine.gl.BindFramebuffer(device.FRAMEBUFFER, 0)
}
