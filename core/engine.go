// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"fmt"

	"github.com/devblok/shed/device"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// positionAttribute is bound to location 0 in every program and feeds
// the default mesh
const positionAttribute = "a_position"

const defaultVertexShader300es = `#version 300 es
layout(location = 0) in vec4 a_position;
void main() {
  gl_Position = a_position;
}
`

const defaultVertexShader100 = `#version 100
attribute vec4 a_position;
void main() {
  gl_Position = a_position;
}
`

// MinimumVersion is the oldest context the engine can drive, it needs
// vertex arrays, integer attributes and multiple draw buffers
const MinimumVersion = device.GLES30

// full screen quad as two triangles
var defaultQuad = []mgl32.Vec2{
	{-1, -1}, {1, -1}, {-1, 1},
	{1, -1}, {1, 1}, {-1, 1},
}

func defaultMeshOptions() MeshOptions {
	vertices := make([]float32, 0, 2*len(defaultQuad))
	for _, v := range defaultQuad {
		vertices = append(vertices, v.X(), v.Y())
	}
	return MeshOptions{
		Vertices: Float32Bytes(vertices),
		Layout: []AttributeLayout{
			{Name: positionAttribute, Type: Vec2, Location: At(0)},
		},
	}
}

// RenderOptions selects what Render draws and where
type RenderOptions struct {
	Shader *Shader

	// Mesh defaults to the engine's full screen quad
	Mesh *Mesh

	// FrameBuffer defaults to the surface's back buffer
	FrameBuffer *FrameBuffer
}

// NewEngine acquires a context from surface and creates the default mesh
func NewEngine(surface device.Surface, cfg Configuration) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "engine")

	version := cfg.Renderer.ContextVersion
	if version < MinimumVersion {
		return nil, &UnsupportedContextError{
			Version: version,
			Err:     fmt.Errorf("engine needs %s: %w", MinimumVersion, device.ErrUnsupportedVersion),
		}
	}
	gl, err := surface.Context(version)
	if err != nil {
		return nil, &UnsupportedContextError{Version: version, Err: err}
	}

	width, height := surface.Size()
	if cfg.Renderer.ScreenWidth > 0 {
		width = int(cfg.Renderer.ScreenWidth)
	}
	if cfg.Renderer.ScreenHeight > 0 {
		height = int(cfg.Renderer.ScreenHeight)
	}

	e := &Engine{
		surface:   surface,
		gl:        gl,
		resources: NewResourceManager(log),
		clock:     NewClock(cfg.Time),
		log:       log,
		width:     width,
		height:    height,
		running:   true,
	}

	c := cfg.Renderer.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	if e.defaultMesh, err = e.CreateMesh(defaultMeshOptions()); err != nil {
		e.Dispose()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"version": version,
		"width":   width,
		"height":  height,
		"fps":     e.clock.Fps(),
	}).Info("engine started")
	return e, nil
}

// Engine owns a GPU context and every resource created through it.
// It must only be used from the goroutine the context is current on.
type Engine struct {
	surface   device.Surface
	gl        device.Context
	resources *ResourceManager
	clock     *Clock
	log       *logrus.Entry

	width, height int
	time          float64
	running       bool

	defaultMesh *Mesh
}

// IsRunning is false once Dispose was called
func (e *Engine) IsRunning() bool {
	return e.running
}

// Time returns the seconds since start, as of the last SwapBuffers
func (e *Engine) Time() float64 {
	return e.time
}

// Width returns the viewport width
func (e *Engine) Width() int {
	return e.width
}

// Height returns the viewport height
func (e *Engine) Height() int {
	return e.height
}

// Resources returns the number of live resources, including the
// default mesh
func (e *Engine) Resources() int {
	return e.resources.Len()
}

// Info describes the underlying context
func (e *Engine) Info() device.Info {
	return e.gl.Info()
}

// Clear clears the bound framebuffer's color and depth
func (e *Engine) Clear() error {
	if !e.running {
		return ErrEngineDisposed
	}
	e.gl.Clear(device.COLOR_BUFFER_BIT | device.DEPTH_BUFFER_BIT)
	return nil
}

// verify checks that r is live and was created by this engine
func (e *Engine) verify(r Resource, owner *Engine) error {
	if !e.running {
		return ErrEngineDisposed
	}
	if owner != e {
		return &ForeignResourceError{Kind: kindOf(r)}
	}
	if !e.resources.Tracked(r) {
		return ErrResourceDisposed
	}
	return nil
}

// Render draws opts.Mesh with opts.Shader into opts.FrameBuffer. Nothing
// is issued to the context when validation fails.
func (e *Engine) Render(opts RenderOptions) error {
	if !e.running {
		return ErrEngineDisposed
	}
	if opts.Shader == nil {
		return ErrNilResource
	}
	if err := e.verify(opts.Shader, opts.Shader.engine); err != nil {
		return err
	}

	mesh := e.defaultMesh
	if opts.Mesh != nil {
		mesh = opts.Mesh
	}
	if err := e.verify(mesh, mesh.engine); err != nil {
		return err
	}

	fb := opts.FrameBuffer
	if fb != nil {
		if err := e.verify(fb, fb.engine); err != nil {
			return err
		}
	}

	opts.Shader.use()
	opts.Shader.bindSamplers()
	if fb != nil {
		fb.bind()
	} else {
		e.gl.BindFramebuffer(device.FRAMEBUFFER, 0)
	}

	e.gl.Viewport(0, 0, e.width, e.height)
	e.gl.Clear(device.COLOR_BUFFER_BIT | device.DEPTH_BUFFER_BIT)

	mesh.bind()
	if mesh.indexCount > 0 {
		e.gl.DrawElements(device.TRIANGLES, mesh.indexCount, device.UNSIGNED_SHORT, 0)
	} else {
		e.gl.DrawArrays(device.TRIANGLES, 0, mesh.vertexCount)
	}

	if fb != nil {
		fb.unbind()
	}
	return nil
}

// SwapBuffers advances Time, presents the frame and blocks until the
// next one may start or ctx is done.
func (e *Engine) SwapBuffers(ctx context.Context) error {
	if !e.running {
		return ErrEngineDisposed
	}
	e.time = e.clock.Elapsed()
	if err := e.surface.WaitFrame(ctx); err != nil {
		return err
	}
	return e.clock.Wait(ctx)
}

// Dispose disposes every live resource and stops the engine. The surface
// stays with the caller.
func (e *Engine) Dispose() {
	if !e.running {
		return
	}

	count := 0
	for _, r := range e.resources.Resources() {
		// earlier cascades may already have taken r
		if e.resources.Tracked(r) {
			r.Dispose()
			count++
		}
	}

	e.running = false
	e.clock.Stop()
	e.log.WithField("disposed", count).Info("engine disposed")
}
