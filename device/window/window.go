// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window implements device.Surface with an SDL2 window and an
// OpenGL ES context. SDL must be driven from the main OS thread, callers
// should lock it with runtime.LockOSThread in an init function.
package window

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/devblok/shed/device"
	"github.com/devblok/shed/device/gles"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Configuration describes the window to open
type Configuration struct {
	Title  string
	Width  int
	Height int

	// Hidden creates the window without showing it, useful for
	// querying the context without presenting anything
	Hidden bool

	// NoVsync disables waiting for the vertical blank on swap
	NoVsync bool
}

// Mouse is the last pointer state observed while polling events
type Mouse struct {
	X, Y    float32
	Pressed bool
}

// New initialises SDL and opens a window. The GL context is created
// lazily by Context.
func New(cfg Configuration) (*Surface, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl.Init(): %s", err.Error())
	}

	flags := uint32(sdl.WINDOW_OPENGL)
	if cfg.Hidden {
		flags |= sdl.WINDOW_HIDDEN
	}

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl.CreateWindow(): %s", err.Error())
	}

	return &Surface{
		configuration: cfg,
		window:        window,
	}, nil
}

// Surface is an SDL2 window presenting an OpenGL ES context
type Surface struct {
	configuration Configuration

	window    *sdl.Window
	glContext sdl.GLContext
	context   device.Context

	mouse  atomic.Value
	closed bool
}

var _ device.Surface = (*Surface)(nil)

// Context implements interface
func (s *Surface) Context(version device.Version) (device.Context, error) {
	if s.context != nil {
		return s.context, nil
	}

	if version != device.GLES30 {
		return nil, fmt.Errorf("%s: %w", version, device.ErrUnsupportedVersion)
	}
	major, minor := 3, 0

	applyAttributes(sdl.GLSetAttribute, []glAttribute{
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_ES},
		{sdl.GL_CONTEXT_MAJOR_VERSION, major},
		{sdl.GL_CONTEXT_MINOR_VERSION, minor},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_DEPTH_SIZE, 24},
	})

	glContext, err := s.window.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", version, err.Error(), device.ErrUnsupportedVersion)
	}
	if err := s.window.GLMakeCurrent(glContext); err != nil {
		sdl.GLDeleteContext(glContext)
		return nil, fmt.Errorf("sdl.GLMakeCurrent(): %s", err.Error())
	}
	interval := 1
	if s.configuration.NoVsync {
		interval = 0
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.WithError(err).Warn("swap interval not applied")
	}

	ctx, err := gles.New(sdl.GLGetProcAddress)
	if err != nil {
		sdl.GLDeleteContext(glContext)
		return nil, err
	}

	info := ctx.Info()
	var gotMajor, gotMinor int
	if _, err := fmt.Sscanf(info.Version, "OpenGL ES %d.%d", &gotMajor, &gotMinor); err != nil || gotMajor < major {
		sdl.GLDeleteContext(glContext)
		return nil, fmt.Errorf("got %q: %w", info.Version, device.ErrUnsupportedVersion)
	}

	log.WithFields(log.Fields{
		"vendor":   info.Vendor,
		"renderer": info.Renderer,
		"version":  info.Version,
	}).Info("GL context created")

	s.glContext = glContext
	s.context = ctx
	return ctx, nil
}

type glAttribute struct {
	attr  sdl.GLattr
	value int
}

// applyAttributes sets every attribute with set and returns how many
// were refused. A refused attribute is logged, context creation decides
// whether it mattered.
func applyAttributes(set func(sdl.GLattr, int) error, attrs []glAttribute) int {
	refused := 0
	for _, a := range attrs {
		if err := set(a.attr, a.value); err != nil {
			refused++
			log.WithError(err).WithFields(log.Fields{
				"attribute": int(a.attr),
				"value":     a.value,
			}).Warn("GL attribute not applied")
		}
	}
	return refused
}

// Size implements interface
func (s *Surface) Size() (int, int) {
	w, h := s.window.GLGetDrawableSize()
	return int(w), int(h)
}

// Mouse returns the pointer state gathered by the last WaitFrame
func (s *Surface) Mouse() Mouse {
	if m, ok := s.mouse.Load().(Mouse); ok {
		return m
	}
	return Mouse{}
}

// WaitFrame implements interface
func (s *Surface) WaitFrame(ctx context.Context) error {
	if s.closed {
		return device.ErrSurfaceClosed
	}
	s.window.GLSwap()

	if s.pollEvents() {
		s.closed = true
		return device.ErrSurfaceClosed
	}

	return ctx.Err()
}

// pollEvents drains the SDL queue, reports whether the user asked to quit
func (s *Surface) pollEvents() bool {
	quit := false
	mouse := s.Mouse()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
			}
		case *sdl.QuitEvent:
			quit = true
		case *sdl.MouseMotionEvent:
			mouse.X, mouse.Y = float32(et.X), float32(et.Y)
		case *sdl.MouseButtonEvent:
			mouse.Pressed = et.State == sdl.PRESSED
		}
	}
	s.mouse.Store(mouse)
	return quit
}

// Destroy implements interface
func (s *Surface) Destroy() {
	if s.glContext != nil {
		sdl.GLDeleteContext(s.glContext)
		s.glContext = nil
	}
	s.context = nil
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
}
