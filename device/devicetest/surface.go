// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package devicetest

import (
	"context"
	"fmt"

	"github.com/devblok/shed/device"
)

// Surface is an in-memory device.Surface handing out a recording Context
type Surface struct {
	Width, Height int

	// Max is the highest Version Context will provide
	Max device.Version

	// Frames counts completed WaitFrame calls
	Frames int

	// Closed makes WaitFrame return device.ErrSurfaceClosed
	Closed bool

	Destroyed bool

	ctx *Context
}

var _ device.Surface = (*Surface)(nil)

// NewSurface returns a surface of the given size supporting up to GLES30
func NewSurface(width, height int) *Surface {
	return &Surface{
		Width:  width,
		Height: height,
		Max:    device.GLES30,
		ctx:    NewContext(),
	}
}

// Recorder returns the context handed out by Context
func (s *Surface) Recorder() *Context {
	return s.ctx
}

// Context implements interface
func (s *Surface) Context(version device.Version) (device.Context, error) {
	if version > s.Max {
		return nil, fmt.Errorf("devicetest: %s: %w", version, device.ErrUnsupportedVersion)
	}
	return s.ctx, nil
}

// Size implements interface
func (s *Surface) Size() (int, int) {
	return s.Width, s.Height
}

// WaitFrame implements interface
func (s *Surface) WaitFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Closed {
		return device.ErrSurfaceClosed
	}
	s.Frames++
	return nil
}

// Destroy implements interface
func (s *Surface) Destroy() {
	s.Destroyed = true
}
