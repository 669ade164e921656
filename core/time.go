// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"time"
)

// NewClock creates a new time service, started now
func NewClock(cfg TimeConfiguration) *Clock {
	c := &Clock{
		start: time.Now(),
		fps:   cfg.FramesPerSecond,
	}
	if cfg.FramesPerSecond > 0 {
		c.fpsTicker = time.NewTicker(time.Second / time.Duration(cfg.FramesPerSecond))
	}
	return c
}

// Clock measures time since the engine started and paces frames
type Clock struct {
	start time.Time

	fps       int
	fpsTicker *time.Ticker
}

// Fps gets the set frames per second
func (c *Clock) Fps() int {
	return c.fps
}

// Elapsed returns the seconds passed since the clock was created
func (c *Clock) Elapsed() float64 {
	return time.Since(c.start).Seconds()
}

// Wait blocks until the next frame tick. An unpaced clock returns
// immediately.
func (c *Clock) Wait(ctx context.Context) error {
	if c.fpsTicker == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.fpsTicker.C:
		return nil
	}
}

// Stop releases the ticker, Wait no longer paces afterwards
func (c *Clock) Stop() {
	if c.fpsTicker != nil {
		c.fpsTicker.Stop()
		c.fpsTicker = nil
	}
}
