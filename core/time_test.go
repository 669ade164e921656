// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestClockElapsed(t *testing.T) {
	c := qt.New(t)
	clock := NewClock(TimeConfiguration{})
	defer clock.Stop()

	first := clock.Elapsed()
	time.Sleep(time.Millisecond)
	c.Assert(clock.Elapsed() > first, qt.IsTrue)
	c.Assert(clock.Fps(), qt.Equals, 0)
	c.Assert(clock.Wait(context.Background()), qt.IsNil)
}

func TestClockWaitCancelled(t *testing.T) {
	c := qt.New(t)
	clock := NewClock(TimeConfiguration{FramesPerSecond: 1})
	defer clock.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	c.Assert(clock.Wait(ctx), qt.ErrorIs, context.DeadlineExceeded)
}

func TestClockStop(t *testing.T) {
	c := qt.New(t)
	clock := NewClock(TimeConfiguration{FramesPerSecond: 1})
	clock.Stop()
	clock.Stop()
	c.Assert(clock.Wait(context.Background()), qt.IsNil)
}
