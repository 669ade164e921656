// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/shed/device"
	"github.com/sirupsen/logrus"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration

	// Logger receives engine logs, logrus.StandardLogger() if nil
	Logger *logrus.Logger
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	// ScreenWidth and ScreenHeight set the viewport. Each one left at
	// zero takes that dimension of the surface's drawable size.
	ScreenWidth  uint32
	ScreenHeight uint32

	ContextVersion device.Version
	ClearColor     [4]float32
}

// DefaultConfiguration returns an unpaced OpenGL ES 3.0 configuration
// sized after the surface, clearing to opaque black.
func DefaultConfiguration() Configuration {
	return Configuration{
		Renderer: RendererConfiguration{
			ContextVersion: device.GLES30,
			ClearColor:     [4]float32{0, 0, 0, 1},
		},
	}
}
