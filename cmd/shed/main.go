// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command shed opens a window and draws a fragment shader over it,
// optionally through an offscreen pass.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devblok/shed/core"
	"github.com/devblok/shed/device"
	"github.com/devblok/shed/device/window"
	"github.com/devblok/shed/utility/kar"
	"github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

var frameCounter int64

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
)

var (
	envFile   = flag.String("env", ".env", "Dotenv file with SHED_* settings")
	shader    = flag.String("shader", "", "Shader name, <name>.frag.glsl and optional <name>.vert.glsl")
	shaderDir = flag.String("shaders", "", "Load shaders from a directory instead of the built-in set")
	archive   = flag.String("archive", "", "Load shaders from a kar archive instead of the built-in set")
	modelFile = flag.String("model", "", "COLLADA model to draw")
	texture   = flag.String("texture", "", "Image bound to u_Texture")
	offscreen = flag.Bool("offscreen", false, "Render through an offscreen framebuffer")
	verbose   = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()
	os.Exit(profiled())
}

// profiled runs the program under the requested profilers and returns
// the exit code
func profiled() int {
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			panic(err)
		}
		if err := trace.Start(f); err != nil {
			panic(err)
		}
		defer trace.Stop()
	}

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	code := 0
	if err := run(logger); err != nil {
		logger.WithError(err).Error("shed failed")
		code = 1
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic(err)
		}
	}
	return code
}

func openSource() (shaderSource, func(), error) {
	switch {
	case *archive != "":
		a, err := kar.OpenFile(*archive)
		if err != nil {
			return nil, nil, err
		}
		return archiveSource{a}, func() { a.Close() }, nil
	case *shaderDir != "":
		src, err := newDirSource(*shaderDir)
		return src, func() {}, err
	default:
		return builtinShaders(), func() {}, nil
	}
}

func run(logger *logrus.Logger) error {
	cfg, err := loadSettings(*envFile)
	if err != nil {
		return err
	}

	surface, err := window.New(window.Configuration{
		Title:   cfg.Title,
		Width:   cfg.Width,
		Height:  cfg.Height,
		NoVsync: cfg.NoVsync,
	})
	if err != nil {
		return err
	}
	defer surface.Destroy()

	engineCfg := core.DefaultConfiguration()
	engineCfg.Time.FramesPerSecond = cfg.FPS
	engineCfg.Logger = logger
	engine, err := core.NewEngine(surface, engineCfg)
	if err != nil {
		return err
	}
	defer engine.Dispose()

	src, closeSource, err := openSource()
	if err != nil {
		return err
	}
	defer closeSource()

	s, err := newScene(engine, surface, src, sceneOptions{
		shader:    *shader,
		model:     *modelFile,
		texture:   *texture,
		offscreen: *offscreen,
		scale:     cfg.Scale,
	})
	if err != nil {
		return err
	}
	logger.WithField("resources", engine.Resources()).Debug("scene ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	programSync := sync.WaitGroup{}

	/* Frame counter loop */
	programSync.Add(1)
	go func(ctx context.Context, wg *sync.WaitGroup) {
		defer wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.WithFields(logrus.Fields{
					"fps":       atomic.SwapInt64(&frameCounter, 0),
					"cgo_calls": runtime.NumCgoCall(),
				}).Debug("frame count")
			}
		}
	}(ctx, &programSync)
	defer programSync.Wait()
	defer stop()

	for engine.IsRunning() {
		if err := s.frame(); err != nil {
			return err
		}
		atomic.AddInt64(&frameCounter, 1)

		if err := engine.SwapBuffers(ctx); err != nil {
			if errors.Is(err, device.ErrSurfaceClosed) || errors.Is(err, context.Canceled) {
				logger.Info("Event loop exited")
				return nil
			}
			return err
		}
	}
	return nil
}
