// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command shedinfo prints what the OpenGL ES driver reports, as JSON
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"runtime"

	"github.com/devblok/shed/core"
	"github.com/devblok/shed/device/window"
	"github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

var verbose = flag.Bool("v", false, "Log context creation")

func main() {
	flag.Parse()

	surface, err := window.New(window.Configuration{
		Title:  "shedinfo",
		Width:  64,
		Height: 64,
		Hidden: true,
	})
	if err != nil {
		logrus.Fatal(err)
	}
	defer surface.Destroy()

	cfg := core.DefaultConfiguration()
	cfg.Logger = logrus.StandardLogger()
	if !*verbose {
		cfg.Logger.SetLevel(logrus.WarnLevel)
	}

	engine, err := core.NewEngine(surface, cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer engine.Dispose()

	bytes, err := json.Marshal(engine.Info())
	if err != nil {
		logrus.Fatal(err)
	}
	fmt.Printf("%s\n", bytes)
}
