// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// settings are read from the environment, optionally seeded by a dotenv file
type settings struct {
	Title   string
	Width   int
	Height  int
	FPS     int
	NoVsync bool
	Scale   float64
}

// loadSettings merges envFile into the environment and reads SHED_*
// variables. A missing envFile is not an error.
func loadSettings(envFile string) (settings, error) {
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return settings{}, fmt.Errorf("%s: %w", envFile, err)
		}
		for k, v := range vars {
			envy.Set(k, v)
		}
	}

	var (
		s   = settings{Title: envy.Get("SHED_TITLE", "shed")}
		err error
	)
	if s.Width, err = envInt("SHED_WIDTH", 800); err != nil {
		return s, err
	}
	if s.Height, err = envInt("SHED_HEIGHT", 600); err != nil {
		return s, err
	}
	if s.FPS, err = envInt("SHED_FPS", 0); err != nil {
		return s, err
	}
	if s.NoVsync, err = strconv.ParseBool(envy.Get("SHED_NO_VSYNC", "false")); err != nil {
		return s, fmt.Errorf("SHED_NO_VSYNC: %w", err)
	}
	if s.Scale, err = strconv.ParseFloat(envy.Get("SHED_OFFSCREEN_SCALE", "1"), 64); err != nil {
		return s, fmt.Errorf("SHED_OFFSCREEN_SCALE: %w", err)
	}
	return s, nil
}

func envInt(key string, fallback int) (int, error) {
	v, err := strconv.Atoi(envy.Get(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
