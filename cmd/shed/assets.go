// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"image"
	_ "image/png" // decoders for -texture
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devblok/shed/core"
	"github.com/devblok/shed/utility/kar"
	"github.com/gobuffalo/packr"
	_ "golang.org/x/image/bmp"
)

// shaderSource resolves GLSL files named <name>.<frag|vert>.glsl
type shaderSource interface {
	Has(name string) bool
	FindString(name string) (string, error)
}

// builtinShaders are compiled into the binary
func builtinShaders() shaderSource {
	box := packr.NewBox("./shaders")
	return &box
}

// dirSource serves shaders found by core.ShaderFiles
type dirSource map[string]string

func newDirSource(dir string) (dirSource, error) {
	paths, _, err := core.ShaderFiles(dir)
	if err != nil {
		return nil, err
	}
	src := make(dirSource, len(paths))
	for _, p := range paths {
		src[filepath.Base(p)] = p
	}
	return src, nil
}

func (d dirSource) Has(name string) bool {
	_, ok := d[name]
	return ok
}

func (d dirSource) FindString(name string) (string, error) {
	p, ok := d[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	b, err := os.ReadFile(p)
	return string(b), err
}

// archiveSource serves shaders packed into a kar archive
type archiveSource struct {
	*kar.Archive
}

func (a archiveSource) Has(name string) bool {
	h := a.Header()
	_, ok := h.Lookup(name)
	return ok
}

func (a archiveSource) FindString(name string) (string, error) {
	b, err := a.ReadAll(name)
	return string(b), err
}

// loadShader builds the program called name. Without a vertex file
// the engine supplies its default stage.
func loadShader(engine *core.Engine, src shaderSource, name string) (*core.Shader, error) {
	fragment, err := src.FindString(name + ".frag.glsl")
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	var vertex string
	if src.Has(name + ".vert.glsl") {
		if vertex, err = src.FindString(name + ".vert.glsl"); err != nil {
			return nil, fmt.Errorf("shader %s: %w", name, err)
		}
	}
	return engine.CreateShader(fragment, vertex)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
