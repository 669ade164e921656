// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"encoding/binary"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/shed/core"
	qt "github.com/frankban/quicktest"
)

func TestShaderFiles(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	for _, name := range []string{"plasma.frag.glsl", "quad.vert.glsl", "notes.txt", "old.frag.v1.glsl", "plasma.frag"} {
		c.Assert(os.WriteFile(filepath.Join(dir, name), []byte("void main() {}"), 0644), qt.IsNil)
	}

	files, types, err := core.ShaderFiles(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(files, qt.DeepEquals, []string{
		filepath.Join(dir, "plasma.frag.glsl"),
		filepath.Join(dir, "quad.vert.glsl"),
	})
	c.Assert(types, qt.DeepEquals, []core.ShaderType{core.FragmentShaderType, core.VertexShaderType})
}

func TestFloat32Bytes(t *testing.T) {
	c := qt.New(t)
	data := core.Float32Bytes([]float32{1, -0.5})
	c.Assert(data, qt.HasLen, 8)
	c.Assert(math.Float32frombits(binary.LittleEndian.Uint32(data[4:])), qt.Equals, float32(-0.5))
	c.Assert(core.Float32Bytes(nil), qt.IsNil)
	c.Assert(core.Uint16Bytes([]uint16{1, 2, 3}), qt.HasLen, 6)
	c.Assert(core.Int32Bytes([]int32{7}), qt.HasLen, 4)
}

func TestGetPixels(t *testing.T) {
	c := qt.New(t)
	img := checkerboard(16, 16)

	c.Assert(core.GetPixels(img, 16, 16), qt.DeepEquals, img.Pix)
	c.Assert(core.GetPixels(img, 4, 2), qt.HasLen, 4*2*4)

	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	c.Assert(core.GetPixels(sub, 2, 2), qt.HasLen, 16)
}

func BenchmarkGetPixels(b *testing.B) {
	img := checkerboard(256, 256)
	for idx := 0; idx < b.N; idx++ {
		core.GetPixels(img, 256, 256)
	}
}

func BenchmarkGetPixelsScaled(b *testing.B) {
	img := checkerboard(256, 256)
	for idx := 0; idx < b.N; idx++ {
		core.GetPixels(img, 100, 100)
	}
}

func BenchmarkFloat32Bytes(b *testing.B) {
	data := make([]float32, 100000)
	for idx := 0; idx < b.N; idx++ {
		core.Float32Bytes(data)
	}
}
