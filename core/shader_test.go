// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"image"
	"strings"
	"testing"

	"github.com/devblok/shed/core"
	"github.com/devblok/shed/device"
	"github.com/devblok/shed/device/devicetest"
	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
)

// vertexSource returns the source of the last vertex stage compiled
func vertexSource(rec *devicetest.Context) string {
	src := ""
	for _, call := range rec.Calls {
		if call.Name == "CreateShader" && call.Args[1] == device.VERTEX_SHADER {
			src = rec.Source(call.Args[0].(device.Shader))
		}
	}
	return src
}

func TestCreateShaderDefaultVertexStage(t *testing.T) {
	c := qt.New(t)

	c.Run("legacy", func(c *qt.C) {
		f := newFixture(c)
		_, err := f.engine.CreateShader(plainFragment, "")
		c.Assert(err, qt.IsNil)

		src := vertexSource(f.rec)
		c.Assert(strings.HasPrefix(src, "#version 100\n"), qt.IsTrue)
		c.Assert(src, qt.Contains, "attribute vec4 a_position;")
	})

	c.Run("300 es", func(c *qt.C) {
		f := newFixture(c)
		_, err := f.engine.CreateShader(animatedFragment, "")
		c.Assert(err, qt.IsNil)

		src := vertexSource(f.rec)
		c.Assert(strings.HasPrefix(src, "#version 300 es\n"), qt.IsTrue)
		c.Assert(src, qt.Contains, "layout(location = 0) in vec4 a_position;")
	})

	c.Run("explicit", func(c *qt.C) {
		f := newFixture(c)
		const vertex = "#version 300 es\nin vec2 a_uv;\nvoid main() {}\n"
		_, err := f.engine.CreateShader(animatedFragment, vertex)
		c.Assert(err, qt.IsNil)
		c.Assert(vertexSource(f.rec), qt.Equals, vertex)
	})
}

func TestCreateShaderBindsPositionAndDeletesStages(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := f.engine.CreateShader(plainFragment, "")
	c.Assert(err, qt.IsNil)

	program := device.Program(f.rec.Live(devicetest.KindProgram)[0])
	loc, ok := f.rec.AttribLocation(program, "a_position")
	c.Assert(ok, qt.IsTrue)
	c.Assert(loc, qt.Equals, uint32(0))
	c.Assert(f.rec.Live(devicetest.KindShader), qt.HasLen, 0)
	c.Assert(f.rec.DeleteTotal(devicetest.KindShader), qt.Equals, 2)
}

func TestCreateShaderErrors(t *testing.T) {
	c := qt.New(t)

	c.Run("vertex", func(c *qt.C) {
		f := newFixture(c)
		_, err := f.engine.CreateShader(plainFragment, "#error broken\nvoid main() {}")

		var cerr *core.ShaderCompileError
		c.Assert(err, qt.ErrorAs, &cerr)
		c.Assert(cerr.Stage, qt.Equals, core.VertexShaderType)
		c.Assert(cerr.Log, qt.Contains, "#error broken")
		c.Assert(f.rec.Live(devicetest.KindShader), qt.HasLen, 0)
		c.Assert(f.rec.Live(devicetest.KindProgram), qt.HasLen, 0)
		c.Assert(f.engine.Resources(), qt.Equals, 1)
	})

	c.Run("fragment", func(c *qt.C) {
		f := newFixture(c)
		_, err := f.engine.CreateShader("#error nope\n", "")

		var cerr *core.ShaderCompileError
		c.Assert(err, qt.ErrorAs, &cerr)
		c.Assert(cerr.Stage, qt.Equals, core.FragmentShaderType)
		c.Assert(f.rec.Live(devicetest.KindShader), qt.HasLen, 0)
		c.Assert(f.logs.LastEntry().Level, qt.Equals, logrus.ErrorLevel)
	})

	c.Run("link", func(c *qt.C) {
		f := newFixture(c)
		f.rec.LinkError = "ERROR: missing main"
		_, err := f.engine.CreateShader(plainFragment, "")

		var lerr *core.ShaderLinkError
		c.Assert(err, qt.ErrorAs, &lerr)
		c.Assert(lerr.Log, qt.Equals, "ERROR: missing main")
		c.Assert(f.rec.Live(devicetest.KindProgram), qt.HasLen, 0)
		c.Assert(f.rec.Live(devicetest.KindShader), qt.HasLen, 0)
		c.Assert(f.engine.Resources(), qt.Equals, 1)
	})
}

func TestShaderUniformNames(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	c.Assert(shader.UniformNames(), qt.DeepEquals, []string{
		"u_Channels[0]", "u_Mouse", "u_Resolution", "u_Time",
	})

	typ, err := shader.UniformType("u_Time")
	c.Assert(err, qt.IsNil)
	c.Assert(typ, qt.Equals, core.UniformNone)
}

func TestShaderSetUniformNotFound(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	f.rec.Reset()

	var nerr *core.UniformNotFoundError
	c.Assert(shader.SetFloat("u_Missing", 1), qt.ErrorAs, &nerr)
	c.Assert(nerr.Name, qt.Equals, "u_Missing")
	c.Assert(shader.SetInt2("u_missing", 1, 2), qt.ErrorAs, &nerr)
	c.Assert(shader.SetTexture("u_Texture"), qt.ErrorAs, &nerr)
	_, err = shader.UniformType("u_Missing")
	c.Assert(err, qt.ErrorAs, &nerr)

	c.Assert(f.rec.Uploads, qt.HasLen, 0)
	c.Assert(f.rec.Calls, qt.HasLen, 0)
}

func TestShaderSetUniform(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	program := device.Program(f.rec.Live(devicetest.KindProgram)[0])
	f.rec.Reset()

	c.Assert(shader.SetFloat("u_Time", 1.5), qt.IsNil)
	c.Assert(shader.SetFloat2("u_Resolution", 640, 480), qt.IsNil)
	c.Assert(shader.SetInt2("u_Mouse", 3, 4), qt.IsNil)

	c.Assert(f.rec.Uploads, qt.HasLen, 3)
	c.Assert(f.rec.Uploads[0].Func, qt.Equals, "Uniform1fv")
	c.Assert(f.rec.Uploads[0].Floats, qt.DeepEquals, []float32{1.5})
	c.Assert(f.rec.Uploads[1].Func, qt.Equals, "Uniform2fv")
	c.Assert(f.rec.Uploads[1].Floats, qt.DeepEquals, []float32{640, 480})
	c.Assert(f.rec.Uploads[2].Func, qt.Equals, "Uniform2iv")
	c.Assert(f.rec.Uploads[2].Ints, qt.DeepEquals, []int32{3, 4})
	for _, u := range f.rec.Uploads {
		c.Assert(u.Program, qt.Equals, program)
	}

	typ, err := shader.UniformType("u_Resolution")
	c.Assert(err, qt.IsNil)
	c.Assert(typ, qt.Equals, core.UniformFloat2)

	// the last set decides the dispatch
	c.Assert(shader.SetInt("u_Time", 2), qt.IsNil)
	typ, _ = shader.UniformType("u_Time")
	c.Assert(typ, qt.Equals, core.UniformInt)
}

func TestShaderSetUniformArity(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	f.rec.Reset()

	c.Assert(shader.SetFloat2("u_Resolution", 640), qt.ErrorIs, core.ErrUniformArity)
	c.Assert(shader.SetFloat("u_Time"), qt.ErrorIs, core.ErrUniformArity)
	c.Assert(shader.SetInt4("u_Mouse", 1, 2, 3, 4, 5), qt.ErrorIs, core.ErrUniformArity)
	c.Assert(f.rec.Uploads, qt.HasLen, 0)

	c.Assert(shader.SetFloat2("u_Resolution", 1, 2, 3, 4), qt.IsNil)
	c.Assert(f.rec.Uploads, qt.HasLen, 1)
}

func TestShaderSetTexture(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	first, err := f.engine.CreateTexture(4, 4)
	c.Assert(err, qt.IsNil)
	second, err := f.engine.CreateTexture(8, 8)
	c.Assert(err, qt.IsNil)
	textures := f.rec.Live(devicetest.KindTexture)
	f.rec.Reset()

	c.Assert(shader.SetTexture("u_Channels", first, second), qt.IsNil)

	c.Assert(f.rec.UnitTextures[device.TEXTURE0], qt.Equals, device.Texture(textures[0]))
	c.Assert(f.rec.UnitTextures[device.TEXTURE0+1], qt.Equals, device.Texture(textures[1]))
	c.Assert(f.rec.Uploads, qt.HasLen, 1)
	c.Assert(f.rec.Uploads[0].Func, qt.Equals, "Uniform1iv")
	c.Assert(f.rec.Uploads[0].Ints, qt.DeepEquals, []int32{0, 1})

	typ, err := shader.UniformType("u_Channels[0]")
	c.Assert(err, qt.IsNil)
	c.Assert(typ, qt.Equals, core.UniformTexture)
}

func TestShaderSetTextureSurvivesTextureBinds(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	first, err := f.engine.CreateTexture(4, 4)
	c.Assert(err, qt.IsNil)
	second, err := f.engine.CreateTexture(8, 8)
	c.Assert(err, qt.IsNil)
	textures := f.rec.Live(devicetest.KindTexture)

	c.Assert(shader.SetTexture("u_Channels", first, second), qt.IsNil)

	// creating and uploading bind on the active unit
	_, err = f.engine.CreateFrameBuffer(0.5)
	c.Assert(err, qt.IsNil)
	c.Assert(first.Upload(image.NewRGBA(image.Rect(0, 0, 4, 4))), qt.IsNil)
	f.rec.Reset()

	c.Assert(f.engine.Render(core.RenderOptions{Shader: shader}), qt.IsNil)
	c.Assert(f.rec.DrawTextures, qt.HasLen, 1)
	c.Assert(f.rec.DrawTextures[0][device.TEXTURE0], qt.Equals, device.Texture(textures[0]))
	c.Assert(f.rec.DrawTextures[0][device.TEXTURE0+1], qt.Equals, device.Texture(textures[1]))

	c.Run("disposed textures are unbound", func(c *qt.C) {
		second.Dispose()
		f.rec.Reset()

		c.Assert(f.engine.Render(core.RenderOptions{Shader: shader}), qt.IsNil)
		c.Assert(f.rec.DrawTextures[0][device.TEXTURE0], qt.Equals, device.Texture(textures[0]))
		c.Assert(f.rec.DrawTextures[0][device.TEXTURE0+1], qt.Equals, device.Texture(0))
	})
}

func TestShaderSetTextureRejected(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	other := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	own, err := f.engine.CreateTexture(4, 4)
	c.Assert(err, qt.IsNil)
	foreign, err := other.engine.CreateTexture(4, 4)
	c.Assert(err, qt.IsNil)
	gone, err := f.engine.CreateTexture(4, 4)
	c.Assert(err, qt.IsNil)
	gone.Dispose()
	f.rec.Reset()

	var ferr *core.ForeignResourceError
	c.Assert(shader.SetTexture("u_Channels", own, foreign), qt.ErrorAs, &ferr)
	c.Assert(ferr.Kind, qt.Equals, "texture")
	c.Assert(shader.SetTexture("u_Channels", gone), qt.ErrorIs, core.ErrResourceDisposed)
	c.Assert(shader.SetTexture("u_Channels", own, nil), qt.ErrorIs, core.ErrNilResource)

	c.Assert(f.rec.Calls, qt.HasLen, 0)
}

func TestDisposedShader(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	shader, err := f.engine.CreateShader(animatedFragment, "")
	c.Assert(err, qt.IsNil)
	shader.Dispose()
	f.rec.Reset()

	c.Assert(shader.SetFloat("u_Time", 1), qt.ErrorIs, core.ErrResourceDisposed)
	c.Assert(f.rec.Calls, qt.HasLen, 0)
}
