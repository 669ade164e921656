// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device describes the GPU collaborators the engine is built on:
// a Context issuing GL-style commands and a Surface that owns the window,
// hands out contexts and paces presentation.
package device

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedVersion is returned by a Surface that cannot provide
// a context of the requested Version.
var ErrUnsupportedVersion = errors.New("requested GPU API version is not available")

// ErrSurfaceClosed is returned by WaitFrame once the host asked to close.
var ErrSurfaceClosed = errors.New("surface closed")

// Version identifies a GPU API level.
type Version int

// API levels. The engine runs on GLES30 and later, GLES20 only names
// contexts it rejects.
const (
	GLES20 Version = iota
	GLES30
)

func (v Version) String() string {
	switch v {
	case GLES20:
		return "OpenGL ES 2.0"
	case GLES30:
		return "OpenGL ES 3.0"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Native object names. Zero is never a valid name, except for
// Framebuffer and VertexArray where zero binds the default.
type (
	Buffer      uint32
	Framebuffer uint32
	Program     uint32
	Shader      uint32
	Texture     uint32
	VertexArray uint32
	Uniform     int32
)

// Valid reports whether the location refers to an active uniform.
func (u Uniform) Valid() bool {
	return u >= 0
}

// ActiveUniform is one entry of program reflection.
type ActiveUniform struct {
	Name string
	Size int
	Type Enum
}

// Info describes the context the surface handed out.
type Info struct {
	Vendor          string
	Renderer        string
	Version         string
	ShadingLanguage string
}

// Context is the GPU command interface. All calls must be made from the
// goroutine that owns the context.
type Context interface {
	// Info returns driver identification strings
	Info() Info

	CreateProgram() Program
	DeleteProgram(p Program)
	CreateShader(ty Enum) Shader
	DeleteShader(s Shader)
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	AttachShader(p Program, s Shader)
	BindAttribLocation(p Program, index uint32, name string)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	UseProgram(p Program)

	// GetActiveUniform returns the uniform at index, as enumerated by the
	// linked program (0 <= index < ACTIVE_UNIFORMS).
	GetActiveUniform(p Program, index int) ActiveUniform
	GetUniformLocation(p Program, name string) Uniform
	Uniform1iv(u Uniform, v []int32)
	Uniform2iv(u Uniform, v []int32)
	Uniform3iv(u Uniform, v []int32)
	Uniform4iv(u Uniform, v []int32)
	Uniform1fv(u Uniform, v []float32)
	Uniform2fv(u Uniform, v []float32)
	Uniform3fv(u Uniform, v []float32)
	Uniform4fv(u Uniform, v []float32)

	CreateTexture() Texture
	DeleteTexture(t Texture)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(target Enum, f Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	CheckFramebufferStatus(target Enum) Enum
	DrawBuffers(bufs []Enum)

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)

	CreateVertexArray() VertexArray
	DeleteVertexArray(v VertexArray)
	BindVertexArray(v VertexArray)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int, ty Enum, normalized bool, stride, offset int)
	VertexAttribIPointer(index uint32, size int, ty Enum, stride, offset int)

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Viewport(x, y, width, height int)
	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, ty Enum, offset int)
}

// Surface is the host side of presentation: it owns the drawable,
// creates the Context bound to it and yields once per frame.
type Surface interface {
	// Context acquires the GPU context. It returns an error wrapping
	// ErrUnsupportedVersion when the version cannot be provided.
	Context(version Version) (Context, error)

	// Size returns the drawable size in pixels
	Size() (width, height int)

	// WaitFrame presents what was drawn and blocks until the host is
	// ready for the next frame or ctx is done.
	WaitFrame(ctx context.Context) error

	// Destroy releases the drawable and its context
	Destroy()
}
