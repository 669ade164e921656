// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gles implements device.Context on top of the OpenGL ES 3.0
// bindings. The context must be current on the calling OS thread.
package gles

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/devblok/shed/device"
	gl "github.com/go-gl/gl/v3.0/gles2"
)

// maxNameLength bounds the names read back from program reflection.
const maxNameLength = 256

// New loads the GL entry points through getProcAddr and returns a
// Context for the currently bound GL context.
func New(getProcAddr func(name string) unsafe.Pointer) (*Context, error) {
	if err := gl.InitWithProcAddrFunc(getProcAddr); err != nil {
		return nil, fmt.Errorf("gles.Init(): %s", err.Error())
	}
	return &Context{}, nil
}

// Context issues commands to the current OpenGL ES context.
type Context struct{}

var _ device.Context = (*Context)(nil)

// Info implements interface
func (Context) Info() device.Info {
	return device.Info{
		Vendor:          gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:        gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

// CreateProgram implements interface
func (Context) CreateProgram() device.Program {
	return device.Program(gl.CreateProgram())
}

// DeleteProgram implements interface
func (Context) DeleteProgram(p device.Program) {
	gl.DeleteProgram(uint32(p))
}

// CreateShader implements interface
func (Context) CreateShader(ty device.Enum) device.Shader {
	return device.Shader(gl.CreateShader(uint32(ty)))
}

// DeleteShader implements interface
func (Context) DeleteShader(s device.Shader) {
	gl.DeleteShader(uint32(s))
}

// ShaderSource implements interface
func (Context) ShaderSource(s device.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csources, nil)
}

// CompileShader implements interface
func (Context) CompileShader(s device.Shader) {
	gl.CompileShader(uint32(s))
}

// GetShaderi implements interface
func (Context) GetShaderi(s device.Shader, pname device.Enum) int {
	var v int32
	gl.GetShaderiv(uint32(s), uint32(pname), &v)
	return int(v)
}

// GetShaderInfoLog implements interface
func (c Context) GetShaderInfoLog(s device.Shader) string {
	n := c.GetShaderi(s, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", n+1)
	gl.GetShaderInfoLog(uint32(s), int32(n), nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

// AttachShader implements interface
func (Context) AttachShader(p device.Program, s device.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

// BindAttribLocation implements interface
func (Context) BindAttribLocation(p device.Program, index uint32, name string) {
	gl.BindAttribLocation(uint32(p), index, gl.Str(name+"\x00"))
}

// LinkProgram implements interface
func (Context) LinkProgram(p device.Program) {
	gl.LinkProgram(uint32(p))
}

// GetProgrami implements interface
func (Context) GetProgrami(p device.Program, pname device.Enum) int {
	var v int32
	gl.GetProgramiv(uint32(p), uint32(pname), &v)
	return int(v)
}

// GetProgramInfoLog implements interface
func (c Context) GetProgramInfoLog(p device.Program) string {
	n := c.GetProgrami(p, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", n+1)
	gl.GetProgramInfoLog(uint32(p), int32(n), nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

// UseProgram implements interface
func (Context) UseProgram(p device.Program) {
	gl.UseProgram(uint32(p))
}

// GetActiveUniform implements interface
func (Context) GetActiveUniform(p device.Program, index int) device.ActiveUniform {
	var (
		length int32
		size   int32
		ty     uint32
		name   = make([]uint8, maxNameLength)
	)
	gl.GetActiveUniform(uint32(p), uint32(index), maxNameLength, &length, &size, &ty, &name[0])
	return device.ActiveUniform{
		Name: string(name[:length]),
		Size: int(size),
		Type: device.Enum(ty),
	}
}

// GetUniformLocation implements interface
func (Context) GetUniformLocation(p device.Program, name string) device.Uniform {
	return device.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

// Uniform1iv implements interface
func (Context) Uniform1iv(u device.Uniform, v []int32) {
	gl.Uniform1iv(int32(u), int32(len(v)), &v[0])
}

// Uniform2iv implements interface
func (Context) Uniform2iv(u device.Uniform, v []int32) {
	gl.Uniform2iv(int32(u), int32(len(v)/2), &v[0])
}

// Uniform3iv implements interface
func (Context) Uniform3iv(u device.Uniform, v []int32) {
	gl.Uniform3iv(int32(u), int32(len(v)/3), &v[0])
}

// Uniform4iv implements interface
func (Context) Uniform4iv(u device.Uniform, v []int32) {
	gl.Uniform4iv(int32(u), int32(len(v)/4), &v[0])
}

// Uniform1fv implements interface
func (Context) Uniform1fv(u device.Uniform, v []float32) {
	gl.Uniform1fv(int32(u), int32(len(v)), &v[0])
}

// Uniform2fv implements interface
func (Context) Uniform2fv(u device.Uniform, v []float32) {
	gl.Uniform2fv(int32(u), int32(len(v)/2), &v[0])
}

// Uniform3fv implements interface
func (Context) Uniform3fv(u device.Uniform, v []float32) {
	gl.Uniform3fv(int32(u), int32(len(v)/3), &v[0])
}

// Uniform4fv implements interface
func (Context) Uniform4fv(u device.Uniform, v []float32) {
	gl.Uniform4fv(int32(u), int32(len(v)/4), &v[0])
}

// CreateTexture implements interface
func (Context) CreateTexture() device.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return device.Texture(t)
}

// DeleteTexture implements interface
func (Context) DeleteTexture(t device.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// ActiveTexture implements interface
func (Context) ActiveTexture(unit device.Enum) {
	gl.ActiveTexture(uint32(unit))
}

// BindTexture implements interface
func (Context) BindTexture(target device.Enum, t device.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

// TexImage2D implements interface
func (Context) TexImage2D(target device.Enum, level int, internalFormat device.Enum, width, height int, format, ty device.Enum, data []byte) {
	var pixels unsafe.Pointer
	if len(data) > 0 {
		pixels = gl.Ptr(data)
	}
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), pixels)
}

// TexParameteri implements interface
func (Context) TexParameteri(target, pname device.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

// CreateFramebuffer implements interface
func (Context) CreateFramebuffer() device.Framebuffer {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return device.Framebuffer(f)
}

// DeleteFramebuffer implements interface
func (Context) DeleteFramebuffer(f device.Framebuffer) {
	id := uint32(f)
	gl.DeleteFramebuffers(1, &id)
}

// BindFramebuffer implements interface
func (Context) BindFramebuffer(target device.Enum, f device.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(f))
}

// FramebufferTexture2D implements interface
func (Context) FramebufferTexture2D(target, attachment, texTarget device.Enum, t device.Texture, level int) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), int32(level))
}

// CheckFramebufferStatus implements interface
func (Context) CheckFramebufferStatus(target device.Enum) device.Enum {
	return device.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

// DrawBuffers implements interface
func (Context) DrawBuffers(bufs []device.Enum) {
	if len(bufs) == 0 {
		return
	}
	raw := make([]uint32, len(bufs))
	for i, b := range bufs {
		raw[i] = uint32(b)
	}
	gl.DrawBuffers(int32(len(raw)), &raw[0])
}

// CreateBuffer implements interface
func (Context) CreateBuffer() device.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return device.Buffer(b)
}

// DeleteBuffer implements interface
func (Context) DeleteBuffer(b device.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// BindBuffer implements interface
func (Context) BindBuffer(target device.Enum, b device.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

// BufferData implements interface
func (Context) BufferData(target device.Enum, data []byte, usage device.Enum) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(uint32(target), len(data), ptr, uint32(usage))
}

// CreateVertexArray implements interface
func (Context) CreateVertexArray() device.VertexArray {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return device.VertexArray(v)
}

// DeleteVertexArray implements interface
func (Context) DeleteVertexArray(v device.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

// BindVertexArray implements interface
func (Context) BindVertexArray(v device.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

// EnableVertexAttribArray implements interface
func (Context) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

// VertexAttribPointer implements interface
func (Context) VertexAttribPointer(index uint32, size int, ty device.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(index, int32(size), uint32(ty), normalized, int32(stride), uintptr(offset))
}

// VertexAttribIPointer implements interface
func (Context) VertexAttribIPointer(index uint32, size int, ty device.Enum, stride, offset int) {
	gl.VertexAttribIPointerWithOffset(index, int32(size), uint32(ty), int32(stride), uintptr(offset))
}

// ClearColor implements interface
func (Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// Clear implements interface
func (Context) Clear(mask device.Enum) {
	gl.Clear(uint32(mask))
}

// Viewport implements interface
func (Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// DrawArrays implements interface
func (Context) DrawArrays(mode device.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

// DrawElements implements interface
func (Context) DrawElements(mode device.Enum, count int, ty device.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(ty), uintptr(offset))
}
