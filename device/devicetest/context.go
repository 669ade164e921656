// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package devicetest provides an in-memory device.Context and
// device.Surface that record every command, for use in tests.
package devicetest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/devblok/shed/device"
)

// Object kinds as reported by Deleted and Live
const (
	KindProgram     = "program"
	KindShader      = "shader"
	KindTexture     = "texture"
	KindFramebuffer = "framebuffer"
	KindBuffer      = "buffer"
	KindVertexArray = "vertexarray"
)

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*(\[\s*\d+\s*\])?\s*;`)

// Call is one recorded command
type Call struct {
	Name string
	Args []interface{}
}

// Upload is one recorded uniform upload
type Upload struct {
	Program  device.Program
	Location device.Uniform
	Func     string
	Ints     []int32
	Floats   []float32
}

// Draw is one recorded draw call
type Draw struct {
	Program     device.Program
	Framebuffer device.Framebuffer
	VertexArray device.VertexArray
	Mode        device.Enum
	Count       int
	Indexed     bool
}

// Attachment records a FramebufferTexture2D call
type Attachment struct {
	Framebuffer device.Framebuffer
	Slot        device.Enum
	Texture     device.Texture
}

// AttribPointer records a vertex attribute binding
type AttribPointer struct {
	VertexArray device.VertexArray
	Index       uint32
	Size        int
	Type        device.Enum
	Stride      int
	Offset      int
	Integer     bool
}

type shaderObject struct {
	ty       device.Enum
	source   string
	compiled bool
	log      string
}

type programObject struct {
	shaders  []device.Shader
	linked   bool
	log      string
	uniforms []device.ActiveUniform
	attribs  map[string]uint32
}

// Context is a recording device.Context. Compilation fails for sources
// containing an #error directive; linking fails when LinkError is set.
type Context struct {
	// LinkError, when non-empty, makes every LinkProgram fail with it as log
	LinkError string

	// FramebufferStatus is returned by CheckFramebufferStatus,
	// defaults to FRAMEBUFFER_COMPLETE
	FramebufferStatus device.Enum

	Calls       []Call
	Uploads     []Upload
	Draws       []Draw
	Attachments []Attachment
	Pointers    []AttribPointer
	TexImages   [][]byte

	// Bound state
	Program        device.Program
	Framebuffer    device.Framebuffer
	VertexArray    device.VertexArray
	ActiveUnit     device.Enum
	UnitTextures   map[device.Enum]device.Texture

	// DrawTextures holds a copy of UnitTextures per entry of Draws
	DrawTextures []map[device.Enum]device.Texture
	ViewportSize   [4]int
	DrawBufferList []device.Enum

	next     uint32
	live     map[string]map[uint32]bool
	deleted  map[string]map[uint32]int
	shaders  map[device.Shader]*shaderObject
	programs map[device.Program]*programObject
	buffers  map[device.Enum]device.Buffer
}

var _ device.Context = (*Context)(nil)

// NewContext returns an empty recording context
func NewContext() *Context {
	return &Context{
		FramebufferStatus: device.FRAMEBUFFER_COMPLETE,
		ActiveUnit:        device.TEXTURE0,
		UnitTextures:      make(map[device.Enum]device.Texture),
		live:              make(map[string]map[uint32]bool),
		deleted:           make(map[string]map[uint32]int),
		shaders:           make(map[device.Shader]*shaderObject),
		programs:          make(map[device.Program]*programObject),
		buffers:           make(map[device.Enum]device.Buffer),
	}
}

func (c *Context) record(name string, args ...interface{}) {
	c.Calls = append(c.Calls, Call{Name: name, Args: args})
}

func (c *Context) alloc(kind string) uint32 {
	c.next++
	if c.live[kind] == nil {
		c.live[kind] = make(map[uint32]bool)
	}
	c.live[kind][c.next] = true
	return c.next
}

func (c *Context) free(kind string, id uint32) {
	if id == 0 {
		return
	}
	if c.deleted[kind] == nil {
		c.deleted[kind] = make(map[uint32]int)
	}
	c.deleted[kind][id]++
	delete(c.live[kind], id)
}

// Deleted returns how many times the object was deleted
func (c *Context) Deleted(kind string, id uint32) int {
	return c.deleted[kind][id]
}

// DeleteTotal returns the number of delete calls for a kind
func (c *Context) DeleteTotal(kind string) int {
	total := 0
	for _, n := range c.deleted[kind] {
		total += n
	}
	return total
}

// Live returns the sorted names of the objects of kind not yet deleted
func (c *Context) Live(kind string) []uint32 {
	var ids []uint32
	for id := range c.live[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns how many times the named command was issued
func (c *Context) Count(name string) int {
	n := 0
	for _, call := range c.Calls {
		if call.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded commands, keeping objects and bound state
func (c *Context) Reset() {
	c.Calls = nil
	c.Uploads = nil
	c.Draws = nil
	c.DrawTextures = nil
	c.Attachments = nil
	c.Pointers = nil
	c.TexImages = nil
}

// Info implements interface
func (c *Context) Info() device.Info {
	return device.Info{
		Vendor:          "devicetest",
		Renderer:        "recording",
		Version:         "OpenGL ES 3.0 devicetest",
		ShadingLanguage: "OpenGL ES GLSL ES 3.00",
	}
}

// CreateProgram implements interface
func (c *Context) CreateProgram() device.Program {
	p := device.Program(c.alloc(KindProgram))
	c.programs[p] = &programObject{attribs: make(map[string]uint32)}
	c.record("CreateProgram", p)
	return p
}

// DeleteProgram implements interface
func (c *Context) DeleteProgram(p device.Program) {
	c.record("DeleteProgram", p)
	c.free(KindProgram, uint32(p))
}

// CreateShader implements interface
func (c *Context) CreateShader(ty device.Enum) device.Shader {
	s := device.Shader(c.alloc(KindShader))
	c.shaders[s] = &shaderObject{ty: ty}
	c.record("CreateShader", s, ty)
	return s
}

// DeleteShader implements interface
func (c *Context) DeleteShader(s device.Shader) {
	c.record("DeleteShader", s)
	c.free(KindShader, uint32(s))
}

// ShaderSource implements interface
func (c *Context) ShaderSource(s device.Shader, src string) {
	c.record("ShaderSource", s)
	if so, ok := c.shaders[s]; ok {
		so.source = src
	}
}

// Source returns the source last given to the shader object
func (c *Context) Source(s device.Shader) string {
	if so, ok := c.shaders[s]; ok {
		return so.source
	}
	return ""
}

// CompileShader implements interface
func (c *Context) CompileShader(s device.Shader) {
	c.record("CompileShader", s)
	so, ok := c.shaders[s]
	if !ok {
		return
	}
	if idx := strings.Index(so.source, "#error"); idx >= 0 {
		line := so.source[idx:]
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		so.log = "ERROR: 0:1: '" + strings.TrimSpace(line) + "'"
		return
	}
	so.compiled = true
}

// GetShaderi implements interface
func (c *Context) GetShaderi(s device.Shader, pname device.Enum) int {
	so, ok := c.shaders[s]
	if !ok {
		return 0
	}
	if pname == device.COMPILE_STATUS && so.compiled {
		return int(device.TRUE)
	}
	return int(device.FALSE)
}

// GetShaderInfoLog implements interface
func (c *Context) GetShaderInfoLog(s device.Shader) string {
	if so, ok := c.shaders[s]; ok {
		return so.log
	}
	return ""
}

// AttachShader implements interface
func (c *Context) AttachShader(p device.Program, s device.Shader) {
	c.record("AttachShader", p, s)
	if po, ok := c.programs[p]; ok {
		po.shaders = append(po.shaders, s)
	}
}

// BindAttribLocation implements interface
func (c *Context) BindAttribLocation(p device.Program, index uint32, name string) {
	c.record("BindAttribLocation", p, index, name)
	if po, ok := c.programs[p]; ok {
		po.attribs[name] = index
	}
}

// LinkProgram implements interface
func (c *Context) LinkProgram(p device.Program) {
	c.record("LinkProgram", p)
	po, ok := c.programs[p]
	if !ok {
		return
	}
	if c.LinkError != "" {
		po.log = c.LinkError
		return
	}

	seen := make(map[string]bool)
	for _, s := range po.shaders {
		so := c.shaders[s]
		if so == nil || !so.compiled {
			po.log = "ERROR: attached shader not compiled"
			return
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(so.source, -1) {
			name := m[1]
			size := 1
			if m[2] != "" {
				name += "[0]"
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			po.uniforms = append(po.uniforms, device.ActiveUniform{Name: name, Size: size})
		}
	}
	po.linked = true
}

// GetProgrami implements interface
func (c *Context) GetProgrami(p device.Program, pname device.Enum) int {
	po, ok := c.programs[p]
	if !ok {
		return 0
	}
	switch pname {
	case device.LINK_STATUS:
		if po.linked {
			return int(device.TRUE)
		}
		return int(device.FALSE)
	case device.ACTIVE_UNIFORMS:
		return len(po.uniforms)
	}
	return 0
}

// GetProgramInfoLog implements interface
func (c *Context) GetProgramInfoLog(p device.Program) string {
	if po, ok := c.programs[p]; ok {
		return po.log
	}
	return ""
}

// AttribLocation returns the location bound with BindAttribLocation
func (c *Context) AttribLocation(p device.Program, name string) (uint32, bool) {
	po, ok := c.programs[p]
	if !ok {
		return 0, false
	}
	loc, ok := po.attribs[name]
	return loc, ok
}

// UseProgram implements interface
func (c *Context) UseProgram(p device.Program) {
	c.record("UseProgram", p)
	c.Program = p
}

// GetActiveUniform implements interface
func (c *Context) GetActiveUniform(p device.Program, index int) device.ActiveUniform {
	po, ok := c.programs[p]
	if !ok || index < 0 || index >= len(po.uniforms) {
		return device.ActiveUniform{}
	}
	return po.uniforms[index]
}

// GetUniformLocation implements interface. Locations are the
// reflection index, arrays also answer to their base name.
func (c *Context) GetUniformLocation(p device.Program, name string) device.Uniform {
	po, ok := c.programs[p]
	if !ok {
		return -1
	}
	for i, u := range po.uniforms {
		if u.Name == name || strings.TrimSuffix(u.Name, "[0]") == name {
			return device.Uniform(i)
		}
	}
	return -1
}

func (c *Context) uploadInts(fn string, u device.Uniform, v []int32) {
	c.record(fn, u)
	c.Uploads = append(c.Uploads, Upload{
		Program:  c.Program,
		Location: u,
		Func:     fn,
		Ints:     append([]int32(nil), v...),
	})
}

func (c *Context) uploadFloats(fn string, u device.Uniform, v []float32) {
	c.record(fn, u)
	c.Uploads = append(c.Uploads, Upload{
		Program:  c.Program,
		Location: u,
		Func:     fn,
		Floats:   append([]float32(nil), v...),
	})
}

// Uniform1iv implements interface
func (c *Context) Uniform1iv(u device.Uniform, v []int32) { c.uploadInts("Uniform1iv", u, v) }

// Uniform2iv implements interface
func (c *Context) Uniform2iv(u device.Uniform, v []int32) { c.uploadInts("Uniform2iv", u, v) }

// Uniform3iv implements interface
func (c *Context) Uniform3iv(u device.Uniform, v []int32) { c.uploadInts("Uniform3iv", u, v) }

// Uniform4iv implements interface
func (c *Context) Uniform4iv(u device.Uniform, v []int32) { c.uploadInts("Uniform4iv", u, v) }

// Uniform1fv implements interface
func (c *Context) Uniform1fv(u device.Uniform, v []float32) { c.uploadFloats("Uniform1fv", u, v) }

// Uniform2fv implements interface
func (c *Context) Uniform2fv(u device.Uniform, v []float32) { c.uploadFloats("Uniform2fv", u, v) }

// Uniform3fv implements interface
func (c *Context) Uniform3fv(u device.Uniform, v []float32) { c.uploadFloats("Uniform3fv", u, v) }

// Uniform4fv implements interface
func (c *Context) Uniform4fv(u device.Uniform, v []float32) { c.uploadFloats("Uniform4fv", u, v) }

// CreateTexture implements interface
func (c *Context) CreateTexture() device.Texture {
	t := device.Texture(c.alloc(KindTexture))
	c.record("CreateTexture", t)
	return t
}

// DeleteTexture implements interface
func (c *Context) DeleteTexture(t device.Texture) {
	c.record("DeleteTexture", t)
	c.free(KindTexture, uint32(t))
}

func (c *Context) snapshotUnits() {
	units := make(map[device.Enum]device.Texture, len(c.UnitTextures))
	for unit, t := range c.UnitTextures {
		units[unit] = t
	}
	c.DrawTextures = append(c.DrawTextures, units)
}

// ActiveTexture implements interface
func (c *Context) ActiveTexture(unit device.Enum) {
	c.record("ActiveTexture", unit)
	c.ActiveUnit = unit
}

// BindTexture implements interface
func (c *Context) BindTexture(target device.Enum, t device.Texture) {
	c.record("BindTexture", target, t)
	c.UnitTextures[c.ActiveUnit] = t
}

// TexImage2D implements interface
func (c *Context) TexImage2D(target device.Enum, level int, internalFormat device.Enum, width, height int, format, ty device.Enum, data []byte) {
	c.record("TexImage2D", target, level, internalFormat, width, height, format, ty)
	c.TexImages = append(c.TexImages, append([]byte(nil), data...))
}

// TexParameteri implements interface
func (c *Context) TexParameteri(target, pname device.Enum, param int) {
	c.record("TexParameteri", target, pname, param)
}

// CreateFramebuffer implements interface
func (c *Context) CreateFramebuffer() device.Framebuffer {
	f := device.Framebuffer(c.alloc(KindFramebuffer))
	c.record("CreateFramebuffer", f)
	return f
}

// DeleteFramebuffer implements interface
func (c *Context) DeleteFramebuffer(f device.Framebuffer) {
	c.record("DeleteFramebuffer", f)
	c.free(KindFramebuffer, uint32(f))
}

// BindFramebuffer implements interface
func (c *Context) BindFramebuffer(target device.Enum, f device.Framebuffer) {
	c.record("BindFramebuffer", target, f)
	c.Framebuffer = f
}

// FramebufferTexture2D implements interface
func (c *Context) FramebufferTexture2D(target, attachment, texTarget device.Enum, t device.Texture, level int) {
	c.record("FramebufferTexture2D", target, attachment, texTarget, t, level)
	c.Attachments = append(c.Attachments, Attachment{
		Framebuffer: c.Framebuffer,
		Slot:        attachment,
		Texture:     t,
	})
}

// CheckFramebufferStatus implements interface
func (c *Context) CheckFramebufferStatus(target device.Enum) device.Enum {
	c.record("CheckFramebufferStatus", target)
	return c.FramebufferStatus
}

// DrawBuffers implements interface
func (c *Context) DrawBuffers(bufs []device.Enum) {
	c.record("DrawBuffers", bufs)
	c.DrawBufferList = append([]device.Enum(nil), bufs...)
}

// CreateBuffer implements interface
func (c *Context) CreateBuffer() device.Buffer {
	b := device.Buffer(c.alloc(KindBuffer))
	c.record("CreateBuffer", b)
	return b
}

// DeleteBuffer implements interface
func (c *Context) DeleteBuffer(b device.Buffer) {
	c.record("DeleteBuffer", b)
	c.free(KindBuffer, uint32(b))
}

// BindBuffer implements interface
func (c *Context) BindBuffer(target device.Enum, b device.Buffer) {
	c.record("BindBuffer", target, b)
	c.buffers[target] = b
}

// BufferData implements interface
func (c *Context) BufferData(target device.Enum, data []byte, usage device.Enum) {
	c.record("BufferData", target, len(data), usage)
}

// CreateVertexArray implements interface
func (c *Context) CreateVertexArray() device.VertexArray {
	v := device.VertexArray(c.alloc(KindVertexArray))
	c.record("CreateVertexArray", v)
	return v
}

// DeleteVertexArray implements interface
func (c *Context) DeleteVertexArray(v device.VertexArray) {
	c.record("DeleteVertexArray", v)
	c.free(KindVertexArray, uint32(v))
}

// BindVertexArray implements interface
func (c *Context) BindVertexArray(v device.VertexArray) {
	c.record("BindVertexArray", v)
	c.VertexArray = v
}

// EnableVertexAttribArray implements interface
func (c *Context) EnableVertexAttribArray(index uint32) {
	c.record("EnableVertexAttribArray", index)
}

// VertexAttribPointer implements interface
func (c *Context) VertexAttribPointer(index uint32, size int, ty device.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer", index, size, ty, normalized, stride, offset)
	c.Pointers = append(c.Pointers, AttribPointer{
		VertexArray: c.VertexArray,
		Index:       index,
		Size:        size,
		Type:        ty,
		Stride:      stride,
		Offset:      offset,
	})
}

// VertexAttribIPointer implements interface
func (c *Context) VertexAttribIPointer(index uint32, size int, ty device.Enum, stride, offset int) {
	c.record("VertexAttribIPointer", index, size, ty, stride, offset)
	c.Pointers = append(c.Pointers, AttribPointer{
		VertexArray: c.VertexArray,
		Index:       index,
		Size:        size,
		Type:        ty,
		Stride:      stride,
		Offset:      offset,
		Integer:     true,
	})
}

// ClearColor implements interface
func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor", r, g, b, a)
}

// Clear implements interface
func (c *Context) Clear(mask device.Enum) {
	c.record("Clear", mask)
}

// Viewport implements interface
func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport", x, y, width, height)
	c.ViewportSize = [4]int{x, y, width, height}
}

// DrawArrays implements interface
func (c *Context) DrawArrays(mode device.Enum, first, count int) {
	c.snapshotUnits()
	c.record("DrawArrays", mode, first, count)
	c.Draws = append(c.Draws, Draw{
		Program:     c.Program,
		Framebuffer: c.Framebuffer,
		VertexArray: c.VertexArray,
		Mode:        mode,
		Count:       count,
	})
}

// DrawElements implements interface
func (c *Context) DrawElements(mode device.Enum, count int, ty device.Enum, offset int) {
	c.snapshotUnits()
	c.record("DrawElements", mode, count, ty, offset)
	c.Draws = append(c.Draws, Draw{
		Program:     c.Program,
		Framebuffer: c.Framebuffer,
		VertexArray: c.VertexArray,
		Mode:        mode,
		Count:       count,
		Indexed:     true,
	})
}
