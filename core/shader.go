// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devblok/shed/device"
	"github.com/sirupsen/logrus"
)

// UniformType is the dispatch last used to upload a uniform
type UniformType int

// Uniform dispatches, UniformNone until the first set
const (
	UniformNone UniformType = iota
	UniformInt
	UniformInt2
	UniformInt3
	UniformInt4
	UniformFloat
	UniformFloat2
	UniformFloat3
	UniformFloat4
	UniformTexture
)

var uniformTypeNames = [...]string{
	"none", "int", "ivec2", "ivec3", "ivec4",
	"float", "vec2", "vec3", "vec4", "sampler",
}

func (t UniformType) String() string {
	if t < 0 || int(t) >= len(uniformTypeNames) {
		return fmt.Sprintf("UniformType(%d)", int(t))
	}
	return uniformTypeNames[t]
}

// arity is the number of components per element
func (t UniformType) arity() int {
	switch t {
	case UniformInt2, UniformFloat2:
		return 2
	case UniformInt3, UniformFloat3:
		return 3
	case UniformInt4, UniformFloat4:
		return 4
	default:
		return 1
	}
}

type uniform struct {
	location device.Uniform
	typ      UniformType

	// textures last given to SetTexture, bound to units 0..n-1
	textures []*Texture
}

// defaultVertexSource picks the built-in vertex stage matching the
// GLSL version of fragment
func defaultVertexSource(fragment string) string {
	if strings.Contains(fragment, "#version 300 es") {
		return defaultVertexShader300es
	}
	return defaultVertexShader100
}

// CreateShader compiles and links a program. An empty vertex source
// selects a default stage passing a_position through.
func (e *Engine) CreateShader(fragment, vertex string) (*Shader, error) {
	if !e.running {
		return nil, ErrEngineDisposed
	}
	if vertex == "" {
		vertex = defaultVertexSource(fragment)
	}

	vs, err := e.compile(VertexShaderType, vertex)
	if err != nil {
		return nil, err
	}
	fs, err := e.compile(FragmentShaderType, fragment)
	if err != nil {
		e.gl.DeleteShader(vs)
		return nil, err
	}

	program := e.gl.CreateProgram()
	e.gl.AttachShader(program, vs)
	e.gl.AttachShader(program, fs)
	e.gl.BindAttribLocation(program, 0, positionAttribute)
	e.gl.LinkProgram(program)

	// stages are flagged for deletion, they go with the program
	e.gl.DeleteShader(fs)
	e.gl.DeleteShader(vs)

	if device.Enum(e.gl.GetProgrami(program, device.LINK_STATUS)) == device.FALSE {
		log := e.gl.GetProgramInfoLog(program)
		e.gl.DeleteProgram(program)
		e.log.WithField("log", log).Error("shader program linking failed")
		return nil, &ShaderLinkError{Log: log}
	}

	s := &Shader{
		handle:   e.resources.mint(),
		engine:   e,
		program:  program,
		uniforms: make(map[string]*uniform),
	}
	s.reflect()
	e.resources.Manage(s)
	return s, nil
}

func (e *Engine) compile(stage ShaderType, source string) (device.Shader, error) {
	ty := device.VERTEX_SHADER
	if stage == FragmentShaderType {
		ty = device.FRAGMENT_SHADER
	}

	shader := e.gl.CreateShader(ty)
	e.gl.ShaderSource(shader, source)
	e.gl.CompileShader(shader)

	if device.Enum(e.gl.GetShaderi(shader, device.COMPILE_STATUS)) == device.FALSE {
		log := e.gl.GetShaderInfoLog(shader)
		e.gl.DeleteShader(shader)
		e.log.WithFields(logrus.Fields{
			"stage": stage,
			"log":   log,
		}).Error("shader compilation failed")
		return 0, &ShaderCompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

// Shader is a linked program and its active uniforms
type Shader struct {
	handle  Handle
	engine  *Engine
	program device.Program

	// uniforms holds reflected names, arrays also under their base name
	uniforms map[string]*uniform
	names    []string

	// samplers in SetTexture order, the latest wins a shared unit
	samplers []*uniform
}

// reflect records every active uniform of the linked program
func (s *Shader) reflect() {
	gl := s.engine.gl
	count := gl.GetProgrami(s.program, device.ACTIVE_UNIFORMS)
	for i := 0; i < count; i++ {
		info := gl.GetActiveUniform(s.program, i)
		if info.Name == "" {
			continue
		}
		location := gl.GetUniformLocation(s.program, info.Name)
		if !location.Valid() {
			continue
		}

		u := &uniform{location: location}
		s.uniforms[info.Name] = u
		s.names = append(s.names, info.Name)
		if base := strings.TrimSuffix(info.Name, "[0]"); base != info.Name {
			s.uniforms[base] = u
		}
	}
	sort.Strings(s.names)
}

// Handle implements Resource
func (s *Shader) Handle() Handle {
	if s == nil {
		return 0
	}
	return s.handle
}

// Dispose implements Disposable
func (s *Shader) Dispose() {
	s.engine.resources.Dispose(s)
}

func (s *Shader) release() {
	s.engine.gl.DeleteProgram(s.program)
}

func (s *Shader) kind() string {
	return "shader"
}

func (s *Shader) use() {
	s.engine.gl.UseProgram(s.program)
}

// UniformNames returns the active uniforms, sorted
func (s *Shader) UniformNames() []string {
	return append([]string(nil), s.names...)
}

// UniformType returns the dispatch last used for name
func (s *Shader) UniformType(name string) (UniformType, error) {
	u, ok := s.uniforms[name]
	if !ok {
		return UniformNone, &UniformNotFoundError{Name: name}
	}
	return u.typ, nil
}

// lookup validates a set of n values of type typ on name
func (s *Shader) lookup(name string, typ UniformType, n int) (*uniform, error) {
	if err := s.engine.verify(s, s.engine); err != nil {
		return nil, err
	}
	u, ok := s.uniforms[name]
	if !ok {
		return nil, &UniformNotFoundError{Name: name}
	}
	if n == 0 || n%typ.arity() != 0 {
		return nil, fmt.Errorf("uniform %s: %d values for %s: %w", name, n, typ, ErrUniformArity)
	}
	return u, nil
}

func (s *Shader) setInts(name string, typ UniformType, v []int32) error {
	u, err := s.lookup(name, typ, len(v))
	if err != nil {
		return err
	}
	u.typ = typ
	s.use()

	gl := s.engine.gl
	switch typ {
	case UniformInt:
		gl.Uniform1iv(u.location, v)
	case UniformInt2:
		gl.Uniform2iv(u.location, v)
	case UniformInt3:
		gl.Uniform3iv(u.location, v)
	case UniformInt4:
		gl.Uniform4iv(u.location, v)
	}
	return nil
}

func (s *Shader) setFloats(name string, typ UniformType, v []float32) error {
	u, err := s.lookup(name, typ, len(v))
	if err != nil {
		return err
	}
	u.typ = typ
	s.use()

	gl := s.engine.gl
	switch typ {
	case UniformFloat:
		gl.Uniform1fv(u.location, v)
	case UniformFloat2:
		gl.Uniform2fv(u.location, v)
	case UniformFloat3:
		gl.Uniform3fv(u.location, v)
	case UniformFloat4:
		gl.Uniform4fv(u.location, v)
	}
	return nil
}

// SetInt uploads int or int[] values
func (s *Shader) SetInt(name string, v ...int32) error {
	return s.setInts(name, UniformInt, v)
}

// SetInt2 uploads ivec2 values
func (s *Shader) SetInt2(name string, v ...int32) error {
	return s.setInts(name, UniformInt2, v)
}

// SetInt3 uploads ivec3 values
func (s *Shader) SetInt3(name string, v ...int32) error {
	return s.setInts(name, UniformInt3, v)
}

// SetInt4 uploads ivec4 values
func (s *Shader) SetInt4(name string, v ...int32) error {
	return s.setInts(name, UniformInt4, v)
}

// SetFloat uploads float or float[] values
func (s *Shader) SetFloat(name string, v ...float32) error {
	return s.setFloats(name, UniformFloat, v)
}

// SetFloat2 uploads vec2 values
func (s *Shader) SetFloat2(name string, v ...float32) error {
	return s.setFloats(name, UniformFloat2, v)
}

// SetFloat3 uploads vec3 values
func (s *Shader) SetFloat3(name string, v ...float32) error {
	return s.setFloats(name, UniformFloat3, v)
}

// SetFloat4 uploads vec4 values
func (s *Shader) SetFloat4(name string, v ...float32) error {
	return s.setFloats(name, UniformFloat4, v)
}

// SetTexture binds textures[i] to texture unit i and points the sampler
// (or sampler array) name at units 0..len(textures)-1.
func (s *Shader) SetTexture(name string, textures ...*Texture) error {
	u, err := s.lookup(name, UniformTexture, len(textures))
	if err != nil {
		return err
	}
	for _, t := range textures {
		if t == nil {
			return ErrNilResource
		}
		if err := s.engine.verify(t, t.engine); err != nil {
			return err
		}
	}

	u.typ = UniformTexture
	u.textures = append(u.textures[:0], textures...)
	for i, v := range s.samplers {
		if v == u {
			s.samplers = append(s.samplers[:i], s.samplers[i+1:]...)
			break
		}
	}
	s.samplers = append(s.samplers, u)

	s.use()
	s.bindTextures(u.textures)

	units := make([]int32, len(textures))
	for i := range textures {
		units[i] = int32(i)
	}
	s.engine.gl.Uniform1iv(u.location, units)
	return nil
}

// bindTextures binds textures[i] to unit i. Textures disposed since
// are replaced by no texture.
func (s *Shader) bindTextures(textures []*Texture) {
	gl := s.engine.gl
	for i, t := range textures {
		gl.ActiveTexture(device.TEXTURE0 + device.Enum(i))
		if s.engine.resources.Tracked(t) {
			gl.BindTexture(device.TEXTURE_2D, t.texture)
		} else {
			gl.BindTexture(device.TEXTURE_2D, 0)
		}
	}
}

// bindSamplers restores the units of every sampler set on s, other
// binds may have replaced them since.
func (s *Shader) bindSamplers() {
	for _, u := range s.samplers {
		s.bindTextures(u.textures)
	}
}
