// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/shed/device"
	"github.com/sirupsen/logrus"
)

// AttributeType is the GLSL type of a vertex attribute
type AttributeType string

// Supported attribute types, 4 bytes per component
const (
	Float AttributeType = "float"
	Vec2  AttributeType = "vec2"
	Vec3  AttributeType = "vec3"
	Vec4  AttributeType = "vec4"
	Int   AttributeType = "int"
	IVec2 AttributeType = "ivec2"
	IVec3 AttributeType = "ivec3"
	IVec4 AttributeType = "ivec4"
)

// Components returns the number of components, 0 for unknown types
func (t AttributeType) Components() int {
	switch t {
	case Float, Int:
		return 1
	case Vec2, IVec2:
		return 2
	case Vec3, IVec3:
		return 3
	case Vec4, IVec4:
		return 4
	default:
		return 0
	}
}

// Size returns the byte size of one attribute value
func (t AttributeType) Size() int {
	return 4 * t.Components()
}

// Integer reports whether the attribute is bound as integers
func (t AttributeType) Integer() bool {
	switch t {
	case Int, IVec2, IVec3, IVec4:
		return true
	default:
		return false
	}
}

func (t AttributeType) glType() device.Enum {
	if t.Integer() {
		return device.INT
	}
	return device.FLOAT
}

// AttributeLayout describes one interleaved vertex attribute
type AttributeLayout struct {
	Name string
	Type AttributeType

	// Location defaults to the attribute's index in the layout
	Location *uint32
}

// At returns a pointer to loc, for AttributeLayout.Location
func At(loc uint32) *uint32 {
	return &loc
}

// MeshOptions holds the data for CreateMesh
type MeshOptions struct {
	// Vertices are interleaved attribute values in Layout order
	Vertices []byte

	// Indices are optional, drawn as triangles when present
	Indices []uint16

	Layout []AttributeLayout
}

// CreateMesh uploads vertex and index data and records the attribute
// bindings in a vertex array. The vertex count is the vertex byte length
// divided by the stride, truncated.
func (e *Engine) CreateMesh(opts MeshOptions) (*Mesh, error) {
	if !e.running {
		return nil, ErrEngineDisposed
	}
	if len(opts.Layout) == 0 {
		return nil, ErrEmptyLayout
	}

	stride := 0
	for _, attr := range opts.Layout {
		if attr.Type.Components() == 0 {
			return nil, &UnsupportedAttributeTypeError{Name: attr.Name, Type: attr.Type}
		}
		stride += attr.Type.Size()
	}

	gl := e.gl
	m := &Mesh{
		handle:       e.resources.mint(),
		engine:       e,
		vertexArray:  gl.CreateVertexArray(),
		vertexBuffer: gl.CreateBuffer(),
		stride:       stride,
		vertexCount:  len(opts.Vertices) / stride,
		indexCount:   len(opts.Indices),
		layout:       append([]AttributeLayout(nil), opts.Layout...),
	}

	gl.BindVertexArray(m.vertexArray)
	gl.BindBuffer(device.ARRAY_BUFFER, m.vertexBuffer)
	gl.BufferData(device.ARRAY_BUFFER, opts.Vertices, device.STATIC_DRAW)

	offset := 0
	for i, attr := range opts.Layout {
		location := uint32(i)
		if attr.Location != nil {
			location = *attr.Location
		}

		gl.EnableVertexAttribArray(location)
		if attr.Type.Integer() {
			gl.VertexAttribIPointer(location, attr.Type.Components(), attr.Type.glType(), stride, offset)
		} else {
			gl.VertexAttribPointer(location, attr.Type.Components(), attr.Type.glType(), false, stride, offset)
		}
		offset += attr.Type.Size()
	}

	if m.indexCount > 0 {
		m.indexBuffer = gl.CreateBuffer()
		gl.BindBuffer(device.ELEMENT_ARRAY_BUFFER, m.indexBuffer)
		gl.BufferData(device.ELEMENT_ARRAY_BUFFER, Uint16Bytes(opts.Indices), device.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(device.ARRAY_BUFFER, 0)

	if rem := len(opts.Vertices) % stride; rem != 0 {
		e.log.WithFields(logrus.Fields{
			"bytes":    len(opts.Vertices),
			"stride":   stride,
			"vertices": m.vertexCount,
		}).Warn("vertex data is not a multiple of the stride, trailing bytes ignored")
	}

	e.resources.Manage(m)
	return m, nil
}

// Mesh is a vertex array with its vertex and optional index buffer
type Mesh struct {
	handle       Handle
	engine       *Engine
	vertexArray  device.VertexArray
	vertexBuffer device.Buffer
	indexBuffer  device.Buffer

	stride      int
	vertexCount int
	indexCount  int
	layout      []AttributeLayout
}

// Handle implements Resource
func (m *Mesh) Handle() Handle {
	if m == nil {
		return 0
	}
	return m.handle
}

// VertexCount returns the number of whole vertices uploaded
func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

// IndexCount returns the number of indices, 0 for non-indexed meshes
func (m *Mesh) IndexCount() int {
	return m.indexCount
}

// Stride returns the byte size of one vertex
func (m *Mesh) Stride() int {
	return m.stride
}

// Layout returns a copy of the attribute layout
func (m *Mesh) Layout() []AttributeLayout {
	return append([]AttributeLayout(nil), m.layout...)
}

// Dispose implements Disposable
func (m *Mesh) Dispose() {
	m.engine.resources.Dispose(m)
}

func (m *Mesh) release() {
	gl := m.engine.gl
	gl.DeleteVertexArray(m.vertexArray)
	gl.DeleteBuffer(m.vertexBuffer)
	if m.indexBuffer != 0 {
		gl.DeleteBuffer(m.indexBuffer)
	}
}

func (m *Mesh) kind() string {
	return "mesh"
}

func (m *Mesh) bind() {
	m.engine.gl.BindVertexArray(m.vertexArray)
}
