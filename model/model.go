// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model turns imported geometry into mesh data for the engine.
package model

import (
	"unsafe"

	"github.com/devblok/shed/core"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Attribute locations used by MeshOptions. Position is at 0 so the
// default vertex stage picks it up as a_position.
const (
	PositionLocation uint32 = iota
	NormalLocation
	ColorLocation
)

// Object represents the engine supported model
type Object interface {

	// SetPosition sets the object's current position in space.
	// Has to be thread-safe
	SetPosition(glm.Mat4)

	// Position gets the object's current position in space.
	// Has to be thread-safe
	Position() glm.Mat4

	// SetRotation sets the object's rotation matrix.
	// Has to be thread-safe
	SetRotation(glm.Mat4)

	// Rotation gets the object's rotation matrix.
	// Has to be thread-safe
	Rotation() glm.Mat4

	// Model returns position times rotation
	Model() glm.Mat4

	// Vertices returns the unique vertices
	Vertices() []Vertex

	// Indices returns the triangle list over Vertices
	Indices() []uint16
}

// Vertex is a model vertex
type Vertex struct {
	Pos    glm.Vec3
	Normal glm.Vec3
	Color  glm.Vec4
}

// VertexLayout is the attribute layout matching Vertex
func VertexLayout() []core.AttributeLayout {
	return []core.AttributeLayout{
		{Name: "a_position", Type: core.Vec3, Location: core.At(PositionLocation)},
		{Name: "a_normal", Type: core.Vec3, Location: core.At(NormalLocation)},
		{Name: "a_color", Type: core.Vec4, Location: core.At(ColorLocation)},
	}
}

// MeshOptions packs the object's vertices for Engine.CreateMesh
func MeshOptions(o Object) core.MeshOptions {
	vertices := o.Vertices()
	var data []byte
	if len(vertices) > 0 {
		size := int(unsafe.Sizeof(Vertex{}))
		data = make([]byte, len(vertices)*size)
		copy(data, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(data)))
	}
	return core.MeshOptions{
		Vertices: data,
		Indices:  o.Indices(),
		Layout:   VertexLayout(),
	}
}

// ModelUniform flattens m into the 16 floats of a vec4[4] uniform,
// column by column, for Shader.SetFloat4
func ModelUniform(m glm.Mat4) []float32 {
	return m[:]
}
