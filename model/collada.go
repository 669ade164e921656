// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/devblok/shed/util/collada"
	glm "github.com/go-gl/mathgl/mgl32"
)

// DefaultColor is given to every imported vertex
var DefaultColor = glm.Vec4{1.0, 1.0, 0.0, 1.0}

// ErrNoGeometry is returned for documents without a mesh
var ErrNoGeometry = errors.New("collada: no geometry")

// ErrTooManyVertices is returned when the unique vertices do not fit
// 16 bit indices
var ErrTooManyVertices = errors.New("collada: more vertices than 16 bit indices can address")

type vertexKey struct {
	position, normal int
}

// ImportColladaObject reads given file and converts the first Collada
// geometry to an indexed object. Vertices sharing position and normal
// indices are merged.
func ImportColladaObject(fileContents []byte) (*ColladaObject, error) {
	var colladaModel collada.Collada
	if err := xml.Unmarshal(fileContents, &colladaModel); err != nil {
		return nil, err
	}
	if len(colladaModel.Geometries) == 0 {
		return nil, ErrNoGeometry
	}

	mesh := &colladaModel.Geometries[0].Mesh
	triangles := &mesh.Triangles

	vertexInput, ok := triangles.Input("VERTEX")
	if !ok {
		return nil, errors.New("collada: triangles have no VERTEX input")
	}
	positionInput, ok := mesh.Vertices.Input("POSITION")
	if !ok {
		return nil, errors.New("collada: vertices have no POSITION input")
	}
	positions, ok := mesh.Lookup(positionInput.Source)
	if !ok {
		return nil, fmt.Errorf("collada: source %s not found", positionInput.Source)
	}

	var normals *collada.Source
	normalInput, hasNormals := triangles.Input("NORMAL")
	if hasNormals {
		if normals, ok = mesh.Lookup(normalInput.Source); !ok {
			return nil, fmt.Errorf("collada: source %s not found", normalInput.Source)
		}
	}

	stride := triangles.Stride()
	if stride == 0 || len(triangles.Index)%stride != 0 {
		return nil, fmt.Errorf("collada: %d indices do not divide into vertices of %d", len(triangles.Index), stride)
	}

	obj := &ColladaObject{
		position: glm.Ident4(),
		rotation: glm.Ident4(),
	}
	seen := make(map[vertexKey]uint16)
	for idx := 0; idx < len(triangles.Index)/stride; idx++ {
		indices := triangles.Index[stride*idx : stride*idx+stride]
		key := vertexKey{position: indices[vertexInput.Offset], normal: -1}
		if hasNormals {
			key.normal = indices[normalInput.Offset]
		}

		if existing, ok := seen[key]; ok {
			obj.indices = append(obj.indices, existing)
			continue
		}
		if len(obj.vertices) > math.MaxUint16 {
			return nil, ErrTooManyVertices
		}

		vert := Vertex{Color: DefaultColor}
		pos, err := positions.Element(key.position)
		if err != nil {
			return nil, err
		}
		copy(vert.Pos[:], pos)
		if hasNormals {
			normal, err := normals.Element(key.normal)
			if err != nil {
				return nil, err
			}
			copy(vert.Normal[:], normal)
		}

		seen[key] = uint16(len(obj.vertices))
		obj.indices = append(obj.indices, uint16(len(obj.vertices)))
		obj.vertices = append(obj.vertices, vert)
	}

	return obj, nil
}

// ColladaObject is imported from a collada (.dae) file.
// Loaded and held in memory
type ColladaObject struct {
	mutex    sync.RWMutex
	position glm.Mat4
	rotation glm.Mat4

	vertices []Vertex
	indices  []uint16
}

var _ Object = (*ColladaObject)(nil)

// SetPosition implements interface
func (co *ColladaObject) SetPosition(pos glm.Mat4) {
	co.mutex.Lock()
	co.position = pos
	co.mutex.Unlock()
}

// Position implements interface
func (co *ColladaObject) Position() glm.Mat4 {
	co.mutex.RLock()
	defer co.mutex.RUnlock()
	return co.position
}

// SetRotation implements interface
func (co *ColladaObject) SetRotation(rot glm.Mat4) {
	co.mutex.Lock()
	co.rotation = rot
	co.mutex.Unlock()
}

// Rotation implements interface
func (co *ColladaObject) Rotation() glm.Mat4 {
	co.mutex.RLock()
	defer co.mutex.RUnlock()
	return co.rotation
}

// Model implements interface
func (co *ColladaObject) Model() glm.Mat4 {
	co.mutex.RLock()
	defer co.mutex.RUnlock()
	return co.position.Mul4(co.rotation)
}

// Vertices implements interface
func (co *ColladaObject) Vertices() []Vertex {
	return co.vertices
}

// Indices implements interface
func (co *ColladaObject) Indices() []uint16 {
	return co.indices
}
