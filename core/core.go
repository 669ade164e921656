// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core tracks GPU objects behind handle wrappers, disposes each of
// them exactly once and drives a single draw call per Render.
package core

import "fmt"

// Handle identifies a resource for the lifetime of the Engine that
// created it. Handles are minted in increasing order and never reused.
type Handle uint64

// Disposable is anything holding native objects that must be released
type Disposable interface {
	// Dispose releases the native objects. Calling it more than once
	// is a no-op.
	Dispose()
}

// Resource is a Disposable tracked by a ResourceManager
type Resource interface {
	Disposable

	// Handle returns the identifier the resource is tracked under
	Handle() Handle
}

// releaser is implemented by the wrappers in this package, release
// deletes the native objects and is called by the ResourceManager only.
type releaser interface {
	release()
}

// kinder names the resource kind in errors and logs
type kinder interface {
	kind() string
}

func kindOf(r Resource) string {
	if k, ok := r.(kinder); ok {
		return k.kind()
	}
	return fmt.Sprintf("%T", r)
}

// ShaderType represents the stage a shader source is compiled for
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
)

func (t ShaderType) String() string {
	switch t {
	case VertexShaderType:
		return "vertex"
	case FragmentShaderType:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}
