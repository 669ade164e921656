// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"

	"github.com/devblok/shed/device"
)

var (
	// ErrEngineDisposed is returned by every Engine operation after Dispose
	ErrEngineDisposed = errors.New("engine is disposed")

	// ErrResourceDisposed is returned when a disposed resource is used
	ErrResourceDisposed = errors.New("resource is disposed")

	// ErrEmptyLayout is returned by CreateMesh for a layout without attributes
	ErrEmptyLayout = errors.New("mesh layout has no attributes")

	// ErrUniformArity is returned when the number of values given to a
	// setter is zero or not a multiple of the uniform's component count
	ErrUniformArity = errors.New("value count does not match uniform arity")

	// ErrNilResource is returned when a required resource argument is nil
	ErrNilResource = errors.New("nil resource")

	// ErrInvalidSize is returned for textures with a non-positive dimension
	ErrInvalidSize = errors.New("invalid size")
)

// ShaderCompileError reports a stage that failed to compile
type ShaderCompileError struct {
	Stage ShaderType
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// ShaderLinkError reports a program that failed to link
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return "shader program linking failed: " + e.Log
}

// UnsupportedAttributeTypeError is returned by CreateMesh for an
// attribute whose type is not one of the AttributeType constants.
type UnsupportedAttributeTypeError struct {
	Name string
	Type AttributeType
}

func (e *UnsupportedAttributeTypeError) Error() string {
	return fmt.Sprintf("attribute %s: unsupported type %q", e.Name, string(e.Type))
}

// UniformNotFoundError is returned by the Shader setters for a name
// the linked program does not have as an active uniform.
type UniformNotFoundError struct {
	Name string
}

func (e *UniformNotFoundError) Error() string {
	return fmt.Sprintf("uniform %s not found in shader program", e.Name)
}

// ForeignResourceError is returned when a resource created by another
// Engine is passed in.
type ForeignResourceError struct {
	Kind string
}

func (e *ForeignResourceError) Error() string {
	return fmt.Sprintf("the specified %s was not created by this engine", e.Kind)
}

// UnsupportedContextError is returned by NewEngine when the configured
// context version is below MinimumVersion or the surface cannot provide it.
type UnsupportedContextError struct {
	Version device.Version
	Err     error
}

func (e *UnsupportedContextError) Error() string {
	return fmt.Sprintf("%s is not supported: %s", e.Version, e.Err)
}

func (e *UnsupportedContextError) Unwrap() error {
	return e.Err
}
