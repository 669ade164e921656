// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"os"

	"github.com/devblok/shed/core"
	"github.com/devblok/shed/device/window"
	"github.com/devblok/shed/model"
	glm "github.com/go-gl/mathgl/mgl32"
)

// scene owns what a frame draws. When target is set the shader renders
// offscreen and present samples the result onto the surface.
type scene struct {
	engine  *core.Engine
	surface *window.Surface

	shader  *core.Shader
	mesh    *core.Mesh
	object  *model.ColladaObject
	texture *core.Texture

	target  *core.FrameBuffer
	present *core.Shader
}

type sceneOptions struct {
	shader    string
	model     string
	texture   string
	offscreen bool
	scale     float64
}

func newScene(engine *core.Engine, surface *window.Surface, src shaderSource, opts sceneOptions) (*scene, error) {
	s := &scene{engine: engine, surface: surface}

	name := opts.shader
	if opts.model != "" {
		data, err := os.ReadFile(opts.model)
		if err != nil {
			return nil, err
		}
		if s.object, err = model.ImportColladaObject(data); err != nil {
			return nil, err
		}
		if s.mesh, err = engine.CreateMesh(model.MeshOptions(s.object)); err != nil {
			return nil, err
		}
		if name == "" {
			name = "model"
		}
	}

	if opts.texture != "" {
		img, err := loadImage(opts.texture)
		if err != nil {
			return nil, err
		}
		if s.texture, err = engine.CreateTextureFromImage(img); err != nil {
			return nil, err
		}
		if name == "" {
			name = "textured"
		}
	}

	if name == "" {
		name = "plasma"
	}
	var err error
	if s.shader, err = loadShader(engine, src, name); err != nil {
		return nil, err
	}

	if opts.offscreen {
		if s.target, err = engine.CreateFrameBuffer(opts.scale); err != nil {
			return nil, err
		}
		// present is always built in
		if s.present, err = loadShader(engine, builtinShaders(), "present"); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// optional drops UniformNotFoundError, shaders declare only what they use
func optional(err error) error {
	var nf *core.UniformNotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

func (s *scene) common(shader *core.Shader, t float32) error {
	mouse := s.surface.Mouse()
	for _, err := range []error{
		shader.SetFloat("u_Time", t),
		shader.SetFloat2("u_Resolution", float32(s.engine.Width()), float32(s.engine.Height())),
		shader.SetFloat2("u_Mouse", mouse.X, mouse.Y),
	} {
		if err := optional(err); err != nil {
			return err
		}
	}
	return nil
}

func (s *scene) frame() error {
	t := float32(s.engine.Time())
	if err := s.common(s.shader, t); err != nil {
		return err
	}
	if s.object != nil {
		s.object.SetRotation(glm.HomogRotate3D(t, glm.Vec3{0, 1, 0}))
		if err := optional(s.shader.SetFloat4("u_Model", model.ModelUniform(s.object.Model())...)); err != nil {
			return err
		}
	}
	if s.texture != nil {
		if err := optional(s.shader.SetTexture("u_Texture", s.texture)); err != nil {
			return err
		}
	}

	if err := s.engine.Render(core.RenderOptions{
		Shader:      s.shader,
		Mesh:        s.mesh,
		FrameBuffer: s.target,
	}); err != nil {
		return err
	}
	if s.target == nil {
		return nil
	}

	if err := s.common(s.present, t); err != nil {
		return err
	}
	if err := s.present.SetTexture("u_Texture", s.target.Texture(0)); err != nil {
		return err
	}
	return s.engine.Render(core.RenderOptions{Shader: s.present})
}
