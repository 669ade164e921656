// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/image/draw"
)

const shaderSuffix = ".glsl"

// ShaderFiles lists GLSL sources under dir named <name>.<frag|vert>.glsl.
// Other files, and names with more dots, are skipped.
func ShaderFiles(dir string) ([]string, []ShaderType, error) {
	var (
		shaders     []string
		shaderTypes []ShaderType
	)
	if err := filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() || !strings.HasSuffix(f.Name(), shaderSuffix) {
			return nil
		}

		nodes := strings.Split(strings.TrimSuffix(f.Name(), shaderSuffix), ".")
		if len(nodes) != 2 {
			return nil
		}

		switch nodes[1] {
		case "frag":
			shaderTypes = append(shaderTypes, FragmentShaderType)
			shaders = append(shaders, path)
		case "vert":
			shaderTypes = append(shaderTypes, VertexShaderType)
			shaders = append(shaders, path)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return shaders, shaderTypes, nil
}

// Float32Bytes reslices v as bytes in host order, for vertex data.
// The result shares memory with v.
func Float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// Int32Bytes reslices v as bytes in host order
func Int32Bytes(v []int32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// Uint16Bytes reslices v as bytes in host order, for index data
func Uint16Bytes(v []uint16) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*2)
}

// GetPixels transforms a given image into tightly packed RGBA rows of
// width by height, scaling bilinearly when the sizes differ
func GetPixels(img image.Image, width, height int) []uint8 {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}
	return dst.Pix
}
