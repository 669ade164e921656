// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

// Enum is a GL enumerant.
type Enum uint32

// GL enumerants used by the engine. Values match the Khronos headers.
const (
	ACTIVE_UNIFORMS      Enum = 0x8b86
	ARRAY_BUFFER         Enum = 0x8892
	CLAMP_TO_EDGE        Enum = 0x812f
	COLOR_ATTACHMENT0    Enum = 0x8ce0
	COLOR_BUFFER_BIT     Enum = 0x4000
	COMPILE_STATUS       Enum = 0x8b81
	DEPTH_BUFFER_BIT     Enum = 0x100
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	FALSE                Enum = 0
	FLOAT                Enum = 0x1406
	FRAGMENT_SHADER      Enum = 0x8b30
	FRAMEBUFFER          Enum = 0x8d40
	FRAMEBUFFER_COMPLETE Enum = 0x8cd5
	INT                  Enum = 0x1404
	LINEAR               Enum = 0x2601
	LINK_STATUS          Enum = 0x8b82
	NONE                 Enum = 0
	RGBA                 Enum = 0x1908
	RGBA8                Enum = 0x8058
	STATIC_DRAW          Enum = 0x88e4
	TEXTURE_2D           Enum = 0xde1
	TEXTURE_MAG_FILTER   Enum = 0x2800
	TEXTURE_MIN_FILTER   Enum = 0x2801
	TEXTURE_WRAP_S       Enum = 0x2802
	TEXTURE_WRAP_T       Enum = 0x2803
	TEXTURE0             Enum = 0x84c0
	TRIANGLES            Enum = 0x4
	TRUE                 Enum = 1
	UNSIGNED_BYTE        Enum = 0x1401
	UNSIGNED_SHORT       Enum = 0x1403
	VERTEX_SHADER        Enum = 0x8b31
)
