// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

// OpenGL enums used by this module.
const (
	NO_ERROR          = 0
	INVALID_ENUM      = 0x0500
	INVALID_VALUE     = 0x0501
	INVALID_OPERATION = 0x0502
	OUT_OF_MEMORY     = 0x0505

	INVALID_FRAMEBUFFER_OPERATION = 0x0506

	VENDOR     = 0x1F00
	RENDERER   = 0x1F01
	VERSION    = 0x1F02
	EXTENSIONS = 0x1F03

	DEPTH_BUFFER_BIT   = 0x00000100
	STENCIL_BUFFER_BIT = 0x00000400
	COLOR_BUFFER_BIT   = 0x00004000

	TEXTURE_2D         = 0x0DE1
	TEXTURE_MAG_FILTER = 0x2800
	TEXTURE_MIN_FILTER = 0x2801
	TEXTURE_WRAP_S     = 0x2802
	TEXTURE_WRAP_T     = 0x2803
	NEAREST            = 0x2600
	LINEAR             = 0x2601
	CLAMP_TO_EDGE      = 0x812F
	TEXTURE_BINDING_2D = 0x8069

	RGBA          = 0x1908
	RGBA8         = 0x8058
	UNSIGNED_BYTE = 0x1401

	FRAMEBUFFER                   = 0x8D40
	READ_FRAMEBUFFER              = 0x8CA8
	DRAW_FRAMEBUFFER              = 0x8CA9
	FRAMEBUFFER_BINDING           = 0x8CA6
	DRAW_FRAMEBUFFER_BINDING      = 0x8CA6
	READ_FRAMEBUFFER_BINDING      = 0x8CAA
	FRAMEBUFFER_COMPLETE          = 0x8CD5
	FRAMEBUFFER_UNSUPPORTED       = 0x8CDD
	FRAMEBUFFER_INCOMPLETE_ATTACH = 0x8CD6

	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACH = 0x8CD7

	COLOR_ATTACHMENT0        = 0x8CE0
	DEPTH_ATTACHMENT         = 0x8D00
	STENCIL_ATTACHMENT       = 0x8D20
	DEPTH_STENCIL_ATTACHMENT = 0x821A

	RENDERBUFFER         = 0x8D41
	RENDERBUFFER_BINDING = 0x8CA7
	DEPTH_COMPONENT24    = 0x81A6
	STENCIL_INDEX8       = 0x8D48
	DEPTH24_STENCIL8     = 0x88F0
)
