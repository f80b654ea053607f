// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gl holds the slice of the OpenGL API that context and surface
// management needs, plus helpers built on it.
//
// Functions is satisfied by the goffi-backed *gl.Context of
// github.com/gogpu/wgpu/hal/gles/gl and by the CPU emulation in
// backend/software. A Functions value is tied to one native context and is
// only valid while that context is current.
package gl

import "unsafe"

// Functions is a table of GL entry points for one context.
type Functions interface {
	GetError() uint32
	GetString(name uint32) string
	GetIntegerv(pname uint32, data *int32)

	Clear(mask uint32)
	ClearColor(r, g, b, a float32)
	Viewport(x, y, width, height int32)
	Flush()
	Finish()

	GenTextures(n int32) uint32
	DeleteTextures(textures ...uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)

	GenFramebuffers(n int32) uint32
	DeleteFramebuffers(framebuffers ...uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	CheckFramebufferStatus(target uint32) uint32

	GenRenderbuffers(n int32) uint32
	DeleteRenderbuffers(renderbuffers ...uint32)
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
	FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32)

	ReadPixels(x, y, width, height int32, format, dataType uint32, pixels unsafe.Pointer)
}
