// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"fmt"
	"unsafe"
)

// TextureTarget is the texture target of every surface texture.
const TextureTarget = TEXTURE_2D

// CreateAndBindFramebuffer creates a framebuffer, binds it to FRAMEBUFFER
// and attaches texture as its color buffer.
func CreateAndBindFramebuffer(f Functions, textureTarget, texture uint32) uint32 {
	fbo := f.GenFramebuffers(1)
	f.BindFramebuffer(FRAMEBUFFER, fbo)
	f.FramebufferTexture2D(FRAMEBUFFER, COLOR_ATTACHMENT0, textureTarget, texture, 0)
	return fbo
}

// DestroyFramebuffer deletes fbo, first unbinding it from the draw and read
// bindings it occupies.
func DestroyFramebuffer(f Functions, fbo uint32) {
	if fbo == 0 {
		return
	}
	var draw, read int32
	f.GetIntegerv(DRAW_FRAMEBUFFER_BINDING, &draw)
	f.GetIntegerv(READ_FRAMEBUFFER_BINDING, &read)
	if uint32(draw) == fbo {
		f.BindFramebuffer(DRAW_FRAMEBUFFER, 0)
	}
	if uint32(read) == fbo {
		f.BindFramebuffer(READ_FRAMEBUFFER, 0)
	}
	f.DeleteFramebuffers(fbo)
}

// CurrentFramebuffers returns the draw and read framebuffer bindings.
func CurrentFramebuffers(f Functions) (draw, read uint32) {
	var d, r int32
	f.GetIntegerv(DRAW_FRAMEBUFFER_BINDING, &d)
	f.GetIntegerv(READ_FRAMEBUFFER_BINDING, &r)
	return uint32(d), uint32(r)
}

// RestoreFramebuffers rebinds the draw and read framebuffers.
func RestoreFramebuffers(f Functions, draw, read uint32) {
	f.BindFramebuffer(DRAW_FRAMEBUFFER, draw)
	f.BindFramebuffer(READ_FRAMEBUFFER, read)
}

// CheckFramebuffer returns an error unless the bound framebuffer is complete.
func CheckFramebuffer(f Functions) error {
	if status := f.CheckFramebufferStatus(FRAMEBUFFER); status != FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("gl: framebuffer incomplete: status 0x%04x", status)
	}
	return nil
}

// CheckError returns an error for a pending GL error, naming op.
func CheckError(f Functions, op string) error {
	if code := f.GetError(); code != NO_ERROR {
		return fmt.Errorf("gl: %s failed: %s", op, ErrorString(code))
	}
	return nil
}

// ErrorString names a glGetError code.
func ErrorString(code uint32) string {
	switch code {
	case NO_ERROR:
		return "GL_NO_ERROR"
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("0x%04x", code)
	}
}

// ReadRGBA reads a w×h block of RGBA8 pixels from the read framebuffer.
// Rows are bottom-up.
func ReadRGBA(f Functions, x, y, w, h int32) []byte {
	if w <= 0 || h <= 0 {
		return nil
	}
	buf := make([]byte, int(w)*int(h)*4)
	f.ReadPixels(x, y, w, h, RGBA, UNSIGNED_BYTE, unsafe.Pointer(&buf[0]))
	return buf
}
