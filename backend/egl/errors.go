// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package egl is the Linux backend on top of EGL, using the goffi bindings
// of github.com/gogpu/wgpu/hal/gles/egl and the GL loader of
// github.com/gogpu/wgpu/hal/gles/gl. No cgo is involved.
//
// Every context of a device shares objects with a hidden root context, so
// surface textures can be created in any context of the device that made
// the surface. Contexts without a bound widget render to a small pbuffer.
// Window surfaces are presented with vsync.
//
// Importing the package registers the "egl" driver on Linux:
//
//	import _ "github.com/gogpu/glsurface/backend/egl"
package egl

import "github.com/gogpu/glsurface"

// eglErrors maps eglGetError codes onto windowing error kinds.
var eglErrors = map[int32]glsurface.WindowingAPIError{
	0x3001: glsurface.WindowingNotInitialized,
	0x3002: glsurface.WindowingBadAccess,
	0x3003: glsurface.WindowingBadAlloc,
	0x3004: glsurface.WindowingBadAttribute,
	0x3005: glsurface.WindowingBadConfig,
	0x3006: glsurface.WindowingBadContext,
	0x3007: glsurface.WindowingBadCurrentSurface,
	0x3008: glsurface.WindowingBadDisplay,
	0x3009: glsurface.WindowingBadMatch,
	0x300A: glsurface.WindowingBadNativePixmap,
	0x300B: glsurface.WindowingBadNativeWindow,
	0x300C: glsurface.WindowingBadParameter,
	0x300D: glsurface.WindowingBadSurface,
	0x300E: glsurface.WindowingContextLost,
}

// windowingError translates an EGL error code. Unknown codes, including
// EGL_SUCCESS after a failed call, become WindowingFailed.
func windowingError(code int32) glsurface.WindowingAPIError {
	if e, ok := eglErrors[code]; ok {
		return e
	}
	return glsurface.WindowingFailed
}
