// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package egl

import (
	"image"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	eglapi "github.com/gogpu/wgpu/hal/gles/egl"
	glapi "github.com/gogpu/wgpu/hal/gles/gl"
)

type context struct {
	dev     *device
	cfg     *config
	egl     eglapi.EGLContext
	pbuffer eglapi.EGLSurface

	// fns is loaded the first time the context is made current, which glctx
	// does while holding its creation lock.
	fns    *glapi.Context
	loaded bool

	drawable *drawable
	// external contexts were adopted and are owned by someone else.
	external bool
}

func (c *context) Functions() gl.Functions { return c.fns }

func (c *context) Handle() uintptr { return uintptr(c.egl) }

type storage struct {
	id   uintptr
	tex  uint32
	size image.Point
	dev  *device
}

func (s *storage) ID() uintptr       { return s.id }
func (s *storage) Texture() uint32   { return s.tex }
func (s *storage) Size() image.Point { return s.size }

type drawable struct {
	surface eglapi.EGLSurface
	widget  glsurface.NativeWidget
	size    image.Point
	vsync   bool
}

func (d *drawable) ID() uintptr       { return uintptr(d.surface) }
func (d *drawable) Size() image.Point { return d.size }

var _ gl.Functions = (*glapi.Context)(nil)
