// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glctx

import (
	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/internal/leak"
	"github.com/gogpu/glsurface/native"
)

type contextStatus uint8

const (
	statusOwned contextStatus = iota
	// statusReferenced contexts wrap a native context owned by someone else.
	statusReferenced
	statusDestroyed
)

// framebufferKind is what a context renders to.
type framebufferKind uint8

const (
	framebufferNone framebufferKind = iota
	// framebufferExternal is a framebuffer managed outside this package.
	framebufferExternal
	framebufferSurface
)

// Context is a rendering context. At most one surface is bound to it at a
// time; that surface is where it renders while current.
type Context struct {
	id       glsurface.ContextID
	dev      *Device
	desc     *ContextDescriptor
	native   native.Context
	features gl.Features
	status   contextStatus
	fb       framebufferKind
	surface  *Surface
	guard    *leak.Guard
}

// ID returns the context's process-unique identifier.
func (c *Context) ID() glsurface.ContextID { return c.id }

// Features returns what the driver reported when the context was created.
func (c *Context) Features() gl.Features { return c.features }

// Destroyed reports whether DestroyContext has been called on c.
func (c *Context) Destroyed() bool { return c.status == statusDestroyed }

// Handle returns the native context handle.
func (c *Context) Handle() uintptr { return c.native.Handle() }

func (c *Context) String() string { return c.id.String() }

// drawable returns the native target the context should be current on.
func (c *Context) drawable() native.Drawable {
	if c.fb == framebufferSurface && c.surface.drawable != nil {
		return c.surface.drawable
	}
	return nil
}

// bindSurfaceFramebuffer points the draw and read framebuffers at the bound
// surface. The context must be current.
func (c *Context) bindSurfaceFramebuffer() {
	if c.fb != framebufferSurface {
		return
	}
	c.native.Functions().BindFramebuffer(gl.FRAMEBUFFER, c.surface.fbo)
}
