// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glctx

import (
	"sync"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/internal/leak"
	"github.com/gogpu/glsurface/internal/thread"
	"github.com/gogpu/glsurface/native"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// creation serializes native context creation, GL table loading and ID
// assignment across every device in the process. Some drivers corrupt
// their state when two threads create contexts at once.
var creation struct {
	sync.Mutex
	nextID glsurface.ContextID
}

// bindings records which context is current on each OS thread.
var bindings thread.Local[*Context]

// LeakReport describes a context, surface or renderbuffer set that was
// garbage collected without being destroyed.
type LeakReport = leak.Report

// SetLeakHandler replaces the function called when a live resource is
// garbage collected and returns a function restoring the previous handler.
// The default handler panics. Passing nil restores the default.
func SetLeakHandler(h func(LeakReport)) (restore func()) {
	return leak.SetHandler(h)
}

// Device is an opened adapter. See the package documentation for its
// threading rules.
type Device struct {
	conn    *Connection
	adapter *Adapter
	native  native.Device
}

func newDevice(c *Connection, a *Adapter, nd native.Device) *Device {
	return &Device{conn: c, adapter: a, native: nd}
}

// Connection returns the connection the device was opened on.
func (d *Device) Connection() *Connection { return d.conn }

// Adapter returns the adapter the device was opened on.
func (d *Device) Adapter() *Adapter { return d.adapter }

// AdapterInfo describes the device's GPU.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo { return d.native.Info() }

// API returns the GL flavor contexts of this device speak.
func (d *Device) API() glsurface.GLAPI { return d.native.API() }

// PresentMode reports whether PresentSurface waits for vertical blank
// (Fifo) or returns immediately (Immediate).
func (d *Device) PresentMode() gputypes.PresentMode { return d.native.PresentMode() }

// Close releases the native device. All contexts must be destroyed first.
func (d *Device) Close() error {
	return d.native.Close()
}

// ContextDescriptor is a pixel format negotiated by a device. It can only be
// used with the device that created it.
type ContextDescriptor struct {
	dev    *Device
	native native.Config
}

// CreateContextDescriptor negotiates a pixel format for attrs.
func (d *Device) CreateContextDescriptor(attrs glsurface.ContextAttributes) (*ContextDescriptor, error) {
	cfg, err := d.native.ChooseConfig(attrs)
	if err != nil {
		return nil, err
	}
	return &ContextDescriptor{dev: d, native: cfg}, nil
}

// ContextDescriptorAttributes returns the attributes desc actually provides.
func (d *Device) ContextDescriptorAttributes(desc *ContextDescriptor) (glsurface.ContextAttributes, error) {
	if desc == nil || desc.dev != d {
		return glsurface.ContextAttributes{}, glsurface.ErrIncompatibleContextDescriptor
	}
	return desc.native.Attributes(), nil
}

// CreateContext creates a context from desc. When share is non-nil the new
// context shares textures and renderbuffers with it. The new context is not
// made current.
func (d *Device) CreateContext(desc *ContextDescriptor, share *Context) (*Context, error) {
	if desc == nil || desc.dev != d {
		return nil, glsurface.ErrIncompatibleContextDescriptor
	}
	var nshare native.Context
	if share != nil {
		if share.dev != d {
			return nil, glsurface.ErrIncompatibleSharedContext
		}
		if share.status == statusDestroyed {
			return nil, glsurface.ErrContextDestroyed
		}
		nshare = share.native
	}

	ctx, err := d.createLocked(desc, nshare)
	if err != nil {
		return nil, err
	}
	ctx.guard = leak.Arm(ctx, "Context", ctx.id.String())
	glsurface.Logger().Debug("glctx: context created",
		"ctx", ctx.id, "gl", ctx.features.Version, "renderer", ctx.features.Renderer)
	return ctx, nil
}

// createLocked creates the native context and makes it current once, which
// is where backends load their GL tables, all under the creation lock.
func (d *Device) createLocked(desc *ContextDescriptor, share native.Context) (*Context, error) {
	creation.Lock()
	defer creation.Unlock()

	nc, err := d.native.CreateContext(desc.native, share)
	if err != nil {
		return nil, err
	}
	creation.nextID++
	ctx := &Context{id: creation.nextID, dev: d, desc: desc, native: nc, status: statusOwned}
	if err := d.withCurrent(ctx, func(f gl.Functions) { ctx.features = gl.DetectFeatures(f) }); err != nil {
		if derr := d.native.DestroyContext(nc); derr != nil {
			glsurface.Logger().Warn("glctx: destroying half-created context", "ctx", ctx.id, "err", derr)
		}
		return nil, err
	}
	return ctx, nil
}

// CreateContextFromCurrent wraps the context current on the calling thread,
// created outside this Device. The wrapper renders to a framebuffer it does
// not own: surfaces cannot be bound to it and destroying it leaves the
// native context alive.
func (d *Device) CreateContextFromCurrent() (*Context, error) {
	adopter, ok := d.native.(native.ContextAdopter)
	if !ok {
		return nil, glsurface.ErrUnimplemented
	}
	creation.Lock()
	nc, cfg, err := adopter.CurrentContext()
	if err != nil {
		creation.Unlock()
		return nil, err
	}
	creation.nextID++
	id := creation.nextID

	ctx := &Context{
		id:     id,
		dev:    d,
		desc:   &ContextDescriptor{dev: d, native: cfg},
		native: nc,
		status: statusReferenced,
		fb:     framebufferExternal,
	}
	ctx.features = gl.DetectFeatures(nc.Functions())
	creation.Unlock()
	ctx.guard = leak.Arm(ctx, "Context", id.String())
	bindings.Set(ctx)
	glsurface.Logger().Debug("glctx: context adopted", "ctx", id)
	return ctx, nil
}

// DestroyContext destroys the context's bound surface, then the context.
// Destroying a destroyed context is a no-op.
func (d *Device) DestroyContext(ctx *Context) error {
	if ctx == nil || ctx.dev != d {
		return glsurface.ErrIncompatibleContext
	}
	if ctx.status == statusDestroyed {
		return nil
	}

	if ctx.fb == framebufferSurface {
		s := ctx.surface
		ctx.surface = nil
		ctx.fb = framebufferNone
		s.state = surfaceUnbound
		if err := d.destroySurface(ctx, s); err != nil {
			return err
		}
	}

	if ctx.status == statusOwned {
		if d.IsCurrent(ctx) {
			if err := d.native.ReleaseCurrent(); err != nil {
				glsurface.Logger().Warn("glctx: release before destroy", "ctx", ctx.id, "err", err)
			}
		}
		if err := d.native.DestroyContext(ctx.native); err != nil {
			return err
		}
	}
	bindings.ClearIf(func(c *Context) bool { return c == ctx })
	ctx.status = statusDestroyed
	ctx.fb = framebufferNone
	ctx.guard.Disarm()
	glsurface.Logger().Debug("glctx: context destroyed", "ctx", ctx.id)
	return nil
}

// ContextDescriptor returns the descriptor ctx was created from.
func (d *Device) ContextDescriptor(ctx *Context) (*ContextDescriptor, error) {
	if ctx == nil || ctx.dev != d {
		return nil, glsurface.ErrIncompatibleContext
	}
	return ctx.desc, nil
}

// ContextID returns the ID of ctx.
func (d *Device) ContextID(ctx *Context) glsurface.ContextID { return ctx.id }

// MakeContextCurrent makes ctx current on the calling thread. Its bound
// surface, if any, becomes the draw and read target.
func (d *Device) MakeContextCurrent(ctx *Context) error {
	if err := d.checkContext(ctx); err != nil {
		return err
	}
	if err := d.native.MakeCurrent(ctx.native, ctx.drawable()); err != nil {
		return err
	}
	bindings.Set(ctx)
	ctx.bindSurfaceFramebuffer()
	glsurface.Logger().Debug("glctx: make current", "ctx", ctx.id)
	return nil
}

// MakeNoContextCurrent leaves no context current on the calling thread.
func (d *Device) MakeNoContextCurrent() error {
	if err := d.native.ReleaseCurrent(); err != nil {
		return err
	}
	bindings.Clear()
	return nil
}

// IsCurrent reports whether ctx is current on the calling thread.
func (d *Device) IsCurrent(ctx *Context) bool {
	cur, ok := bindings.Get()
	return ok && cur == ctx
}

// GetProcAddress resolves a GL entry point of ctx, or 0.
func (d *Device) GetProcAddress(ctx *Context, name string) uintptr {
	if ctx == nil || ctx.dev != d || ctx.status == statusDestroyed {
		return 0
	}
	return d.native.ProcAddress(ctx.native, name)
}

// GL returns the GL function table of ctx. It must only be called into
// while ctx is current.
func (d *Device) GL(ctx *Context) (gl.Functions, error) {
	if err := d.checkContext(ctx); err != nil {
		return nil, err
	}
	return ctx.native.Functions(), nil
}

func (d *Device) checkContext(ctx *Context) error {
	if ctx == nil || ctx.dev != d {
		return glsurface.ErrIncompatibleContext
	}
	if ctx.status == statusDestroyed {
		return glsurface.ErrContextDestroyed
	}
	return nil
}

// withCurrent runs fn with ctx current and then restores whatever was
// current on this thread before.
func (d *Device) withCurrent(ctx *Context, fn func(gl.Functions)) error {
	return d.withCurrentOn(ctx, ctx.drawable(), fn)
}

func (d *Device) withCurrentOn(ctx *Context, dr native.Drawable, fn func(gl.Functions)) error {
	prev, hadPrev := bindings.Get()
	if hadPrev && prev == ctx && dr == ctx.drawable() {
		fn(ctx.native.Functions())
		return nil
	}
	if err := d.native.MakeCurrent(ctx.native, dr); err != nil {
		return err
	}
	bindings.Set(ctx)
	fn(ctx.native.Functions())
	d.restore(prev, hadPrev)
	return nil
}

// restore makes prev current again, or nothing when there was no previous
// context or it has since been destroyed.
func (d *Device) restore(prev *Context, hadPrev bool) {
	if hadPrev && prev.status != statusDestroyed {
		if err := prev.dev.native.MakeCurrent(prev.native, prev.drawable()); err != nil {
			glsurface.Logger().Warn("glctx: restoring current context", "ctx", prev.id, "err", err)
			bindings.Clear()
			return
		}
		bindings.Set(prev)
		return
	}
	if err := d.native.ReleaseCurrent(); err != nil {
		glsurface.Logger().Warn("glctx: releasing temporary context", "err", err)
	}
	bindings.Clear()
}
