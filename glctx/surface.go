// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glctx

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/internal/leak"
	"github.com/gogpu/glsurface/native"
)

type surfaceState uint8

const (
	surfaceUnbound surfaceState = iota
	surfaceBound
	// surfaceWrapped surfaces are owned by a SurfaceTexture.
	surfaceWrapped
	surfaceDestroyed
)

// Surface is a color buffer a context renders to: off-screen storage for
// generic surfaces, a window's back buffer for widget surfaces.
//
// A Surface belongs to the context that created it; only that context can
// bind, present, resize or destroy it. Other contexts reach its pixels
// through a SurfaceTexture.
type Surface struct {
	id        glsurface.SurfaceID
	contextID glsurface.ContextID
	dev       *Device
	access    glsurface.SurfaceAccess
	size      image.Point

	storage       native.Storage
	drawable      native.Drawable
	fbo           uint32
	renderbuffers *gl.Renderbuffers

	state  surfaceState
	locked bool
	guard  *leak.Guard
}

// ID returns the surface identifier.
func (s *Surface) ID() glsurface.SurfaceID { return s.id }

// IsWidget reports whether the surface is attached to a native widget.
func (s *Surface) IsWidget() bool { return s.drawable != nil }

func (s *Surface) String() string { return s.id.String() }

// usable returns an error unless the surface is free to be consumed.
func (s *Surface) usable() error {
	switch {
	case s.state == surfaceDestroyed:
		return glsurface.ErrSurfaceDestroyed
	case s.state != surfaceUnbound, s.locked:
		return glsurface.ErrSurfaceInUse
	}
	return nil
}

// SurfaceInfo describes a surface.
type SurfaceInfo struct {
	Size      image.Point
	ID        glsurface.SurfaceID
	ContextID glsurface.ContextID
	// FramebufferObject renders to the surface; 0 for widget surfaces, whose
	// target is the window-system framebuffer.
	FramebufferObject uint32
	Access            glsurface.SurfaceAccess
	Widget            bool
}

// SurfaceInfo describes s.
func (d *Device) SurfaceInfo(s *Surface) SurfaceInfo {
	return SurfaceInfo{
		Size:              s.size,
		ID:                s.id,
		ContextID:         s.contextID,
		FramebufferObject: s.fbo,
		Access:            s.access,
		Widget:            s.IsWidget(),
	}
}

// ContextSurfaceInfo describes the surface bound to ctx. ok is false when
// nothing is bound.
func (d *Device) ContextSurfaceInfo(ctx *Context) (info SurfaceInfo, ok bool, err error) {
	if err := d.checkContext(ctx); err != nil {
		return SurfaceInfo{}, false, err
	}
	switch ctx.fb {
	case framebufferExternal:
		return SurfaceInfo{}, false, glsurface.ErrExternalRenderTarget
	case framebufferSurface:
		return d.SurfaceInfo(ctx.surface), true, nil
	}
	return SurfaceInfo{}, false, nil
}

// SurfaceGLTextureTarget returns the texture target of every SurfaceTexture.
func (d *Device) SurfaceGLTextureTarget() uint32 { return gl.TextureTarget }

// CreateSurface creates a surface owned by ctx.
func (d *Device) CreateSurface(ctx *Context, access glsurface.SurfaceAccess, typ glsurface.SurfaceType) (*Surface, error) {
	if err := d.checkContext(ctx); err != nil {
		return nil, err
	}
	size := typ.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, glsurface.SurfaceCreationFailed(glsurface.WindowingBadValue)
	}

	s := &Surface{contextID: ctx.id, dev: d, access: access, size: size}
	var err error
	werr := d.withCurrent(ctx, func(f gl.Functions) {
		w, ok := typ.NativeWidget()
		if !ok {
			err = d.createGeneric(ctx, f, s)
			return
		}
		s.drawable, err = d.native.CreateDrawable(ctx.native, w)
		if err == nil {
			s.id = glsurface.SurfaceID(s.drawable.ID())
			s.size = s.drawable.Size()
		}
	})
	if werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}

	s.guard = leak.Arm(s, "Surface", s.id.String())
	glsurface.Logger().Debug("glctx: surface created", "surface", s.id, "ctx", ctx.id, "size", s.size, "access", access)
	return s, nil
}

// createGeneric allocates storage plus a framebuffer with the depth and
// stencil buffers the context asked for. f is current.
func (d *Device) createGeneric(ctx *Context, f gl.Functions, s *Surface) error {
	st, err := d.native.CreateStorage(ctx.native, s.size, s.access)
	if err != nil {
		return err
	}
	draw, read := gl.CurrentFramebuffers(f)
	defer gl.RestoreFramebuffers(f, draw, read)

	fbo := gl.CreateAndBindFramebuffer(f, gl.TextureTarget, st.Texture())
	rb := gl.NewRenderbuffers(f, s.size, ctx.desc.native.Attributes(), ctx.features)
	if err := gl.CheckFramebuffer(f); err != nil {
		rb.Destroy(f)
		gl.DestroyFramebuffer(f, fbo)
		if derr := d.native.DestroyStorage(ctx.native, st); derr != nil {
			glsurface.Logger().Warn("glctx: releasing storage of incomplete surface", "err", derr)
		}
		return fmt.Errorf("%w: %w", glsurface.SurfaceCreationFailed(glsurface.WindowingBadState), err)
	}
	s.storage = st
	s.fbo = fbo
	s.renderbuffers = rb
	s.id = glsurface.SurfaceID(st.ID())
	return nil
}

// DestroySurface releases s. It must be unbound and not wrapped in a
// SurfaceTexture. Destroying a destroyed surface is a no-op.
func (d *Device) DestroySurface(ctx *Context, s *Surface) error {
	if err := d.checkContext(ctx); err != nil {
		return err
	}
	if s.state == surfaceDestroyed {
		return nil
	}
	if err := s.usable(); err != nil {
		return err
	}
	if s.contextID != ctx.id {
		return glsurface.ErrIncompatibleSurface
	}
	return d.destroySurface(ctx, s)
}

func (d *Device) destroySurface(ctx *Context, s *Surface) error {
	var err error
	werr := d.withCurrent(ctx, func(f gl.Functions) {
		if s.drawable != nil {
			err = d.native.DestroyDrawable(ctx.native, s.drawable)
			return
		}
		s.renderbuffers.Destroy(f)
		gl.DestroyFramebuffer(f, s.fbo)
		err = d.native.DestroyStorage(ctx.native, s.storage)
	})
	if werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	s.state = surfaceDestroyed
	s.storage, s.drawable, s.renderbuffers, s.fbo = nil, nil, nil, 0
	s.guard.Disarm()
	glsurface.Logger().Debug("glctx: surface destroyed", "surface", s.id, "ctx", ctx.id)
	return nil
}

// BindSurfaceToContext makes s the render target of ctx. On failure s is
// left untouched and still owned by the caller.
func (d *Device) BindSurfaceToContext(ctx *Context, s *Surface) error {
	if err := d.checkContext(ctx); err != nil {
		return err
	}
	if s.contextID != ctx.id {
		return glsurface.ErrIncompatibleSurface
	}
	if err := s.usable(); err != nil {
		return err
	}
	switch ctx.fb {
	case framebufferSurface:
		return glsurface.ErrSurfaceAlreadyBound
	case framebufferExternal:
		return glsurface.ErrExternalRenderTarget
	}

	ctx.fb = framebufferSurface
	ctx.surface = s
	s.state = surfaceBound
	if d.IsCurrent(ctx) {
		if s.drawable != nil {
			if err := d.native.MakeCurrent(ctx.native, s.drawable); err != nil {
				ctx.fb, ctx.surface, s.state = framebufferNone, nil, surfaceUnbound
				return err
			}
		}
		ctx.bindSurfaceFramebuffer()
	}
	glsurface.Logger().Debug("glctx: surface bound", "surface", s.id, "ctx", ctx.id)
	return nil
}

// UnbindSurfaceFromContext detaches and returns the surface bound to ctx,
// or nil if none is. Rendering is flushed first; for surfaces the CPU may
// read it is finished, so the pixels are complete once this returns.
func (d *Device) UnbindSurfaceFromContext(ctx *Context) (*Surface, error) {
	if err := d.checkContext(ctx); err != nil {
		return nil, err
	}
	switch ctx.fb {
	case framebufferNone:
		return nil, nil
	case framebufferExternal:
		return nil, glsurface.ErrExternalRenderTarget
	}

	s := ctx.surface
	err := d.withCurrent(ctx, func(f gl.Functions) {
		if s.access.CPUAccessAllowed() {
			f.Finish()
		} else {
			f.Flush()
		}
		draw, read := gl.CurrentFramebuffers(f)
		if draw == s.fbo && s.fbo != 0 {
			f.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		}
		if read == s.fbo && s.fbo != 0 {
			f.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		}
	})
	if err != nil {
		return nil, err
	}

	ctx.fb = framebufferNone
	ctx.surface = nil
	s.state = surfaceUnbound
	if s.drawable != nil && d.IsCurrent(ctx) {
		if err := d.native.MakeCurrent(ctx.native, nil); err != nil {
			glsurface.Logger().Warn("glctx: detaching widget drawable", "ctx", ctx.id, "err", err)
		}
	}
	glsurface.Logger().Debug("glctx: surface unbound", "surface", s.id, "ctx", ctx.id)
	return s, nil
}

// ownedUnboundOrBound checks that s belongs to ctx, either bound to it or
// free.
func ownedUnboundOrBound(ctx *Context, s *Surface) error {
	if s.state == surfaceDestroyed {
		return glsurface.ErrSurfaceDestroyed
	}
	if s.contextID != ctx.id {
		return glsurface.ErrIncompatibleSurface
	}
	if s.state == surfaceBound && ctx.surface != s {
		return glsurface.ErrIncompatibleSurface
	}
	if s.state == surfaceWrapped {
		return glsurface.ErrSurfaceInUse
	}
	return nil
}

// PresentSurface shows the back buffer of a widget surface. Whether it
// waits for vertical blank is given by Device.PresentMode.
func (d *Device) PresentSurface(ctx *Context, s *Surface) error {
	if err := d.checkContext(ctx); err != nil {
		return err
	}
	if err := ownedUnboundOrBound(ctx, s); err != nil {
		return err
	}
	if s.drawable == nil {
		return glsurface.ErrNoWidgetAttached
	}
	var err error
	werr := d.withCurrentOn(ctx, s.drawable, func(gl.Functions) {
		err = d.native.SwapBuffers(ctx.native, s.drawable)
	})
	if werr != nil {
		return werr
	}
	if err != nil && !errors.Is(err, glsurface.ErrPresentFailed) {
		err = fmt.Errorf("%w: %w", glsurface.PresentFailed(glsurface.WindowingFailed), err)
	}
	return err
}

// ResizeSurface changes the size of a widget surface's buffers, usually
// after the window was resized.
func (d *Device) ResizeSurface(ctx *Context, s *Surface, size image.Point) error {
	if err := d.checkContext(ctx); err != nil {
		return err
	}
	if err := ownedUnboundOrBound(ctx, s); err != nil {
		return err
	}
	if s.drawable == nil {
		return glsurface.ErrNoWidgetAttached
	}
	if size.X <= 0 || size.Y <= 0 {
		return glsurface.SurfaceCreationFailed(glsurface.WindowingBadValue)
	}
	var err error
	if werr := d.withCurrentOn(ctx, s.drawable, func(gl.Functions) {
		err = d.native.ResizeDrawable(ctx.native, s.drawable, size)
	}); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	s.size = s.drawable.Size()
	return nil
}

// SurfaceData is a locked CPU view of a surface's pixels: RGBA8, bottom
// row first, Stride bytes per row. Writes land in the surface on Unlock.
type SurfaceData struct {
	Pixels []byte
	Stride int
	Size   image.Point

	s *Surface
}

// Unlock ends CPU access. It is safe to call more than once.
func (sd *SurfaceData) Unlock() {
	if sd.s == nil {
		return
	}
	sd.s.dev.native.UnlockStorage(sd.s.storage)
	sd.s.locked = false
	sd.s = nil
	sd.Pixels = nil
}

// LockSurfaceData maps an unbound generic surface for CPU access. The
// surface must allow CPU access.
func (d *Device) LockSurfaceData(s *Surface) (*SurfaceData, error) {
	if s.dev != d {
		return nil, glsurface.ErrIncompatibleSurface
	}
	if err := s.usable(); err != nil {
		return nil, err
	}
	if s.drawable != nil {
		return nil, glsurface.ErrWidgetAttached
	}
	if !s.access.CPUAccessAllowed() {
		return nil, glsurface.ErrSurfaceDataInaccessible
	}
	pix, stride, err := d.native.LockStorage(s.storage)
	if err != nil {
		if !errors.Is(err, glsurface.ErrSurfaceLockFailed) {
			err = fmt.Errorf("%w: %w", glsurface.ErrSurfaceLockFailed, err)
		}
		return nil, err
	}
	s.locked = true
	return &SurfaceData{Pixels: pix, Stride: stride, Size: s.size, s: s}, nil
}

// SurfaceTexture exposes a surface's pixels as a texture of another context.
// While it exists it owns the surface.
type SurfaceTexture struct {
	surface   *Surface
	texture   uint32
	contextID glsurface.ContextID
	guard     *leak.Guard
}

// SurfaceID returns the ID of the wrapped surface.
func (st *SurfaceTexture) SurfaceID() glsurface.SurfaceID { return st.surface.id }

// SurfaceTextureObject returns the GL texture name of st in its context.
func (d *Device) SurfaceTextureObject(st *SurfaceTexture) uint32 { return st.texture }

// CreateSurfaceTexture makes the pixels of s readable as a texture in ctx.
// s may come from any context of a device on the same driver. On success st
// owns s until DestroySurfaceTexture; on failure s is left untouched.
func (d *Device) CreateSurfaceTexture(ctx *Context, s *Surface) (*SurfaceTexture, error) {
	if err := d.checkContext(ctx); err != nil {
		return nil, err
	}
	if err := s.usable(); err != nil {
		return nil, err
	}
	if s.drawable != nil {
		return nil, glsurface.ErrWidgetAttached
	}
	if s.dev.conn.DriverName() != d.conn.DriverName() {
		return nil, glsurface.ErrIncompatibleSurface
	}

	var (
		tex uint32
		err error
	)
	if werr := d.withCurrent(ctx, func(gl.Functions) {
		tex, err = d.native.ImportStorage(ctx.native, s.storage)
	}); werr != nil {
		return nil, werr
	}
	if err != nil {
		if !errors.Is(err, glsurface.ErrSurfaceTextureCreationFailed) && !errors.Is(err, glsurface.ErrIncompatibleSurfaceTexture) {
			err = fmt.Errorf("%w: %w", glsurface.SurfaceTextureCreationFailed(glsurface.WindowingFailed), err)
		}
		return nil, err
	}

	s.state = surfaceWrapped
	st := &SurfaceTexture{surface: s, texture: tex, contextID: ctx.id}
	st.guard = leak.Arm(st, "SurfaceTexture", s.id.String())
	glsurface.Logger().Debug("glctx: surface texture created", "surface", s.id, "ctx", ctx.id, "texture", tex)
	return st, nil
}

// DestroySurfaceTexture releases st and returns the surface it wrapped.
// On failure st is left intact.
func (d *Device) DestroySurfaceTexture(ctx *Context, st *SurfaceTexture) (*Surface, error) {
	if err := d.checkContext(ctx); err != nil {
		return nil, err
	}
	if st.surface == nil {
		return nil, glsurface.ErrSurfaceDestroyed
	}
	if st.contextID != ctx.id {
		return nil, glsurface.ErrIncompatibleSurfaceTexture
	}
	s := st.surface
	var err error
	if werr := d.withCurrent(ctx, func(gl.Functions) {
		err = d.native.ReleaseImport(ctx.native, s.storage, st.texture)
	}); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	st.surface = nil
	st.texture = 0
	st.guard.Disarm()
	s.state = surfaceUnbound
	glsurface.Logger().Debug("glctx: surface texture destroyed", "surface", s.id, "ctx", ctx.id)
	return s, nil
}
