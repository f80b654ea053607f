// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/internal/thread"
	"github.com/gogpu/glsurface/native"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	halsoft "github.com/gogpu/wgpu/hal/software"
)

// Highest versions the emulation reports.
var (
	maxGLVersion   = glsurface.NewGLVersion(3, 3)
	maxGLESVersion = glsurface.NewGLVersion(3, 0)
)

// storageFormat is the pixel format of every texture the backend allocates.
const storageFormat = gputypes.TextureFormatRGBA8Unorm

var nextContextHandle atomic.Uint64

type device struct {
	conn    *connection
	adapter native.Adapter
	hal     hal.Device
	queue   hal.Queue
	api     glsurface.GLAPI

	current thread.Local[*context]
}

func newDevice(c *connection, a native.Adapter, open hal.OpenDevice, api glsurface.GLAPI) *device {
	return &device{conn: c, adapter: a, hal: open.Device, queue: open.Queue, api: api}
}

func adapterInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: info.Name, Type: glsurface.AdapterType(info.DeviceType)}
}

func apiName(api glsurface.GLAPI) string {
	if api == glsurface.GLAPIGLES {
		return "GLES"
	}
	return "GL"
}

func (d *device) Info() gpucontext.AdapterInfo { return d.adapter.Info }

func (d *device) API() glsurface.GLAPI { return d.api }

// PresentMode is Immediate: SwapBuffers copies and returns without waiting.
func (d *device) PresentMode() gputypes.PresentMode { return gputypes.PresentModeImmediate }

type config struct {
	attrs glsurface.ContextAttributes
	dev   *device
}

func (c *config) Attributes() glsurface.ContextAttributes { return c.attrs }

// ChooseConfig accepts any attribute set the emulation can honor.
func (d *device) ChooseConfig(attrs glsurface.ContextAttributes) (native.Config, error) {
	maxVersion := maxGLVersion
	if d.api == glsurface.GLAPIGLES {
		maxVersion = maxGLESVersion
		if attrs.Flags.Has(glsurface.ContextCompatibilityProfile) {
			return nil, fmt.Errorf("%w: compatibility profile on GLES", glsurface.ErrUnsupportedGLProfile)
		}
	}
	if !maxVersion.AtLeast(attrs.Version.Major, attrs.Version.Minor) {
		return nil, fmt.Errorf("%w: %v requested, %v available", glsurface.ErrUnsupportedGLVersion, attrs.Version, maxVersion)
	}
	if attrs.Version.Major == 0 {
		attrs.Version = glsurface.NewGLVersion(2, 0)
	}
	return &config{attrs: attrs, dev: d}, nil
}

func (d *device) CreateContext(cfg native.Config, share native.Context) (native.Context, error) {
	c, ok := cfg.(*config)
	if !ok || c.dev != d {
		return nil, glsurface.ErrIncompatibleContextDescriptor
	}
	ns := newNamespace()
	if share != nil {
		sc, ok := share.(*context)
		if !ok || sc.dev != d {
			return nil, glsurface.ErrIncompatibleSharedContext
		}
		ns = sc.ns
	}
	return newContext(d, c, ns), nil
}

func (d *device) DestroyContext(ctx native.Context) error {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return glsurface.ContextDestructionFailed(glsurface.WindowingBadContext)
	}
	d.current.ClearIf(func(cur *context) bool { return cur == c })
	c.release()
	return nil
}

func (d *device) MakeCurrent(ctx native.Context, dr native.Drawable) error {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return glsurface.MakeCurrentFailed(glsurface.WindowingBadContext)
	}
	if c.released {
		return glsurface.MakeCurrentFailed(glsurface.WindowingContextLost)
	}
	c.drawable = nil
	if dr != nil {
		dd, ok := dr.(*drawable)
		if !ok || dd.dev != d {
			return glsurface.MakeCurrentFailed(glsurface.WindowingBadDrawable)
		}
		c.drawable = dd
	}
	d.current.Set(c)
	return nil
}

func (d *device) ReleaseCurrent() error {
	d.current.Clear()
	return nil
}

// CurrentContext adopts the context made current on this thread by another
// device wrapper over the same native device.
func (d *device) CurrentContext() (native.Context, native.Config, error) {
	c, ok := d.current.Get()
	if !ok {
		return nil, nil, glsurface.ErrNoCurrentContext
	}
	return c, c.cfg, nil
}

// ProcAddress always returns 0: the emulation has no native entry points.
func (d *device) ProcAddress(native.Context, string) uintptr { return 0 }

func (d *device) newTexture(label string, size image.Point) (*halsoft.Texture, error) {
	t, err := d.hal.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(size.X), Height: uint32(size.Y), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        storageFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	st, ok := t.(*halsoft.Texture)
	if !ok {
		return nil, fmt.Errorf("software: unexpected texture type %T", t)
	}
	return st, nil
}

func (d *device) CreateStorage(ctx native.Context, size image.Point, access glsurface.SurfaceAccess) (native.Storage, error) {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return nil, glsurface.SurfaceCreationFailed(glsurface.WindowingBadContext)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, glsurface.SurfaceCreationFailed(glsurface.WindowingBadValue)
	}
	tex, err := d.newTexture("glsurface storage", size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", glsurface.SurfaceCreationFailed(glsurface.WindowingBadAlloc), err)
	}
	name := c.ns.attach(tex, size)
	return &storage{id: tex.NativeHandle(), tex: tex, name: name, size: size, access: access, dev: d}, nil
}

func (d *device) DestroyStorage(ctx native.Context, s native.Storage) error {
	c, ok := ctx.(*context)
	st, ok2 := s.(*storage)
	if !ok || !ok2 {
		return glsurface.ErrIncompatibleSurface
	}
	c.DeleteTextures(st.name)
	d.hal.DestroyTexture(st.tex)
	st.tex = nil
	return nil
}

// ImportStorage aliases the storage texture under a new name; no pixels are
// copied. Any software device can import any software storage since all of
// them share process memory.
func (d *device) ImportStorage(ctx native.Context, s native.Storage) (uint32, error) {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return 0, glsurface.SurfaceImportFailed(glsurface.WindowingBadContext)
	}
	st, ok := s.(*storage)
	if !ok || st.tex == nil {
		return 0, glsurface.SurfaceImportFailed(glsurface.WindowingBadSurface)
	}
	return c.ns.attach(st.tex, st.size), nil
}

func (d *device) ReleaseImport(ctx native.Context, _ native.Storage, texture uint32) error {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return glsurface.ErrIncompatibleSurfaceTexture
	}
	c.DeleteTextures(texture)
	return nil
}

// LockStorage returns a copy of the pixels; UnlockStorage writes it back.
func (d *device) LockStorage(s native.Storage) ([]byte, int, error) {
	st, ok := s.(*storage)
	if !ok || st.tex == nil {
		return nil, 0, glsurface.ErrIncompatibleSurface
	}
	if st.locked != nil {
		return nil, 0, glsurface.ErrSurfaceInUse
	}
	st.locked = st.tex.GetData()
	return st.locked, st.size.X * 4, nil
}

func (d *device) UnlockStorage(s native.Storage) {
	st, ok := s.(*storage)
	if !ok || st.locked == nil {
		return
	}
	if st.tex != nil {
		st.tex.WriteData(0, st.locked)
	}
	st.locked = nil
}

func (d *device) CreateDrawable(ctx native.Context, w glsurface.NativeWidget) (native.Drawable, error) {
	if _, ok := ctx.(*context); !ok {
		return nil, glsurface.SurfaceCreationFailed(glsurface.WindowingBadContext)
	}
	if w.Provider == nil {
		return nil, glsurface.ErrInvalidNativeWidget
	}
	surf, err := d.conn.instance.CreateSurface(w.Display, w.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", glsurface.SurfaceCreationFailed(glsurface.WindowingBadNativeWindow), err)
	}
	dr := &drawable{dev: d, surface: surf, widget: w}
	if err := dr.configure(w.BackingSize()); err != nil {
		surf.Destroy()
		return nil, err
	}
	return dr, nil
}

func (d *device) ResizeDrawable(_ native.Context, dr native.Drawable, size image.Point) error {
	dd, ok := dr.(*drawable)
	if !ok || dd.dev != d {
		return glsurface.ErrIncompatibleSurface
	}
	return dd.configure(size)
}

func (d *device) SwapBuffers(_ native.Context, dr native.Drawable) error {
	dd, ok := dr.(*drawable)
	if !ok || dd.dev != d {
		return glsurface.PresentFailed(glsurface.WindowingBadDrawable)
	}
	return dd.present()
}

func (d *device) DestroyDrawable(_ native.Context, dr native.Drawable) error {
	dd, ok := dr.(*drawable)
	if !ok || dd.dev != d {
		return glsurface.ErrIncompatibleSurface
	}
	dd.destroy()
	return nil
}

func (d *device) Close() error {
	d.hal.Destroy()
	return nil
}

// Compile-time interface checks.
var (
	_ native.Device         = (*device)(nil)
	_ native.ContextAdopter = (*device)(nil)
	_ gl.Functions          = (*context)(nil)
)
