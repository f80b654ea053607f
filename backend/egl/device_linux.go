// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package egl

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
	eglapi "github.com/gogpu/wgpu/hal/gles/egl"
	glapi "github.com/gogpu/wgpu/hal/gles/gl"
)

// pbufferSize is the size of the default framebuffer of a context with no
// widget bound.
const pbufferSize = 16

var nextStorageID atomic.Uintptr

type device struct {
	conn    *connection
	adapter native.Adapter
	api     glsurface.GLAPI

	// root is never current; every context shares objects with it.
	root    eglapi.EGLContext
	rootCfg eglapi.EGLConfig

	current thread.Local[*context]
}

func clientAPI(api glsurface.GLAPI) eglapi.EGLEnum {
	if api == glsurface.GLAPIGLES {
		return eglapi.OpenGLESAPI
	}
	return eglapi.OpenGLAPI
}

func lastError() glsurface.WindowingAPIError {
	return windowingError(int32(eglapi.GetError()))
}

func newDevice(c *connection, a native.Adapter, api glsurface.GLAPI) (*device, error) {
	d := &device{conn: c, adapter: a, api: api}
	if eglapi.BindAPI(clientAPI(api)) == eglapi.False {
		return nil, glsurface.ContextCreationFailed(lastError())
	}
	cfg, err := d.chooseEGLConfig(glsurface.ContextAttributes{Flags: glsurface.ContextAlpha})
	if err != nil {
		return nil, err
	}
	attribs := []eglapi.EGLInt{eglapi.None}
	root := eglapi.CreateContext(c.display, cfg, eglapi.NoContext, &attribs[0])
	if root == eglapi.NoContext {
		return nil, glsurface.ContextCreationFailed(lastError())
	}
	d.root, d.rootCfg = root, cfg
	return d, nil
}

func (d *device) display() eglapi.EGLDisplay { return d.conn.display }

func (d *device) Info() gpucontext.AdapterInfo { return d.adapter.Info }

func (d *device) API() glsurface.GLAPI { return d.api }

// PresentMode is Fifo: window surfaces swap with an interval of 1.
func (d *device) PresentMode() gputypes.PresentMode { return gputypes.PresentModeFifo }

type config struct {
	attrs glsurface.ContextAttributes
	egl   eglapi.EGLConfig
	dev   *device
}

func (c *config) Attributes() glsurface.ContextAttributes { return c.attrs }

func (d *device) chooseEGLConfig(attrs glsurface.ContextAttributes) (eglapi.EGLConfig, error) {
	renderable := eglapi.OpenGLBit
	if d.api == glsurface.GLAPIGLES {
		renderable = eglapi.OpenGLES2Bit
		if attrs.Version.Major >= 3 {
			renderable = eglapi.OpenGLES3Bit
		}
	}
	alpha, depth, stencil := eglapi.EGLInt(0), eglapi.EGLInt(0), eglapi.EGLInt(0)
	if attrs.Flags.Has(glsurface.ContextAlpha) {
		alpha = 8
	}
	if attrs.Flags.Has(glsurface.ContextDepth) {
		depth = 24
	}
	if attrs.Flags.Has(glsurface.ContextStencil) {
		stencil = 8
	}
	list := []eglapi.EGLInt{
		eglapi.SurfaceType, eglapi.PbufferBit | eglapi.WindowBit,
		eglapi.RenderableType, renderable,
		eglapi.RedSize, 8,
		eglapi.GreenSize, 8,
		eglapi.BlueSize, 8,
		eglapi.AlphaSize, alpha,
		eglapi.DepthSize, depth,
		eglapi.StencilSize, stencil,
		eglapi.None,
	}
	var cfg eglapi.EGLConfig
	var n eglapi.EGLInt
	if eglapi.ChooseConfig(d.display(), &list[0], &cfg, 1, &n) == eglapi.False {
		return 0, glsurface.PixelFormatSelectionFailed(lastError())
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %v", glsurface.ErrNoPixelFormatFound, attrs)
	}
	return cfg, nil
}

func (d *device) ChooseConfig(attrs glsurface.ContextAttributes) (native.Config, error) {
	if d.api == glsurface.GLAPIGLES && attrs.Flags.Has(glsurface.ContextCompatibilityProfile) {
		return nil, fmt.Errorf("%w: compatibility profile on GLES", glsurface.ErrUnsupportedGLProfile)
	}
	if attrs.Version.Major == 0 {
		attrs.Version = glsurface.NewGLVersion(2, 0)
	}
	cfg, err := d.chooseEGLConfig(attrs)
	if err != nil {
		return nil, err
	}
	return &config{attrs: attrs, egl: cfg, dev: d}, nil
}

func (d *device) contextAttribs(attrs glsurface.ContextAttributes) []eglapi.EGLInt {
	list := []eglapi.EGLInt{
		eglapi.ContextMajorVersion, eglapi.EGLInt(attrs.Version.Major),
		eglapi.ContextMinorVersion, eglapi.EGLInt(attrs.Version.Minor),
	}
	if d.api == glsurface.GLAPIGL && attrs.Version.AtLeast(3, 2) {
		profile := eglapi.ContextOpenGLCoreProfileBit
		if attrs.Flags.Has(glsurface.ContextCompatibilityProfile) {
			profile = eglapi.ContextOpenGLCompatibilityProfileBit
		}
		list = append(list, eglapi.ContextOpenGLProfileMask, profile)
	}
	return append(list, eglapi.None)
}

func (d *device) CreateContext(cfg native.Config, share native.Context) (native.Context, error) {
	c, ok := cfg.(*config)
	if !ok || c.dev != d {
		return nil, glsurface.ErrIncompatibleContextDescriptor
	}
	shareWith := d.root
	if share != nil {
		sc, ok := share.(*context)
		if !ok || sc.dev != d {
			return nil, glsurface.ErrIncompatibleSharedContext
		}
		shareWith = sc.egl
	}
	if eglapi.BindAPI(clientAPI(d.api)) == eglapi.False {
		return nil, glsurface.ContextCreationFailed(lastError())
	}
	attribs := d.contextAttribs(c.attrs)
	ec := eglapi.CreateContext(d.display(), c.egl, shareWith, &attribs[0])
	if ec == eglapi.NoContext {
		code := lastError()
		if code == glsurface.WindowingBadMatch || code == glsurface.WindowingBadAttribute {
			return nil, fmt.Errorf("%w: %v", glsurface.ErrUnsupportedGLVersion, c.attrs.Version)
		}
		return nil, glsurface.ContextCreationFailed(code)
	}
	pb := []eglapi.EGLInt{eglapi.Width, pbufferSize, eglapi.Height, pbufferSize, eglapi.None}
	pbuffer := eglapi.CreatePbufferSurface(d.display(), c.egl, &pb[0])
	if pbuffer == eglapi.NoSurface {
		code := lastError()
		eglapi.DestroyContext(d.display(), ec)
		return nil, glsurface.ContextCreationFailed(code)
	}
	return &context{dev: d, cfg: c, egl: ec, pbuffer: pbuffer, fns: &glapi.Context{}}, nil
}

func (d *device) DestroyContext(ctx native.Context) error {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return glsurface.ContextDestructionFailed(glsurface.WindowingBadContext)
	}
	if c.external {
		d.current.ClearIf(func(cur *context) bool { return cur == c })
		return nil
	}
	if cur, ok := d.current.Get(); ok && cur == c {
		if err := d.ReleaseCurrent(); err != nil {
			return err
		}
	}
	eglapi.DestroySurface(d.display(), c.pbuffer)
	if eglapi.DestroyContext(d.display(), c.egl) == eglapi.False {
		return glsurface.ContextDestructionFailed(lastError())
	}
	return nil
}

func (d *device) MakeCurrent(ctx native.Context, dr native.Drawable) error {
	c, ok := ctx.(*context)
	if !ok || c.dev != d {
		return glsurface.MakeCurrentFailed(glsurface.WindowingBadContext)
	}
	surface := c.pbuffer
	var win *drawable
	if dr != nil {
		win = dr.(*drawable)
		surface = win.surface
	}
	if eglapi.MakeCurrent(d.display(), surface, surface, c.egl) == eglapi.False {
		return glsurface.MakeCurrentFailed(lastError())
	}
	d.current.Set(c)
	if !c.loaded {
		if err := c.fns.Load(eglapi.GetGLProcAddress); err != nil {
			return fmt.Errorf("%w: %w", glsurface.ErrGLFunctionNotFound, err)
		}
		c.loaded = true
	}
	if win != nil && !win.vsync {
		if eglapi.SwapInterval(d.display(), 1) == eglapi.False {
			glsurface.Logger().Warn("egl: eglSwapInterval failed", "err", lastError())
		}
		win.vsync = true
	}
	c.drawable = win
	return nil
}

func (d *device) ReleaseCurrent() error {
	if eglapi.MakeCurrent(d.display(), eglapi.NoSurface, eglapi.NoSurface, eglapi.NoContext) == eglapi.False {
		return glsurface.MakeCurrentFailed(lastError())
	}
	d.current.Clear()
	return nil
}

// CurrentContext wraps the EGL context current on this thread. The
// wrapper keeps rendering to whatever surface is current with it.
func (d *device) CurrentContext() (native.Context, native.Config, error) {
	ec := eglapi.GetCurrentContext()
	if ec == eglapi.NoContext {
		return nil, nil, glsurface.ErrNoCurrentContext
	}
	c := &context{dev: d, egl: ec, fns: &glapi.Context{}, external: true}
	if err := c.fns.Load(eglapi.GetGLProcAddress); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", glsurface.ErrGLFunctionNotFound, err)
	}
	c.loaded = true
	version, api := gl.ParseVersion(c.fns.GetString(gl.VERSION))
	if api != d.api {
		return nil, nil, fmt.Errorf("%w: current context speaks %v", glsurface.ErrUnsupportedGLType, api)
	}
	c.cfg = &config{attrs: glsurface.ContextAttributes{Version: version}, dev: d}
	d.current.Set(c)
	return c, c.cfg, nil
}

func (d *device) ProcAddress(_ native.Context, name string) uintptr {
	return eglapi.GetProcAddress(name)
}

func (d *device) CreateStorage(ctx native.Context, size image.Point, _ glsurface.SurfaceAccess) (native.Storage, error) {
	c := ctx.(*context)
	f := c.fns
	var prev int32
	f.GetIntegerv(gl.TEXTURE_BINDING_2D, &prev)
	tex := f.GenTextures(1)
	f.BindTexture(gl.TEXTURE_2D, tex)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	f.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, 0)
	f.BindTexture(gl.TEXTURE_2D, uint32(prev))
	if code := f.GetError(); code != gl.NO_ERROR {
		f.DeleteTextures(tex)
		return nil, fmt.Errorf("%w: %s", glsurface.ErrSurfaceCreationFailed, gl.ErrorString(code))
	}
	return &storage{id: nextStorageID.Add(1), tex: tex, size: size, dev: d}, nil
}

func (d *device) DestroyStorage(ctx native.Context, s native.Storage) error {
	ctx.(*context).fns.DeleteTextures(s.(*storage).tex)
	return nil
}

// ImportStorage returns the storage's own texture name: every context of
// the device shares it through the root context.
func (d *device) ImportStorage(_ native.Context, s native.Storage) (uint32, error) {
	st, ok := s.(*storage)
	if !ok || st.dev != d {
		return 0, glsurface.ErrIncompatibleSurfaceTexture
	}
	return st.tex, nil
}

func (d *device) ReleaseImport(native.Context, native.Storage, uint32) error { return nil }

// LockStorage is not offered: EGL has no portable way to map a texture.
func (d *device) LockStorage(native.Storage) ([]byte, int, error) {
	return nil, 0, glsurface.ErrUnimplemented
}

func (d *device) UnlockStorage(native.Storage) {}

func (d *device) CreateDrawable(ctx native.Context, w glsurface.NativeWidget) (native.Drawable, error) {
	if w.Window == 0 {
		return nil, glsurface.ErrInvalidNativeWidget
	}
	c := ctx.(*context)
	attribs := []eglapi.EGLInt{eglapi.None}
	s := eglapi.CreateWindowSurface(d.display(), c.cfg.egl, eglapi.EGLNativeWindowType(w.Window), &attribs[0])
	if s == eglapi.NoSurface {
		code := lastError()
		if code == glsurface.WindowingBadNativeWindow {
			return nil, fmt.Errorf("%w: %w", glsurface.ErrInvalidNativeWidget, glsurface.SurfaceCreationFailed(code))
		}
		return nil, glsurface.SurfaceCreationFailed(code)
	}
	return &drawable{surface: s, widget: w, size: w.BackingSize()}, nil
}

// ResizeDrawable records the new size. X11 window surfaces follow the
// window; on Wayland the caller resizes its wl_egl_window.
func (d *device) ResizeDrawable(_ native.Context, dr native.Drawable, size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return glsurface.SurfaceCreationFailed(glsurface.WindowingBadValue)
	}
	dr.(*drawable).size = size
	return nil
}

func (d *device) SwapBuffers(_ native.Context, dr native.Drawable) error {
	if eglapi.SwapBuffers(d.display(), dr.(*drawable).surface) == eglapi.False {
		return glsurface.PresentFailed(lastError())
	}
	return nil
}

func (d *device) DestroyDrawable(ctx native.Context, dr native.Drawable) error {
	c := ctx.(*context)
	win := dr.(*drawable)
	if cur, ok := d.current.Get(); ok && cur == c && c.drawable == win {
		if err := d.MakeCurrent(c, nil); err != nil {
			return err
		}
	}
	if eglapi.DestroySurface(d.display(), win.surface) == eglapi.False {
		return glsurface.SurfaceCreationFailed(lastError())
	}
	return nil
}

func (d *device) Close() error {
	if d.root == eglapi.NoContext {
		return nil
	}
	eglapi.DestroyContext(d.display(), d.root)
	d.root = eglapi.NoContext
	return nil
}

var (
	_ native.Device         = (*device)(nil)
	_ native.ContextAdopter = (*device)(nil)
)
