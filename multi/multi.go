// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package multi combines two drivers behind one API, picking the default
// driver when it can be opened and the alternate one otherwise.
//
// Every value carries the variant it came from. Passing a value of one
// variant to a device of the other fails with the matching Incompatible
// error before any backend is called; the caller keeps the value.
package multi

import (
	"errors"
	"image"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/glctx"
	"github.com/gogpu/gpucontext"
)

// Variant tells which of the two drivers a value belongs to.
type Variant uint8

// Variants.
const (
	Default Variant = iota
	Alternate
)

func (v Variant) String() string {
	if v == Alternate {
		return "alternate"
	}
	return "default"
}

// Connection is a connection to either driver.
type Connection struct {
	variant Variant
	conn    *glctx.Connection
}

// NewConnection opens defaultDriver, falling back to alternateDriver.
// opts apply to both attempts; a WithDriver among them is overridden.
func NewConnection(defaultDriver, alternateDriver string, opts ...glctx.Option) (*Connection, error) {
	with := func(driver string) []glctx.Option {
		return append(append([]glctx.Option(nil), opts...), glctx.WithDriver(driver))
	}
	conn, derr := glctx.Open(with(defaultDriver)...)
	if derr == nil {
		return &Connection{variant: Default, conn: conn}, nil
	}
	glsurface.Logger().Info("multi: default driver unavailable, trying alternate",
		"default", defaultDriver, "alternate", alternateDriver, "err", derr)
	conn, aerr := glctx.Open(with(alternateDriver)...)
	if aerr != nil {
		return nil, errors.Join(derr, aerr)
	}
	return &Connection{variant: Alternate, conn: conn}, nil
}

// FromDefault wraps an open connection as the default variant.
func FromDefault(c *glctx.Connection) *Connection { return &Connection{variant: Default, conn: c} }

// FromAlternate wraps an open connection as the alternate variant.
func FromAlternate(c *glctx.Connection) *Connection { return &Connection{variant: Alternate, conn: c} }

// Variant reports which driver the connection uses.
func (c *Connection) Variant() Variant { return c.variant }

// Unwrap returns the underlying connection.
func (c *Connection) Unwrap() *glctx.Connection { return c.conn }

// DriverName returns the connected driver's name.
func (c *Connection) DriverName() string { return c.conn.DriverName() }

// Close closes the underlying connection.
func (c *Connection) Close() error { return c.conn.Close() }

// Adapter is an adapter of either driver.
type Adapter struct {
	variant Variant
	adapter *glctx.Adapter
}

// Variant reports which driver the adapter belongs to.
func (a *Adapter) Variant() Variant { return a.variant }

// Kind returns the adapter kind.
func (a *Adapter) Kind() glsurface.AdapterKind { return a.adapter.Kind() }

func (c *Connection) wrapAdapter(a *glctx.Adapter, err error) (*Adapter, error) {
	if err != nil {
		return nil, err
	}
	return &Adapter{variant: c.variant, adapter: a}, nil
}

// CreateAdapter returns the default adapter.
func (c *Connection) CreateAdapter() (*Adapter, error) {
	return c.wrapAdapter(c.conn.CreateAdapter())
}

// CreateHardwareAdapter returns the high-performance adapter.
func (c *Connection) CreateHardwareAdapter() (*Adapter, error) {
	return c.wrapAdapter(c.conn.CreateHardwareAdapter())
}

// CreateLowPowerAdapter returns the integrated adapter.
func (c *Connection) CreateLowPowerAdapter() (*Adapter, error) {
	return c.wrapAdapter(c.conn.CreateLowPowerAdapter())
}

// CreateSoftwareAdapter returns a CPU adapter.
func (c *Connection) CreateSoftwareAdapter() (*Adapter, error) {
	return c.wrapAdapter(c.conn.CreateSoftwareAdapter())
}

// CreateDevice opens a device on a.
func (c *Connection) CreateDevice(a *Adapter) (*Device, error) {
	if a == nil || a.variant != c.variant {
		return nil, glsurface.ErrIncompatibleAdapter
	}
	dev, err := c.conn.CreateDevice(a.adapter)
	if err != nil {
		return nil, err
	}
	return &Device{variant: c.variant, dev: dev}, nil
}

// Device is a device of either driver.
type Device struct {
	variant Variant
	dev     *glctx.Device
}

// ContextDescriptor is a descriptor of either driver.
type ContextDescriptor struct {
	variant Variant
	desc    *glctx.ContextDescriptor
}

// Context is a context of either driver.
type Context struct {
	variant Variant
	ctx     *glctx.Context
}

// ID returns the context ID.
func (c *Context) ID() glsurface.ContextID { return c.ctx.ID() }

// Variant reports which driver the context belongs to.
func (c *Context) Variant() Variant { return c.variant }

// Surface is a surface of either driver.
type Surface struct {
	variant Variant
	surface *glctx.Surface
}

// ID returns the surface ID.
func (s *Surface) ID() glsurface.SurfaceID { return s.surface.ID() }

// Variant reports which driver the surface belongs to.
func (s *Surface) Variant() Variant { return s.variant }

// SurfaceTexture is a surface texture of either driver.
type SurfaceTexture struct {
	variant Variant
	st      *glctx.SurfaceTexture
}

// SurfaceID returns the ID of the wrapped surface.
func (st *SurfaceTexture) SurfaceID() glsurface.SurfaceID { return st.st.SurfaceID() }

// Variant reports which driver the device belongs to.
func (d *Device) Variant() Variant { return d.variant }

// Unwrap returns the underlying device.
func (d *Device) Unwrap() *glctx.Device { return d.dev }

// AdapterInfo describes the device's GPU.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo { return d.dev.AdapterInfo() }

// Close closes the device.
func (d *Device) Close() error { return d.dev.Close() }

func (d *Device) context(ctx *Context) (*glctx.Context, error) {
	if ctx == nil || ctx.variant != d.variant {
		return nil, glsurface.ErrIncompatibleContext
	}
	return ctx.ctx, nil
}

func (d *Device) surface(s *Surface) (*glctx.Surface, error) {
	if s == nil || s.variant != d.variant {
		return nil, glsurface.ErrIncompatibleSurface
	}
	return s.surface, nil
}

func (d *Device) wrapSurface(s *glctx.Surface) *Surface {
	if s == nil {
		return nil
	}
	return &Surface{variant: d.variant, surface: s}
}

// CreateContextDescriptor negotiates a pixel format for attrs.
func (d *Device) CreateContextDescriptor(attrs glsurface.ContextAttributes) (*ContextDescriptor, error) {
	desc, err := d.dev.CreateContextDescriptor(attrs)
	if err != nil {
		return nil, err
	}
	return &ContextDescriptor{variant: d.variant, desc: desc}, nil
}

// ContextDescriptorAttributes returns the attributes desc provides.
func (d *Device) ContextDescriptorAttributes(desc *ContextDescriptor) (glsurface.ContextAttributes, error) {
	if desc == nil || desc.variant != d.variant {
		return glsurface.ContextAttributes{}, glsurface.ErrIncompatibleContextDescriptor
	}
	return d.dev.ContextDescriptorAttributes(desc.desc)
}

// CreateContext creates a context, optionally sharing with share.
func (d *Device) CreateContext(desc *ContextDescriptor, share *Context) (*Context, error) {
	if desc == nil || desc.variant != d.variant {
		return nil, glsurface.ErrIncompatibleContextDescriptor
	}
	var inner *glctx.Context
	if share != nil {
		if share.variant != d.variant {
			return nil, glsurface.ErrIncompatibleSharedContext
		}
		inner = share.ctx
	}
	ctx, err := d.dev.CreateContext(desc.desc, inner)
	if err != nil {
		return nil, err
	}
	return &Context{variant: d.variant, ctx: ctx}, nil
}

// DestroyContext destroys ctx and its bound surface.
func (d *Device) DestroyContext(ctx *Context) error {
	c, err := d.context(ctx)
	if err != nil {
		return err
	}
	return d.dev.DestroyContext(c)
}

// ContextDescriptor returns the descriptor ctx was created from.
func (d *Device) ContextDescriptor(ctx *Context) (*ContextDescriptor, error) {
	c, err := d.context(ctx)
	if err != nil {
		return nil, err
	}
	desc, err := d.dev.ContextDescriptor(c)
	if err != nil {
		return nil, err
	}
	return &ContextDescriptor{variant: d.variant, desc: desc}, nil
}

// MakeContextCurrent makes ctx current on the calling thread.
func (d *Device) MakeContextCurrent(ctx *Context) error {
	c, err := d.context(ctx)
	if err != nil {
		return err
	}
	return d.dev.MakeContextCurrent(c)
}

// MakeNoContextCurrent leaves no context current on the calling thread.
func (d *Device) MakeNoContextCurrent() error { return d.dev.MakeNoContextCurrent() }

// GL returns the GL functions of ctx.
func (d *Device) GL(ctx *Context) (gl.Functions, error) {
	c, err := d.context(ctx)
	if err != nil {
		return nil, err
	}
	return d.dev.GL(c)
}

// GetProcAddress resolves a GL entry point of ctx.
func (d *Device) GetProcAddress(ctx *Context, name string) uintptr {
	c, err := d.context(ctx)
	if err != nil {
		return 0
	}
	return d.dev.GetProcAddress(c, name)
}

// CreateSurface creates a surface owned by ctx.
func (d *Device) CreateSurface(ctx *Context, access glsurface.SurfaceAccess, typ glsurface.SurfaceType) (*Surface, error) {
	c, err := d.context(ctx)
	if err != nil {
		return nil, err
	}
	s, err := d.dev.CreateSurface(c, access, typ)
	if err != nil {
		return nil, err
	}
	return d.wrapSurface(s), nil
}

// DestroySurface releases s.
func (d *Device) DestroySurface(ctx *Context, s *Surface) error {
	c, err := d.context(ctx)
	if err != nil {
		return err
	}
	inner, err := d.surface(s)
	if err != nil {
		return err
	}
	return d.dev.DestroySurface(c, inner)
}

// BindSurfaceToContext makes s the render target of ctx.
func (d *Device) BindSurfaceToContext(ctx *Context, s *Surface) error {
	c, err := d.context(ctx)
	if err != nil {
		return err
	}
	inner, err := d.surface(s)
	if err != nil {
		return err
	}
	return d.dev.BindSurfaceToContext(c, inner)
}

// UnbindSurfaceFromContext detaches and returns the surface bound to ctx.
func (d *Device) UnbindSurfaceFromContext(ctx *Context) (*Surface, error) {
	c, err := d.context(ctx)
	if err != nil {
		return nil, err
	}
	s, err := d.dev.UnbindSurfaceFromContext(c)
	if err != nil {
		return nil, err
	}
	return d.wrapSurface(s), nil
}

// PresentSurface presents a widget surface.
func (d *Device) PresentSurface(ctx *Context, s *Surface) error {
	c, err := d.context(ctx)
	if err != nil {
		return err
	}
	inner, err := d.surface(s)
	if err != nil {
		return err
	}
	return d.dev.PresentSurface(c, inner)
}

// ResizeSurface resizes a widget surface.
func (d *Device) ResizeSurface(ctx *Context, s *Surface, size image.Point) error {
	c, err := d.context(ctx)
	if err != nil {
		return err
	}
	inner, err := d.surface(s)
	if err != nil {
		return err
	}
	return d.dev.ResizeSurface(c, inner, size)
}

// SurfaceInfo describes s.
func (d *Device) SurfaceInfo(s *Surface) (glctx.SurfaceInfo, error) {
	inner, err := d.surface(s)
	if err != nil {
		return glctx.SurfaceInfo{}, err
	}
	return d.dev.SurfaceInfo(inner), nil
}

// ContextSurfaceInfo describes the surface bound to ctx.
func (d *Device) ContextSurfaceInfo(ctx *Context) (glctx.SurfaceInfo, bool, error) {
	c, err := d.context(ctx)
	if err != nil {
		return glctx.SurfaceInfo{}, false, err
	}
	return d.dev.ContextSurfaceInfo(c)
}

// LockSurfaceData maps s for CPU access.
func (d *Device) LockSurfaceData(s *Surface) (*glctx.SurfaceData, error) {
	inner, err := d.surface(s)
	if err != nil {
		return nil, err
	}
	return d.dev.LockSurfaceData(inner)
}

// SurfaceGLTextureTarget returns the texture target of surface textures.
func (d *Device) SurfaceGLTextureTarget() uint32 { return d.dev.SurfaceGLTextureTarget() }

// CreateSurfaceTexture wraps s as a texture of ctx.
func (d *Device) CreateSurfaceTexture(ctx *Context, s *Surface) (*SurfaceTexture, error) {
	c, err := d.context(ctx)
	if err != nil {
		return nil, err
	}
	inner, err := d.surface(s)
	if err != nil {
		return nil, err
	}
	st, err := d.dev.CreateSurfaceTexture(c, inner)
	if err != nil {
		return nil, err
	}
	return &SurfaceTexture{variant: d.variant, st: st}, nil
}

// DestroySurfaceTexture releases st and returns its surface.
func (d *Device) DestroySurfaceTexture(ctx *Context, st *SurfaceTexture) (*Surface, error) {
	c, err := d.context(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil || st.variant != d.variant {
		return nil, glsurface.ErrIncompatibleSurfaceTexture
	}
	s, err := d.dev.DestroySurfaceTexture(c, st.st)
	if err != nil {
		return nil, err
	}
	return d.wrapSurface(s), nil
}

// SurfaceTextureObject returns the GL texture name of st.
func (d *Device) SurfaceTextureObject(st *SurfaceTexture) (uint32, error) {
	if st == nil || st.variant != d.variant {
		return 0, glsurface.ErrIncompatibleSurfaceTexture
	}
	return d.dev.SurfaceTextureObject(st.st), nil
}
