// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glctx implements the device, context and surface lifecycle on
// top of a native backend.
//
// A Connection is opened to a windowing driver, an Adapter is picked from
// it and a Device opened on the adapter. Contexts and surfaces are created
// through the Device, which validates every argument before a backend sees
// it:
//
//	conn, err := glctx.Open()
//	adapter, err := conn.CreateAdapter()
//	dev, err := conn.CreateDevice(adapter)
//	desc, err := dev.CreateContextDescriptor(glsurface.ContextAttributes{
//	    Version: glsurface.NewGLVersion(3, 3),
//	    Flags:   glsurface.ContextDepth,
//	})
//	ctx, err := dev.CreateContext(desc, nil)
//	s, err := dev.CreateSurface(ctx, glsurface.GPUCPU, glsurface.Generic(256, 256))
//	err = dev.BindSurfaceToContext(ctx, s)
//
// Contexts, surfaces and surface textures hold native state that can only
// be released with the right context current, so each must be destroyed
// explicitly. Dropping one that is still live aborts the process with a
// diagnostic; see SetLeakHandler.
//
// A Device and everything created from it is used from one goroutine at a
// time, pinned to its OS thread with runtime.LockOSThread while contexts are
// current. Surfaces and surface textures may be handed to other goroutines.
package glctx

import (
	"errors"
	"fmt"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/native"
)

// Connection is an open session with a windowing driver.
type Connection struct {
	driver native.Driver
	native native.Connection
	cfg    glsurface.Config
}

type options struct {
	driver string
	cfg    *glsurface.Config
}

// Option configures Open.
type Option func(*options)

// WithDriver selects a registered driver by name instead of the one named by
// the environment or the best registered one.
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithEnvironment replaces the configuration otherwise read with
// glsurface.LoadConfig.
func WithEnvironment(cfg glsurface.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// Open connects to a driver. The driver is chosen by WithDriver, then by
// GLSURFACE_DRIVER, then by registry priority.
func Open(opts ...Option) (*Connection, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	cfg := glsurface.LoadConfig()
	if o.cfg != nil {
		cfg = *o.cfg
	}
	name := o.driver
	if name == "" {
		name = cfg.Driver
	}

	var (
		drv native.Driver
		err error
	)
	if name != "" {
		drv, err = native.Lookup(name)
	} else {
		drv, err = native.Best()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", glsurface.ErrConnectionFailed, err)
	}

	nc, err := drv.Open(cfg)
	if err != nil {
		if !errors.Is(err, glsurface.ErrConnectionFailed) {
			err = fmt.Errorf("%w: %s: %w", glsurface.ErrConnectionFailed, drv.Name(), err)
		}
		return nil, err
	}
	glsurface.Logger().Info("glctx: connection opened", "driver", drv.Name())
	return &Connection{driver: drv, native: nc, cfg: cfg}, nil
}

// OpenDriver is shorthand for Open(WithDriver(name)).
func OpenDriver(name string) (*Connection, error) {
	return Open(WithDriver(name))
}

// DriverName returns the name of the connected driver.
func (c *Connection) DriverName() string { return c.driver.Name() }

// Config returns the environment policy the connection was opened with.
func (c *Connection) Config() glsurface.Config { return c.cfg }

// Adapter is a GPU choice made on a connection.
type Adapter struct {
	conn   *Connection
	native native.Adapter
}

// Kind returns the adapter kind the backend settled on. It may differ from
// the requested kind, e.g. under LIBGL_ALWAYS_SOFTWARE.
func (a *Adapter) Kind() glsurface.AdapterKind { return a.native.Kind }

// Name returns the adapter name reported by the backend.
func (a *Adapter) Name() string { return a.native.Info.Name }

func (c *Connection) createAdapter(kind glsurface.AdapterKind) (*Adapter, error) {
	na, err := c.native.Adapter(kind)
	if err != nil {
		if !errors.Is(err, glsurface.ErrNoAdapterFound) {
			err = fmt.Errorf("%w: %w", glsurface.ErrNoAdapterFound, err)
		}
		return nil, err
	}
	glsurface.Logger().Info("glctx: adapter selected", "requested", kind, "kind", na.Kind, "name", na.Info.Name)
	return &Adapter{conn: c, native: na}, nil
}

// CreateAdapter returns the default adapter, which is the hardware one.
func (c *Connection) CreateAdapter() (*Adapter, error) {
	return c.createAdapter(glsurface.HardwareAdapter)
}

// CreateHardwareAdapter returns the high-performance GPU.
func (c *Connection) CreateHardwareAdapter() (*Adapter, error) {
	return c.createAdapter(glsurface.HardwareAdapter)
}

// CreateLowPowerAdapter returns the integrated GPU.
func (c *Connection) CreateLowPowerAdapter() (*Adapter, error) {
	return c.createAdapter(glsurface.LowPowerAdapter)
}

// CreateSoftwareAdapter returns a CPU renderer.
func (c *Connection) CreateSoftwareAdapter() (*Adapter, error) {
	return c.createAdapter(glsurface.SoftwareAdapter)
}

// CreateDevice opens a device on an adapter of this connection.
func (c *Connection) CreateDevice(a *Adapter) (*Device, error) {
	if a == nil || a.conn != c {
		return nil, glsurface.ErrIncompatibleAdapter
	}
	nd, err := c.native.OpenDevice(a.native)
	if err != nil {
		if !errors.Is(err, glsurface.ErrDeviceOpenFailed) {
			err = fmt.Errorf("%w: %w", glsurface.ErrDeviceOpenFailed, err)
		}
		return nil, err
	}
	return newDevice(c, a, nd), nil
}

// Close closes the connection. Devices opened from it must be closed first.
func (c *Connection) Close() error {
	return c.native.Close()
}
