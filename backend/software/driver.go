// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software is a CPU backend on top of the wgpu software HAL.
//
// It emulates the subset of OpenGL that context and surface management
// needs: texture, framebuffer and renderbuffer objects, Clear and
// ReadPixels. Storage is a hal/software texture in RGBA8 with rows stored
// bottom-up, the same orientation glReadPixels uses. Widget surfaces are
// presented through a hal/software surface, which blits to the native
// window when one is given and is headless otherwise.
//
// Importing the package registers the "software" driver:
//
//	import _ "github.com/gogpu/glsurface/backend/software"
package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/native"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	halsoft "github.com/gogpu/wgpu/hal/software"
)

func init() {
	native.Register(native.DriverSoftware, func() native.Driver {
		return &Driver{}
	})
}

// Driver opens software connections.
type Driver struct{}

// Name returns the driver identifier.
func (*Driver) Name() string { return native.DriverSoftware }

// Open creates a software HAL instance. It never needs a display server.
func (*Driver) Open(cfg glsurface.Config) (native.Connection, error) {
	inst, err := halsoft.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: software: %w", glsurface.ErrConnectionFailed, err)
	}
	adapters := inst.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		inst.Destroy()
		return nil, fmt.Errorf("%w: software: instance exposes no adapter", glsurface.ErrConnectionFailed)
	}
	glsurface.Logger().Info("software: connection opened", "adapter", adapters[0].Info.Name)
	return &connection{cfg: cfg, instance: inst, exposed: adapters[0]}, nil
}

type connection struct {
	cfg      glsurface.Config
	instance hal.Instance
	exposed  hal.ExposedAdapter

	mu     sync.Mutex
	closed bool
}

// Adapter maps every kind onto the single CPU adapter.
func (c *connection) Adapter(kind glsurface.AdapterKind) (native.Adapter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return native.Adapter{}, glsurface.ErrConnectionRequired
	}
	return native.Adapter{
		Kind: c.cfg.AdapterFor(kind),
		Info: adapterInfo(c.exposed.Info),
	}, nil
}

func (c *connection) OpenDevice(a native.Adapter) (native.Device, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, glsurface.ErrConnectionRequired
	}
	open, err := c.exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("%w: software: %w", glsurface.ErrDeviceOpenFailed, err)
	}
	api := c.cfg.GLAPI()
	glsurface.Logger().Info("software: device opened", "adapter", a.Kind, "api", apiName(api))
	return newDevice(c, a, open, api), nil
}

func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.instance.Destroy()
	return nil
}
