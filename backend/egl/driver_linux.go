// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package egl

import (
	"fmt"
	"sync"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/native"
	"github.com/gogpu/gpucontext"
	eglapi "github.com/gogpu/wgpu/hal/gles/egl"
)

func init() {
	native.Register(native.DriverEGL, func() native.Driver {
		return &Driver{}
	})
}

var loadOnce = sync.OnceValue(eglapi.Init)

// Driver opens EGL connections.
type Driver struct{}

// Name returns the driver identifier.
func (*Driver) Name() string { return native.DriverEGL }

// Open loads libEGL and initializes a display for the detected window
// system (X11, Wayland or surfaceless Mesa).
func (*Driver) Open(cfg glsurface.Config) (native.Connection, error) {
	if err := loadOnce(); err != nil {
		return nil, fmt.Errorf("%w: %w", glsurface.ErrNoGLLibraryFound, err)
	}
	display, kind, owner, err := eglapi.GetEGLDisplay()
	if err != nil {
		return nil, fmt.Errorf("%w: egl: %w", glsurface.ErrConnectionFailed, err)
	}
	var major, minor eglapi.EGLInt
	if eglapi.Initialize(display, &major, &minor) == eglapi.False {
		code := windowingError(int32(eglapi.GetError()))
		if owner != nil {
			owner.Close()
		}
		return nil, fmt.Errorf("%w: eglInitialize: %v", glsurface.ErrConnectionFailed, code)
	}
	vendor := eglapi.QueryString(display, eglapi.Vendor)
	glsurface.Logger().Info("egl: connection opened",
		"platform", kind, "version", fmt.Sprintf("%d.%d", major, minor), "vendor", vendor)
	return &connection{cfg: cfg, display: display, kind: kind, owner: owner, vendor: vendor}, nil
}

type connection struct {
	cfg     glsurface.Config
	display eglapi.EGLDisplay
	kind    eglapi.WindowKind
	owner   *eglapi.DisplayOwner
	vendor  string

	mu     sync.Mutex
	closed bool
}

// Adapter records the requested kind. EGL exposes one display; the kind
// only selects the name reported for it.
func (c *connection) Adapter(kind glsurface.AdapterKind) (native.Adapter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return native.Adapter{}, glsurface.ErrConnectionRequired
	}
	kind = c.cfg.AdapterFor(kind)
	info := gpucontext.AdapterInfo{Name: c.vendor, Type: gpucontext.AdapterTypeUnknown}
	if kind == glsurface.SoftwareAdapter {
		info.Type = gpucontext.AdapterTypeSoftware
	}
	return native.Adapter{Kind: kind, Info: info}, nil
}

func (c *connection) OpenDevice(a native.Adapter) (native.Device, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, glsurface.ErrConnectionRequired
	}
	if c.cfg.PrimeOffload(a.Kind) {
		glsurface.Logger().Debug("egl: PRIME offload requested; honored by the driver at display init")
	}
	dev, err := newDevice(c, a, c.cfg.GLAPI())
	if err != nil {
		return nil, fmt.Errorf("%w: egl: %w", glsurface.ErrDeviceOpenFailed, err)
	}
	return dev, nil
}

// Close terminates the display, then closes the native display connection.
func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	eglapi.Terminate(c.display)
	if c.owner != nil {
		c.owner.Close()
	}
	return nil
}
