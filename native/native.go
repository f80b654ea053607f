// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native is the boundary between the context/surface protocol and
// the per-platform windowing APIs.
//
// A backend implements Driver and registers it from an init function:
//
//	func init() {
//	    native.Register("software", func() native.Driver { return &Driver{} })
//	}
//
// Backends translate their API's error codes into glsurface.NativeError
// values and otherwise stay free of policy: validation, ownership and
// locking live in package glctx, which calls these interfaces only with
// arguments it has already checked.
package native

import (
	"image"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Driver opens connections to one windowing API.
type Driver interface {
	Name() string
	Open(cfg glsurface.Config) (Connection, error)
}

// Adapter is a GPU or driver choice exposed by a connection.
type Adapter struct {
	Kind glsurface.AdapterKind
	Info gpucontext.AdapterInfo
}

// Connection is an open session with the display server. It is safe for
// concurrent use.
type Connection interface {
	// Adapter resolves a requested kind to a concrete adapter.
	Adapter(kind glsurface.AdapterKind) (Adapter, error)
	OpenDevice(a Adapter) (Device, error)
	Close() error
}

// Config is a negotiated pixel format. It is local to its Device.
type Config interface {
	Attributes() glsurface.ContextAttributes
}

// Context is a native rendering context.
type Context interface {
	// Functions returns the context's GL table. It is only valid while the
	// context is current.
	Functions() gl.Functions
	// Handle is the native context handle, for diagnostics and interop.
	Handle() uintptr
}

// Storage is the native pixel storage of a generic surface: a color texture
// plus whatever handle makes it importable into other contexts.
type Storage interface {
	// ID identifies the storage; it becomes the surface ID.
	ID() uintptr
	// Texture is the color texture name in the creating context.
	Texture() uint32
	Size() image.Point
}

// Drawable is the on-screen back and front buffer of a widget surface.
type Drawable interface {
	ID() uintptr
	Size() image.Point
}

// Device is an opened adapter. It is thread-affine: callers serialize all
// calls and make contexts current on the calling OS thread.
type Device interface {
	Info() gpucontext.AdapterInfo
	API() glsurface.GLAPI
	// PresentMode declares whether SwapBuffers blocks to vblank (Fifo) or
	// returns immediately (Immediate).
	PresentMode() gputypes.PresentMode

	ChooseConfig(attrs glsurface.ContextAttributes) (Config, error)
	// CreateContext creates a context sharing objects with share when non-nil.
	// glctx serializes calls across all devices of the process.
	CreateContext(cfg Config, share Context) (Context, error)
	DestroyContext(ctx Context) error

	// MakeCurrent makes ctx current on the calling thread, drawing to d,
	// or to a backend default framebuffer when d is nil.
	MakeCurrent(ctx Context, d Drawable) error
	// ReleaseCurrent leaves no context current on the calling thread.
	ReleaseCurrent() error
	ProcAddress(ctx Context, name string) uintptr

	// CreateStorage allocates color storage in ctx, which is current.
	CreateStorage(ctx Context, size image.Point, access glsurface.SurfaceAccess) (Storage, error)
	DestroyStorage(ctx Context, s Storage) error
	// ImportStorage returns a new texture name in ctx, which is current,
	// aliasing the storage of s. s may come from another context.
	ImportStorage(ctx Context, s Storage) (uint32, error)
	ReleaseImport(ctx Context, s Storage, texture uint32) error
	// LockStorage maps s for CPU access. Rows are bottom-up RGBA8.
	LockStorage(s Storage) (pixels []byte, stride int, err error)
	UnlockStorage(s Storage)

	CreateDrawable(ctx Context, w glsurface.NativeWidget) (Drawable, error)
	ResizeDrawable(ctx Context, d Drawable, size image.Point) error
	// SwapBuffers presents the back buffer of d. ctx is current on d.
	SwapBuffers(ctx Context, d Drawable) error
	DestroyDrawable(ctx Context, d Drawable) error

	Close() error
}

// ContextAdopter is implemented by devices that can wrap the context
// current on the calling thread, created by someone else. An adopted
// context renders to a framebuffer it does not own and is never destroyed
// through this Device.
type ContextAdopter interface {
	CurrentContext() (Context, Config, error)
}
