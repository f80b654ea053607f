// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import (
	"errors"
	"fmt"
)

// Abstract failure kinds shared by every backend.
var (
	// ErrFailed is a generic failure with no more specific kind.
	ErrFailed = errors.New("glsurface: operation failed")

	// ErrUnsupportedOnThisPlatform is returned when the platform lacks the feature.
	ErrUnsupportedOnThisPlatform = errors.New("glsurface: unsupported on this platform")

	// ErrUnimplemented is returned for operations a backend does not provide.
	ErrUnimplemented = errors.New("glsurface: unimplemented")

	// ErrUnsupportedGLType is returned when the requested GL API (GL or GLES) is unavailable.
	ErrUnsupportedGLType = errors.New("glsurface: unsupported GL type")

	// ErrUnsupportedGLProfile is returned when the requested GL profile is unavailable.
	ErrUnsupportedGLProfile = errors.New("glsurface: unsupported GL profile")

	// ErrUnsupportedGLVersion is returned when the requested GL version is unavailable.
	ErrUnsupportedGLVersion = errors.New("glsurface: unsupported GL version")

	// ErrNoPixelFormatFound is returned when pixel format negotiation yields zero matches.
	ErrNoPixelFormatFound = errors.New("glsurface: no pixel format found")

	// ErrNoGLLibraryFound is returned when no GL library could be loaded.
	ErrNoGLLibraryFound = errors.New("glsurface: no GL library found")

	// ErrRequiredExtensionUnavailable is returned when a mandatory extension is missing.
	ErrRequiredExtensionUnavailable = errors.New("glsurface: required extension unavailable")

	// ErrGLFunctionNotFound is returned when a GL entry point could not be resolved.
	ErrGLFunctionNotFound = errors.New("glsurface: GL function not found")

	// ErrExternalRenderTarget is returned when the context renders to an
	// externally managed framebuffer that this library cannot replace.
	ErrExternalRenderTarget = errors.New("glsurface: context renders to an external target")

	// ErrSurfaceAlreadyBound is returned when a context already has a bound surface.
	ErrSurfaceAlreadyBound = errors.New("glsurface: a surface is already bound to the context")

	// ErrNoAdapterFound is returned when no adapter satisfies the request.
	ErrNoAdapterFound = errors.New("glsurface: no adapter found")

	// ErrDeviceOpenFailed is returned when the native device could not be opened.
	ErrDeviceOpenFailed = errors.New("glsurface: device open failed")

	// ErrNoCurrentContext is returned when an operation needs a current context.
	ErrNoCurrentContext = errors.New("glsurface: no current context")

	// ErrNoCurrentConnection is returned when there is no connection to the display server.
	ErrNoCurrentConnection = errors.New("glsurface: no current connection")

	// ErrIncompatibleSurface is returned when a surface does not belong to the context.
	ErrIncompatibleSurface = errors.New("glsurface: incompatible surface")

	// ErrIncompatibleContextDescriptor is returned for descriptors from another device or backend.
	ErrIncompatibleContextDescriptor = errors.New("glsurface: incompatible context descriptor")

	// ErrIncompatibleContext is returned for contexts from another device or backend.
	ErrIncompatibleContext = errors.New("glsurface: incompatible context")

	// ErrIncompatibleSharedContext is returned when the share context cannot share with the new one.
	ErrIncompatibleSharedContext = errors.New("glsurface: incompatible shared context")

	// ErrIncompatibleSurfaceTexture is returned for surface textures from another context or backend.
	ErrIncompatibleSurfaceTexture = errors.New("glsurface: incompatible surface texture")

	// ErrIncompatibleAdapter is returned for adapters from another connection or backend.
	ErrIncompatibleAdapter = errors.New("glsurface: incompatible adapter")

	// ErrIncompatibleNativeWidget is returned for widgets the backend cannot render to.
	ErrIncompatibleNativeWidget = errors.New("glsurface: incompatible native widget")

	// ErrNoWidgetAttached is returned when a widget-only operation targets a generic surface.
	ErrNoWidgetAttached = errors.New("glsurface: no widget attached")

	// ErrWidgetAttached is returned when a generic-only operation targets a widget surface.
	ErrWidgetAttached = errors.New("glsurface: widget attached")

	// ErrInvalidNativeWidget is returned when the native widget handle is unusable.
	ErrInvalidNativeWidget = errors.New("glsurface: invalid native widget")

	// ErrSurfaceDataInaccessible is returned when the CPU may not access surface pixels.
	ErrSurfaceDataInaccessible = errors.New("glsurface: surface data inaccessible")

	// ErrSurfaceLockFailed is returned when surface pixels could not be locked.
	ErrSurfaceLockFailed = errors.New("glsurface: surface lock failed")

	// ErrConnectionFailed is returned when the display connection could not be opened.
	ErrConnectionFailed = errors.New("glsurface: connection failed")

	// ErrConnectionRequired is returned when an operation needs an open connection.
	ErrConnectionRequired = errors.New("glsurface: connection required")

	// ErrContextDestroyed is returned for operations on a destroyed context.
	ErrContextDestroyed = errors.New("glsurface: context destroyed")

	// ErrSurfaceDestroyed is returned for operations on a destroyed surface
	// or surface texture.
	ErrSurfaceDestroyed = errors.New("glsurface: surface destroyed")

	// ErrSurfaceInUse is returned when a surface is bound to a context,
	// wrapped in a surface texture, or locked for CPU access.
	ErrSurfaceInUse = errors.New("glsurface: surface in use")
)

// Kinds of native failures. A *NativeError carrying one of these as Kind
// matches it with errors.Is.
var (
	ErrPixelFormatSelectionFailed   = errors.New("glsurface: pixel format selection failed")
	ErrContextCreationFailed        = errors.New("glsurface: context creation failed")
	ErrContextDestructionFailed     = errors.New("glsurface: context destruction failed")
	ErrMakeCurrentFailed            = errors.New("glsurface: make current failed")
	ErrSurfaceCreationFailed        = errors.New("glsurface: surface creation failed")
	ErrSurfaceImportFailed          = errors.New("glsurface: surface import failed")
	ErrSurfaceTextureCreationFailed = errors.New("glsurface: surface texture creation failed")
	ErrPresentFailed                = errors.New("glsurface: present failed")
)

// NativeError is a failure reported by a native windowing API, normalized
// to a WindowingAPIError code.
type NativeError struct {
	Kind error
	Code WindowingAPIError
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Code)
}

// Unwrap returns the failure kind.
func (e *NativeError) Unwrap() error { return e.Kind }

// NativeCode extracts the windowing error code from err.
// It reports false if err does not wrap a *NativeError.
func NativeCode(err error) (WindowingAPIError, bool) {
	var ne *NativeError
	if errors.As(err, &ne) {
		return ne.Code, true
	}
	return 0, false
}

func newNative(kind error, code WindowingAPIError) error {
	return &NativeError{Kind: kind, Code: code}
}

// PixelFormatSelectionFailed wraps code as an ErrPixelFormatSelectionFailed.
func PixelFormatSelectionFailed(code WindowingAPIError) error {
	return newNative(ErrPixelFormatSelectionFailed, code)
}

// ContextCreationFailed wraps code as an ErrContextCreationFailed.
func ContextCreationFailed(code WindowingAPIError) error {
	return newNative(ErrContextCreationFailed, code)
}

// ContextDestructionFailed wraps code as an ErrContextDestructionFailed.
func ContextDestructionFailed(code WindowingAPIError) error {
	return newNative(ErrContextDestructionFailed, code)
}

// MakeCurrentFailed wraps code as an ErrMakeCurrentFailed.
func MakeCurrentFailed(code WindowingAPIError) error {
	return newNative(ErrMakeCurrentFailed, code)
}

// SurfaceCreationFailed wraps code as an ErrSurfaceCreationFailed.
func SurfaceCreationFailed(code WindowingAPIError) error {
	return newNative(ErrSurfaceCreationFailed, code)
}

// SurfaceImportFailed wraps code as an ErrSurfaceImportFailed.
func SurfaceImportFailed(code WindowingAPIError) error {
	return newNative(ErrSurfaceImportFailed, code)
}

// SurfaceTextureCreationFailed wraps code as an ErrSurfaceTextureCreationFailed.
func SurfaceTextureCreationFailed(code WindowingAPIError) error {
	return newNative(ErrSurfaceTextureCreationFailed, code)
}

// PresentFailed wraps code as an ErrPresentFailed.
func PresentFailed(code WindowingAPIError) error {
	return newNative(ErrPresentFailed, code)
}
