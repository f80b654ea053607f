// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import (
	"fmt"
	"image"
	"strconv"

	"github.com/gogpu/gpucontext"
)

// ContextID identifies a live context. IDs are unique among live contexts
// in the process and come from a single counter.
type ContextID uint64

func (id ContextID) String() string {
	return "ctx#" + strconv.FormatUint(uint64(id), 10)
}

// SurfaceID identifies a surface by its native storage handle. It is only
// compared, never dereferenced.
type SurfaceID uintptr

func (id SurfaceID) String() string {
	return fmt.Sprintf("surface#%#x", uintptr(id))
}

// SurfaceAccess describes who may touch a surface's pixels.
type SurfaceAccess uint8

// Surface access modes.
const (
	// GPUOnly surfaces are only read and written by the GPU.
	GPUOnly SurfaceAccess = iota
	// GPUCPU surfaces may also be read and written by the CPU.
	GPUCPU
	// GPUCPUWriteCombined surfaces may be written by the CPU; reads are slow.
	GPUCPUWriteCombined
)

// CPUAccessAllowed reports whether surface data may be locked for CPU access.
func (a SurfaceAccess) CPUAccessAllowed() bool {
	return a == GPUCPU || a == GPUCPUWriteCombined
}

func (a SurfaceAccess) String() string {
	switch a {
	case GPUOnly:
		return "GPUOnly"
	case GPUCPU:
		return "GPUCPU"
	case GPUCPUWriteCombined:
		return "GPUCPUWriteCombined"
	default:
		return "SurfaceAccess(" + strconv.Itoa(int(a)) + ")"
	}
}

// NativeWidget is an opaque handle to an on-screen window. The handles are
// passed to the backend untouched; Provider supplies the current size.
type NativeWidget struct {
	// Display is the native display connection (X11 Display*, wl_display), or 0.
	Display uintptr
	// Window is the native window (X11 Window, wl_egl_window, HWND), or 0 for headless.
	Window uintptr
	// Provider reports the logical size and scale factor of the window.
	Provider gpucontext.WindowProvider
}

// HeadlessWidget returns a widget with no native window, sized w×h physical pixels.
func HeadlessWidget(w, h int) NativeWidget {
	return NativeWidget{Provider: gpucontext.NullWindowProvider{W: w, H: h}}
}

// BackingSize returns the widget's size in physical pixels.
func (w NativeWidget) BackingSize() image.Point {
	if w.Provider == nil {
		return image.Point{}
	}
	lw, lh := w.Provider.Size()
	scale := w.Provider.ScaleFactor()
	return image.Pt(int(float64(lw)*scale), int(float64(lh)*scale))
}

// SurfaceType selects between an off-screen surface and one attached to a widget.
type SurfaceType struct {
	size   image.Point
	widget *NativeWidget
}

// Generic returns the type of an off-screen surface of the given size.
func Generic(width, height int) SurfaceType {
	return SurfaceType{size: image.Pt(width, height)}
}

// Widget returns the type of a surface presented to w.
func Widget(w NativeWidget) SurfaceType {
	return SurfaceType{widget: &w}
}

// IsWidget reports whether the type refers to a native widget.
func (t SurfaceType) IsWidget() bool { return t.widget != nil }

// NativeWidget returns the widget of a widget type.
func (t SurfaceType) NativeWidget() (NativeWidget, bool) {
	if t.widget == nil {
		return NativeWidget{}, false
	}
	return *t.widget, true
}

// Size returns the requested size: explicit for generic surfaces, the
// widget's backing size otherwise.
func (t SurfaceType) Size() image.Point {
	if t.widget != nil {
		return t.widget.BackingSize()
	}
	return t.size
}

func (t SurfaceType) String() string {
	s := t.Size()
	if t.widget != nil {
		return fmt.Sprintf("widget(%dx%d)", s.X, s.Y)
	}
	return fmt.Sprintf("generic(%dx%d)", s.X, s.Y)
}
