// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	halsoft "github.com/gogpu/wgpu/hal/software"
)

// storage is the color texture of a generic surface.
type storage struct {
	id     uintptr
	tex    *halsoft.Texture
	name   uint32
	size   image.Point
	access glsurface.SurfaceAccess
	dev    *device
	locked []byte
}

func (s *storage) ID() uintptr       { return s.id }
func (s *storage) Texture() uint32   { return s.name }
func (s *storage) Size() image.Point { return s.size }

// pixelWriter is the write side of an acquired hal/software surface texture.
type pixelWriter interface {
	WriteData(offset uint64, data []byte)
}

// drawable is a widget surface: a back buffer the context renders into and
// a hal surface that receives it on SwapBuffers.
type drawable struct {
	dev     *device
	surface hal.Surface
	widget  glsurface.NativeWidget
	back    *halsoft.Texture
	size    image.Point
	id      uintptr
}

func (d *drawable) ID() uintptr       { return d.id }
func (d *drawable) Size() image.Point { return d.size }

// configure (re)allocates the back buffer and the presentation surface.
// Back buffer contents are undefined after a resize.
func (d *drawable) configure(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return glsurface.SurfaceCreationFailed(glsurface.WindowingBadValue)
	}
	err := d.surface.Configure(d.dev.hal, &hal.SurfaceConfiguration{
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		Format:      storageFormat,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeImmediate,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if errors.Is(err, hal.ErrZeroArea) {
		return glsurface.SurfaceCreationFailed(glsurface.WindowingBadValue)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", glsurface.SurfaceCreationFailed(glsurface.WindowingBadNativeWindow), err)
	}
	back, err := d.dev.newTexture("glsurface back buffer", size)
	if err != nil {
		return fmt.Errorf("%w: %w", glsurface.SurfaceCreationFailed(glsurface.WindowingBadAlloc), err)
	}
	if d.back != nil {
		d.dev.hal.DestroyTexture(d.back)
	}
	// Texture handles are never reused, so the first one names the drawable
	// for its whole life.
	if d.id == 0 {
		d.id = back.NativeHandle()
	}
	d.back = back
	d.size = size
	return nil
}

// present copies the back buffer into the surface and presents it. The
// surface stores rows top-down, so rows are flipped on the way.
func (d *drawable) present() error {
	acquired, err := d.surface.AcquireTexture(nil)
	if err != nil {
		return fmt.Errorf("%w: %w", glsurface.PresentFailed(glsurface.WindowingBadSurface), err)
	}
	w, ok := acquired.Texture.(pixelWriter)
	if !ok {
		d.surface.DiscardTexture(acquired.Texture)
		return glsurface.PresentFailed(glsurface.WindowingBadSurface)
	}
	w.WriteData(0, flipRows(d.back.GetData(), d.size.X*4))
	if err := d.dev.queue.Present(d.surface, acquired.Texture, nil); err != nil {
		return fmt.Errorf("%w: %w", glsurface.PresentFailed(glsurface.WindowingBadNativeWindow), err)
	}
	return nil
}

func (d *drawable) destroy() {
	d.surface.Unconfigure(d.dev.hal)
	d.surface.Destroy()
	if d.back != nil {
		d.dev.hal.DestroyTexture(d.back)
		d.back = nil
	}
}

// flipRows reverses the row order of an image in place.
func flipRows(pix []byte, stride int) []byte {
	rows := len(pix) / stride
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
	return pix
}
