// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"fmt"
	"image"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/internal/leak"
)

// Renderbuffers is the depth and stencil storage of one surface framebuffer.
// A zero handle means that buffer was not requested. Destroy must be called,
// with the owning context current, before the framebuffer is deleted.
type Renderbuffers struct {
	// DepthStencil is set when depth and stencil share one packed buffer.
	DepthStencil uint32
	Depth        uint32
	Stencil      uint32

	guard *leak.Guard
}

// NewRenderbuffers allocates the buffers attrs asks for and attaches them to
// the framebuffer bound to FRAMEBUFFER. Depth and stencil share a packed
// DEPTH24_STENCIL8 buffer when both are requested and the driver has one.
func NewRenderbuffers(f Functions, size image.Point, attrs glsurface.ContextAttributes, feat Features) *Renderbuffers {
	rb := &Renderbuffers{}
	wantDepth := attrs.Flags.Has(glsurface.ContextDepth)
	wantStencil := attrs.Flags.Has(glsurface.ContextStencil)

	if wantDepth && wantStencil && feat.PackedDepthStencil {
		rb.DepthStencil = allocRenderbuffer(f, DEPTH24_STENCIL8, size)
		f.FramebufferRenderbuffer(FRAMEBUFFER, DEPTH_STENCIL_ATTACHMENT, RENDERBUFFER, rb.DepthStencil)
	} else {
		if wantDepth {
			rb.Depth = allocRenderbuffer(f, DEPTH_COMPONENT24, size)
			f.FramebufferRenderbuffer(FRAMEBUFFER, DEPTH_ATTACHMENT, RENDERBUFFER, rb.Depth)
		}
		if wantStencil {
			rb.Stencil = allocRenderbuffer(f, STENCIL_INDEX8, size)
			f.FramebufferRenderbuffer(FRAMEBUFFER, STENCIL_ATTACHMENT, RENDERBUFFER, rb.Stencil)
		}
	}
	f.BindRenderbuffer(RENDERBUFFER, 0)

	if rb.allocated() {
		rb.guard = leak.Arm(rb, "Renderbuffers", rb.label())
	}
	return rb
}

func allocRenderbuffer(f Functions, format uint32, size image.Point) uint32 {
	id := f.GenRenderbuffers(1)
	f.BindRenderbuffer(RENDERBUFFER, id)
	f.RenderbufferStorage(RENDERBUFFER, format, int32(size.X), int32(size.Y))
	return id
}

func (rb *Renderbuffers) allocated() bool {
	return rb.DepthStencil != 0 || rb.Depth != 0 || rb.Stencil != 0
}

func (rb *Renderbuffers) label() string {
	return fmt.Sprintf("(depth_stencil=%d depth=%d stencil=%d)", rb.DepthStencil, rb.Depth, rb.Stencil)
}

// Combined reports whether depth and stencil live in one packed buffer.
func (rb *Renderbuffers) Combined() bool { return rb.DepthStencil != 0 }

// Destroy deletes every nonzero buffer and zeroes its handle.
func (rb *Renderbuffers) Destroy(f Functions) {
	if rb == nil {
		return
	}
	f.BindRenderbuffer(RENDERBUFFER, 0)
	for _, id := range []*uint32{&rb.DepthStencil, &rb.Depth, &rb.Stencil} {
		if *id != 0 {
			f.DeleteRenderbuffers(*id)
			*id = 0
		}
	}
	rb.guard.Disarm()
}
