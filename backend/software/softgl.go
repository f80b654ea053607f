// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"sync"
	"unsafe"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/gputypes"
	halsoft "github.com/gogpu/wgpu/hal/software"
)

// Size of the framebuffer a context draws to when no drawable is current.
const defaultFramebufferSize = 16

// namespace holds the objects shared between contexts of one share group.
// Framebuffers are container objects and stay per context.
type namespace struct {
	mu            sync.Mutex
	next          uint32
	textures      map[uint32]*texture
	renderbuffers map[uint32]*renderbuffer
}

type texture struct {
	storage *halsoft.Texture
	size    image.Point
}

type renderbuffer struct {
	format uint32
	size   image.Point
}

func newNamespace() *namespace {
	return &namespace{
		textures:      make(map[uint32]*texture),
		renderbuffers: make(map[uint32]*renderbuffer),
	}
}

func (ns *namespace) gen() uint32 {
	ns.next++
	return ns.next
}

// attach names storage in the namespace and returns the new texture name.
func (ns *namespace) attach(storage *halsoft.Texture, size image.Point) uint32 {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	name := ns.gen()
	ns.textures[name] = &texture{storage: storage, size: size}
	return name
}

func (ns *namespace) texture(name uint32) *texture {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.textures[name]
}

func (ns *namespace) renderbuffer(name uint32) *renderbuffer {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.renderbuffers[name]
}

type framebuffer struct {
	color        uint32
	depth        uint32
	stencil      uint32
	depthStencil uint32
}

// context is a software rendering context and its GL function table.
type context struct {
	dev    *device
	cfg    *config
	ns     *namespace
	handle uint64

	framebuffers map[uint32]*framebuffer
	nextFB       uint32
	drawFB       uint32
	readFB       uint32
	texture      uint32
	renderbuf    uint32

	clearColor [4]float32
	viewport   [4]int32
	err        uint32

	drawable *drawable
	fallback *halsoft.Texture
	released bool
}

func newContext(d *device, cfg *config, ns *namespace) *context {
	return &context{
		dev:          d,
		cfg:          cfg,
		ns:           ns,
		handle:       nextContextHandle.Add(1),
		framebuffers: make(map[uint32]*framebuffer),
	}
}

func (c *context) Functions() gl.Functions { return c }

func (c *context) Handle() uintptr { return uintptr(c.handle) }

func (c *context) release() {
	c.released = true
	c.framebuffers = nil
	c.drawable = nil
	c.fallback = nil
}

func (c *context) setError(code uint32) {
	if c.err == gl.NO_ERROR {
		c.err = code
	}
}

func (c *context) GetError() uint32 {
	code := c.err
	c.err = gl.NO_ERROR
	return code
}

func (c *context) GetString(name uint32) string {
	switch name {
	case gl.VENDOR:
		return "gogpu"
	case gl.RENDERER:
		return "glsurface software (wgpu hal/software)"
	case gl.VERSION:
		if c.dev.api == glsurface.GLAPIGLES {
			return "OpenGL ES " + maxGLESVersion.String() + " glsurface"
		}
		return maxGLVersion.String() + " glsurface"
	case gl.EXTENSIONS:
		return "GL_ARB_framebuffer_object GL_OES_packed_depth_stencil"
	}
	c.setError(gl.INVALID_ENUM)
	return ""
}

func (c *context) GetIntegerv(pname uint32, data *int32) {
	switch pname {
	case gl.DRAW_FRAMEBUFFER_BINDING:
		*data = int32(c.drawFB)
	case gl.READ_FRAMEBUFFER_BINDING:
		*data = int32(c.readFB)
	default:
		c.setError(gl.INVALID_ENUM)
	}
}

func (c *context) ClearColor(r, g, b, a float32) {
	c.clearColor = [4]float32{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func (c *context) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.viewport = [4]int32{x, y, width, height}
}

// Clear fills the color attachment of the draw framebuffer. Depth and
// stencil have no CPU storage and are ignored.
func (c *context) Clear(mask uint32) {
	if mask&^(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT) != 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	target, _, ok := c.colorTarget(c.drawFB)
	if !ok {
		c.setError(gl.INVALID_FRAMEBUFFER_OPERATION)
		return
	}
	cc := c.clearColor
	target.Clear(gputypes.Color{R: float64(cc[0]), G: float64(cc[1]), B: float64(cc[2]), A: float64(cc[3])})
}

// colorTarget resolves the color storage of framebuffer fbo. Zero is the
// window-system framebuffer: the current drawable, or a small fallback.
func (c *context) colorTarget(fbo uint32) (*halsoft.Texture, image.Point, bool) {
	if fbo == 0 {
		if c.drawable != nil && c.drawable.back != nil {
			return c.drawable.back, c.drawable.size, true
		}
		if c.fallback == nil {
			size := image.Pt(defaultFramebufferSize, defaultFramebufferSize)
			t, err := c.dev.newTexture("glsurface default framebuffer", size)
			if err != nil {
				return nil, image.Point{}, false
			}
			c.fallback = t
		}
		return c.fallback, image.Pt(defaultFramebufferSize, defaultFramebufferSize), true
	}
	fb := c.framebuffers[fbo]
	if fb == nil || fb.color == 0 {
		return nil, image.Point{}, false
	}
	tex := c.ns.texture(fb.color)
	if tex == nil || tex.storage == nil {
		return nil, image.Point{}, false
	}
	return tex.storage, tex.size, true
}

func (c *context) Flush()  {}
func (c *context) Finish() {}

func (c *context) GenTextures(int32) uint32 {
	c.ns.mu.Lock()
	defer c.ns.mu.Unlock()
	name := c.ns.gen()
	c.ns.textures[name] = &texture{}
	return name
}

func (c *context) DeleteTextures(textures ...uint32) {
	c.ns.mu.Lock()
	for _, t := range textures {
		delete(c.ns.textures, t)
	}
	c.ns.mu.Unlock()
	for _, t := range textures {
		if c.texture == t {
			c.texture = 0
		}
		for _, fb := range c.framebuffers {
			if fb.color == t {
				fb.color = 0
			}
		}
	}
}

func (c *context) BindTexture(target, texture uint32) {
	if target != gl.TEXTURE_2D {
		c.setError(gl.INVALID_ENUM)
		return
	}
	if texture != 0 && c.ns.texture(texture) == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	c.texture = texture
}

func (c *context) TexParameteri(target, _ uint32, _ int32) {
	if target != gl.TEXTURE_2D {
		c.setError(gl.INVALID_ENUM)
	}
}

func (c *context) GenFramebuffers(int32) uint32 {
	c.nextFB++
	c.framebuffers[c.nextFB] = &framebuffer{}
	return c.nextFB
}

func (c *context) DeleteFramebuffers(framebuffers ...uint32) {
	for _, fb := range framebuffers {
		if fb == 0 {
			continue
		}
		delete(c.framebuffers, fb)
		if c.drawFB == fb {
			c.drawFB = 0
		}
		if c.readFB == fb {
			c.readFB = 0
		}
	}
}

func (c *context) BindFramebuffer(target, fbo uint32) {
	if fbo != 0 && c.framebuffers[fbo] == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	switch target {
	case gl.FRAMEBUFFER:
		c.drawFB, c.readFB = fbo, fbo
	case gl.DRAW_FRAMEBUFFER:
		c.drawFB = fbo
	case gl.READ_FRAMEBUFFER:
		c.readFB = fbo
	default:
		c.setError(gl.INVALID_ENUM)
	}
}

// bound returns the framebuffer object bound to target.
func (c *context) bound(target uint32) (*framebuffer, bool) {
	var fbo uint32
	switch target {
	case gl.FRAMEBUFFER, gl.DRAW_FRAMEBUFFER:
		fbo = c.drawFB
	case gl.READ_FRAMEBUFFER:
		fbo = c.readFB
	default:
		c.setError(gl.INVALID_ENUM)
		return nil, false
	}
	if fbo == 0 {
		return nil, true
	}
	return c.framebuffers[fbo], true
}

func (c *context) FramebufferTexture2D(target, attachment, textarget, texture uint32, _ int32) {
	fb, ok := c.bound(target)
	if !ok {
		return
	}
	if fb == nil || attachment != gl.COLOR_ATTACHMENT0 || textarget != gl.TEXTURE_2D {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	if texture != 0 && c.ns.texture(texture) == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	fb.color = texture
}

func (c *context) CheckFramebufferStatus(target uint32) uint32 {
	fb, ok := c.bound(target)
	if !ok {
		return 0
	}
	if fb == nil {
		return gl.FRAMEBUFFER_COMPLETE
	}
	tex := c.ns.texture(fb.color)
	if tex == nil || tex.storage == nil {
		return gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACH
	}
	for _, rb := range []uint32{fb.depth, fb.stencil, fb.depthStencil} {
		if rb == 0 {
			continue
		}
		r := c.ns.renderbuffer(rb)
		if r == nil || r.size != tex.size {
			return gl.FRAMEBUFFER_INCOMPLETE_ATTACH
		}
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (c *context) GenRenderbuffers(int32) uint32 {
	c.ns.mu.Lock()
	defer c.ns.mu.Unlock()
	name := c.ns.gen()
	c.ns.renderbuffers[name] = &renderbuffer{}
	return name
}

func (c *context) DeleteRenderbuffers(renderbuffers ...uint32) {
	c.ns.mu.Lock()
	for _, rb := range renderbuffers {
		delete(c.ns.renderbuffers, rb)
	}
	c.ns.mu.Unlock()
	for _, rb := range renderbuffers {
		if c.renderbuf == rb {
			c.renderbuf = 0
		}
		for _, fb := range c.framebuffers {
			for _, slot := range []*uint32{&fb.depth, &fb.stencil, &fb.depthStencil} {
				if *slot == rb {
					*slot = 0
				}
			}
		}
	}
}

func (c *context) BindRenderbuffer(target, renderbuffer uint32) {
	if target != gl.RENDERBUFFER {
		c.setError(gl.INVALID_ENUM)
		return
	}
	if renderbuffer != 0 && c.ns.renderbuffer(renderbuffer) == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	c.renderbuf = renderbuffer
}

func (c *context) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	if target != gl.RENDERBUFFER {
		c.setError(gl.INVALID_ENUM)
		return
	}
	switch internalFormat {
	case gl.DEPTH_COMPONENT24, gl.STENCIL_INDEX8, gl.DEPTH24_STENCIL8, gl.RGBA8:
	default:
		c.setError(gl.INVALID_ENUM)
		return
	}
	rb := c.ns.renderbuffer(c.renderbuf)
	if rb == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	if width < 0 || height < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.ns.mu.Lock()
	rb.format = internalFormat
	rb.size = image.Pt(int(width), int(height))
	c.ns.mu.Unlock()
}

func (c *context) FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32) {
	fb, ok := c.bound(target)
	if !ok {
		return
	}
	if fb == nil || renderbufferTarget != gl.RENDERBUFFER {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	switch attachment {
	case gl.DEPTH_ATTACHMENT:
		fb.depth = renderbuffer
	case gl.STENCIL_ATTACHMENT:
		fb.stencil = renderbuffer
	case gl.DEPTH_STENCIL_ATTACHMENT:
		fb.depthStencil = renderbuffer
	default:
		c.setError(gl.INVALID_ENUM)
	}
}

// ReadPixels copies RGBA8 rows of the read framebuffer, bottom row first.
// The rectangle is clipped to the framebuffer; pixels outside it are left
// untouched in the destination.
func (c *context) ReadPixels(x, y, width, height int32, format, dataType uint32, pixels unsafe.Pointer) {
	if format != gl.RGBA || dataType != gl.UNSIGNED_BYTE {
		c.setError(gl.INVALID_ENUM)
		return
	}
	if width < 0 || height < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	if width == 0 || height == 0 || pixels == nil {
		return
	}
	src, size, ok := c.colorTarget(c.readFB)
	if !ok {
		c.setError(gl.INVALID_FRAMEBUFFER_OPERATION)
		return
	}
	data := src.GetData()
	dst := unsafe.Slice((*byte)(pixels), int(width)*int(height)*4)
	rect := image.Rect(int(x), int(y), int(x+width), int(y+height)).Intersect(image.Rect(0, 0, size.X, size.Y))
	for row := rect.Min.Y; row < rect.Max.Y; row++ {
		srcOff := (row*size.X + rect.Min.X) * 4
		dstOff := ((row-int(y))*int(width) + rect.Min.X - int(x)) * 4
		n := rect.Dx() * 4
		copy(dst[dstOff:dstOff+n], data[srcOff:srcOff+n])
	}
}
