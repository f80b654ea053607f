// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"fmt"
	"unsafe"
)

// recorder is a Functions that records object calls and answers queries
// from fixed strings.
type recorder struct {
	strings map[uint32]string
	next    uint32
	calls   []string
	live    map[uint32]bool
	drawFB  uint32
	readFB  uint32
	status  uint32
}

func newRecorder(version, exts string) *recorder {
	return &recorder{
		strings: map[uint32]string{VERSION: version, EXTENSIONS: exts, RENDERER: "recorder"},
		live:    make(map[uint32]bool),
		status:  FRAMEBUFFER_COMPLETE,
	}
}

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) gen() uint32 {
	r.next++
	r.live[r.next] = true
	return r.next
}

func (r *recorder) GetError() uint32             { return NO_ERROR }
func (r *recorder) GetString(name uint32) string { return r.strings[name] }
func (r *recorder) GetIntegerv(pname uint32, data *int32) {
	switch pname {
	case DRAW_FRAMEBUFFER_BINDING:
		*data = int32(r.drawFB)
	case READ_FRAMEBUFFER_BINDING:
		*data = int32(r.readFB)
	}
}
func (r *recorder) Clear(mask uint32)                  { r.log("Clear(0x%x)", mask) }
func (r *recorder) ClearColor(_, _, _, _ float32)      {}
func (r *recorder) Viewport(_, _, _, _ int32)          {}
func (r *recorder) Flush()                             { r.log("Flush") }
func (r *recorder) Finish()                            { r.log("Finish") }
func (r *recorder) GenTextures(int32) uint32           { return r.gen() }
func (r *recorder) DeleteTextures(ids ...uint32)       { r.del(ids) }
func (r *recorder) BindTexture(_, _ uint32)            {}
func (r *recorder) TexParameteri(_, _ uint32, _ int32) {}
func (r *recorder) GenFramebuffers(int32) uint32       { return r.gen() }
func (r *recorder) DeleteFramebuffers(ids ...uint32)   { r.del(ids) }
func (r *recorder) BindFramebuffer(target, fb uint32) {
	r.log("BindFramebuffer(0x%x,%d)", target, fb)
	switch target {
	case FRAMEBUFFER:
		r.drawFB, r.readFB = fb, fb
	case DRAW_FRAMEBUFFER:
		r.drawFB = fb
	case READ_FRAMEBUFFER:
		r.readFB = fb
	}
}
func (r *recorder) FramebufferTexture2D(_, attachment, _, tex uint32, _ int32) {
	r.log("FramebufferTexture2D(0x%x,%d)", attachment, tex)
}
func (r *recorder) CheckFramebufferStatus(uint32) uint32 { return r.status }
func (r *recorder) GenRenderbuffers(int32) uint32        { return r.gen() }
func (r *recorder) DeleteRenderbuffers(ids ...uint32)    { r.del(ids) }
func (r *recorder) BindRenderbuffer(_, _ uint32)         {}
func (r *recorder) RenderbufferStorage(_, format uint32, w, h int32) {
	r.log("RenderbufferStorage(0x%x,%d,%d)", format, w, h)
}
func (r *recorder) FramebufferRenderbuffer(_, attachment, _, rb uint32) {
	r.log("FramebufferRenderbuffer(0x%x,%d)", attachment, rb)
}
func (r *recorder) ReadPixels(_, _, _, _ int32, _, _ uint32, _ unsafe.Pointer) {}

func (r *recorder) del(ids []uint32) {
	for _, id := range ids {
		r.log("Delete(%d)", id)
		delete(r.live, id)
	}
}

var _ Functions = (*recorder)(nil)
