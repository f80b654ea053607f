// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package leak turns native resources that are garbage collected without
// their explicit destroy call into a fatal diagnostic.
//
// Native contexts, surfaces and renderbuffers can only be released with a
// specific context current, so there is no safe implicit destructor. A
// Guard is armed when such a resource is created and disarmed by its
// destroy call; if the owner becomes unreachable while still armed, the
// leak handler runs. The default handler panics, which aborts the process
// from the cleanup goroutine.
package leak

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glsurface"
)

// Report describes a leaked resource.
type Report struct {
	// Kind is the resource type, e.g. "Context" or "Surface".
	Kind string
	// Label identifies the instance, e.g. its ID.
	Label string
}

func (r Report) String() string {
	return fmt.Sprintf("%s %s dropped without being destroyed", r.Kind, r.Label)
}

var (
	handlerMu sync.RWMutex
	handler   = defaultHandler
)

func defaultHandler(r Report) {
	panic("glsurface: " + r.String())
}

// SetHandler replaces the leak handler and returns a function restoring the
// previous one. Passing nil restores the default panicking handler.
func SetHandler(h func(Report)) (restore func()) {
	if h == nil {
		h = defaultHandler
	}
	handlerMu.Lock()
	prev := handler
	handler = h
	handlerMu.Unlock()
	return func() {
		handlerMu.Lock()
		handler = prev
		handlerMu.Unlock()
	}
}

func report(r Report) {
	glsurface.Logger().Error("glsurface: resource leaked", "kind", r.Kind, "label", r.Label)
	handlerMu.RLock()
	h := handler
	handlerMu.RUnlock()
	h(r)
}

// cleanupRef holds what the cleanup callback needs. It must not reference
// the guarded object, or the object would never become unreachable.
type cleanupRef struct {
	report   Report
	released *atomic.Bool
}

// Guard tracks whether a resource still owns native state.
type Guard struct {
	cleanup  runtime.Cleanup
	released *atomic.Bool
}

// Arm attaches a guard to owner. kind and label name the resource in the report.
func Arm[T any](owner *T, kind, label string) *Guard {
	released := new(atomic.Bool)
	g := &Guard{released: released}
	g.cleanup = runtime.AddCleanup(owner, func(ref cleanupRef) {
		if ref.released.CompareAndSwap(false, true) {
			report(ref.report)
		}
	}, cleanupRef{report: Report{Kind: kind, Label: label}, released: released})
	return g
}

// Disarm marks the resource as explicitly destroyed. It is safe to call
// more than once and on a nil guard.
func (g *Guard) Disarm() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		return
	}
	g.cleanup.Stop()
}

// Armed reports whether the resource still owns native state.
func (g *Guard) Armed() bool {
	return g != nil && !g.released.Load()
}
