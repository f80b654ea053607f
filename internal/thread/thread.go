// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package thread keeps per-OS-thread state for APIs whose "current" object
// is a property of the calling thread.
//
// Callers must pin the goroutine with runtime.LockOSThread for the values
// to be meaningful across calls.
package thread

import "sync"

// Local is a value stored per OS thread, created on first use by each thread.
type Local[T any] struct {
	mu     sync.Mutex
	values map[uint64]T
}

// Get returns the calling thread's value.
func (l *Local[T]) Get() (T, bool) {
	id := ID()
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.values[id]
	return v, ok
}

// Set stores v for the calling thread.
func (l *Local[T]) Set(v T) {
	id := ID()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.values == nil {
		l.values = make(map[uint64]T)
	}
	l.values[id] = v
}

// Clear removes the calling thread's value.
func (l *Local[T]) Clear() {
	id := ID()
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.values, id)
}

// ClearIf removes every thread's value for which match returns true and
// reports how many were removed. Used when the object behind a value is
// destroyed while current on some thread.
func (l *Local[T]) ClearIf(match func(T) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for id, v := range l.values {
		if match(v) {
			delete(l.values, id)
			n++
		}
	}
	return n
}
