// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false so callers skip
// building attributes at all.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var (
	silent = slog.New(discard{})
	logger atomic.Pointer[slog.Logger]
)

func init() { logger.Store(silent) }

// SetLogger routes the log output of glsurface and every package below it
// to l. The library is silent until SetLogger is called; nil makes it
// silent again. It may be called at any time from any goroutine.
//
// Levels:
//   - Debug: context and surface lifecycle, make current, present
//   - Info: connection, adapter and device selection
//   - Warn: failures while releasing or restoring during teardown
//   - Error: contexts, surfaces and renderbuffers garbage collected
//     without being destroyed
//
// For example:
//
//	glsurface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//	    &slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	logger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return logger.Load() }
