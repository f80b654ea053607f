// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package thread

import "golang.org/x/sys/windows"

// ID returns the id of the calling OS thread.
func ID() uint64 { return uint64(windows.GetCurrentThreadId()) }
