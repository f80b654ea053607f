// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux && !windows

package thread

// ID returns 0: there is no portable thread id here, so all threads share
// one slot. Backends on these platforms run single-threaded.
func ID() uint64 { return 0 }
