// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glsurface provides the shared vocabulary of a cross-platform
// OpenGL context and surface library.
//
// # Overview
//
// glsurface gives multithreaded renderers one uniform way to open a GPU
// device, create a rendering context with negotiated capabilities, allocate
// a pixel surface, render into it on one thread, and consume its pixels on
// another thread or context without a CPU round trip.
//
// This package holds the leaf types: the error taxonomy, the normalized
// WindowingAPIError codes, context attributes, surface identifiers and
// kinds, adapter choices, environment configuration and the logger. The
// protocol itself lives in package glctx; backends live under backend/.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glsurface"
//	    "github.com/gogpu/glsurface/glctx"
//	    _ "github.com/gogpu/glsurface/backend/software"
//	)
//
//	conn, _ := glctx.Open()
//	adapter, _ := conn.CreateSoftwareAdapter()
//	dev, _ := conn.CreateDevice(adapter)
//	desc, _ := dev.CreateContextDescriptor(glsurface.ContextAttributes{
//	    Version: glsurface.NewGLVersion(3, 3),
//	    Flags:   glsurface.ContextDepth,
//	})
//	ctx, _ := dev.CreateContext(desc, nil)
//	s, _ := dev.CreateSurface(ctx, glsurface.GPUCPU, glsurface.Generic(256, 256))
//	s, _ = dev.BindSurfaceToContext(ctx, s)
//
// # Ownership
//
// Contexts, surfaces and surface textures must be destroyed through their
// device. Dropping one that still holds native resources is a programming
// error reported by a panic from a finalizer, not a silent leak.
//
// # Threads
//
// Devices and contexts are thread-affine: lock the goroutine to its OS
// thread (runtime.LockOSThread) before making a context current. Surfaces
// carry no current state and may be sent between goroutines by value.
package glsurface

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
