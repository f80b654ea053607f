// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package egl_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/gogpu/glsurface"
	_ "github.com/gogpu/glsurface/backend/egl"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/glctx"
	"github.com/gogpu/glsurface/native"
)

func openDevice(t *testing.T) *glctx.Device {
	t.Helper()
	conn, err := glctx.Open(glctx.WithDriver(native.DriverEGL), glctx.WithEnvironment(glsurface.Config{}))
	if err != nil {
		t.Skipf("EGL unavailable: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	a, err := conn.CreateAdapter()
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}
	dev, err := conn.CreateDevice(a)
	if err != nil {
		t.Skipf("EGL device unavailable: %v", err)
	}
	t.Cleanup(func() { dev.Close() })
	return dev
}

func TestRegistered(t *testing.T) {
	if !native.IsRegistered(native.DriverEGL) {
		t.Fatal("egl driver not registered")
	}
}

func TestClearAndReadPixels(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dev := openDevice(t)
	desc, err := dev.CreateContextDescriptor(glsurface.ContextAttributes{
		Version: glsurface.NewGLVersion(3, 3),
		Flags:   glsurface.ContextAlpha | glsurface.ContextDepth,
	})
	if err != nil {
		t.Skipf("no GL 3.3 config: %v", err)
	}
	ctx, err := dev.CreateContext(desc, nil)
	if err != nil {
		t.Skipf("CreateContext: %v", err)
	}
	defer dev.DestroyContext(ctx)

	s, err := dev.CreateSurface(ctx, glsurface.GPUOnly, glsurface.Generic(64, 64))
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	if err := dev.BindSurfaceToContext(ctx, s); err != nil {
		t.Fatalf("BindSurfaceToContext: %v", err)
	}
	if err := dev.MakeContextCurrent(ctx); err != nil {
		t.Fatalf("MakeContextCurrent: %v", err)
	}
	f, err := dev.GL(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.ClearColor(0.2, 0.4, 0.6, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	px := gl.ReadRGBA(f, 0, 0, 1, 1)
	if px[0] != 51 || px[1] != 102 || px[2] != 153 || px[3] != 255 {
		t.Errorf("pixel = %v, want [51 102 153 255]", px)
	}

	if _, err := dev.LockSurfaceData(s); !errors.Is(err, glsurface.ErrSurfaceDataInaccessible) {
		t.Errorf("LockSurfaceData(GPUOnly) = %v", err)
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
}

func TestSurfaceTextureInSharedContext(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dev := openDevice(t)
	desc, err := dev.CreateContextDescriptor(glsurface.ContextAttributes{Version: glsurface.NewGLVersion(3, 0)})
	if err != nil {
		t.Skipf("CreateContextDescriptor: %v", err)
	}
	a, err := dev.CreateContext(desc, nil)
	if err != nil {
		t.Skipf("CreateContext: %v", err)
	}
	defer dev.DestroyContext(a)
	b, err := dev.CreateContext(desc, nil)
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	defer dev.DestroyContext(b)

	s, err := dev.CreateSurface(a, glsurface.GPUOnly, glsurface.Generic(16, 16))
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	st, err := dev.CreateSurfaceTexture(b, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture: %v", err)
	}
	if dev.SurfaceTextureObject(st) == 0 {
		t.Error("surface texture has no GL name")
	}
	back, err := dev.DestroySurfaceTexture(b, st)
	if err != nil {
		t.Fatalf("DestroySurfaceTexture: %v", err)
	}
	if err := dev.DestroySurface(a, back); err != nil {
		t.Fatalf("DestroySurface: %v", err)
	}
}
