// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glctx_test

import (
	"errors"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/gogpu/glsurface"
	_ "github.com/gogpu/glsurface/backend/software"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/glctx"
	"github.com/gogpu/glsurface/native"
	"github.com/gogpu/gputypes"
)

var leaked atomic.Int32

func TestMain(m *testing.M) {
	restore := glctx.SetLeakHandler(func(r glctx.LeakReport) {
		leaked.Add(1)
		fmt.Fprintln(os.Stderr, "leak:", r)
	})
	code := m.Run()
	for range 3 {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	restore()
	if n := leaked.Load(); n > 0 && code == 0 {
		fmt.Fprintf(os.Stderr, "%d resources leaked\n", n)
		code = 1
	}
	os.Exit(code)
}

var depth33 = glsurface.ContextAttributes{
	Version: glsurface.NewGLVersion(3, 3),
	Flags:   glsurface.ContextDepth,
}

// lockThread pins the test goroutine for the whole test, cleanups included.
func lockThread(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func openConnection(t *testing.T) *glctx.Connection {
	t.Helper()
	conn, err := glctx.Open(glctx.WithDriver(native.DriverSoftware), glctx.WithEnvironment(glsurface.Config{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func openDevice(t *testing.T, conn *glctx.Connection) *glctx.Device {
	t.Helper()
	adapter, err := conn.CreateSoftwareAdapter()
	if err != nil {
		t.Fatalf("CreateSoftwareAdapter: %v", err)
	}
	dev, err := conn.CreateDevice(adapter)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	t.Cleanup(func() { dev.Close() })
	return dev
}

func newDevice(t *testing.T) *glctx.Device {
	t.Helper()
	return openDevice(t, openConnection(t))
}

func newContext(t *testing.T, dev *glctx.Device, attrs glsurface.ContextAttributes) *glctx.Context {
	t.Helper()
	desc, err := dev.CreateContextDescriptor(attrs)
	if err != nil {
		t.Fatalf("CreateContextDescriptor: %v", err)
	}
	ctx, err := dev.CreateContext(desc, nil)
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	t.Cleanup(func() {
		if err := dev.DestroyContext(ctx); err != nil {
			t.Errorf("DestroyContext: %v", err)
		}
	})
	return ctx
}

func newSurface(t *testing.T, dev *glctx.Device, ctx *glctx.Context, access glsurface.SurfaceAccess, typ glsurface.SurfaceType) *glctx.Surface {
	t.Helper()
	s, err := dev.CreateSurface(ctx, access, typ)
	if err != nil {
		t.Fatalf("CreateSurface(%v): %v", typ, err)
	}
	return s
}

func TestClearAndReadBack(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	ctx := newContext(t, dev, depth33)

	s := newSurface(t, dev, ctx, glsurface.GPUCPU, glsurface.Generic(256, 256))
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
	info, ok, err := dev.ContextSurfaceInfo(ctx)
	if err != nil || !ok {
		t.Fatalf("ContextSurfaceInfo = %v, %v", ok, err)
	}
	if draw, _ := gl.CurrentFramebuffers(f); draw != info.FramebufferObject {
		t.Errorf("draw framebuffer = %d, want surface fbo %d", draw, info.FramebufferObject)
	}
	f.ClearColor(0.2, 0.4, 0.6, 1.0)
	f.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	s2, err := dev.UnbindSurfaceFromContext(ctx)
	if err != nil {
		t.Fatalf("UnbindSurfaceFromContext: %v", err)
	}
	if s2 != s {
		t.Fatal("unbind returned a different surface")
	}

	data, err := dev.LockSurfaceData(s)
	if err != nil {
		t.Fatalf("LockSurfaceData: %v", err)
	}
	if data.Size != image.Pt(256, 256) || data.Stride != 256*4 {
		t.Errorf("data size = %v stride %d", data.Size, data.Stride)
	}
	for y := 0; y < data.Size.Y; y++ {
		row := data.Pixels[y*data.Stride:]
		for x := 0; x < data.Size.X; x++ {
			p := row[x*4 : x*4+4]
			if p[0] != 51 || p[1] != 102 || p[2] != 153 || p[3] != 255 {
				t.Fatalf("pixel (%d,%d) = %v, want [51 102 153 255]", x, y, p)
			}
		}
	}
	data.Unlock()
	data.Unlock()

	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
	if err := dev.DestroySurface(ctx, s); err != nil {
		t.Fatalf("DestroySurface: %v", err)
	}
}

func TestContextIDsUniqueAcrossThreads(t *testing.T) {
	conn := openConnection(t)
	const workers, perWorker = 8, 16

	var (
		mu   sync.Mutex
		seen = make(map[glsurface.ContextID]bool)
		wg   sync.WaitGroup
	)
	errs := make(chan error, workers*(perWorker+1))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			adapter, err := conn.CreateSoftwareAdapter()
			if err != nil {
				errs <- err
				return
			}
			dev, err := conn.CreateDevice(adapter)
			if err != nil {
				errs <- err
				return
			}
			defer dev.Close()
			desc, err := dev.CreateContextDescriptor(depth33)
			if err != nil {
				errs <- err
				return
			}
			ctxs := make([]*glctx.Context, 0, perWorker)
			for range perWorker {
				ctx, err := dev.CreateContext(desc, nil)
				if err != nil {
					errs <- err
					return
				}
				ctxs = append(ctxs, ctx)
			}
			mu.Lock()
			for _, ctx := range ctxs {
				if seen[ctx.ID()] {
					errs <- fmt.Errorf("duplicate context ID %v", ctx.ID())
				}
				seen[ctx.ID()] = true
			}
			mu.Unlock()
			for _, ctx := range ctxs {
				if err := dev.DestroyContext(ctx); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if len(seen) != workers*perWorker {
		t.Errorf("got %d distinct IDs, want %d", len(seen), workers*perWorker)
	}
}

func TestBindIsExclusive(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	ctx := newContext(t, dev, depth33)
	s1 := newSurface(t, dev, ctx, glsurface.GPUOnly, glsurface.Generic(16, 16))
	s2 := newSurface(t, dev, ctx, glsurface.GPUOnly, glsurface.Generic(16, 16))

	if err := dev.BindSurfaceToContext(ctx, s1); err != nil {
		t.Fatal(err)
	}
	if err := dev.BindSurfaceToContext(ctx, s2); !errors.Is(err, glsurface.ErrSurfaceAlreadyBound) {
		t.Errorf("second bind error = %v, want ErrSurfaceAlreadyBound", err)
	}
	if err := dev.BindSurfaceToContext(ctx, s1); !errors.Is(err, glsurface.ErrSurfaceInUse) {
		t.Errorf("rebind error = %v, want ErrSurfaceInUse", err)
	}
	if err := dev.DestroySurface(ctx, s1); !errors.Is(err, glsurface.ErrSurfaceInUse) {
		t.Errorf("destroy bound surface error = %v, want ErrSurfaceInUse", err)
	}

	// The rejected surface is still whole.
	if err := dev.DestroySurface(ctx, s2); err != nil {
		t.Errorf("DestroySurface(rejected) = %v", err)
	}
	got, err := dev.UnbindSurfaceFromContext(ctx)
	if err != nil || got != s1 {
		t.Fatalf("Unbind = %v, %v; want s1", got, err)
	}
	if err := dev.DestroySurface(ctx, s1); err != nil {
		t.Fatal(err)
	}
}

func TestBindRejectsForeignSurface(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	a := newContext(t, dev, depth33)
	b := newContext(t, dev, depth33)
	s := newSurface(t, dev, b, glsurface.GPUOnly, glsurface.Generic(8, 8))

	if err := dev.BindSurfaceToContext(a, s); !errors.Is(err, glsurface.ErrIncompatibleSurface) {
		t.Errorf("bind error = %v, want ErrIncompatibleSurface", err)
	}
	if err := dev.DestroySurface(a, s); !errors.Is(err, glsurface.ErrIncompatibleSurface) {
		t.Errorf("destroy error = %v, want ErrIncompatibleSurface", err)
	}
	if err := dev.BindSurfaceToContext(b, s); err != nil {
		t.Fatalf("bind to owner after rejection: %v", err)
	}

	// Bound to its owner, the surface is still foreign to a.
	if err := dev.BindSurfaceToContext(a, s); !errors.Is(err, glsurface.ErrIncompatibleSurface) {
		t.Errorf("bind of surface bound elsewhere = %v, want ErrIncompatibleSurface", err)
	}
	if info, ok, err := dev.ContextSurfaceInfo(b); err != nil || !ok || info.ID != dev.SurfaceInfo(s).ID {
		t.Errorf("owner binding changed: %v, %v, %v", info, ok, err)
	}
	if _, ok, _ := dev.ContextSurfaceInfo(a); ok {
		t.Error("rejected bind left a surface on a")
	}
}

func TestUnbindWithNothingBound(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	ctx := newContext(t, dev, depth33)
	s, err := dev.UnbindSurfaceFromContext(ctx)
	if s != nil || err != nil {
		t.Errorf("Unbind = %v, %v; want nil, nil", s, err)
	}
	if _, ok, err := dev.ContextSurfaceInfo(ctx); ok || err != nil {
		t.Errorf("ContextSurfaceInfo = %v, %v; want false, nil", ok, err)
	}
}

func TestUnbindRestoresCurrentContext(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	a := newContext(t, dev, depth33)
	b := newContext(t, dev, depth33)
	s := newSurface(t, dev, b, glsurface.GPUCPU, glsurface.Generic(4, 4))
	if err := dev.BindSurfaceToContext(b, s); err != nil {
		t.Fatal(err)
	}

	if err := dev.MakeContextCurrent(a); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.UnbindSurfaceFromContext(b); err != nil {
		t.Fatal(err)
	}
	if !dev.IsCurrent(a) || dev.IsCurrent(b) {
		t.Error("unbind did not restore the previously current context")
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
	if err := dev.DestroySurface(b, s); err != nil {
		t.Fatal(err)
	}
	if dev.IsCurrent(b) {
		t.Error("destroy left its temporary context current")
	}
}

func readTexture(t *testing.T, dev *glctx.Device, ctx *glctx.Context, tex uint32, size image.Point) []byte {
	t.Helper()
	if err := dev.MakeContextCurrent(ctx); err != nil {
		t.Fatal(err)
	}
	f, _ := dev.GL(ctx)
	fbo := gl.CreateAndBindFramebuffer(f, dev.SurfaceGLTextureTarget(), tex)
	buf := make([]byte, size.X*size.Y*4)
	f.ReadPixels(0, 0, int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&buf[0]))
	if err := gl.CheckError(f, "ReadPixels"); err != nil {
		t.Fatal(err)
	}
	gl.DestroyFramebuffer(f, fbo)
	return buf
}

func TestSurfaceTextureRoundTrip(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	producer := newContext(t, dev, depth33)
	consumer := newContext(t, dev, depth33)
	size := image.Pt(4, 4)

	s := newSurface(t, dev, producer, glsurface.GPUOnly, glsurface.Generic(size.X, size.Y))
	id := s.ID()
	if err := dev.BindSurfaceToContext(producer, s); err != nil {
		t.Fatal(err)
	}
	if err := dev.MakeContextCurrent(producer); err != nil {
		t.Fatal(err)
	}
	f, _ := dev.GL(producer)
	f.ClearColor(0, 1, 0, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	if _, err := dev.UnbindSurfaceFromContext(producer); err != nil {
		t.Fatal(err)
	}

	st, err := dev.CreateSurfaceTexture(consumer, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture: %v", err)
	}
	if st.SurfaceID() != id {
		t.Errorf("SurfaceID = %v, want %v", st.SurfaceID(), id)
	}
	if err := dev.BindSurfaceToContext(producer, s); !errors.Is(err, glsurface.ErrSurfaceInUse) {
		t.Errorf("bind wrapped surface error = %v, want ErrSurfaceInUse", err)
	}
	if _, err := dev.DestroySurfaceTexture(producer, st); !errors.Is(err, glsurface.ErrIncompatibleSurfaceTexture) {
		t.Errorf("destroy from wrong context error = %v, want ErrIncompatibleSurfaceTexture", err)
	}

	tex := dev.SurfaceTextureObject(st)
	pix := readTexture(t, dev, consumer, tex, size)
	if pix[0] != 0 || pix[1] != 255 || pix[3] != 255 {
		t.Errorf("sampled pixel = %v, want green", pix[:4])
	}

	back, err := dev.DestroySurfaceTexture(consumer, st)
	if err != nil {
		t.Fatalf("DestroySurfaceTexture: %v", err)
	}
	if back != s || back.ID() != id {
		t.Errorf("round trip returned %v, want %v", back, id)
	}
	if err := dev.MakeContextCurrent(consumer); err != nil {
		t.Fatal(err)
	}
	cf, _ := dev.GL(consumer)
	cf.GetError()
	cf.BindTexture(gl.TEXTURE_2D, tex)
	if code := cf.GetError(); code != gl.INVALID_OPERATION {
		t.Errorf("BindTexture(released %d) error = %#x, want INVALID_OPERATION", tex, code)
	}
	if _, err := dev.DestroySurfaceTexture(consumer, st); !errors.Is(err, glsurface.ErrSurfaceDestroyed) {
		t.Errorf("double destroy error = %v, want ErrSurfaceDestroyed", err)
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
	if err := dev.DestroySurface(producer, back); err != nil {
		t.Fatal(err)
	}
}

func TestSurfaceTextureAcrossDevices(t *testing.T) {
	lockThread(t)
	conn := openConnection(t)
	devA := openDevice(t, conn)
	devB := openDevice(t, conn)
	a := newContext(t, devA, depth33)
	b := newContext(t, devB, depth33)

	s := newSurface(t, devA, a, glsurface.GPUOnly, glsurface.Generic(2, 2))
	st, err := devB.CreateSurfaceTexture(b, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture across devices: %v", err)
	}
	back, err := devB.DestroySurfaceTexture(b, st)
	if err != nil {
		t.Fatal(err)
	}
	if err := devA.DestroySurface(a, back); err != nil {
		t.Fatal(err)
	}
}

// TestSurfaceHandoffBetweenThreads renders on a worker thread and samples
// on the test thread, passing one surface back and forth by channel.
func TestSurfaceHandoffBetweenThreads(t *testing.T) {
	lockThread(t)
	conn := openConnection(t)
	shades := []float32{0.2, 0.4, 0.6}
	want := []byte{51, 102, 153}
	size := image.Pt(4, 4)

	rendered := make(chan *glctx.Surface)
	returned := make(chan *glctx.Surface)
	workerErr := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(rendered)
		workerErr <- func() error {
			adapter, err := conn.CreateSoftwareAdapter()
			if err != nil {
				return err
			}
			dev, err := conn.CreateDevice(adapter)
			if err != nil {
				return err
			}
			defer dev.Close()
			desc, err := dev.CreateContextDescriptor(depth33)
			if err != nil {
				return err
			}
			ctx, err := dev.CreateContext(desc, nil)
			if err != nil {
				return err
			}
			defer dev.DestroyContext(ctx)
			s, err := dev.CreateSurface(ctx, glsurface.GPUOnly, glsurface.Generic(size.X, size.Y))
			if err != nil {
				return err
			}
			for _, shade := range shades {
				if err := dev.BindSurfaceToContext(ctx, s); err != nil {
					return fmt.Errorf("bind: %w", err)
				}
				if err := dev.MakeContextCurrent(ctx); err != nil {
					return err
				}
				f, _ := dev.GL(ctx)
				f.ClearColor(shade, 0, 0, 1)
				f.Clear(gl.COLOR_BUFFER_BIT)
				if _, err := dev.UnbindSurfaceFromContext(ctx); err != nil {
					return fmt.Errorf("unbind: %w", err)
				}
				rendered <- s
				s = <-returned
			}
			if err := dev.MakeNoContextCurrent(); err != nil {
				return err
			}
			return dev.DestroySurface(ctx, s)
		}()
	}()

	dev := newDevice(t)
	ctx := newContext(t, dev, depth33)
	frame := 0
	for s := range rendered {
		st, err := dev.CreateSurfaceTexture(ctx, s)
		if err != nil {
			t.Fatalf("frame %d: CreateSurfaceTexture: %v", frame, err)
		}
		pix := readTexture(t, dev, ctx, dev.SurfaceTextureObject(st), size)
		if pix[0] != want[frame] || pix[3] != 255 {
			t.Errorf("frame %d: sampled %v, want red %d", frame, pix[:4], want[frame])
		}
		back, err := dev.DestroySurfaceTexture(ctx, st)
		if err != nil {
			t.Fatalf("frame %d: DestroySurfaceTexture: %v", frame, err)
		}
		if back != s {
			t.Fatalf("frame %d: got a different surface back", frame)
		}
		frame++
		returned <- back
	}
	if err := <-workerErr; err != nil {
		t.Fatalf("worker: %v", err)
	}
	if frame != len(shades) {
		t.Errorf("received %d frames, want %d", frame, len(shades))
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
}

func TestWidgetAndGenericRules(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	ctx := newContext(t, dev, depth33)

	generic := newSurface(t, dev, ctx, glsurface.GPUOnly, glsurface.Generic(8, 8))
	widget := newSurface(t, dev, ctx, glsurface.GPUOnly, glsurface.Widget(glsurface.HeadlessWidget(32, 16)))

	if !widget.IsWidget() || generic.IsWidget() {
		t.Fatal("IsWidget mismatch")
	}
	if got := dev.SurfaceInfo(widget); got.Size != image.Pt(32, 16) || got.FramebufferObject != 0 || !got.Widget {
		t.Errorf("widget info = %+v", got)
	}
	if _, err := dev.CreateSurfaceTexture(ctx, widget); !errors.Is(err, glsurface.ErrWidgetAttached) {
		t.Errorf("texture from widget error = %v, want ErrWidgetAttached", err)
	}
	if _, err := dev.LockSurfaceData(widget); !errors.Is(err, glsurface.ErrWidgetAttached) {
		t.Errorf("lock widget error = %v, want ErrWidgetAttached", err)
	}
	if err := dev.PresentSurface(ctx, generic); !errors.Is(err, glsurface.ErrNoWidgetAttached) {
		t.Errorf("present generic error = %v, want ErrNoWidgetAttached", err)
	}
	if err := dev.ResizeSurface(ctx, generic, image.Pt(4, 4)); !errors.Is(err, glsurface.ErrNoWidgetAttached) {
		t.Errorf("resize generic error = %v, want ErrNoWidgetAttached", err)
	}

	if err := dev.BindSurfaceToContext(ctx, widget); err != nil {
		t.Fatal(err)
	}
	if err := dev.MakeContextCurrent(ctx); err != nil {
		t.Fatal(err)
	}
	f, _ := dev.GL(ctx)
	f.ClearColor(1, 1, 1, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	if err := dev.PresentSurface(ctx, widget); err != nil {
		t.Errorf("PresentSurface: %v", err)
	}
	if dev.PresentMode() != gputypes.PresentModeImmediate {
		t.Errorf("PresentMode = %v, want Immediate", dev.PresentMode())
	}
	id := dev.SurfaceInfo(widget).ID
	if err := dev.ResizeSurface(ctx, widget, image.Pt(64, 48)); err != nil {
		t.Fatalf("ResizeSurface: %v", err)
	}
	if got := dev.SurfaceInfo(widget).Size; got != image.Pt(64, 48) {
		t.Errorf("size after resize = %v", got)
	}
	if got := dev.SurfaceInfo(widget).ID; got != id {
		t.Errorf("ID after resize = %v, want %v", got, id)
	}
	if err := dev.ResizeSurface(ctx, widget, image.Point{}); !errors.Is(err, glsurface.ErrSurfaceCreationFailed) {
		t.Errorf("zero resize error = %v, want ErrSurfaceCreationFailed", err)
	}

	other := newContext(t, dev, depth33)
	if err := dev.PresentSurface(other, widget); !errors.Is(err, glsurface.ErrIncompatibleSurface) {
		t.Errorf("present from other context error = %v, want ErrIncompatibleSurface", err)
	}

	if _, err := dev.UnbindSurfaceFromContext(ctx); err != nil {
		t.Fatal(err)
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
	for _, s := range []*glctx.Surface{generic, widget} {
		if err := dev.DestroySurface(ctx, s); err != nil {
			t.Errorf("DestroySurface(%v): %v", s, err)
		}
	}
}

func TestLockSurfaceDataRules(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	ctx := newContext(t, dev, depth33)

	gpuOnly := newSurface(t, dev, ctx, glsurface.GPUOnly, glsurface.Generic(2, 2))
	if _, err := dev.LockSurfaceData(gpuOnly); !errors.Is(err, glsurface.ErrSurfaceDataInaccessible) {
		t.Errorf("lock GPUOnly error = %v, want ErrSurfaceDataInaccessible", err)
	}

	cpu := newSurface(t, dev, ctx, glsurface.GPUCPUWriteCombined, glsurface.Generic(2, 2))
	data, err := dev.LockSurfaceData(cpu)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.BindSurfaceToContext(ctx, cpu); !errors.Is(err, glsurface.ErrSurfaceInUse) {
		t.Errorf("bind locked surface error = %v, want ErrSurfaceInUse", err)
	}
	data.Unlock()

	if err := dev.BindSurfaceToContext(ctx, cpu); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.LockSurfaceData(cpu); !errors.Is(err, glsurface.ErrSurfaceInUse) {
		t.Errorf("lock bound surface error = %v, want ErrSurfaceInUse", err)
	}
	if err := dev.DestroySurface(ctx, gpuOnly); err != nil {
		t.Fatal(err)
	}
	// cpu stays bound; DestroyContext in cleanup releases it.
}

func TestDestroyContext(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	desc, err := dev.CreateContextDescriptor(depth33)
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := dev.CreateContext(desc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dev.IsCurrent(ctx) {
		t.Error("new context is current")
	}
	s, err := dev.CreateSurface(ctx, glsurface.GPUOnly, glsurface.Generic(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.BindSurfaceToContext(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := dev.MakeContextCurrent(ctx); err != nil {
		t.Fatal(err)
	}

	if err := dev.DestroyContext(ctx); err != nil {
		t.Fatalf("DestroyContext: %v", err)
	}
	if !ctx.Destroyed() || dev.IsCurrent(ctx) {
		t.Error("context still live after DestroyContext")
	}
	if err := dev.DestroyContext(ctx); err != nil {
		t.Errorf("second DestroyContext = %v, want nil", err)
	}
	if err := dev.BindSurfaceToContext(ctx, s); !errors.Is(err, glsurface.ErrContextDestroyed) {
		t.Errorf("bind to destroyed context error = %v, want ErrContextDestroyed", err)
	}
	if err := dev.DestroySurface(ctx, s); !errors.Is(err, glsurface.ErrContextDestroyed) {
		t.Errorf("destroy surface via destroyed context error = %v, want ErrContextDestroyed", err)
	}
	if _, err := dev.GL(ctx); !errors.Is(err, glsurface.ErrContextDestroyed) {
		t.Errorf("GL error = %v, want ErrContextDestroyed", err)
	}
}

func TestSharedContext(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	parent := newContext(t, dev, depth33)
	desc, _ := dev.ContextDescriptor(parent)
	child, err := dev.CreateContext(desc, parent)
	if err != nil {
		t.Fatalf("CreateContext(shared): %v", err)
	}
	defer dev.DestroyContext(child)
	if child.ID() == parent.ID() {
		t.Error("shared context reuses the parent ID")
	}

	other := newDevice(t)
	odesc, _ := other.CreateContextDescriptor(depth33)
	if _, err := other.CreateContext(odesc, parent); !errors.Is(err, glsurface.ErrIncompatibleSharedContext) {
		t.Errorf("share across devices error = %v, want ErrIncompatibleSharedContext", err)
	}
	if _, err := other.CreateContext(desc, nil); !errors.Is(err, glsurface.ErrIncompatibleContextDescriptor) {
		t.Errorf("foreign descriptor error = %v, want ErrIncompatibleContextDescriptor", err)
	}
	if _, err := other.ContextDescriptorAttributes(desc); !errors.Is(err, glsurface.ErrIncompatibleContextDescriptor) {
		t.Errorf("foreign descriptor attributes error = %v", err)
	}
	if err := other.MakeContextCurrent(parent); !errors.Is(err, glsurface.ErrIncompatibleContext) {
		t.Errorf("make foreign context current error = %v, want ErrIncompatibleContext", err)
	}
	attrs, err := dev.ContextDescriptorAttributes(desc)
	if err != nil || attrs != depth33 {
		t.Errorf("ContextDescriptorAttributes = %v, %v", attrs, err)
	}
}

func TestAdoptedContextRendersExternally(t *testing.T) {
	lockThread(t)
	dev := newDevice(t)
	owner := newContext(t, dev, depth33)
	if err := dev.MakeContextCurrent(owner); err != nil {
		t.Fatal(err)
	}

	adopted, err := dev.CreateContextFromCurrent()
	if err != nil {
		t.Fatalf("CreateContextFromCurrent: %v", err)
	}
	if adopted.ID() == owner.ID() {
		t.Error("adopted context shares an ID with its owner")
	}
	s := newSurface(t, dev, adopted, glsurface.GPUOnly, glsurface.Generic(4, 4))
	if err := dev.BindSurfaceToContext(adopted, s); !errors.Is(err, glsurface.ErrExternalRenderTarget) {
		t.Errorf("bind error = %v, want ErrExternalRenderTarget", err)
	}
	if _, err := dev.UnbindSurfaceFromContext(adopted); !errors.Is(err, glsurface.ErrExternalRenderTarget) {
		t.Errorf("unbind error = %v, want ErrExternalRenderTarget", err)
	}
	if _, _, err := dev.ContextSurfaceInfo(adopted); !errors.Is(err, glsurface.ErrExternalRenderTarget) {
		t.Errorf("surface info error = %v, want ErrExternalRenderTarget", err)
	}
	if err := dev.DestroySurface(adopted, s); err != nil {
		t.Fatal(err)
	}
	if err := dev.DestroyContext(adopted); err != nil {
		t.Fatal(err)
	}
	if err := dev.MakeContextCurrent(owner); err != nil {
		t.Errorf("owner unusable after destroying the adopted wrapper: %v", err)
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenErrors(t *testing.T) {
	_, err := glctx.Open(glctx.WithDriver("no-such-driver"))
	if !errors.Is(err, glsurface.ErrConnectionFailed) || !errors.Is(err, native.ErrDriverNotRegistered) {
		t.Errorf("Open(unknown) error = %v", err)
	}

	t.Setenv(glsurface.EnvDriver, native.DriverSoftware)
	conn, err := glctx.Open()
	if err != nil {
		t.Fatalf("Open with %s set: %v", glsurface.EnvDriver, err)
	}
	defer conn.Close()
	if conn.DriverName() != native.DriverSoftware {
		t.Errorf("DriverName = %s, want software", conn.DriverName())
	}

	other := openConnection(t)
	adapter, err := other.CreateAdapter()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.CreateDevice(adapter); !errors.Is(err, glsurface.ErrIncompatibleAdapter) {
		t.Errorf("CreateDevice(foreign adapter) error = %v, want ErrIncompatibleAdapter", err)
	}
}

func TestEnvironmentForcesSoftwareAdapter(t *testing.T) {
	conn, err := glctx.Open(glctx.WithDriver(native.DriverSoftware), glctx.WithEnvironment(glsurface.Config{AlwaysSoftware: true}))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	a, err := conn.CreateHardwareAdapter()
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind() != glsurface.SoftwareAdapter {
		t.Errorf("Kind = %v, want software", a.Kind())
	}
}

func TestLeakedSurfaceReported(t *testing.T) {
	lockThread(t)
	reports := make(chan glctx.LeakReport, 4)
	restore := glctx.SetLeakHandler(func(r glctx.LeakReport) { reports <- r })
	defer restore()

	dev := newDevice(t)
	ctx := newContext(t, dev, glsurface.ContextAttributes{})
	func() {
		if _, err := dev.CreateSurface(ctx, glsurface.GPUOnly, glsurface.Generic(2, 2)); err != nil {
			t.Fatal(err)
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		runtime.GC()
		select {
		case r := <-reports:
			if r.Kind != "Surface" {
				t.Errorf("leak kind = %s, want Surface", r.Kind)
			}
			return
		case <-deadline:
			t.Fatal("dropped surface was not reported")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
