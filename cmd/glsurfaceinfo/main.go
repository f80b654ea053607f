// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command glsurfaceinfo opens a GL device, renders a solid color into an
// off-screen surface and reports what the driver provided.
//
//	glsurfaceinfo -driver software -width 256 -height 256 -color 0.2,0.4,0.6,1 -out frame.png
//	glsurfaceinfo -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/gogpu/glsurface"
	_ "github.com/gogpu/glsurface/backend/egl"
	_ "github.com/gogpu/glsurface/backend/software"
	"github.com/gogpu/glsurface/blit"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/glctx"
	"github.com/gogpu/glsurface/native"
)

func main() {
	var (
		driver  = flag.String("driver", "", "driver name (default: best registered)")
		adapter = flag.String("adapter", "hardware", "adapter kind: hardware, low-power or software")
		width   = flag.Int("width", 256, "surface width")
		height  = flag.Int("height", 256, "surface height")
		color   = flag.String("color", "0.2,0.4,0.6,1", "clear color as r,g,b,a in [0,1]")
		gles    = flag.Bool("gles", false, "request OpenGL ES")
		output  = flag.String("out", "", "write the rendered frame to a .png or .bmp file")
		envFile = flag.String("env", "", "load environment variables from this file first")
		list    = flag.Bool("list", false, "list drivers and their adapters, then exit")
		shader  = flag.Bool("shader", false, "print the blit shader for the device's API")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	runtime.LockOSThread()

	if *verbose {
		glsurface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Failed to load %s: %v", *envFile, err)
		}
	}
	cfg := glsurface.LoadConfig()
	if *gles {
		cfg.ForceGLES = true
	}

	if *list {
		listDrivers(cfg)
		return
	}

	kind, ok := glsurface.ParseAdapterKind(*adapter)
	if !ok {
		log.Fatalf("Unknown adapter kind %q", *adapter)
	}
	rgba, err := parseColor(*color)
	if err != nil {
		log.Fatal(err)
	}

	opts := []glctx.Option{glctx.WithEnvironment(cfg)}
	if *driver != "" {
		opts = append(opts, glctx.WithDriver(*driver))
	}
	r := run{kind: kind, width: *width, height: *height, color: rgba, shader: *shader}
	pixels, err := r.render(opts)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	if *output != "" {
		img := toImage(pixels, *width, *height)
		if err := writeImage(*output, img); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Frame saved to %s (%dx%d)\n", *output, *width, *height)
	}
}

func listDrivers(cfg glsurface.Config) {
	fmt.Printf("best driver: %s\n", native.BestName())
	for _, name := range native.Drivers() {
		conn, err := glctx.Open(glctx.WithDriver(name), glctx.WithEnvironment(cfg))
		if err != nil {
			fmt.Printf("%-10s unavailable: %v\n", name, err)
			continue
		}
		for _, kind := range []glsurface.AdapterKind{glsurface.HardwareAdapter, glsurface.LowPowerAdapter, glsurface.SoftwareAdapter} {
			a, err := adapterFor(conn, kind)
			if err != nil {
				fmt.Printf("%-10s %-9v %v\n", name, kind, err)
				continue
			}
			fmt.Printf("%-10s %-9v %s (%v)\n", name, kind, a.Name(), a.Kind())
		}
		conn.Close()
	}
}

func adapterFor(conn *glctx.Connection, kind glsurface.AdapterKind) (*glctx.Adapter, error) {
	switch kind {
	case glsurface.LowPowerAdapter:
		return conn.CreateLowPowerAdapter()
	case glsurface.SoftwareAdapter:
		return conn.CreateSoftwareAdapter()
	default:
		return conn.CreateHardwareAdapter()
	}
}

type run struct {
	kind          glsurface.AdapterKind
	width, height int
	color         [4]float32
	shader        bool
}

// render clears a generic surface and returns its pixels, bottom-up RGBA8.
func (r run) render(opts []glctx.Option) ([]byte, error) {
	conn, err := glctx.Open(opts...)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	a, err := adapterFor(conn, r.kind)
	if err != nil {
		return nil, err
	}
	dev, err := conn.CreateDevice(a)
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	desc, err := dev.CreateContextDescriptor(glsurface.ContextAttributes{
		Version: glsurface.NewGLVersion(3, 0),
		Flags:   glsurface.ContextAlpha | glsurface.ContextDepth | glsurface.ContextStencil,
	})
	if err != nil {
		return nil, err
	}
	ctx, err := dev.CreateContext(desc, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := dev.DestroyContext(ctx); err != nil {
			log.Printf("DestroyContext: %v", err)
		}
	}()

	feat := ctx.Features()
	fmt.Printf("driver:       %s\n", conn.DriverName())
	fmt.Printf("adapter:      %s (%v)\n", a.Name(), a.Kind())
	fmt.Printf("api:          %v %v\n", dev.API(), feat.Version)
	fmt.Printf("renderer:     %s\n", feat.Renderer)
	fmt.Printf("present mode: %v\n", dev.PresentMode())
	fmt.Printf("context:      %v\n", ctx.ID())

	if r.shader {
		prog, err := blit.Source(dev.API())
		if err != nil {
			return nil, err
		}
		fmt.Printf("--- blit vertex ---\n%s\n--- blit fragment (sampler %s) ---\n%s\n", prog.Vertex, prog.Sampler, prog.Fragment)
	}

	s, err := dev.CreateSurface(ctx, glsurface.GPUCPU, glsurface.Generic(r.width, r.height))
	if err != nil {
		return nil, err
	}
	if err := dev.BindSurfaceToContext(ctx, s); err != nil {
		return nil, errors.Join(err, dev.DestroySurface(ctx, s))
	}
	if err := dev.MakeContextCurrent(ctx); err != nil {
		return nil, err
	}
	f, err := dev.GL(ctx)
	if err != nil {
		return nil, err
	}
	f.Viewport(0, 0, int32(r.width), int32(r.height))
	f.ClearColor(r.color[0], r.color[1], r.color[2], r.color[3])
	f.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	pixels := gl.ReadRGBA(f, 0, 0, int32(r.width), int32(r.height))
	if err := gl.CheckError(f, "ReadPixels"); err != nil {
		return nil, err
	}

	info := dev.SurfaceInfo(s)
	fmt.Printf("surface:      %v %v fbo=%d\n", info.ID, info.Size, info.FramebufferObject)

	if _, err := dev.UnbindSurfaceFromContext(ctx); err != nil {
		return nil, err
	}
	if data, err := dev.LockSurfaceData(s); err == nil {
		if !samePixels(data.Pixels, data.Stride, pixels, r.width, r.height) {
			log.Printf("surface data differs from ReadPixels")
		}
		data.Unlock()
	} else {
		fmt.Printf("surface data: %v\n", err)
	}
	if err := dev.MakeNoContextCurrent(); err != nil {
		return nil, err
	}
	if err := dev.DestroySurface(ctx, s); err != nil {
		return nil, err
	}
	return pixels, nil
}
