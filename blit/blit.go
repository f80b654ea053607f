// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package blit provides GLSL for drawing a surface texture over the current
// framebuffer. The shader is written once in WGSL and translated with naga
// to GLSL 3.30 core for desktop GL or GLSL ES 3.00 for GLES.
//
// The vertex stage draws a fullscreen triangle from gl_VertexID, so a
// caller needs an empty vertex array and glDrawArrays(GL_TRIANGLES, 0, 3).
// The fragment stage samples the texture bound to the uniform named by
// Program.Sampler with texture coordinates in GL orientation, which matches
// the bottom-up rows of surface storage.
package blit

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
)

//go:embed shaders/blit.wgsl
var shaderSource string

// Entry points of the embedded shader.
const (
	vertexEntry   = "vs_main"
	fragmentEntry = "fs_main"
)

// Program is the GLSL source of the blit shader for one API.
type Program struct {
	Vertex   string
	Fragment string
	// Sampler is the combined sampler2D uniform the fragment stage reads.
	Sampler string
}

type result struct {
	prog Program
	err  error
}

var cache struct {
	sync.Mutex
	programs map[glsurface.GLAPI]result
}

// Source returns the blit program for api, compiling it on first use.
func Source(api glsurface.GLAPI) (Program, error) {
	cache.Lock()
	defer cache.Unlock()
	if r, ok := cache.programs[api]; ok {
		return r.prog, r.err
	}
	prog, err := compile(api)
	if cache.programs == nil {
		cache.programs = make(map[glsurface.GLAPI]result)
	}
	cache.programs[api] = result{prog, err}
	return prog, err
}

// LangVersion returns the GLSL version used for api.
func LangVersion(api glsurface.GLAPI) (glsl.Version, error) {
	switch api {
	case glsurface.GLAPIGL:
		return glsl.Version330, nil
	case glsurface.GLAPIGLES:
		return glsl.VersionES300, nil
	default:
		return glsl.Version{}, fmt.Errorf("blit: %w: %v", glsurface.ErrUnsupportedGLType, api)
	}
}

func compile(api glsurface.GLAPI) (Program, error) {
	version, err := LangVersion(api)
	if err != nil {
		return Program{}, err
	}
	ast, err := naga.Parse(shaderSource)
	if err != nil {
		return Program{}, fmt.Errorf("blit: WGSL parse: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return Program{}, fmt.Errorf("blit: WGSL lower: %w", err)
	}

	stage := func(entry string) (string, glsl.TranslationInfo, error) {
		src, info, err := glsl.Compile(module, glsl.Options{
			LangVersion:        version,
			EntryPoint:         entry,
			ForceHighPrecision: true,
		})
		if err != nil {
			return "", info, fmt.Errorf("blit: GLSL %v for %q: %w", version, entry, err)
		}
		return src, info, nil
	}
	vs, _, err := stage(vertexEntry)
	if err != nil {
		return Program{}, err
	}
	fs, info, err := stage(fragmentEntry)
	if err != nil {
		return Program{}, err
	}
	if len(info.TextureSamplerPairs) != 1 {
		return Program{}, fmt.Errorf("blit: expected one sampler, naga generated %v", info.TextureSamplerPairs)
	}
	glsurface.Logger().Debug("blit: program compiled", "api", api, "glsl", version)
	return Program{Vertex: vs, Fragment: fs, Sampler: info.TextureSamplerPairs[0]}, nil
}
