// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"strconv"
	"strings"

	"github.com/gogpu/glsurface"
)

// Features is what a context's driver reports about itself.
type Features struct {
	Version  glsurface.GLVersion
	API      glsurface.GLAPI
	Renderer string

	// PackedDepthStencil reports DEPTH24_STENCIL8 renderbuffer support.
	PackedDepthStencil bool
}

// Extensions whose presence implies DEPTH24_STENCIL8 renderbuffers.
var packedDepthStencilExtensions = []string{
	"GL_OES_packed_depth_stencil",
	"GL_EXT_packed_depth_stencil",
	"GL_ARB_framebuffer_object",
}

// DetectFeatures queries the current context. The extension string is only
// consulted below GL 3, where glGetString(GL_EXTENSIONS) is still valid.
func DetectFeatures(f Functions) Features {
	ver, api := ParseVersion(f.GetString(VERSION))
	feat := Features{
		Version:  ver,
		API:      api,
		Renderer: f.GetString(RENDERER),
	}
	if ver.AtLeast(3, 0) {
		feat.PackedDepthStencil = true
		return feat
	}
	exts := strings.Fields(f.GetString(EXTENSIONS))
	for _, want := range packedDepthStencilExtensions {
		for _, e := range exts {
			if e == want {
				feat.PackedDepthStencil = true
				return feat
			}
		}
	}
	return feat
}

// ParseVersion parses a GL_VERSION string such as "4.6.0 NVIDIA 550.1" or
// "OpenGL ES 3.2 Mesa 24.0". Unparseable strings give version 0.0.
func ParseVersion(s string) (glsurface.GLVersion, glsurface.GLAPI) {
	api := glsurface.GLAPIGL
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "OpenGL ES"); ok {
		api = glsurface.GLAPIGLES
		s = strings.TrimSpace(rest)
		// "OpenGL ES-CM 1.1" style profiles.
		if i := strings.IndexByte(s, ' '); i >= 0 && strings.HasPrefix(s, "-") {
			s = s[i+1:]
		}
	}
	num, _, _ := strings.Cut(s, " ")
	parts := strings.SplitN(num, ".", 3)
	if len(parts) < 2 {
		return glsurface.GLVersion{}, api
	}
	major, err1 := strconv.ParseUint(parts[0], 10, 8)
	minor, err2 := strconv.ParseUint(leadingDigits(parts[1]), 10, 8)
	if err1 != nil || err2 != nil {
		return glsurface.GLVersion{}, api
	}
	return glsurface.NewGLVersion(uint8(major), uint8(minor)), api
}

func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}
