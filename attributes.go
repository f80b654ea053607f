// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// GLAPI selects between desktop OpenGL and OpenGL ES.
type GLAPI = gputypes.GLBackend

// GL API values.
const (
	GLAPIGL   = gputypes.GLBackendGL
	GLAPIGLES = gputypes.GLBackendGLES
)

// GLVersion is an OpenGL or OpenGL ES version.
type GLVersion struct {
	Major uint8
	Minor uint8
}

// NewGLVersion returns the version major.minor.
func NewGLVersion(major, minor uint8) GLVersion {
	return GLVersion{Major: major, Minor: minor}
}

// AtLeast reports whether v is major.minor or newer.
func (v GLVersion) AtLeast(major, minor uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v GLVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ContextAttributeFlags requests optional framebuffer and profile features.
type ContextAttributeFlags uint8

// Context attribute flags.
const (
	// ContextAlpha requests an alpha channel.
	ContextAlpha ContextAttributeFlags = 1 << iota
	// ContextDepth requests a depth buffer.
	ContextDepth
	// ContextStencil requests a stencil buffer.
	ContextStencil
	// ContextCompatibilityProfile requests the compatibility profile
	// instead of the core profile. Desktop GL only.
	ContextCompatibilityProfile
)

// Has reports whether all bits of flag are set.
func (f ContextAttributeFlags) Has(flag ContextAttributeFlags) bool {
	return f&flag == flag
}

func (f ContextAttributeFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		flag ContextAttributeFlags
		name string
	}{
		{ContextAlpha, "alpha"},
		{ContextDepth, "depth"},
		{ContextStencil, "stencil"},
		{ContextCompatibilityProfile, "compatibility"},
	} {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ContextAttributes are the abstract capabilities requested for a context.
// A ContextDescriptor is negotiated from them by a device.
type ContextAttributes struct {
	Version GLVersion
	Flags   ContextAttributeFlags
}

func (a ContextAttributes) String() string {
	return fmt.Sprintf("GL %v [%v]", a.Version, a.Flags)
}
