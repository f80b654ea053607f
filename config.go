// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by LoadConfig.
const (
	EnvDriver         = "GLSURFACE_DRIVER"
	EnvForceGLES      = "GLSURFACE_FORCE_GLES"
	EnvAlwaysSoftware = "LIBGL_ALWAYS_SOFTWARE"
	EnvDRIPrime       = "DRI_PRIME"
)

// Config is the process-level backend policy taken from the environment.
// It never changes protocol behavior, only which driver, API and adapter
// a backend picks.
type Config struct {
	// Driver names the preferred driver. Empty selects the best registered one.
	Driver string
	// ForceGLES makes backends that can do both pick OpenGL ES.
	ForceGLES bool
	// AlwaysSoftware turns every adapter request into a software one.
	AlwaysSoftware bool
	// DRIPrime is the raw DRI_PRIME value; empty when unset.
	DRIPrime string
}

// LoadConfig reads Config from the process environment.
func LoadConfig() Config {
	return Config{
		Driver:         strings.TrimSpace(os.Getenv(EnvDriver)),
		ForceGLES:      envBool(EnvForceGLES),
		AlwaysSoftware: envBool(EnvAlwaysSoftware),
		DRIPrime:       os.Getenv(EnvDRIPrime),
	}
}

// AdapterFor applies the environment policy to a requested adapter kind.
func (c Config) AdapterFor(kind AdapterKind) AdapterKind {
	if c.AlwaysSoftware {
		return SoftwareAdapter
	}
	return kind
}

// PrimeOffload reports whether a device for kind should be opened on the
// secondary (PRIME) GPU. An explicit DRI_PRIME value wins; otherwise
// hardware adapters offload and low-power adapters stay on the primary GPU.
func (c Config) PrimeOffload(kind AdapterKind) bool {
	if c.DRIPrime != "" {
		return c.DRIPrime != "0"
	}
	return c.AdapterFor(kind) == HardwareAdapter
}

// GLAPI returns the API a backend supporting both should request.
func (c Config) GLAPI() GLAPI {
	if c.ForceGLES {
		return GLAPIGLES
	}
	return GLAPIGL
}

func envBool(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		// Mesa treats any non-empty value other than "0" as set.
		return v != "" && v != "0"
	}
	return b
}
