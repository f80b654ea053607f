// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
)

// Registry errors.
var (
	// ErrDriverNotRegistered is returned when a named driver is not registered.
	ErrDriverNotRegistered = errors.New("native: driver not registered")

	// ErrNoDrivers is returned when no driver is registered at all.
	ErrNoDrivers = errors.New("native: no drivers registered")
)

// Standard driver names. Earlier names are preferred by Best.
const (
	DriverEGL      = "egl"
	DriverSoftware = "software"
)

// DriverFactory creates a driver instance.
type DriverFactory func() Driver

// drivers holds registered drivers. Priority order for Best:
// EGL > Software (hardware first, CPU emulation as fallback).
var drivers = gpucontext.NewRegistry[Driver](
	gpucontext.WithPriority(DriverEGL, DriverSoftware),
)

// Register registers a driver factory with the given name.
// This is typically called from init() functions in backend packages.
// If a driver with the same name is already registered, it is replaced.
func Register(name string, factory DriverFactory) {
	drivers.Register(name, factory)
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	drivers.Unregister(name)
}

// IsRegistered reports whether a driver with the given name is registered.
func IsRegistered(name string) bool {
	return drivers.Has(name)
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	names := drivers.Available()
	sort.Strings(names)
	return names
}

// Lookup returns a new instance of the named driver.
func Lookup(name string) (Driver, error) {
	if !drivers.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotRegistered, name)
	}
	return drivers.Get(name), nil
}

// Best returns the highest-priority registered driver.
func Best() (Driver, error) {
	if drivers.Count() == 0 {
		return nil, ErrNoDrivers
	}
	return drivers.Best(), nil
}

// BestName returns the name Best would choose, or "" if none is registered.
func BestName() string {
	return drivers.BestName()
}
