// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/glsurface"
)

type stubDriver struct{ name string }

func (d stubDriver) Name() string { return d.name }
func (d stubDriver) Open(glsurface.Config) (Connection, error) {
	return nil, glsurface.ErrConnectionFailed
}

func register(t *testing.T, name string) {
	t.Helper()
	Register(name, func() Driver { return stubDriver{name: name} })
	t.Cleanup(func() { Unregister(name) })
}

// TestRegistryLookup tests driver registration and lookup.
func TestRegistryLookup(t *testing.T) {
	register(t, "test-lookup")

	d, err := Lookup("test-lookup")
	if err != nil {
		t.Fatalf("Lookup() = %v", err)
	}
	if d.Name() != "test-lookup" {
		t.Errorf("Name = %s, want test-lookup", d.Name())
	}
	if !IsRegistered("test-lookup") {
		t.Error("IsRegistered = false, want true")
	}
	if !slices.Contains(Drivers(), "test-lookup") {
		t.Errorf("Drivers() = %v, missing test-lookup", Drivers())
	}
}

// TestRegistryUnregister tests driver removal.
func TestRegistryUnregister(t *testing.T) {
	Register("temp", func() Driver { return stubDriver{name: "temp"} })
	Unregister("temp")

	if IsRegistered("temp") {
		t.Error("driver should not exist after unregister")
	}
	if _, err := Lookup("temp"); !errors.Is(err, ErrDriverNotRegistered) {
		t.Errorf("Lookup() error = %v, want ErrDriverNotRegistered", err)
	}
}

// TestRegistryPriority tests that EGL is preferred over software.
func TestRegistryPriority(t *testing.T) {
	for _, name := range []string{DriverEGL, DriverSoftware} {
		if IsRegistered(name) {
			t.Skipf("%s registered by another package", name)
		}
	}
	register(t, DriverSoftware)
	if got := BestName(); got != DriverSoftware {
		t.Errorf("BestName() = %q, want %q", got, DriverSoftware)
	}

	register(t, DriverEGL)
	d, err := Best()
	if err != nil {
		t.Fatalf("Best() = %v", err)
	}
	if d.Name() != DriverEGL {
		t.Errorf("Best().Name() = %q, want %q", d.Name(), DriverEGL)
	}
}
