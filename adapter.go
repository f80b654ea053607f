// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// AdapterKind is the caller's choice of GPU or driver.
type AdapterKind uint8

// Adapter kinds.
const (
	// HardwareAdapter prefers the high-performance GPU.
	HardwareAdapter AdapterKind = iota
	// LowPowerAdapter prefers the integrated GPU.
	LowPowerAdapter
	// SoftwareAdapter requests a CPU renderer.
	SoftwareAdapter
)

func (k AdapterKind) String() string {
	switch k {
	case HardwareAdapter:
		return "hardware"
	case LowPowerAdapter:
		return "low-power"
	case SoftwareAdapter:
		return "software"
	default:
		return "unknown"
	}
}

// ParseAdapterKind parses the names produced by AdapterKind.String.
func ParseAdapterKind(s string) (AdapterKind, bool) {
	switch s {
	case "hardware", "":
		return HardwareAdapter, true
	case "low-power", "lowpower":
		return LowPowerAdapter, true
	case "software":
		return SoftwareAdapter, true
	}
	return 0, false
}

// PowerPreference maps the kind onto the WebGPU power preference.
func (k AdapterKind) PowerPreference() gputypes.PowerPreference {
	switch k {
	case HardwareAdapter:
		return gputypes.PowerPreferenceHighPerformance
	case LowPowerAdapter:
		return gputypes.PowerPreferenceLowPower
	default:
		return gputypes.PowerPreferenceNone
	}
}

// AdapterType classifies a WebGPU device type for gpucontext consumers.
func AdapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
