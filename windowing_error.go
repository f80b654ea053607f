// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glsurface

import "strconv"

// WindowingAPIError is the normalized form of an error code returned by a
// native windowing API (EGL, GLX, WGL, CGL, OSMesa). Each backend keeps a
// small table translating its own codes into these values.
type WindowingAPIError uint32

// Windowing API error codes.
const (
	WindowingFailed WindowingAPIError = iota
	WindowingBadAttribute
	WindowingBadProperty
	WindowingBadPixelFormat
	WindowingBadRendererInfo
	WindowingBadContext
	WindowingBadDrawable
	WindowingBadDisplay
	WindowingBadState
	WindowingBadValue
	WindowingBadMatch
	WindowingBadEnumeration
	WindowingBadOffScreen
	WindowingBadFullScreen
	WindowingBadWindow
	WindowingBadAddress
	WindowingBadCodeModule
	WindowingBadAlloc
	WindowingBadConnection
	WindowingNotInitialized
	WindowingBadAccess
	WindowingBadCurrentSurface
	WindowingBadSurface
	WindowingBadParameter
	WindowingBadNativePixmap
	WindowingBadNativeWindow
	WindowingContextLost
	WindowingBadScreen
	WindowingNoExtension
	WindowingBadVisual
	WindowingBadOperation
	WindowingBadConfig
)

var windowingErrorNames = [...]string{
	WindowingFailed:            "Failed",
	WindowingBadAttribute:      "BadAttribute",
	WindowingBadProperty:       "BadProperty",
	WindowingBadPixelFormat:    "BadPixelFormat",
	WindowingBadRendererInfo:   "BadRendererInfo",
	WindowingBadContext:        "BadContext",
	WindowingBadDrawable:       "BadDrawable",
	WindowingBadDisplay:        "BadDisplay",
	WindowingBadState:          "BadState",
	WindowingBadValue:          "BadValue",
	WindowingBadMatch:          "BadMatch",
	WindowingBadEnumeration:    "BadEnumeration",
	WindowingBadOffScreen:      "BadOffScreen",
	WindowingBadFullScreen:     "BadFullScreen",
	WindowingBadWindow:         "BadWindow",
	WindowingBadAddress:        "BadAddress",
	WindowingBadCodeModule:     "BadCodeModule",
	WindowingBadAlloc:          "BadAlloc",
	WindowingBadConnection:     "BadConnection",
	WindowingNotInitialized:    "NotInitialized",
	WindowingBadAccess:         "BadAccess",
	WindowingBadCurrentSurface: "BadCurrentSurface",
	WindowingBadSurface:        "BadSurface",
	WindowingBadParameter:      "BadParameter",
	WindowingBadNativePixmap:   "BadNativePixmap",
	WindowingBadNativeWindow:   "BadNativeWindow",
	WindowingContextLost:       "ContextLost",
	WindowingBadScreen:         "BadScreen",
	WindowingNoExtension:       "NoExtension",
	WindowingBadVisual:         "BadVisual",
	WindowingBadOperation:      "BadOperation",
	WindowingBadConfig:         "BadConfig",
}

// String returns the code name, e.g. "BadAlloc".
func (e WindowingAPIError) String() string {
	if int(e) < len(windowingErrorNames) {
		return windowingErrorNames[e]
	}
	return "WindowingAPIError(" + strconv.FormatUint(uint64(e), 10) + ")"
}
