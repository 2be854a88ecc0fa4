// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package scheme

import (
	"runtime"

	"github.com/invowk/ush/pkg/platform"
)

// New returns the registrar for the current platform.
func New() Registrar {
	if platform.UsesXDG(runtime.GOOS) {
		return NewDesktopRegistrar()
	}
	return unsupported{goos: runtime.GOOS}
}
