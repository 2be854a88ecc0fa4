// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// UsesXDG reports whether goos follows the freedesktop.org conventions for
// desktop entries and URL scheme handlers.
func UsesXDG(goos string) bool {
	switch goos {
	case Linux, "freebsd", "openbsd", "netbsd", "dragonfly":
		return true
	default:
		return false
	}
}
