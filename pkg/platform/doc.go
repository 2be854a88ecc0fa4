// SPDX-License-Identifier: MPL-2.0

// Package platform provides small cross-platform helpers shared by the
// notification and scheme-registration packages: GOOS name constants and
// detection of Flatpak/Snap sandboxes, where host tools such as xdg-mime or
// zenity must be reached through a spawn wrapper.
package platform
