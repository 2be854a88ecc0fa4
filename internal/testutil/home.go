// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir points the platform home variable at dir and returns a cleanup
// function that restores the original value. Windows uses USERPROFILE; every
// other platform uses HOME.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// IsolateUserDirs redirects the home, config and data directories into dir so
// that config lookups and scheme registration never touch the real user
// profile. It returns a single cleanup that restores every variable.
func IsolateUserDirs(t testing.TB, dir string) func() {
	t.Helper()

	cleanups := []func(){
		SetHomeDir(t, dir),
		MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(dir, ".config")),
		MustSetenv(t, "XDG_DATA_HOME", filepath.Join(dir, ".local", "share")),
		MustSetenv(t, "APPDATA", filepath.Join(dir, "AppData", "Roaming")),
	}
	return func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}
