// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in.
// The result is cached after the first call.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand rewrites name/args so the command runs on the host when the
// process is sandboxed. Outside a sandbox it returns its inputs unchanged.
//
//	flatpak: flatpak-spawn --host <name> <args...>
//	snap:    snap run --shell <name> <args...>
func HostCommand(st SandboxType, name string, args ...string) (string, []string) {
	var prefix []string
	var spawn string
	switch st {
	case SandboxFlatpak:
		spawn, prefix = "flatpak-spawn", []string{"--host"}
	case SandboxSnap:
		spawn, prefix = "snap", []string{"run", "--shell"}
	default:
		return name, args
	}
	out := make([]string, 0, len(prefix)+1+len(args))
	out = append(out, prefix...)
	out = append(out, name)
	out = append(out, args...)
	return spawn, out
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// The /.flatpak-info file is always present inside Flatpak sandboxes.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
