// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"os"
	"time"
)

// HelperModeEnv selects the behaviour of the helper process. When it is unset
// the test binary runs its tests normally.
const HelperModeEnv = "USH_TEST_HELPER"

// Helper process modes.
const (
	// HelperEcho prints every argument it received on its own line, wrapped in
	// brackets, and exits 0.
	HelperEcho = "echo"
	// HelperFail writes "boom" to stderr and exits 3.
	HelperFail = "fail"
	// HelperFailSilent exits 4 without writing anything.
	HelperFailSilent = "fail-silent"
	// HelperBadStderr writes bytes that are not valid UTF-8 to stderr and exits 2.
	HelperBadStderr = "bad-stderr"
	// HelperSleep blocks for a minute, for cancellation tests.
	HelperSleep = "sleep"
)

// HelperEnv returns the environment entry that puts a re-executed test binary
// into the given mode.
func HelperEnv(mode string) []string {
	return []string{HelperModeEnv + "=" + mode}
}

// RunHelperProcess runs the helper mode named by HelperModeEnv and exits. It
// returns without doing anything when the variable is unset. Call it first
// thing in TestMain.
func RunHelperProcess() {
	mode, ok := os.LookupEnv(HelperModeEnv)
	if !ok {
		return
	}
	os.Exit(RunHelper(mode, os.Args[1:]))
}

// RunHelper executes a helper mode against args and returns its exit code.
func RunHelper(mode string, args []string) int {
	switch mode {
	case HelperEcho:
		EchoArgs(args)
		return 0
	case HelperFail:
		fmt.Fprint(os.Stderr, "boom")
		return 3
	case HelperFailSilent:
		return 4
	case HelperBadStderr:
		_, _ = os.Stderr.Write([]byte{'b', 'a', 'd', 0xff, 0xfe})
		return 2
	case HelperSleep:
		time.Sleep(time.Minute)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", mode)
		return 125
	}
}

// EchoArgs prints each argument on its own line wrapped in brackets, so that
// leading and trailing whitespace stays visible.
func EchoArgs(args []string) {
	for _, a := range args {
		fmt.Fprintf(os.Stdout, "[%s]\n", a)
	}
}
