// SPDX-License-Identifier: MPL-2.0

// Command ush launches registered applications from ush:// links.
//
// Windows release builds link against the GUI subsystem so that opening a
// link from a browser does not flash a console window:
//
//	go build -ldflags "-H=windowsgui" .
//
// A windowsgui binary has no attached console, so failures are shown as
// dialogs and the registry management commands print nothing when run from
// a terminal. Build without the flag for command-line use.
package main

import cmd "github.com/invowk/ush/cmd/ush"

func main() {
	cmd.Execute()
}
