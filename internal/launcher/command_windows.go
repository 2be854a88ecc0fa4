// SPDX-License-Identifier: MPL-2.0

//go:build windows

package launcher

import (
	"context"
	"os/exec"
	"syscall"
)

// command builds a child whose command line is the quoted executable followed
// by arg exactly as received, leaving argument splitting to the child.
func command(ctx context.Context, path, arg string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, path)
	cmdLine := syscall.EscapeArg(path)
	if arg != "" {
		cmdLine += " " + arg
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: cmdLine}
	return cmd
}
