// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package launcher

import (
	"context"
	"os/exec"
)

func command(ctx context.Context, path, arg string) *exec.Cmd {
	if arg == "" {
		return exec.CommandContext(ctx, path)
	}
	return exec.CommandContext(ctx, path, arg)
}
