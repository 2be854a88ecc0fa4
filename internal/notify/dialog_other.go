// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package notify

import (
	"context"
	"fmt"
	"runtime"
)

func currentGOOS() string { return runtime.GOOS }

// Notify shows the message with the first available dialog program, or
// writes it to the fallback when there is none or the program fails.
func (d *Dialog) Notify(title, message string) error {
	cmd, ok := d.commandFor(title, message)
	if !ok {
		return d.fallback.Notify(title, message)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialogTimeout)
	defer cancel()

	if err := d.run(ctx, cmd.stdin, cmd.name, cmd.args...); err != nil {
		if fbErr := d.fallback.Notify(title, message); fbErr != nil {
			return fmt.Errorf("%s: %w", cmd.name, err)
		}
	}
	return nil
}
