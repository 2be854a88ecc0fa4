// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/invowk/ush/pkg/platform"
)

// dialogTimeout bounds how long a helper program may keep a dialog open
// before the notification is considered delivered.
const dialogTimeout = 10 * time.Minute

// macScript displays argv[1] in a dialog titled argv[0]. Passing the strings
// as arguments keeps them out of the script source.
const macScript = `on run argv
	display dialog (item 2 of argv) with title (item 1 of argv) buttons {"OK"} default button "OK" with icon %s
end run`

type (
	// Dialog shows notifications in a native desktop dialog. When no dialog
	// mechanism is available it hands the message to its fallback.
	Dialog struct {
		fallback Notifier
		lookPath func(string) (string, error)
		run      func(ctx context.Context, stdin, name string, args ...string) error
		goos     string
		sandbox  platform.SandboxType
	}

	// dialogCommand is an external program invocation that shows a dialog.
	dialogCommand struct {
		name  string
		args  []string
		stdin string
	}
)

// NewDialog returns a Dialog that falls back to fallback.
func NewDialog(fallback Notifier) *Dialog {
	return &Dialog{
		fallback: fallback,
		lookPath: exec.LookPath,
		run:      runCommand,
		goos:     currentGOOS(),
		sandbox:  platform.DetectSandbox(),
	}
}

// commandFor picks the first dialog program available on goos.
func (d *Dialog) commandFor(title, message string) (dialogCommand, bool) {
	isError := title == TitleError

	if d.goos == platform.Darwin {
		icon := "note"
		if isError {
			icon = "stop"
		}
		return dialogCommand{
			name:  "osascript",
			args:  []string{"-", title, message},
			stdin: strings.Replace(macScript, "%s", icon, 1),
		}, true
	}

	if _, err := d.lookPath("zenity"); err == nil {
		kind := "--info"
		if isError {
			kind = "--error"
		}
		return d.hostCommand("zenity", kind, "--no-markup", "--title", title, "--text", message), true
	}
	if _, err := d.lookPath("kdialog"); err == nil {
		kind := "--msgbox"
		if isError {
			kind = "--error"
		}
		return d.hostCommand("kdialog", "--title", title, kind, message), true
	}
	if _, err := d.lookPath("notify-send"); err == nil {
		urgency := "normal"
		if isError {
			urgency = "critical"
		}
		return d.hostCommand("notify-send", "--urgency", urgency, "--app-name", "ush", title, message), true
	}
	return dialogCommand{}, false
}

func (d *Dialog) hostCommand(name string, args ...string) dialogCommand {
	name, args = platform.HostCommand(d.sandbox, name, args...)
	return dialogCommand{name: name, args: args}
}

func runCommand(ctx context.Context, stdin, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	return cmd.Run()
}
