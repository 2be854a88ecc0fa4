// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// TitleError is the title used for failure notifications.
const TitleError = "Error"

const (
	// ModeAuto shows dialogs unless stderr is a terminal.
	ModeAuto Mode = "auto"
	// ModeDialog always shows a desktop dialog.
	ModeDialog Mode = "dialog"
	// ModeConsole always writes to stderr.
	ModeConsole Mode = "console"
)

// ErrInvalidMode is returned by ParseMode for unknown mode names.
var ErrInvalidMode = errors.New("invalid notifier mode")

type (
	// Notifier shows a short message to the user.
	Notifier interface {
		Notify(title, message string) error
	}

	// Mode selects a Notifier implementation.
	Mode string

	// Func adapts an ordinary function to the Notifier interface.
	Func func(title, message string) error
)

// Notify calls f(title, message).
func (f Func) Notify(title, message string) error { return f(title, message) }

// ParseMode validates a mode name. The empty string selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeDialog, ModeConsole:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w %q (expected auto, dialog or console)", ErrInvalidMode, s)
	}
}

// New returns the Notifier for mode, writing console output to stderr.
func New(mode Mode, stderr *os.File) Notifier {
	console := NewConsole(stderr)
	switch mode {
	case ModeConsole:
		return console
	case ModeDialog:
		return NewDialog(console)
	default:
		if term.IsTerminal(int(stderr.Fd())) {
			return console
		}
		return NewDialog(console)
	}
}
