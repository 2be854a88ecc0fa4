// SPDX-License-Identifier: MPL-2.0

package scheme

import (
	"context"
	"errors"

	"github.com/invowk/ush/internal/issue"
	"github.com/invowk/ush/internal/uri"
)

// ErrUnsupported is returned on platforms without a supported registration mechanism.
var ErrUnsupported = errors.New("scheme registration is not supported on this platform")

type (
	// Registrar installs and removes the ush:// association.
	Registrar interface {
		// Register points the scheme at exe.
		Register(ctx context.Context, exe string, opts RegisterOptions) error
		// Unregister removes the association. Removing a missing association is not an error.
		Unregister(ctx context.Context) error
		// Status reports the current association.
		Status(ctx context.Context) (Status, error)
	}

	// RegisterOptions tunes registration.
	RegisterOptions struct {
		// BrowserPolicy also sets browser policies that let the user skip the
		// external-protocol prompt. Windows only; needs administrator rights.
		BrowserPolicy bool
	}

	// Status describes the installed association.
	Status struct {
		Registered bool
		// Command is the command line the OS runs for a link.
		Command string
		// Location is the registry key or file holding the association.
		Location string
		// Default is false when the association exists but another handler
		// is the system default. Only desktop registrations can tell.
		Default bool
	}

	unsupported struct {
		goos string
	}
)

// CommandLine is the command the operating system runs for a clicked link.
// The link is substituted for %1 and passed as one quoted argument.
func CommandLine(exe string) string {
	return `"` + exe + `" run "%1"`
}

func (u unsupported) Register(context.Context, string, RegisterOptions) error {
	return u.err("register " + uri.Scheme + " scheme")
}

func (u unsupported) Unregister(context.Context) error {
	return u.err("unregister " + uri.Scheme + " scheme")
}

func (u unsupported) Status(context.Context) (Status, error) {
	return Status{}, u.err("query " + uri.Scheme + " scheme")
}

func (u unsupported) err(op string) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(u.goos).
		WithSuggestion("Associate " + uri.Prefix + " links with 'ush run <link>' through your desktop environment").
		WithHelp(issue.SchemeRegistrationFailedId).
		Wrap(ErrUnsupported).
		BuildError()
}
