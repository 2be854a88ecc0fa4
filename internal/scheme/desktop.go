// SPDX-License-Identifier: MPL-2.0

package scheme

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/invowk/ush/internal/issue"
	"github.com/invowk/ush/internal/uri"
	"github.com/invowk/ush/pkg/platform"
)

const (
	// DesktopFileName is the desktop entry installed for the scheme.
	DesktopFileName = "ush-handler.desktop"
	// MimeType is the pseudo MIME type desktops use for URL scheme handlers.
	MimeType = "x-scheme-handler/" + uri.Scheme
)

// DesktopRegistrar registers the scheme with a freedesktop.org desktop entry.
type DesktopRegistrar struct {
	// DataHome is $XDG_DATA_HOME. Empty means the environment value or ~/.local/share.
	DataHome string
	// Sandbox routes xdg-mime to the host when running under Flatpak or Snap.
	Sandbox platform.SandboxType

	run    func(ctx context.Context, name string, args ...string) error
	output func(ctx context.Context, name string, args ...string) (string, error)
}

// NewDesktopRegistrar returns a registrar for the current user.
func NewDesktopRegistrar() *DesktopRegistrar {
	return &DesktopRegistrar{
		Sandbox: platform.DetectSandbox(),
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		output: func(ctx context.Context, name string, args ...string) (string, error) {
			out, err := exec.CommandContext(ctx, name, args...).Output()
			return string(out), err
		},
	}
}

// Register writes the desktop entry and makes it the default handler.
func (d *DesktopRegistrar) Register(ctx context.Context, exe string, _ RegisterOptions) error {
	path, err := d.desktopFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return d.registerError(path, err)
	}
	if err := os.WriteFile(path, []byte(DesktopEntry(exe)), 0o644); err != nil {
		return d.registerError(path, err)
	}

	if err := d.host(ctx, "xdg-mime", "default", DesktopFileName, MimeType); err != nil {
		return d.registerError(path, fmt.Errorf("xdg-mime: %w", err))
	}
	// Not every desktop ships update-desktop-database; xdg-mime alone is enough there.
	_ = d.host(ctx, "update-desktop-database", filepath.Dir(path))

	return nil
}

// Unregister deletes the desktop entry.
func (d *DesktopRegistrar) Unregister(ctx context.Context) error {
	path, err := d.desktopFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return issue.NewErrorContext().
			WithOperation("unregister " + uri.Scheme + " scheme").
			WithResource(path).
			Wrap(err).
			BuildError()
	}
	_ = d.host(ctx, "update-desktop-database", filepath.Dir(path))
	return nil
}

// Status reads the desktop entry and asks xdg-mime for the default handler.
func (d *DesktopRegistrar) Status(ctx context.Context) (Status, error) {
	path, err := d.desktopFile()
	if err != nil {
		return Status{}, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Status{Location: path}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read desktop entry: %w", err)
	}
	defer func() { _ = f.Close() }()

	st := Status{Registered: true, Location: path}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if v, ok := strings.CutPrefix(sc.Text(), "Exec="); ok {
			st.Command = v
			break
		}
	}
	if err := sc.Err(); err != nil {
		return Status{}, fmt.Errorf("read desktop entry: %w", err)
	}

	if d.output != nil {
		name, args := platform.HostCommand(d.Sandbox, "xdg-mime", "query", "default", MimeType)
		if out, err := d.output(ctx, name, args...); err == nil {
			st.Default = strings.TrimSpace(out) == DesktopFileName
		}
	}
	return st, nil
}

// DesktopEntry renders the desktop entry that runs exe for ush:// links.
func DesktopEntry(exe string) string {
	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	sb.WriteString("Type=Application\n")
	sb.WriteString("Name=ush\n")
	sb.WriteString("Comment=Open " + uri.Prefix + " links\n")
	sb.WriteString("Exec=" + execQuote(exe) + " run %u\n")
	sb.WriteString("Terminal=false\n")
	sb.WriteString("NoDisplay=true\n")
	sb.WriteString("MimeType=" + MimeType + ";\n")
	return sb.String()
}

// execQuote quotes an Exec key argument. Inside double quotes the
// characters " ` $ and \ are backslash-escaped, and since the key value is
// itself an escaped string every backslash is then doubled. A literal %
// is written as %%.
func execQuote(arg string) string {
	arg = strings.ReplaceAll(arg, "%", "%%")
	if !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`=") {
		return arg
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '`', '$', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return strings.ReplaceAll(sb.String(), `\`, `\\`)
}

func (d *DesktopRegistrar) desktopFile() (string, error) {
	dataHome := d.DataHome
	if dataHome == "" {
		dataHome = os.Getenv("XDG_DATA_HOME")
	}
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "applications", DesktopFileName), nil
}

func (d *DesktopRegistrar) host(ctx context.Context, name string, args ...string) error {
	if d.run == nil {
		return nil
	}
	name, args = platform.HostCommand(d.Sandbox, name, args...)
	return d.run(ctx, name, args...)
}

func (d *DesktopRegistrar) registerError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("register " + uri.Scheme + " scheme").
		WithResource(path).
		WithSuggestion("Install xdg-utils so that xdg-mime is available").
		WithHelp(issue.SchemeRegistrationFailedId).
		Wrap(err).
		BuildError()
}
