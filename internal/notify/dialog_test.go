// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/ush/pkg/platform"
)

func lookPathFor(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		if slices.Contains(available, name) {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
}

func TestDialog_CommandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		goos      string
		sandbox   platform.SandboxType
		available []string
		title     string
		wantName  string
		wantArgs  []string
		wantOK    bool
	}{
		{
			name:      "zenity error",
			goos:      platform.Linux,
			available: []string{"zenity", "notify-send"},
			title:     TitleError,
			wantName:  "zenity",
			wantArgs:  []string{"--error", "--no-markup", "--title", TitleError, "--text", "msg"},
			wantOK:    true,
		},
		{
			name:      "kdialog info",
			goos:      platform.Linux,
			available: []string{"kdialog"},
			title:     "Info",
			wantName:  "kdialog",
			wantArgs:  []string{"--title", "Info", "--msgbox", "msg"},
			wantOK:    true,
		},
		{
			name:      "notify-send last resort",
			goos:      "freebsd",
			available: []string{"notify-send"},
			title:     TitleError,
			wantName:  "notify-send",
			wantArgs:  []string{"--urgency", "critical", "--app-name", "ush", TitleError, "msg"},
			wantOK:    true,
		},
		{
			name:      "flatpak routes to host",
			goos:      platform.Linux,
			sandbox:   platform.SandboxFlatpak,
			available: []string{"zenity"},
			title:     "Info",
			wantName:  "flatpak-spawn",
			wantArgs:  []string{"--host", "zenity", "--info", "--no-markup", "--title", "Info", "--text", "msg"},
			wantOK:    true,
		},
		{
			name:     "macOS uses osascript",
			goos:     platform.Darwin,
			title:    TitleError,
			wantName: "osascript",
			wantArgs: []string{"-", TitleError, "msg"},
			wantOK:   true,
		},
		{name: "nothing available", goos: platform.Linux, title: TitleError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := &Dialog{goos: tt.goos, sandbox: tt.sandbox, lookPath: lookPathFor(tt.available...)}
			got, ok := d.commandFor(tt.title, "msg")
			if ok != tt.wantOK {
				t.Fatalf("commandFor() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.name != tt.wantName {
				t.Errorf("commandFor() name = %q, want %q", got.name, tt.wantName)
			}
			if !slices.Equal(got.args, tt.wantArgs) {
				t.Errorf("commandFor() args = %q, want %q", got.args, tt.wantArgs)
			}
		})
	}
}

func TestDialog_MacScriptKeepsTextOutOfSource(t *testing.T) {
	t.Parallel()

	d := &Dialog{goos: platform.Darwin, lookPath: lookPathFor()}
	cmd, _ := d.commandFor(TitleError, `say "hi" & do shell script "x"`)
	if strings.Contains(cmd.stdin, "do shell script") {
		t.Errorf("script source contains the message: %q", cmd.stdin)
	}
	if !strings.Contains(cmd.stdin, "with icon stop") {
		t.Errorf("error dialog script = %q, want stop icon", cmd.stdin)
	}
}

func TestDialog_FallsBackWhenNothingAvailable(t *testing.T) {
	t.Parallel()

	var got []string
	fallback := Func(func(title, message string) error {
		got = append(got, title+": "+message)
		return nil
	})
	d := &Dialog{
		fallback: fallback,
		goos:     platform.Linux,
		lookPath: lookPathFor(),
		run: func(_ context.Context, _, name string, _ ...string) error {
			return errors.New("should not run " + name)
		},
	}
	if currentGOOS() == platform.Windows {
		t.Skip("windows dialogs use the message box API")
	}

	if err := d.Notify(TitleError, "boom"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if want := []string{"Error: boom"}; !slices.Equal(got, want) {
		t.Errorf("fallback received %q, want %q", got, want)
	}
}

func TestDialog_RunsCommandAndFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	if currentGOOS() == platform.Windows {
		t.Skip("windows dialogs use the message box API")
	}

	var ran []string
	var fellBack int
	d := &Dialog{
		fallback: Func(func(string, string) error { fellBack++; return nil }),
		goos:     platform.Linux,
		lookPath: lookPathFor("notify-send"),
		run: func(_ context.Context, _, name string, args ...string) error {
			ran = append(ran, name+" "+strings.Join(args, " "))
			if len(ran) > 1 {
				return errors.New("no display")
			}
			return nil
		},
	}

	if err := d.Notify(TitleError, "first"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if fellBack != 0 {
		t.Errorf("fallback used %d times after a successful dialog", fellBack)
	}
	if err := d.Notify(TitleError, "second"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if fellBack != 1 {
		t.Errorf("fallback used %d times after a failed dialog, want 1", fellBack)
	}
	if len(ran) != 2 || !strings.HasPrefix(ran[0], "notify-send") {
		t.Errorf("ran = %q", ran)
	}
}
