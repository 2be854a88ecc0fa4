// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/invowk/ush/internal/launcher"
	"github.com/invowk/ush/internal/notify"
	"github.com/invowk/ush/internal/payload"
	"github.com/invowk/ush/internal/registry"
	"github.com/invowk/ush/internal/testutil"
	"github.com/invowk/ush/internal/uri"
	"github.com/invowk/ush/pkg/types"
)

func TestMain(m *testing.M) {
	testutil.RunHelperProcess()
	os.Exit(m.Run())
}

type (
	launchCall struct {
		path, arg string
	}

	fakeLauncher struct {
		mu     sync.Mutex
		calls  []launchCall
		result *launcher.Result
		err    error
	}

	notifications struct {
		mu       sync.Mutex
		messages []string
	}

	countingSource struct {
		reg   registry.Registry
		err   error
		loads int
	}
)

func (f *fakeLauncher) Launch(_ context.Context, path, arg string) (*launcher.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, launchCall{path: path, arg: arg})
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &launcher.Result{}, nil
}

func (n *notifications) Notify(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, title+": "+message)
	return nil
}

func (s *countingSource) Load(context.Context) (registry.Registry, error) {
	s.loads++
	return s.reg, s.err
}

func mustEncode(t *testing.T, args string) string {
	t.Helper()
	encoded, err := payload.Encode(args)
	if err != nil {
		t.Fatalf("Encode(%q) error = %v", args, err)
	}
	return encoded
}

func TestInvoke_EndToEnd(t *testing.T) {
	t.Parallel()

	var notes notifications
	c := New(Options{
		Registry: StaticRegistry{{Name: "echo", Path: os.Args[0]}},
		Launcher: &launcher.Launcher{Env: testutil.HelperEnv(testutil.HelperEcho)},
		Notifier: &notes,
	})

	out := c.Invoke(context.Background(), uri.Build("echo", mustEncode(t, "hello world")))

	if !out.Succeeded() {
		t.Fatalf("Invoke() state = %s, err = %v", out.State, out.Err)
	}
	want := "[hello world]\n"
	if runtime.GOOS == "windows" {
		want = "[hello]\n[world]\n"
	}
	if got := out.Result.StdoutText(); got != want {
		t.Errorf("child stdout = %q, want %q", got, want)
	}
	if len(notes.messages) != 0 {
		t.Errorf("success produced notifications: %q", notes.messages)
	}
}

func TestInvoke_EndToEndApplicationFailure(t *testing.T) {
	t.Parallel()

	var notes notifications
	c := New(Options{
		Registry: StaticRegistry{{Name: "failapp", Path: os.Args[0]}},
		Launcher: &launcher.Launcher{Env: testutil.HelperEnv(testutil.HelperFail)},
		Notifier: &notes,
	})

	out := c.Invoke(context.Background(), uri.Build("failapp", mustEncode(t, "x")))

	if out.State != StateFailed || out.Err.Kind != KindApplicationFailure {
		t.Fatalf("Invoke() = %s/%v, want application failure", out.State, out.Err)
	}
	if out.Result == nil || out.Result.ExitCode != 3 {
		t.Errorf("Result = %+v, want exit code 3", out.Result)
	}
	if len(notes.messages) != 1 || notes.messages[0] != "Error: boom" {
		t.Errorf("notifications = %q, want the child's stderr", notes.messages)
	}
}

func TestInvoke_Failures(t *testing.T) {
	t.Parallel()

	valid := mustEncode(t, "--flag")
	startErr := &launcher.StartError{Path: "/opt/gone", Err: errors.New("no such file or directory")}

	tests := []struct {
		name        string
		raw         string
		reg         registry.Registry
		regErr      error
		launchErr   error
		result      *launcher.Result
		wantKind    Kind
		wantStage   State
		wantMessage string
		wantLaunch  bool
	}{
		{
			name:        "missing scheme",
			raw:         "http://vlc?" + valid,
			wantKind:    KindMalformedURI,
			wantStage:   StateStart,
			wantMessage: "Input does not start with 'ush://'",
		},
		{
			name:        "no separator",
			raw:         "ush://vlc",
			wantKind:    KindMalformedURI,
			wantStage:   StateStart,
			wantMessage: "Input format is incorrect: expected exactly one '?' separator",
		},
		{
			name:        "two separators",
			raw:         "ush://vlc?a?b",
			wantKind:    KindMalformedURI,
			wantStage:   StateStart,
			wantMessage: "Input format is incorrect: expected exactly one '?' separator",
		},
		{
			name:        "bad payload",
			raw:         "ush://vlc?not-valid-base64!!",
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			wantKind:    KindEncoding,
			wantStage:   StateParsed,
			wantMessage: "Failed to decompress gzip args",
		},
		{
			name:        "empty payload",
			raw:         "ush://vlc?",
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			wantKind:    KindEncoding,
			wantStage:   StateParsed,
			wantMessage: "Failed to decompress gzip args",
		},
		{
			name:        "registry unreadable",
			raw:         "ush://vlc?" + valid,
			regErr:      errors.New("config.cue: apps: syntax error"),
			wantKind:    KindRegistryUnavailable,
			wantStage:   StateDecoded,
			wantMessage: "Failed to load app registry: config.cue: apps: syntax error",
		},
		{
			name:        "unknown app",
			raw:         "ush://missing?" + valid,
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			wantKind:    KindAppNotFound,
			wantStage:   StateDecoded,
			wantMessage: "No app found with name: missing",
		},
		{
			name:        "case mismatch",
			raw:         "ush://VLC?" + valid,
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			wantKind:    KindAppNotFound,
			wantStage:   StateDecoded,
			wantMessage: "No app found with name: VLC",
		},
		{
			name:        "empty path",
			raw:         "ush://vlc?" + valid,
			reg:         registry.Registry{{Name: "vlc"}},
			wantKind:    KindAppPathNotConfigured,
			wantStage:   StateDecoded,
			wantMessage: "No executable path configured for app: vlc",
		},
		{
			name:        "cannot start",
			raw:         "ush://vlc?" + valid,
			reg:         registry.Registry{{Name: "vlc", Path: "/opt/gone"}},
			launchErr:   startErr,
			wantKind:    KindLaunchFailed,
			wantStage:   StateResolved,
			wantMessage: "Failed to launch /opt/gone: no such file or directory",
			wantLaunch:  true,
		},
		{
			name:        "non-zero with stderr",
			raw:         "ush://vlc?" + valid,
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			result:      &launcher.Result{ExitCode: 2, Stderr: []byte("unknown option --flag\n")},
			wantKind:    KindApplicationFailure,
			wantStage:   StateLaunched,
			wantMessage: "unknown option --flag",
			wantLaunch:  true,
		},
		{
			name:        "non-zero without stderr",
			raw:         "ush://vlc?" + valid,
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			result:      &launcher.Result{ExitCode: types.ExitCode(7)},
			wantKind:    KindApplicationFailure,
			wantStage:   StateLaunched,
			wantMessage: "vlc exited with status 7",
			wantLaunch:  true,
		},
		{
			name:        "killed by signal",
			raw:         "ush://vlc?" + valid,
			reg:         registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}},
			result:      &launcher.Result{ExitCode: types.ExitCode(-1)},
			wantKind:    KindApplicationFailure,
			wantStage:   StateLaunched,
			wantMessage: "vlc was terminated by a signal",
			wantLaunch:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var notes notifications
			fl := &fakeLauncher{err: tt.launchErr, result: tt.result}
			c := New(Options{
				Registry: &countingSource{reg: tt.reg, err: tt.regErr},
				Launcher: fl,
				Notifier: &notes,
			})

			out := c.Invoke(context.Background(), tt.raw)

			if out.State != StateFailed || out.Err == nil {
				t.Fatalf("Invoke() state = %s, want failed", out.State)
			}
			if out.Err.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", out.Err.Kind, tt.wantKind)
			}
			if out.Err.Stage != tt.wantStage {
				t.Errorf("Stage = %s, want %s", out.Err.Stage, tt.wantStage)
			}
			if out.Err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", out.Err.Message, tt.wantMessage)
			}
			if !errors.Is(out.Err, ErrInvocation) {
				t.Error("error does not match ErrInvocation")
			}
			if want := []string{"Error: " + tt.wantMessage}; len(notes.messages) != 1 || notes.messages[0] != want[0] {
				t.Errorf("notifications = %q, want exactly %q", notes.messages, want)
			}
			if launched := len(fl.calls) > 0; launched != tt.wantLaunch {
				t.Errorf("launched = %v, want %v", launched, tt.wantLaunch)
			}
			if out.Err.Help() == nil {
				t.Errorf("no help page for kind %s", out.Err.Kind)
			}
		})
	}
}

func TestInvoke_ErrorCauses(t *testing.T) {
	t.Parallel()

	c := New(Options{
		Registry: StaticRegistry{{Name: "vlc", Path: "/usr/bin/vlc"}},
		Launcher: &fakeLauncher{},
		Notifier: notify.Func(func(string, string) error { return nil }),
	})

	if out := c.Invoke(context.Background(), "ush://vlc?QUJD"); !errors.Is(out.Err, payload.ErrEncoding) {
		t.Errorf("encoding failure cause = %v, want payload.ErrEncoding", out.Err.Err)
	}
	if out := c.Invoke(context.Background(), "ush://nope?"+mustEncode(t, "x")); !errors.Is(out.Err, registry.ErrAppNotFound) {
		t.Errorf("lookup failure cause = %v, want registry.ErrAppNotFound", out.Err.Err)
	}
	if out := c.Invoke(context.Background(), "vlc"); !errors.Is(out.Err, uri.ErrMalformed) {
		t.Errorf("parse failure cause = %v, want uri.ErrMalformed", out.Err.Err)
	}
}

func TestInvoke_BlankRegistryRowIsSkipped(t *testing.T) {
	t.Parallel()

	fl := &fakeLauncher{}
	var notes notifications
	c := New(Options{
		Registry: StaticRegistry{{Name: "", Path: ""}, {Name: "vlc", Path: "/usr/bin/vlc"}},
		Launcher: fl,
		Notifier: &notes,
	})

	if out := c.Invoke(context.Background(), "ush://vlc?"+mustEncode(t, "x")); !out.Succeeded() {
		t.Fatalf("Invoke(vlc) failed: %v", out.Err)
	}

	out := c.Invoke(context.Background(), "ush://?"+mustEncode(t, "x"))
	if out.Err == nil || out.Err.Kind != KindAppNotFound {
		t.Fatalf("Invoke(empty name) = %+v, want KindAppNotFound", out.Err)
	}
	if len(fl.calls) != 1 {
		t.Errorf("launch calls = %+v, want only the vlc launch", fl.calls)
	}
	if len(notes.messages) != 1 {
		t.Errorf("notifications = %v, want one", notes.messages)
	}
}

func TestInvoke_PassesArgumentsVerbatim(t *testing.T) {
	t.Parallel()

	args := `--fullscreen "C:\My Videos\a b.mkv"`
	fl := &fakeLauncher{result: &launcher.Result{Stdout: []byte("ok")}}
	c := New(Options{
		Registry: StaticRegistry{{Name: "vlc", Path: "/usr/bin/vlc"}},
		Launcher: fl,
		Notifier: notify.Func(func(string, string) error { return errors.New("unexpected notification") }),
	})

	out := c.Invoke(context.Background(), "ush://vlc/?"+mustEncode(t, args)+"/")

	if !out.Succeeded() {
		t.Fatalf("Invoke() failed: %v", out.Err)
	}
	want := []launchCall{{path: "/usr/bin/vlc", arg: args}}
	if len(fl.calls) != 1 || fl.calls[0] != want[0] {
		t.Errorf("launch calls = %+v, want %+v", fl.calls, want)
	}
	if out.App != "vlc" || out.Arguments != args {
		t.Errorf("Outcome = %+v", out)
	}
}

func TestInvoke_Idempotent(t *testing.T) {
	t.Parallel()

	src := &countingSource{reg: registry.Registry{{Name: "vlc", Path: "/usr/bin/vlc"}}}
	fl := &fakeLauncher{}
	var notes notifications
	c := New(Options{Registry: src, Launcher: fl, Notifier: &notes})

	good := uri.Build("vlc", mustEncode(t, "a b"))
	first := c.Invoke(context.Background(), good)
	second := c.Invoke(context.Background(), good)

	if first.State != second.State || first.Path != second.Path || first.Arguments != second.Arguments {
		t.Errorf("repeated invocations differ: %+v vs %+v", first, second)
	}
	if first.ID == second.ID {
		t.Error("repeated invocations share an ID")
	}
	if len(fl.calls) != 2 || fl.calls[0] != fl.calls[1] {
		t.Errorf("launch calls = %+v, want two identical calls", fl.calls)
	}
	if src.loads != 2 {
		t.Errorf("registry loaded %d times, want once per invocation", src.loads)
	}

	bad := "ush://missing?" + mustEncode(t, "x")
	c.Invoke(context.Background(), bad)
	c.Invoke(context.Background(), bad)
	if len(notes.messages) != 2 || notes.messages[0] != notes.messages[1] {
		t.Errorf("notifications = %q, want two identical messages", notes.messages)
	}
}

func TestInvoke_Timeout(t *testing.T) {
	t.Parallel()

	var notes notifications
	c := New(Options{
		Registry: StaticRegistry{{Name: "sleeper", Path: os.Args[0]}},
		Launcher: &launcher.Launcher{Env: testutil.HelperEnv(testutil.HelperSleep)},
		Notifier: &notes,
		Timeout:  200 * time.Millisecond,
	})

	out := c.Invoke(context.Background(), uri.Build("sleeper", mustEncode(t, "")))

	if out.State != StateFailed || out.Err.Kind != KindApplicationFailure {
		t.Fatalf("Invoke() = %s/%v, want application failure", out.State, out.Err)
	}
	if !errors.Is(out.Err, context.DeadlineExceeded) {
		t.Errorf("cause = %v, want a deadline error", out.Err.Err)
	}
	if want := "sleeper did not finish within 200ms"; out.Err.Message != want {
		t.Errorf("Message = %q, want %q", out.Err.Message, want)
	}
}

func TestPlan(t *testing.T) {
	t.Parallel()

	fl := &fakeLauncher{}
	var notes notifications
	c := New(Options{
		Registry: StaticRegistry{{Name: "vlc", Path: "/usr/bin/vlc"}},
		Launcher: fl,
		Notifier: &notes,
	})

	out := c.Plan(context.Background(), uri.Build("vlc", mustEncode(t, "hello world")))
	if out.State != StateResolved {
		t.Errorf("Plan() state = %s, want resolved", out.State)
	}
	if got, want := out.CommandLine(), "/usr/bin/vlc 'hello world'"; got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}

	failed := c.Plan(context.Background(), "ush://other?"+mustEncode(t, "x"))
	if failed.State != StateFailed {
		t.Errorf("Plan() of unknown app state = %s, want failed", failed.State)
	}

	if len(fl.calls) != 0 {
		t.Errorf("Plan() launched %+v", fl.calls)
	}
	if len(notes.messages) != 1 {
		t.Errorf("notifications = %q, want one for the failed plan", notes.messages)
	}
}

func TestRejectUsage(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	fl := &fakeLauncher{}
	var notes notifications
	c := New(Options{Registry: src, Launcher: fl, Notifier: &notes})

	cause := errors.New("accepts 1 arg(s), received 2")
	out := c.RejectUsage(context.Background(), cause)

	if out.State != StateFailed || out.Err.Kind != KindUsage {
		t.Fatalf("RejectUsage() = %s/%v", out.State, out.Err)
	}
	if !errors.Is(out.Err, cause) {
		t.Error("usage error does not wrap its cause")
	}
	if len(notes.messages) != 1 || notes.messages[0] != "Error: "+MsgUsage {
		t.Errorf("notifications = %q", notes.messages)
	}
	if src.loads != 0 || len(fl.calls) != 0 {
		t.Errorf("RejectUsage() did pipeline work: loads=%d launches=%d", src.loads, len(fl.calls))
	}
}

func TestInvoke_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := New(Options{
		Registry: StaticRegistry{{Name: "vlc", Path: "/usr/bin/vlc"}},
		Launcher: &fakeLauncher{result: &launcher.Result{Stdout: []byte("played")}},
		Notifier: notify.Func(func(string, string) error { return nil }),
		Logger:   logger,
		NewID:    func() string { return "fixed-id" },
	})

	out := c.Invoke(context.Background(), uri.Build("vlc", mustEncode(t, "x")))
	if out.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", out.ID)
	}

	logs := buf.String()
	for _, want := range []string{
		`"invocation":"fixed-id"`,
		`"to":"parsed"`,
		`"to":"decoded"`,
		`"to":"resolved"`,
		`"to":"launched"`,
		`"to":"succeeded"`,
		`"msg":"Executing command"`,
		`"stdout":"played"`,
	} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %s:\n%s", want, logs)
		}
	}
}

func TestNotifierFailureIsLoggedNotFatal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := New(Options{
		Notifier: notify.Func(func(string, string) error { return fmt.Errorf("no display") }),
		Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
	})

	out := c.Invoke(context.Background(), "nonsense")
	if out.State != StateFailed {
		t.Fatalf("state = %s, want failed", out.State)
	}
	if !strings.Contains(buf.String(), "notification failed") {
		t.Errorf("notifier error not logged: %s", buf.String())
	}
}

func TestStateAndKindStrings(t *testing.T) {
	t.Parallel()

	if StateResolved.String() != "resolved" || State(42).String() != "State(42)" {
		t.Error("State.String() mismatch")
	}
	if KindAppNotFound.String() != "app-not-found" || Kind(0).String() != "Kind(0)" {
		t.Error("Kind.String() mismatch")
	}
	if !StateFailed.Terminal() || StateLaunched.Terminal() {
		t.Error("Terminal() mismatch")
	}
}
