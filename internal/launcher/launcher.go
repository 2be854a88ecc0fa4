// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/invowk/ush/pkg/types"
)

var (
	// ErrStart is the sentinel error wrapped by StartError.
	ErrStart = errors.New("process could not be started")

	// ErrEmptyPath is returned when there is no executable to start.
	ErrEmptyPath = errors.New("executable path is empty")
)

type (
	// Launcher runs applications as child processes.
	Launcher struct {
		// Env is appended to the parent environment of every child.
		Env []string
		// Dir is the working directory of the child. Empty means inherit.
		Dir string
	}

	// Result is what a child that started produced.
	Result struct {
		ExitCode types.ExitCode
		Stdout   []byte
		Stderr   []byte
	}

	// StartError is returned when the child could not be started at all.
	StartError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrStart for errors.Is() compatibility.
func (e *StartError) Unwrap() []error { return []error{ErrStart, e.Err} }

// Success reports whether the child exited with status 0.
func (r *Result) Success() bool { return r.ExitCode.IsSuccess() }

// StdoutText returns stdout as text, replacing invalid UTF-8 sequences.
func (r *Result) StdoutText() string { return lossy(r.Stdout) }

// StderrText returns stderr as text, replacing invalid UTF-8 sequences.
func (r *Result) StderrText() string { return lossy(r.Stderr) }

// New returns a Launcher that passes the parent environment through unchanged.
func New() *Launcher { return &Launcher{} }

// Launch starts path with arg as its only argument and blocks until it exits.
// An empty arg passes no argument. A non-zero exit status is reported in the
// Result, not as an error; only failures to start produce a *StartError.
// Cancelling ctx kills the child.
func (l *Launcher) Launch(ctx context.Context, path, arg string) (*Result, error) {
	if path == "" {
		return nil, &StartError{Path: path, Err: ErrEmptyPath}
	}

	cmd := command(ctx, path, arg)
	cmd.Dir = l.Dir
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &StartError{Path: path, Err: err}
	}

	result := &Result{}
	err := cmd.Wait()
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("wait for %s: %w", path, err)
		}
		result.ExitCode = types.ExitCode(exitErr.ExitCode())
		if validateErr := result.ExitCode.Validate(); validateErr != nil {
			result.ExitCode = 1
		}
	}

	return result, nil
}

// CommandLine renders the invocation as a shell-quoted string for logs.
func CommandLine(path, arg string) string {
	if arg == "" {
		return quote(path)
	}
	return quote(path) + " " + quote(arg)
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
