// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invowk/ush/internal/issue"
	"github.com/invowk/ush/internal/launcher"
	"github.com/invowk/ush/internal/uri"
)

// User-facing messages.
const (
	MsgUsage            = "Invalid arguments. Usage: run <uri>"
	MsgMissingScheme    = "Input does not start with '" + uri.Prefix + "'"
	MsgIncorrectFormat  = "Input format is incorrect: " + uri.ReasonSeparator
	MsgDecompressFailed = "Failed to decompress gzip args"
)

// ErrInvocation is the sentinel matched by every *Error.
var ErrInvocation = errors.New("invocation failed")

// Error describes why an invocation failed. Message is the text shown to
// the user; Err is the underlying cause, if any.
type Error struct {
	Kind    Kind
	Stage   State
	Message string
	Err     error
}

// Error returns the user-facing message.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the cause and ErrInvocation.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvocation}
	}
	return []error{ErrInvocation, e.Err}
}

// Help returns the catalog page for the failure kind.
func (e *Error) Help() *issue.Issue {
	switch e.Kind {
	case KindUsage:
		return issue.Get(issue.UsageId)
	case KindMalformedURI:
		return issue.Get(issue.MalformedURIId)
	case KindEncoding:
		return issue.Get(issue.PayloadDecodeFailedId)
	case KindRegistryUnavailable:
		if page := issue.HelpFor(e.Err); page != nil {
			return page
		}
		return issue.Get(issue.ConfigLoadFailedId)
	case KindAppNotFound:
		return issue.Get(issue.AppNotFoundId)
	case KindAppPathNotConfigured:
		return issue.Get(issue.AppPathNotConfiguredId)
	case KindLaunchFailed:
		return issue.Get(issue.LaunchFailedId)
	case KindApplicationFailure:
		return issue.Get(issue.ApplicationFailedId)
	default:
		return nil
	}
}

// UsageError builds the failure reported when the command line has the wrong shape.
func UsageError(cause error) *Error {
	return &Error{Kind: KindUsage, Stage: StateStart, Message: MsgUsage, Err: cause}
}

func malformedError(err error) *Error {
	msg := MsgIncorrectFormat
	var me *uri.MalformedError
	if errors.As(err, &me) && me.Reason == uri.ReasonMissingScheme {
		msg = MsgMissingScheme
	}
	return &Error{Kind: KindMalformedURI, Stage: StateStart, Message: msg, Err: err}
}

func encodingError(err error) *Error {
	return &Error{Kind: KindEncoding, Stage: StateParsed, Message: MsgDecompressFailed, Err: err}
}

func registryError(err error) *Error {
	return &Error{
		Kind:    KindRegistryUnavailable,
		Stage:   StateDecoded,
		Message: "Failed to load app registry: " + err.Error(),
		Err:     err,
	}
}

func appNotFoundError(name string, err error) *Error {
	return &Error{
		Kind:    KindAppNotFound,
		Stage:   StateDecoded,
		Message: "No app found with name: " + name,
		Err:     err,
	}
}

func pathNotConfiguredError(name string) *Error {
	return &Error{
		Kind:    KindAppPathNotConfigured,
		Stage:   StateDecoded,
		Message: "No executable path configured for app: " + name,
	}
}

func launchError(path string, err error) *Error {
	cause := err
	var se *launcher.StartError
	if errors.As(err, &se) {
		cause = se.Err
	}
	return &Error{
		Kind:    KindLaunchFailed,
		Stage:   StateResolved,
		Message: fmt.Sprintf("Failed to launch %s: %v", path, cause),
		Err:     err,
	}
}

// applicationError reports a child that exited non-zero. The child's stderr
// is the message; when it wrote nothing the exit status is reported instead.
func applicationError(app string, res *launcher.Result, waitErr error) *Error {
	msg := strings.TrimRight(res.StderrText(), "\r\n")
	if strings.TrimSpace(msg) == "" {
		var te *TimeoutError
		switch {
		case errors.As(waitErr, &te):
			msg = te.Error()
		case waitErr != nil:
			msg = fmt.Sprintf("%s was stopped: %v", app, waitErr)
		case res.ExitCode.Signaled():
			msg = app + " was terminated by a signal"
		default:
			msg = fmt.Sprintf("%s exited with status %d", app, res.ExitCode)
		}
	}
	return &Error{
		Kind:    KindApplicationFailure,
		Stage:   StateLaunched,
		Message: msg,
		Err:     waitErr,
	}
}

// TimeoutError is the cause recorded when an app outlives the configured timeout.
type TimeoutError struct {
	App     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.App, e.Timeout)
}

// Unwrap returns context.DeadlineExceeded for errors.Is() compatibility.
func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }
