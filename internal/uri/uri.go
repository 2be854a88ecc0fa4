// SPDX-License-Identifier: MPL-2.0

package uri

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Scheme is the URI scheme registered with the operating system.
	Scheme = "ush"
	// Prefix is the literal every invocation link starts with.
	Prefix = Scheme + "://"

	// ReasonMissingScheme is reported when the input lacks Prefix.
	ReasonMissingScheme = "missing scheme"
	// ReasonSeparator is reported when the input does not split into exactly two segments.
	ReasonSeparator = "expected exactly one '?' separator"
)

// ErrMalformed is the sentinel error wrapped by MalformedError.
var ErrMalformed = errors.New("malformed uri")

type (
	// Invocation is the parsed form of an invocation link.
	Invocation struct {
		// App is the registry name of the application to launch.
		App string
		// Payload is the still-encoded argument blob.
		Payload string
	}

	// MalformedError is returned when a link does not have the expected shape.
	MalformedError struct {
		Reason string
		Input  string
	}
)

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed uri %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrMalformed for errors.Is() compatibility.
func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Parse splits raw into an application name and an encoded payload.
func Parse(raw string) (Invocation, error) {
	rest, ok := strings.CutPrefix(raw, Prefix)
	if !ok {
		return Invocation{}, &MalformedError{Reason: ReasonMissingScheme, Input: raw}
	}

	parts := strings.Split(rest, "?")
	if len(parts) != 2 {
		return Invocation{}, &MalformedError{Reason: ReasonSeparator, Input: raw}
	}

	return Invocation{
		App:     strings.TrimRight(parts[0], "/"),
		Payload: strings.TrimRight(parts[1], "/"),
	}, nil
}

// Build returns the link that Parse maps back to {app, payload}.
func Build(app, payload string) string {
	return Prefix + app + "?" + payload
}

// String returns the link form of the invocation.
func (i Invocation) String() string { return Build(i.App, i.Payload) }
