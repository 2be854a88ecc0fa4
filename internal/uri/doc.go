// SPDX-License-Identifier: MPL-2.0

// Package uri parses and builds ush:// invocation links.
//
// The wire format is
//
//	ush://<app-name>[/]?<encoded-payload>[/]
//
// Exactly one '?' separates the application name from the payload. Browsers
// commonly append a trailing slash, so trailing '/' characters are stripped
// from both segments. Neither segment is otherwise validated; the application
// name is matched verbatim against the registry later.
package uri
