// SPDX-License-Identifier: MPL-2.0

package invocation

import "fmt"

// Pipeline states, in order.
const (
	StateStart State = iota
	StateParsed
	StateDecoded
	StateResolved
	StateLaunched
	StateSucceeded
	StateFailed
)

// Failure kinds.
const (
	KindUsage Kind = iota + 1
	KindMalformedURI
	KindEncoding
	KindRegistryUnavailable
	KindAppNotFound
	KindAppPathNotConfigured
	KindLaunchFailed
	KindApplicationFailure
)

type (
	// State is a step of the invocation pipeline.
	State int

	// Kind classifies a failed invocation.
	Kind int
)

var (
	stateNames = [...]string{
		StateStart:     "start",
		StateParsed:    "parsed",
		StateDecoded:   "decoded",
		StateResolved:  "resolved",
		StateLaunched:  "launched",
		StateSucceeded: "succeeded",
		StateFailed:    "failed",
	}

	kindNames = map[Kind]string{
		KindUsage:                "usage",
		KindMalformedURI:         "malformed-uri",
		KindEncoding:             "encoding",
		KindRegistryUnavailable:  "registry-unavailable",
		KindAppNotFound:          "app-not-found",
		KindAppPathNotConfigured: "app-path-not-configured",
		KindLaunchFailed:         "launch-failed",
		KindApplicationFailure:   "application-failure",
	}
)

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool { return s == StateSucceeded || s == StateFailed }

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
