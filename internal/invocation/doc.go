// SPDX-License-Identifier: MPL-2.0

// Package invocation runs an ush:// link through its stages: parse the link,
// decode the payload, resolve the app in the registry and launch it.
//
// Each run moves through Start, Parsed, Decoded, Resolved and Launched and
// ends in Succeeded or Failed. Nothing is retried. Every failure is reported
// through the Notifier exactly once and recorded in the returned Outcome;
// success is silent apart from logging. The Controller keeps no state
// between runs, so concurrent and repeated invocations are independent.
package invocation
