// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for ush.
//
// The root command is run through fang. 'ush run <link>' is what the
// operating system executes when a ush:// link is opened; the remaining
// commands manage the app registry, the scheme association and the
// configuration file.
package cmd
