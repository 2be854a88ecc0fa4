// SPDX-License-Identifier: MPL-2.0

// Package launcher starts the application named by an ush:// link and waits
// for it to exit.
//
// The decoded argument text is handed to the child as a single, unparsed
// argument. On Windows it is appended verbatim to the command line so the
// application performs its own tokenisation; elsewhere it becomes argv[1].
package launcher
