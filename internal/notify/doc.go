// SPDX-License-Identifier: MPL-2.0

// Package notify surfaces messages to the person who clicked an ush:// link.
//
// Links are usually opened by a browser, so there is often no terminal to
// print to. The dialog notifier shows a native message box; the console
// notifier writes styled text to a stream. Auto picks between them depending
// on whether stderr is a terminal.
package notify
