// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown help
// pages for the failures a user of ush can run into.
//
// An ActionableError names the operation that failed, the resource involved
// and what to try next. When it carries a catalog Id, the matching page can be
// rendered with glamour below the short message.
package issue
