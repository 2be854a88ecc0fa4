// SPDX-License-Identifier: MPL-2.0

// Package registry holds the ordered name-to-executable mapping consulted when
// an ush:// link names an application.
//
// Entries are kept in insertion order and names are not required to be
// unique: lookups return the first exact match. The pipeline only reads a
// Registry; editing happens through the apps commands, which persist the
// result through the config package.
package registry
