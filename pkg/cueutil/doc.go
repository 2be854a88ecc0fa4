// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the CUE schema-validation flow used by the config package:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode into a plain Go map that viper can merge
//
// Errors carry JSON-path style locations (apps[1].path) so users can find the
// offending field in their configuration file.
package cueutil
