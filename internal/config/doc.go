// SPDX-License-Identifier: MPL-2.0

// Package config handles ush configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the first of: the file given with --config,
// <ConfigDir>/config.cue, ./config.cue, and the legacy config.json stored next
// to the executable. ConfigDir is $XDG_CONFIG_HOME/ush (default ~/.config/ush)
// on Linux, ~/Library/Application Support/ush on macOS and %APPDATA%\ush on
// Windows. Values can be overridden with USH_-prefixed environment variables,
// for example USH_UI_NOTIFIER=console.
//
// CUE documents are validated against an embedded schema (config_schema.cue).
// Saving always writes CUE, so a legacy JSON file is migrated the first time
// the registry is edited.
package config
