// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared between the launcher and the CLI layer.
package types
