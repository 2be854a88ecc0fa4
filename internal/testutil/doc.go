// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include working directory and environment variable management
// (MustChdir, MustSetenv), file creation (MustWriteFile), per-test user
// directories (IsolateUserDirs) and a re-executable helper
// process (RunHelperProcess) that stands in for the applications an ush://
// link launches.
package testutil
