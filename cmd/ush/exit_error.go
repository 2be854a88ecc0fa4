// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/ush/pkg/types"
)

// exitFailure is the status of a failed invocation.
const exitFailure types.ExitCode = 1

// ExitError carries an exit code out of a RunE handler. A nil Err means the
// failure has already been shown to the user and nothing more is printed.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// reported ends a command whose failure was already notified.
func reported(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: exitFailure}
}
