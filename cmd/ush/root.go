// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/ush/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ush",
		Short: "Launch registered applications from ush:// links",
		Long: TitleStyle.Render("ush") + SubtitleStyle.Render(" - launch registered applications from ush:// links") + `

A ush:// link names an application and carries its command-line arguments,
gzip-compressed and base64-encoded. When the operating system opens a link
it runs 'ush run <link>', which looks the name up in the app registry and
starts the executable with the decoded arguments.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Register an application:   ush apps add vlc /usr/bin/vlc
  2. Associate the scheme:      ush scheme register
  3. Build a link:              ush encode vlc "--fullscreen movie.mkv"

` + SubtitleStyle.Render("Examples:") + `
  ush run 'ush://vlc?H4sI...'   Launch from a link
  ush apps list                 Show the app registry
  ush config show               Show current configuration`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return rejectUsage(cmd, app, fmt.Errorf("unknown command %q", args[0]))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is <config dir>/ush/config.cue)")

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newEncodeCommand(app))
	rootCmd.AddCommand(newAppsCommand(app))
	rootCmd.AddCommand(newSchemeCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(execute(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}

// execute runs the command tree with args and returns the exit status.
func execute(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return int(exitFailure)
}

// handleError prints errors that were not already reported.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		_, _ = fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(false))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors show their full cause chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
