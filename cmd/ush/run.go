// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/ush/internal/invocation"
)

func newRunCommand(app *App) *cobra.Command {
	var dryRun bool

	runCmd := &cobra.Command{
		Use:   "run <uri>",
		Short: "Launch the application named by a ush:// link",
		Long: `Launch the application named by a ush:// link.

This is the command the operating system runs when a link is opened. The
link must be the only argument. Failures are shown as a notification and
the command exits with status 1.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return rejectUsage(cmd, app, fmt.Errorf("expected 1 argument, got %d", len(args)))
			}

			ctrl, cfg := app.controller(cmd.Context())
			if dryRun {
				out := ctrl.Plan(cmd.Context(), args[0])
				if out.Err != nil {
					return failed(cmd, app, out.Err, app.verbose(cfg))
				}
				printPlan(app.stdout, out)
				return nil
			}

			out := ctrl.Invoke(cmd.Context(), args[0])
			if out.Err != nil {
				return failed(cmd, app, out.Err, app.verbose(cfg))
			}
			return nil
		},
	}
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve the link and print the command without launching it")
	runCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return rejectUsage(cmd, app, err)
	})

	return runCmd
}

// rejectUsage notifies a command-line shape error without running the pipeline.
func rejectUsage(cmd *cobra.Command, app *App, cause error) error {
	ctrl, cfg := app.controller(cmd.Context())
	out := ctrl.RejectUsage(cmd.Context(), cause)
	return failed(cmd, app, out.Err, app.verbose(cfg))
}

// failed prints the help page for e in verbose mode and ends the command.
func failed(cmd *cobra.Command, app *App, e *invocation.Error, verbose bool) error {
	if verbose {
		if page := e.Help(); page != nil {
			if rendered, err := page.Render("dark"); err == nil {
				_, _ = fmt.Fprint(app.stderr, rendered)
			}
		}
	}
	return reported(cmd)
}

func printPlan(w io.Writer, out invocation.Outcome) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("app:"), CmdStyle.Render(out.App))
	_, _ = fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("path:"), VerboseStyle.Render(out.Path))
	_, _ = fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("command:"), out.CommandLine())
}
