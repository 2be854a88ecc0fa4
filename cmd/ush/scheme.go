// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/ush/internal/config"
	"github.com/invowk/ush/internal/scheme"
	"github.com/invowk/ush/internal/uri"
)

func newSchemeCommand(app *App) *cobra.Command {
	schemeCmd := &cobra.Command{
		Use:   "scheme",
		Short: "Manage the " + uri.Prefix + " association",
		Long: `Manage the ` + uri.Prefix + ` association.

On Windows the scheme is registered under HKEY_CURRENT_USER\Software\Classes.
On Linux and the BSDs a desktop entry is installed and set as the default
handler with xdg-mime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var (
		executable    string
		browserPolicy bool
	)
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Open " + uri.Prefix + " links with this executable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := resolveExecutable(executable)
			if err != nil {
				return err
			}
			opts := scheme.RegisterOptions{BrowserPolicy: browserPolicy}
			if err := app.Registrar.Register(cmd.Context(), exe, opts); err != nil {
				return err
			}
			recordRegistration(cmd.Context(), app, true)
			_, _ = fmt.Fprintf(app.stdout, "%s %s links now open with %s\n",
				SuccessStyle.Render("✓"), uri.Prefix, VerboseStyle.Render(exe))
			return nil
		},
	}
	registerCmd.Flags().StringVar(&executable, "executable", "", "executable to register (default is the running ush)")
	registerCmd.Flags().BoolVar(&browserPolicy, "browser-policy", false, "let Chrome and Edge always open ush links without asking (Windows, needs administrator rights)")

	schemeCmd.AddCommand(registerCmd)

	schemeCmd.AddCommand(&cobra.Command{
		Use:   "unregister",
		Short: "Remove the " + uri.Prefix + " association",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Registrar.Unregister(cmd.Context()); err != nil {
				return err
			}
			recordRegistration(cmd.Context(), app, false)
			_, _ = fmt.Fprintf(app.stdout, "%s %s association removed\n", SuccessStyle.Render("✓"), uri.Prefix)
			return nil
		},
	})

	schemeCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether " + uri.Prefix + " links open with ush",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Registrar.Status(cmd.Context())
			if err != nil {
				return err
			}
			printSchemeStatus(app, st)
			return nil
		},
	})

	return schemeCmd
}

func resolveExecutable(override string) (string, error) {
	exe := override
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return "", fmt.Errorf("locate ush executable: %w", err)
		}
	}
	exe, err := filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("locate ush executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// recordRegistration stores scheme_registered. Failures are logged, not returned.
func recordRegistration(ctx context.Context, app *App, registered bool) {
	err := app.store().Update(ctx, func(cfg *config.Config) error {
		cfg.SchemeRegistered = registered
		return nil
	})
	if err != nil {
		app.logger(nil).Warn("failed to record scheme registration", "error", err)
	}
}

func printSchemeStatus(app *App, st scheme.Status) {
	label := CmdStyle.Render
	if !st.Registered {
		_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", label("registered"), WarningStyle.Render("no"))
		_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", label("location"), st.Location)
		return
	}
	_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", label("registered"), SuccessStyle.Render("yes"))
	_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", label("location"), st.Location)
	_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", label("command"), st.Command)
	if !st.Default {
		_, _ = fmt.Fprintf(app.stdout, "%s another handler is the system default for %s\n",
			WarningStyle.Render("Warning:"), uri.Prefix)
	}
}
