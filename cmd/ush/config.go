// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/ush/internal/config"
	"github.com/invowk/ush/internal/issue"
)

// newConfigCommand creates the `ush config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ush configuration",
		Long: `Manage ush configuration.

Configuration is stored in:
  - Linux: ~/.config/ush/config.cue
  - macOS: ~/Library/Application Support/ush/config.cue
  - Windows: %APPDATA%\ush\config.cue

A config.json written by earlier releases next to the executable is still
read, and is replaced by config.cue the first time the registry changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(app.loadOptions())
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if !created {
				_, _ = fmt.Fprintf(app.stdout, "Configuration already exists at %s\n", path)
				return nil
			}
			_, _ = fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := config.Resolve(app.loadOptions())
			if err != nil {
				return err
			}
			savePath, err := config.SavePath(app.loadOptions())
			if err != nil {
				return err
			}
			loaded := src.Path
			if loaded == "" {
				loaded = "(defaults)"
			}
			_, _ = fmt.Fprintf(app.stdout, "Loaded from: %s\n", loaded)
			_, _ = fmt.Fprintf(app.stdout, "Saved to: %s\n", savePath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		page := issue.HelpFor(err)
		if page == nil {
			page = issue.Get(issue.ConfigLoadFailedId)
		}
		if rendered, renderErr := page.Render("dark"); renderErr == nil {
			_, _ = fmt.Fprint(app.stderr, rendered)
		}
		_, _ = fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, app.flags.verbose))
		return reported(cmd)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	_, _ = fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	_, _ = fmt.Fprintln(w)

	if src, srcErr := config.Resolve(app.loadOptions()); srcErr == nil && src.Path != "" {
		_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", keyStyle.Render("Config file"), src.Path, src.Kind)
	} else {
		_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "%s:\n", keyStyle.Render("apps"))
	if len(cfg.Apps) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, e := range cfg.Apps {
		path := e.Path
		if path == "" {
			path = SubtitleStyle.Render("(no path)")
		}
		_, _ = fmt.Fprintf(w, "  - %s: %s\n", valueStyle.Render(e.Name), path)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("scheme_registered"), valueStyle.Render(fmt.Sprint(cfg.SchemeRegistered)))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s:\n", keyStyle.Render("launch"))
	_, _ = fmt.Fprintf(w, "  max_payload_bytes: %s\n", valueStyle.Render(fmt.Sprint(cfg.Launch.MaxPayloadBytes)))
	_, _ = fmt.Fprintf(w, "  timeout: %s\n", valueStyle.Render(cfg.Launch.Timeout.String()))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	_, _ = fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	_, _ = fmt.Fprintf(w, "  notifier: %s\n", valueStyle.Render(cfg.UI.Notifier.String()))

	return nil
}
