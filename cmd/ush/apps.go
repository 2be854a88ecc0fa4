// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/ush/internal/config"
	"github.com/invowk/ush/internal/registry"
)

func newAppsCommand(app *App) *cobra.Command {
	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the app registry",
		Long: `Manage the app registry.

Each entry maps the name used in ush:// links to an executable path. When
several entries share a name, the first one wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	appsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.store().Load(cmd.Context())
			if err != nil {
				return err
			}
			listApps(app, reg)
			return nil
		},
	})

	appsCmd.AddCommand(&cobra.Command{
		Use:   "add <name> [path]",
		Short: "Register an application",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := registry.AppEntry{Name: args[0]}
			if len(args) == 2 {
				entry.Path = args[1]
			}

			var shadowed bool
			err := app.store().Update(cmd.Context(), func(cfg *config.Config) error {
				var err error
				cfg.Apps, shadowed, err = cfg.Apps.Add(entry)
				return err
			})
			if err != nil {
				return err
			}

			if shadowed {
				_, _ = fmt.Fprintf(app.stderr, "%s an app named %s is already registered; the earlier entry wins\n",
					WarningStyle.Render("Warning:"), CmdStyle.Render(entry.Name))
			}
			_, _ = fmt.Fprintf(app.stdout, "%s Added %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(entry.Name))
			return nil
		},
	})

	appsCmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove every entry with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			err := app.store().Update(cmd.Context(), func(cfg *config.Config) error {
				var removed int
				cfg.Apps, removed = cfg.Apps.Remove(name)
				if removed == 0 {
					return &registry.AppNotFoundError{Name: name}
				}
				return nil
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(app.stdout, "%s Removed %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(name))
			return nil
		},
	})

	appsCmd.AddCommand(&cobra.Command{
		Use:   "set-path <name> <path>",
		Short: "Set the executable path of a registered application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			err := app.store().Update(cmd.Context(), func(cfg *config.Config) error {
				var err error
				cfg.Apps, err = cfg.Apps.SetPath(name, path)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(app.stdout, "%s %s now runs %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(name), path)
			return nil
		},
	})

	appsCmd.AddCommand(newAppsExportCommand(app))
	appsCmd.AddCommand(newAppsImportCommand(app))

	return appsCmd
}

func newAppsExportCommand(app *App) *cobra.Command {
	var format string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the app registry to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := registry.ParseFormat(format)
			if err != nil {
				return err
			}
			reg, err := app.store().Load(cmd.Context())
			if err != nil {
				return err
			}
			return registry.Export(app.stdout, reg, f)
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", string(registry.FormatJSON), "output format ("+formatNames()+")")

	return exportCmd
}

func newAppsImportCommand(app *App) *cobra.Command {
	var (
		format  string
		replace bool
	)

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add entries from a JSON, TOML or YAML file",
		Long: `Add entries from a JSON, TOML or YAML file.

Imported entries replace the first existing entry of the same name and new
names are appended. With --replace the registry is replaced entirely. The
format is taken from the file extension unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var (
				f   registry.Format
				err error
			)
			if format != "" {
				f, err = registry.ParseFormat(format)
			} else {
				f, err = registry.FormatFromPath(path)
			}
			if err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer func() { _ = file.Close() }()

			imported, err := registry.Import(file, f)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			err = app.store().Update(cmd.Context(), func(cfg *config.Config) error {
				if replace {
					cfg.Apps = imported
				} else {
					cfg.Apps = cfg.Apps.Merge(imported)
				}
				return nil
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(app.stdout, "%s Imported %d entries from %s\n", SuccessStyle.Render("✓"), len(imported), path)
			return nil
		},
	}
	importCmd.Flags().StringVarP(&format, "format", "f", "", "input format ("+formatNames()+")")
	importCmd.Flags().BoolVar(&replace, "replace", false, "replace the registry instead of merging into it")

	return importCmd
}

func listApps(app *App, reg registry.Registry) {
	if len(reg) == 0 {
		_, _ = fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no apps registered)"))
		return
	}

	width := 0
	for _, e := range reg {
		width = max(width, len(e.Name))
	}
	for _, e := range reg {
		path := e.Path
		if path == "" {
			path = SubtitleStyle.Render("(no path)")
		}
		_, _ = fmt.Fprintf(app.stdout, "%s  %s\n", CmdStyle.Render(fmt.Sprintf("%-*s", width, e.Name)), path)
	}

	if dups := reg.Duplicates(); len(dups) > 0 {
		_, _ = fmt.Fprintf(app.stderr, "%s duplicate names, only the first entry is used: %s\n",
			WarningStyle.Render("Warning:"), strings.Join(dups, ", "))
	}
}

func formatNames() string {
	formats := registry.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
