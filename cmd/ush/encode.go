// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/ush/internal/payload"
	"github.com/invowk/ush/internal/uri"
)

func newEncodeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <app> <arguments>",
		Short: "Build a ush:// link for an application and argument string",
		Long: `Build a ush:// link for an application and argument string.

The argument string is passed to the application verbatim when the link is
opened, so quote it as one shell word.`,
		Example: `  ush encode vlc "--fullscreen /media/movie.mkv"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, arguments := args[0], args[1]
			if name == "" || strings.ContainsAny(name, "?/") {
				return fmt.Errorf("invalid app name %q: must be non-empty and contain neither '?' nor '/'", name)
			}

			encoded, err := payload.Encode(arguments)
			if err != nil {
				return fmt.Errorf("encode arguments: %w", err)
			}
			// Parse trims trailing slashes, so a final '/' is percent-escaped.
			if trimmed, ok := strings.CutSuffix(encoded, "/"); ok {
				encoded = trimmed + "%2F"
			}
			_, err = fmt.Fprintln(app.stdout, uri.Build(name, encoded))
			return err
		},
	}
}
