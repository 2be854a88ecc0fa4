// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/literal"
)

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// ush configuration file\n")
	sb.WriteString("// Edit with 'ush apps' or by hand; validated on every load.\n\n")

	if len(cfg.Apps) == 0 {
		sb.WriteString("apps: []\n")
	} else {
		sb.WriteString("apps: [\n")
		for _, app := range cfg.Apps {
			if app.Path == "" {
				fmt.Fprintf(&sb, "\t{name: %s},\n", quote(app.Name))
				continue
			}
			fmt.Fprintf(&sb, "\t{name: %s, path: %s},\n", quote(app.Name), quote(app.Path))
		}
		sb.WriteString("]\n")
	}

	fmt.Fprintf(&sb, "\nscheme_registered: %v\n", cfg.SchemeRegistered)

	sb.WriteString("\nlaunch: {\n")
	fmt.Fprintf(&sb, "\tmax_payload_bytes: %d\n", cfg.Launch.MaxPayloadBytes)
	fmt.Fprintf(&sb, "\ttimeout: %s\n", quote(cfg.Launch.Timeout.String()))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tnotifier: %s // auto | dialog | console\n", quote(string(cfg.UI.Notifier)))
	sb.WriteString("}\n")

	return sb.String()
}

func quote(s string) string {
	return literal.String.Quote(s)
}
