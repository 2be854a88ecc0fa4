// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	infoTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	messageStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

// Console writes notifications to a stream.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes the title on its own line followed by the indented message.
func (c *Console) Notify(title, message string) error {
	style := infoTitleStyle
	if title == TitleError {
		style = errorTitleStyle
	}
	_, err := fmt.Fprintf(c.w, "%s\n%s\n", style.Render(title), messageStyle.Render(message))
	return err
}
