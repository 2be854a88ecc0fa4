// SPDX-License-Identifier: MPL-2.0

//go:build windows

package notify

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/invowk/ush/pkg/platform"
)

// MessageBox style flags.
const (
	mbOK              = 0x00000000
	mbIconError       = 0x00000010
	mbIconInformation = 0x00000040
	mbSetForeground   = 0x00010000
)

func currentGOOS() string { return platform.Windows }

// Notify shows a modal message box and waits for it to be dismissed.
func (d *Dialog) Notify(title, message string) error {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return d.fallback.Notify(title, message)
	}
	messagePtr, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return d.fallback.Notify(title, message)
	}

	var style uint32 = mbOK | mbSetForeground | mbIconInformation
	if title == TitleError {
		style = mbOK | mbSetForeground | mbIconError
	}

	if _, err := windows.MessageBox(0, messagePtr, titlePtr, style); err != nil {
		if fbErr := d.fallback.Notify(title, message); fbErr != nil {
			return fmt.Errorf("message box: %w", err)
		}
	}
	return nil
}
