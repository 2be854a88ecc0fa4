// SPDX-License-Identifier: MPL-2.0

// Package scheme associates the ush:// URI scheme with the ush executable.
//
// On Windows the association lives under HKEY_CURRENT_USER\Software\Classes\ush
// and, optionally, Chrome and Edge policies are set so the browser offers to
// always open ush links without asking. On Linux and the BSDs a desktop entry
// is installed in $XDG_DATA_HOME/applications and made the default handler
// for x-scheme-handler/ush with xdg-mime. Other platforms report
// ErrUnsupported.
package scheme
