// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"strconv"

	"mvdan.cc/sh/v3/syntax"
)

// quote renders s as a single POSIX shell word. Strings the shell cannot
// represent, such as those containing NUL, fall back to Go quoting.
func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}
