// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"slices"
	"testing"
)

func TestRunHelper_ExitCodes(t *testing.T) {
	tests := []struct {
		mode string
		want int
	}{
		{mode: HelperFail, want: 3},
		{mode: HelperFailSilent, want: 4},
		{mode: HelperBadStderr, want: 2},
		{mode: "no-such-mode", want: 125},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := RunHelper(tt.mode, nil); got != tt.want {
				t.Errorf("RunHelper(%q) = %d, want %d", tt.mode, got, tt.want)
			}
		})
	}
}

func TestHelperEnv(t *testing.T) {
	t.Parallel()

	if got, want := HelperEnv(HelperEcho), []string{"USH_TEST_HELPER=echo"}; !slices.Equal(got, want) {
		t.Errorf("HelperEnv() = %v, want %v", got, want)
	}
}
