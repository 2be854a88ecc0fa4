// SPDX-License-Identifier: MPL-2.0

//go:build windows

package scheme

import (
	"reflect"
	"testing"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

func TestClearBrowserPolicy_IgnoresFailures(t *testing.T) {
	t.Parallel()

	var deleted []string
	r := &RegistryRegistrar{deleteValue: func(path, name string) error {
		if name != policyValue {
			t.Errorf("deleteValue(%q, %q), want value %q", path, name, policyValue)
		}
		deleted = append(deleted, path)
		switch len(deleted) {
		case 1:
			return windows.ERROR_ACCESS_DENIED
		default:
			return registry.ErrNotExist
		}
	}}

	r.clearBrowserPolicy()

	if !reflect.DeepEqual(deleted, browserPolicyKeys) {
		t.Errorf("deleted from %q, want %q", deleted, browserPolicyKeys)
	}
}
