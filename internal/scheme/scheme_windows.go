// SPDX-License-Identifier: MPL-2.0

//go:build windows

package scheme

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/invowk/ush/internal/issue"
	"github.com/invowk/ush/internal/uri"
)

const (
	classKey   = `Software\Classes\` + uri.Scheme
	commandKey = classKey + `\shell\open\command`

	// policyValue lets the user tick "Always allow" on the external-protocol prompt.
	policyValue = "ExternalProtocolDialogShowAlwaysOpenCheckbox"
)

// browserPolicyKeys are the HKEY_LOCAL_MACHINE policy keys for Chrome and Edge.
var browserPolicyKeys = []string{
	`SOFTWARE\Policies\Google\Chrome`,
	`SOFTWARE\Policies\Microsoft\Edge`,
}

// RegistryRegistrar registers the scheme in the Windows registry.
type RegistryRegistrar struct {
	// deleteValue removes a value under HKEY_LOCAL_MACHINE. Nil uses the registry.
	deleteValue func(path, name string) error
}

// New returns the registrar for the current platform.
func New() Registrar { return &RegistryRegistrar{} }

// Register writes the URL protocol class for the current user.
func (r *RegistryRegistrar) Register(_ context.Context, exe string, opts RegisterOptions) error {
	if err := writeClass(exe); err != nil {
		return registerError(`HKCU\`+classKey, err, "Check that the account can write to HKEY_CURRENT_USER")
	}

	if opts.BrowserPolicy {
		for _, key := range browserPolicyKeys {
			if err := setDWORD(registry.LOCAL_MACHINE, key, policyValue, 1); err != nil {
				return registerError(`HKLM\`+key, err, "Run 'ush scheme register --browser-policy' from an elevated prompt")
			}
		}
	}
	return nil
}

// Unregister deletes the class keys, deepest first, then clears the browser
// policy values Register may have set.
func (r *RegistryRegistrar) Unregister(context.Context) error {
	keys := []string{commandKey, classKey + `\shell\open`, classKey + `\shell`, classKey}
	for _, key := range keys {
		if err := registry.DeleteKey(registry.CURRENT_USER, key); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return issue.NewErrorContext().
				WithOperation("unregister " + uri.Scheme + " scheme").
				WithResource(`HKCU\` + key).
				Wrap(err).
				BuildError()
		}
	}
	r.clearBrowserPolicy()
	return nil
}

// clearBrowserPolicy removes policyValue from every browser policy key.
// Failures are ignored: the value may never have been set, and deleting it
// needs an elevated process.
func (r *RegistryRegistrar) clearBrowserPolicy() {
	del := r.deleteValue
	if del == nil {
		del = deleteLocalMachineValue
	}
	for _, key := range browserPolicyKeys {
		_ = del(key, policyValue)
	}
}

// Status reads the command registered for the scheme.
func (r *RegistryRegistrar) Status(context.Context) (Status, error) {
	st := Status{Location: `HKCU\` + commandKey}

	k, err := registry.OpenKey(registry.CURRENT_USER, commandKey, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("open %s: %w", st.Location, err)
	}
	defer func() { _ = k.Close() }()

	cmd, _, err := k.GetStringValue("")
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return Status{}, fmt.Errorf("read %s: %w", st.Location, err)
	}
	st.Registered = err == nil
	st.Command = cmd
	st.Default = st.Registered
	return st, nil
}

func writeClass(exe string) error {
	class, _, err := registry.CreateKey(registry.CURRENT_USER, classKey, registry.ALL_ACCESS)
	if err != nil {
		return err
	}
	defer func() { _ = class.Close() }()

	if err := class.SetStringValue("", "URL: USH Protocol"); err != nil {
		return err
	}
	if err := class.SetStringValue("URL Protocol", ""); err != nil {
		return err
	}

	cmd, _, err := registry.CreateKey(registry.CURRENT_USER, commandKey, registry.ALL_ACCESS)
	if err != nil {
		return err
	}
	defer func() { _ = cmd.Close() }()

	return cmd.SetStringValue("", CommandLine(exe))
}

func setDWORD(root registry.Key, path, name string, value uint32) error {
	k, _, err := registry.CreateKey(root, path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer func() { _ = k.Close() }()
	return k.SetDWordValue(name, value)
}

func deleteLocalMachineValue(path, name string) error {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer func() { _ = k.Close() }()
	return k.DeleteValue(name)
}

func registerError(resource string, err error, suggestion string) error {
	return issue.NewErrorContext().
		WithOperation("register " + uri.Scheme + " scheme").
		WithResource(resource).
		WithSuggestion(suggestion).
		WithHelp(issue.SchemeRegistrationFailedId).
		Wrap(err).
		BuildError()
}
