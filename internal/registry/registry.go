// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrAppNotFound is the sentinel error wrapped by AppNotFoundError.
	ErrAppNotFound = errors.New("app not found")

	// ErrInvalidName is returned when an entry would be stored without a name.
	ErrInvalidName = errors.New("app name must not be empty")
)

type (
	// AppEntry maps an application name to the executable that serves it.
	// An empty Path means no executable has been configured yet.
	AppEntry struct {
		Name string `json:"name" mapstructure:"name" toml:"name" yaml:"name"`
		Path string `json:"path,omitempty" mapstructure:"path" toml:"path,omitempty" yaml:"path,omitempty"`
	}

	// Registry is the ordered list of known applications.
	Registry []AppEntry

	// AppNotFoundError is returned when no entry carries the requested name.
	AppNotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *AppNotFoundError) Error() string {
	return fmt.Sprintf("no app found with name %q", e.Name)
}

// Unwrap returns ErrAppNotFound for errors.Is() compatibility.
func (e *AppNotFoundError) Unwrap() error { return ErrAppNotFound }

// Lookup returns the path of the first entry whose name equals name exactly.
// A matching entry with an empty path yields "" and no error. Entries with
// an empty name are never matched.
func (r Registry) Lookup(name string) (string, error) {
	if entry, ok := r.Find(name); ok {
		return entry.Path, nil
	}
	return "", &AppNotFoundError{Name: name}
}

// Find returns the first entry named name.
func (r Registry) Find(name string) (AppEntry, bool) {
	i := r.index(name)
	if i < 0 {
		return AppEntry{}, false
	}
	return r[i], true
}

// Add returns a copy of the registry with entry appended. It reports whether
// an entry with the same name already existed; the new entry is appended
// regardless and will be shadowed by the earlier one.
func (r Registry) Add(entry AppEntry) (Registry, bool, error) {
	if entry.Name == "" {
		return r, false, ErrInvalidName
	}
	shadowed := r.index(entry.Name) >= 0
	out := slices.Clone(r)
	return append(out, entry), shadowed, nil
}

// Remove returns a copy of the registry without any entry named name, and the
// number of entries removed.
func (r Registry) Remove(name string) (Registry, int) {
	out := slices.DeleteFunc(slices.Clone(r), func(e AppEntry) bool {
		return e.Name == name
	})
	return out, len(r) - len(out)
}

// SetPath returns a copy of the registry with the path of the first entry
// named name replaced.
func (r Registry) SetPath(name, path string) (Registry, error) {
	i := r.index(name)
	if i < 0 {
		return r, &AppNotFoundError{Name: name}
	}
	out := slices.Clone(r)
	out[i].Path = path
	return out, nil
}

// Duplicates returns the names that appear more than once, in order of first
// appearance.
func (r Registry) Duplicates() []string {
	seen := make(map[string]int, len(r))
	var dups []string
	for _, e := range r {
		if e.Name == "" {
			continue
		}
		seen[e.Name]++
		if seen[e.Name] == 2 {
			dups = append(dups, e.Name)
		}
	}
	return dups
}

// Names returns the entry names in registry order.
func (r Registry) Names() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.Name
	}
	return names
}

// Merge returns a copy of r where every entry of other replaces the first
// entry of the same name, and entries with new names are appended.
func (r Registry) Merge(other Registry) Registry {
	out := slices.Clone(r)
	for _, e := range other {
		if i := out.index(e.Name); i >= 0 {
			out[i] = e
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r Registry) index(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(r, func(e AppEntry) bool { return e.Name == name })
}
