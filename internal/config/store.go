// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/invowk/ush/internal/registry"
)

// RegistryStore reads and writes the app registry section of the
// configuration document.
type RegistryStore struct {
	provider Provider
	opts     LoadOptions
}

// NewRegistryStore returns a store that loads and saves through provider.
func NewRegistryStore(provider Provider, opts LoadOptions) *RegistryStore {
	return &RegistryStore{provider: provider, opts: opts}
}

// Load returns the registry in document order.
func (s *RegistryStore) Load(ctx context.Context) (registry.Registry, error) {
	cfg, err := s.provider.Load(ctx, s.opts)
	if err != nil {
		return nil, err
	}
	return cfg.Apps, nil
}

// Save replaces the registry, leaving every other setting as it was loaded.
func (s *RegistryStore) Save(ctx context.Context, reg registry.Registry) error {
	return s.Update(ctx, func(cfg *Config) error {
		cfg.Apps = reg
		return nil
	})
}

// Update loads the configuration, applies fn and saves the result. Nothing
// is written when fn returns an error.
func (s *RegistryStore) Update(ctx context.Context, fn func(*Config) error) error {
	cfg, err := s.provider.Load(ctx, s.opts)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return s.provider.Save(ctx, s.opts, cfg)
}
