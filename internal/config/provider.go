// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invowk/ush/internal/issue"
)

const (
	// SourceFlag is a file named with --config.
	SourceFlag SourceKind = "flag"
	// SourceUser is <ConfigDir>/config.cue.
	SourceUser SourceKind = "user"
	// SourceLegacy is config.json next to the executable.
	SourceLegacy SourceKind = "legacy"
	// SourceDefaults means no file was found.
	SourceDefaults SourceKind = "defaults"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from (and saving to) a specific file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
		// ExecutableDir is where the legacy config.json is looked for.
		// Empty means the directory of the running executable.
		ExecutableDir string
	}

	// SourceKind says where a configuration came from.
	SourceKind string

	// Source is the configuration file chosen for a load.
	Source struct {
		Kind SourceKind
		// Path is empty for SourceDefaults.
		Path string
	}

	// Provider loads and saves configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		Save(ctx context.Context, opts LoadOptions, cfg *Config) error
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider backed by the filesystem.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as CUE to SavePath(opts).
func (p *fileProvider) Save(ctx context.Context, opts LoadOptions, cfg *Config) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save config canceled: %w", err)
	}

	path, err := SavePath(opts)
	if err != nil {
		return err
	}
	if err := save(path, cfg); err != nil {
		return issue.NewErrorContext().
			WithOperation("save configuration").
			WithResource(path).
			WithSuggestion("Check that the directory is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// Resolve reports which file a load with opts reads. A --config path that
// does not exist is an error; every other missing file falls through to the
// next candidate and finally to defaults. The working directory is never
// searched.
func Resolve(opts LoadOptions) (Source, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return Source{}, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'ush config init --config <path>' to create it").
				WithHelp(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return Source{Kind: SourceFlag, Path: opts.ConfigFilePath}, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return Source{}, err
	}
	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return Source{Kind: SourceUser, Path: p}, nil
	}

	if exeDir := executableDir(opts.ExecutableDir); exeDir != "" {
		if p := filepath.Join(exeDir, LegacyFileName); fileExists(p) {
			return Source{Kind: SourceLegacy, Path: p}, nil
		}
	}

	return Source{Kind: SourceDefaults}, nil
}

// SavePath returns the file a save with opts writes: the --config path when
// set, otherwise <ConfigDir>/config.cue.
func SavePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// CreateDefaultConfig writes the default configuration to SavePath(opts)
// unless a file already exists there. It returns the path and whether it
// wrote the file.
func CreateDefaultConfig(opts LoadOptions) (string, bool, error) {
	path, err := SavePath(opts)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := save(path, DefaultConfig()); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

func executableDir(override string) string {
	if override != "" {
		return override
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
