// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/invowk/ush/internal/issue"
	"github.com/invowk/ush/pkg/cueutil"
	"github.com/invowk/ush/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "ush"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LegacyFileName is the JSON document earlier releases kept next to the executable.
	LegacyFileName = "config.json"
	// EnvPrefix prefixes environment overrides, e.g. USH_UI_VERBOSE.
	EnvPrefix = "USH"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the ush configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions loads the configuration from the source Resolve picks,
// layered over defaults and under environment overrides.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, Source, error) {
	select {
	case <-ctx.Done():
		return nil, Source{}, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	src, err := Resolve(opts)
	if err != nil {
		return nil, Source{}, err
	}

	v := newViper()

	switch src.Kind {
	case SourceDefaults:
	case SourceLegacy:
		if err := loadLegacyIntoViper(v, src.Path); err != nil {
			return nil, src, loadError(src.Path, err,
				"Check that the file is valid JSON",
				"Run 'ush apps list' after fixing it; the next edit migrates it to CUE")
		}
	default:
		if err := loadCUEIntoViper(v, src.Path); err != nil {
			return nil, src, loadError(src.Path, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, src, loadError(src.Path, fmt.Errorf("failed to parse config: %w", err))
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, src, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(src.Path).
			WithSuggestion("Check USH_* environment variables and the configuration file").
			WithHelp(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, src, nil
}

// EnvConfig returns the defaults overlaid with USH_* environment variables,
// ignoring every file. It is the fallback when the configuration file cannot
// be loaded. Invalid environment values yield plain defaults.
func EnvConfig() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		return DefaultConfig()
	}
	if valid, _ := cfg.IsValid(); !valid {
		return DefaultConfig()
	}
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("apps", []any{})
	v.SetDefault("scheme_registered", defaults.SchemeRegistered)
	v.SetDefault("launch.max_payload_bytes", defaults.Launch.MaxPayloadBytes)
	v.SetDefault("launch.timeout", defaults.Launch.Timeout.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.notifier", string(defaults.UI.Notifier))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func loadError(path string, err error, suggestions ...string) error {
	ctx := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithHelp(issue.ConfigLoadFailedId)
	for _, s := range suggestions {
		ctx.WithSuggestion(s)
	}
	return ctx.Wrap(err).BuildError()
}

// loadCUEIntoViper validates a CUE file against the #Config schema and
// merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// loadLegacyIntoViper reads the JSON document written by earlier releases:
//
//	{"is_registry_added": true, "apps": [{"name": "vlc", "path": "..."}]}
func loadLegacyIntoViper(v *viper.Viper, path string) error {
	legacy := viper.New()
	legacy.SetConfigFile(path)
	legacy.SetConfigType("json")
	if err := legacy.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read legacy config: %w", err)
	}

	configMap := map[string]any{
		"scheme_registered": legacy.GetBool("is_registry_added"),
	}
	if legacy.IsSet("apps") {
		configMap["apps"] = legacy.Get("apps")
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge legacy config: %w", err)
	}
	return nil
}

// save writes cfg as CUE to path, creating the parent directory.
func save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+ConfigFileName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(GenerateCUE(cfg)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}
