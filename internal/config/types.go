// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/invowk/ush/internal/registry"
)

const (
	// NotifierAuto shows dialogs unless stderr is a terminal.
	NotifierAuto NotifierMode = "auto"
	// NotifierDialog always shows a desktop dialog.
	NotifierDialog NotifierMode = "dialog"
	// NotifierConsole always writes to stderr.
	NotifierConsole NotifierMode = "console"

	// DefaultMaxPayloadBytes is the default decoded payload ceiling (1 MiB).
	DefaultMaxPayloadBytes int64 = 1 << 20
)

var (
	// ErrInvalidNotifierMode is returned when a NotifierMode value is not recognized.
	ErrInvalidNotifierMode = errors.New("invalid notifier mode")
	// ErrInvalidLaunchConfig is the sentinel error wrapped by InvalidLaunchConfigError.
	ErrInvalidLaunchConfig = errors.New("invalid launch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// NotifierMode selects how failures are shown to the user.
	// Defined locally to avoid coupling config to internal/notify.
	NotifierMode string

	// InvalidNotifierModeError is returned when a NotifierMode value is not recognized.
	InvalidNotifierModeError struct {
		Value NotifierMode
	}

	// InvalidLaunchConfigError is returned when a LaunchConfig has invalid fields.
	InvalidLaunchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It collects field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Apps is the registry consulted when a link names an application.
		Apps registry.Registry `json:"apps" mapstructure:"apps"`
		// SchemeRegistered records that 'ush scheme register' succeeded.
		SchemeRegistered bool `json:"scheme_registered" mapstructure:"scheme_registered"`
		// Launch configures how applications are started.
		Launch LaunchConfig `json:"launch" mapstructure:"launch"`
		// UI configures notifications and logging.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// LaunchConfig configures payload decoding and process launch.
	LaunchConfig struct {
		// MaxPayloadBytes caps the decompressed payload. 0 disables the cap.
		MaxPayloadBytes int64 `json:"max_payload_bytes" mapstructure:"max_payload_bytes"`
		// Timeout kills the application after this long. 0 waits indefinitely.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and help pages after failures.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Notifier selects dialog or console notifications.
		Notifier NotifierMode `json:"notifier" mapstructure:"notifier"`
	}
)

// Error implements the error interface for InvalidNotifierModeError.
func (e *InvalidNotifierModeError) Error() string {
	return fmt.Sprintf("invalid notifier mode %q (valid: auto, dialog, console)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidNotifierModeError) Unwrap() error { return ErrInvalidNotifierMode }

// String returns the string representation of the NotifierMode.
func (m NotifierMode) String() string { return string(m) }

// IsValid returns whether the NotifierMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m NotifierMode) IsValid() (bool, []error) {
	switch m {
	case NotifierAuto, NotifierDialog, NotifierConsole:
		return true, nil
	default:
		return false, []error{&InvalidNotifierModeError{Value: m}}
	}
}

// IsValid returns whether the LaunchConfig has valid fields.
func (c LaunchConfig) IsValid() (bool, []error) {
	var errs []error
	if c.MaxPayloadBytes < 0 {
		errs = append(errs, fmt.Errorf("max_payload_bytes must not be negative, got %d", c.MaxPayloadBytes))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidLaunchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLaunchConfigError.
func (e *InvalidLaunchConfigError) Error() string {
	return fmt.Sprintf("invalid launch config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidLaunchConfig for errors.Is() compatibility.
func (e *InvalidLaunchConfigError) Unwrap() error { return ErrInvalidLaunchConfig }

// IsValid returns whether the Config has valid fields. Apps are not
// checked: duplicates resolve first-match-wins and an entry with an empty
// name, as older releases wrote for a blank row, is carried but never
// matched by a link.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Launch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Notifier.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Apps:             registry.Registry{},
		SchemeRegistered: false,
		Launch: LaunchConfig{
			MaxPayloadBytes: DefaultMaxPayloadBytes,
			Timeout:         0,
		},
		UI: UIConfig{
			Verbose:  false,
			Notifier: NotifierAuto,
		},
	}
}
