// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/ush/internal/config"
	"github.com/invowk/ush/internal/invocation"
	"github.com/invowk/ush/internal/notify"
	"github.com/invowk/ush/internal/payload"
	"github.com/invowk/ush/internal/scheme"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches configuration, notifications and the
	// scheme registrar through it.
	App struct {
		Config    config.Provider
		Registrar scheme.Registrar
		Launcher  invocation.Launcher
		notifier  notify.Notifier
		stdout    io.Writer
		stderr    io.Writer
		flags     rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		Registrar scheme.Registrar
		Launcher  invocation.Launcher
		// Notifier overrides the notifier selected by ui.notifier.
		Notifier notify.Notifier
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// rootFlags holds the persistent flags of the root command.
	rootFlags struct {
		configFile string
		verbose    bool
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		Registrar: deps.Registrar,
		Launcher:  deps.Launcher,
		notifier:  deps.Notifier,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Registrar == nil {
		app.Registrar = scheme.New()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configFile}
}

func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, a.loadOptions())
}

func (a *App) store() *config.RegistryStore {
	return config.NewRegistryStore(a.Config, a.loadOptions())
}

func (a *App) verbose(cfg *config.Config) bool {
	return a.flags.verbose || (cfg != nil && cfg.UI.Verbose)
}

func (a *App) logger(cfg *config.Config) *slog.Logger {
	return newLogger(a.stderr, a.verbose(cfg))
}

// notifierFor selects the notifier named by ui.notifier. An unknown name
// selects the console.
func (a *App) notifierFor(cfg *config.Config) notify.Notifier {
	if a.notifier != nil {
		return a.notifier
	}
	f, ok := a.stderr.(*os.File)
	if !ok {
		return notify.NewConsole(a.stderr)
	}
	mode, err := notify.ParseMode(string(cfg.UI.Notifier))
	if err != nil {
		a.logger(cfg).Warn("falling back to console notifications", "error", err)
		return notify.NewConsole(a.stderr)
	}
	return notify.New(mode, f)
}

// controller builds the invocation pipeline. When the configuration fails
// to load, settings come from the environment alone and the registry read
// at the resolve stage reports the failure through the notifier.
func (a *App) controller(ctx context.Context) (*invocation.Controller, *config.Config) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		cfg = config.EnvConfig()
	}
	return invocation.New(invocation.Options{
		Registry: a.store(),
		Launcher: a.Launcher,
		Notifier: a.notifierFor(cfg),
		Decoder:  payload.NewCodec(cfg.Launch.MaxPayloadBytes),
		Logger:   a.logger(cfg),
		Timeout:  cfg.Launch.Timeout,
	}), cfg
}
