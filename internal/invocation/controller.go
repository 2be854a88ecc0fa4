// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/invowk/ush/internal/launcher"
	"github.com/invowk/ush/internal/notify"
	"github.com/invowk/ush/internal/payload"
	"github.com/invowk/ush/internal/registry"
	"github.com/invowk/ush/internal/uri"
)

type (
	// RegistrySource supplies the registry. It is read once per invocation.
	RegistrySource interface {
		Load(ctx context.Context) (registry.Registry, error)
	}

	// Launcher starts an executable with one raw argument.
	Launcher interface {
		Launch(ctx context.Context, path, arg string) (*launcher.Result, error)
	}

	// Decoder turns an encoded payload into argument text.
	Decoder interface {
		Decode(encoded string) (string, error)
	}

	// StaticRegistry is a RegistrySource over a fixed registry.
	StaticRegistry registry.Registry

	// Options configures a Controller. Registry is required; every other
	// field has a default.
	Options struct {
		Registry RegistrySource
		// Launcher defaults to launcher.New().
		Launcher Launcher
		// Notifier defaults to a console notifier on stderr.
		Notifier notify.Notifier
		// Decoder defaults to a payload codec with the default size limit.
		Decoder Decoder
		// Logger defaults to a logger that discards everything.
		Logger *slog.Logger
		// Timeout bounds how long a launched app may run. Zero means no limit.
		Timeout time.Duration
		// NewID generates invocation IDs. Defaults to random UUIDs.
		NewID func() string
	}

	// Controller runs invocations. It is safe for concurrent use.
	Controller struct {
		registry RegistrySource
		launcher Launcher
		notifier notify.Notifier
		decoder  Decoder
		logger   *slog.Logger
		timeout  time.Duration
		newID    func() string
	}

	// Outcome records what happened to one invocation.
	Outcome struct {
		// ID correlates log lines of one invocation.
		ID string
		// Raw is the link as received.
		Raw string
		// State is StateSucceeded, StateFailed, or StateResolved for a plan.
		State State
		// Err is set when State is StateFailed.
		Err *Error
		// App is the application name from the link.
		App string
		// Path is the resolved executable.
		Path string
		// Arguments is the decoded argument text.
		Arguments string
		// Result is set once the app has run.
		Result *launcher.Result
	}

	// run carries one invocation through the pipeline.
	run struct {
		out    Outcome
		logger *slog.Logger
	}
)

// Load returns the registry.
func (s StaticRegistry) Load(context.Context) (registry.Registry, error) {
	return registry.Registry(s), nil
}

// New returns a Controller configured by opts.
func New(opts Options) *Controller {
	c := &Controller{
		registry: opts.Registry,
		launcher: opts.Launcher,
		notifier: opts.Notifier,
		decoder:  opts.Decoder,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		newID:    opts.NewID,
	}
	if c.registry == nil {
		c.registry = StaticRegistry(nil)
	}
	if c.launcher == nil {
		c.launcher = launcher.New()
	}
	if c.notifier == nil {
		c.notifier = notify.NewConsole(os.Stderr)
	}
	if c.decoder == nil {
		c.decoder = payload.NewCodec(payload.DefaultMaxDecodedBytes)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c
}

// Succeeded reports whether the invocation finished without error.
func (o Outcome) Succeeded() bool { return o.State == StateSucceeded }

// CommandLine renders the resolved command as a shell-quoted string.
func (o Outcome) CommandLine() string {
	if o.Path == "" {
		return ""
	}
	return launcher.CommandLine(o.Path, o.Arguments)
}

// Invoke runs raw through every stage and launches the app.
func (c *Controller) Invoke(ctx context.Context, raw string) Outcome {
	r := c.start(raw)
	if !c.resolve(ctx, r) {
		return r.out
	}
	c.launch(ctx, r)
	return r.out
}

// Plan runs raw up to the Resolved state without launching anything.
// Failures are notified exactly as Invoke would.
func (c *Controller) Plan(ctx context.Context, raw string) Outcome {
	r := c.start(raw)
	c.resolve(ctx, r)
	return r.out
}

// RejectUsage reports a command line of the wrong shape. No stage runs.
func (c *Controller) RejectUsage(_ context.Context, cause error) Outcome {
	r := c.start("")
	c.fail(r, UsageError(cause))
	return r.out
}

func (c *Controller) start(raw string) *run {
	id := c.newID()
	r := &run{
		out:    Outcome{ID: id, Raw: raw, State: StateStart},
		logger: c.logger.With("invocation", id),
	}
	r.logger.Debug("invocation started", "uri", raw)
	return r
}

// resolve parses, decodes and looks up the app. It reports whether the run
// reached StateResolved.
func (c *Controller) resolve(ctx context.Context, r *run) bool {
	inv, err := uri.Parse(r.out.Raw)
	if err != nil {
		c.fail(r, malformedError(err))
		return false
	}
	r.out.App = inv.App
	c.transition(r, StateParsed, "app", inv.App)

	args, err := c.decoder.Decode(inv.Payload)
	if err != nil {
		c.fail(r, encodingError(err))
		return false
	}
	r.out.Arguments = args
	c.transition(r, StateDecoded, "bytes", len(args))

	reg, err := c.registry.Load(ctx)
	if err != nil {
		c.fail(r, registryError(err))
		return false
	}
	path, err := reg.Lookup(inv.App)
	if err != nil {
		c.fail(r, appNotFoundError(inv.App, err))
		return false
	}
	if path == "" {
		c.fail(r, pathNotConfiguredError(inv.App))
		return false
	}
	r.out.Path = path
	c.transition(r, StateResolved, "path", path)
	return true
}

func (c *Controller) launch(ctx context.Context, r *run) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	r.logger.Info("Executing command", "command", r.out.CommandLine())

	res, err := c.launcher.Launch(ctx, r.out.Path, r.out.Arguments)
	if err != nil {
		c.fail(r, launchError(r.out.Path, err))
		return
	}
	r.out.Result = res
	c.transition(r, StateLaunched, "exit_code", int(res.ExitCode))

	if !res.Success() {
		var waitErr error
		if ctxErr := ctx.Err(); ctxErr != nil {
			waitErr = ctxErr
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				waitErr = &TimeoutError{App: r.out.App, Timeout: c.timeout}
			}
		}
		c.fail(r, applicationError(r.out.App, res, waitErr))
		return
	}

	r.logger.Info("Output", "stdout", res.StdoutText())
	c.transition(r, StateSucceeded)
}

func (c *Controller) transition(r *run, to State, attrs ...any) {
	from := r.out.State
	r.out.State = to
	r.logger.Debug("state transition", append([]any{"from", from.String(), "to", to.String()}, attrs...)...)
}

// fail moves the run to StateFailed and notifies the user once.
func (c *Controller) fail(r *run, e *Error) {
	from := r.out.State
	r.out.State = StateFailed
	r.out.Err = e
	r.logger.Debug("state transition",
		"from", from.String(), "to", StateFailed.String(),
		"kind", e.Kind.String(), "error", e.Err)

	if err := c.notifier.Notify(notify.TitleError, e.Message); err != nil {
		r.logger.Warn("notification failed", "error", err, "message", e.Message)
	}
}
