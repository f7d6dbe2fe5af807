package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-rendercli/pkg/capture"
	"github.com/goliatone/go-rendercli/pkg/command"
	"github.com/goliatone/go-rendercli/pkg/display"
	"github.com/goliatone/go-rendercli/pkg/farm"
	"github.com/goliatone/go-rendercli/pkg/launch"
	"github.com/goliatone/go-rendercli/pkg/request"
)

var (
	// ErrContextRequired is returned when Run is called with a nil context.
	ErrContextRequired = errors.New("orchestrator: context is required")
	// ErrPerFrameDryRun rejects per-frame rendering without a launcher.
	ErrPerFrameDryRun = errors.New("orchestrator: per-frame rendering requires a launcher")
	// ErrStopOnFailureWithoutPerFrame rejects stop-on-failure outside a farm run.
	ErrStopOnFailureWithoutPerFrame = errors.New("orchestrator: stop on failure requires per-frame rendering")
)

// Collector produces the render request, typically by prompting the user.
type Collector interface {
	Collect(ctx context.Context) (request.Request, error)
}

var _ Collector = (*capture.Collector)(nil)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithCollector injects the request collector. Default: survey prompts on
// the process terminal.
func WithCollector(collector Collector) Option {
	return func(o *Orchestrator) {
		o.collector = collector
	}
}

// WithBuilder injects the command builder.
func WithBuilder(builder *command.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithLauncher injects the launcher that runs commands. Leaving it unset, or
// passing a *launch.DryRunLauncher, keeps the run a dry run.
func WithLauncher(launcher launch.Launcher) Option {
	return func(o *Orchestrator) {
		o.launcher = launcher
	}
}

// WithLogger sets the logger shared with the default collaborators.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPerFrame renders each frame in its own process through the farm runner.
func WithPerFrame(enabled bool) Option {
	return func(o *Orchestrator) {
		o.perFrame = enabled
	}
}

// WithStopOnFailure ends a per-frame run at the first failed frame.
func WithStopOnFailure(enabled bool) Option {
	return func(o *Orchestrator) {
		o.stopOnFailure = enabled
	}
}

// Orchestrator coordinates request collection, command construction and the
// optional launch.
type Orchestrator struct {
	collector     Collector
	builder       *command.Builder
	launcher      launch.Launcher
	logger        *zap.Logger
	perFrame      bool
	stopOnFailure bool
	dryRun        bool
}

// New constructs an Orchestrator applying any provided options. Missing
// collaborators get the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.collector == nil {
		o.collector = capture.New(capture.WithLogger(o.logger))
	}
	if o.builder == nil {
		o.builder = command.New()
	}
	if o.launcher == nil {
		o.launcher = launch.NewDryRunLauncher(o.logger)
	}
	_, o.dryRun = o.launcher.(*launch.DryRunLauncher)
}

// DryRun reports whether commands are only recorded.
func (o *Orchestrator) DryRun() bool {
	return o.dryRun
}

// Run collects a request and hands it to RunRequest.
func (o *Orchestrator) Run(ctx context.Context) (display.Result, error) {
	if ctx == nil {
		return display.Result{}, ErrContextRequired
	}
	if err := ctx.Err(); err != nil {
		return display.Result{}, err
	}
	if err := o.validate(); err != nil {
		return display.Result{}, err
	}

	req, err := o.collector.Collect(ctx)
	if err != nil {
		return display.Result{}, fmt.Errorf("orchestrator: collect request: %w", err)
	}
	return o.RunRequest(ctx, req)
}

// RunRequest builds the command for req and launches it. On failure the
// returned Result still carries everything produced so far, including a
// partial farm report, so callers can show it alongside the error.
func (o *Orchestrator) RunRequest(ctx context.Context, req request.Request) (display.Result, error) {
	if ctx == nil {
		return display.Result{}, ErrContextRequired
	}
	if err := o.validate(); err != nil {
		return display.Result{}, err
	}

	res := display.Result{
		Command:  o.builder.Build(req),
		Request:  req,
		Executed: !o.dryRun,
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if o.perFrame {
		return o.runFarm(ctx, req, res)
	}

	o.logger.Debug("launching command", zap.String("command", res.Command), zap.Bool("dry_run", o.dryRun))
	code, err := o.launcher.Execute(ctx, res.Command)
	if err != nil {
		return res, fmt.Errorf("orchestrator: execute: %w", err)
	}
	if !o.dryRun {
		res.ExitCode = &code
	}
	return res, nil
}

func (o *Orchestrator) runFarm(ctx context.Context, req request.Request, res display.Result) (display.Result, error) {
	runner, err := farm.New(o.builder, o.launcher,
		farm.WithLogger(o.logger),
		farm.WithStopOnFailure(o.stopOnFailure),
	)
	if err != nil {
		return res, fmt.Errorf("orchestrator: farm: %w", err)
	}

	report, err := runner.Run(ctx, req)
	res.Farm = &report
	if err != nil {
		return res, fmt.Errorf("orchestrator: farm run: %w", err)
	}
	return res, nil
}

func (o *Orchestrator) validate() error {
	if o.perFrame && o.dryRun {
		return ErrPerFrameDryRun
	}
	if o.stopOnFailure && !o.perFrame {
		return ErrStopOnFailureWithoutPerFrame
	}
	return nil
}
