// Package farm renders a frame range one process per frame, in sequence, and
// reports which frames failed.
package farm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-rendercli/pkg/command"
	"github.com/goliatone/go-rendercli/pkg/launch"
	"github.com/goliatone/go-rendercli/pkg/request"
)

// FrameResult is the outcome of one frame.
type FrameResult struct {
	Frame    int    `json:"frame" yaml:"frame"`
	Command  string `json:"command" yaml:"command"`
	ExitCode int    `json:"exitCode" yaml:"exitCode"`
	Err      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the frame rendered successfully.
func (r FrameResult) OK() bool {
	return r.ExitCode == 0 && r.Err == ""
}

// Report summarises a farm run.
type Report struct {
	Results   []FrameResult `json:"results" yaml:"results"`
	Succeeded []int         `json:"succeeded" yaml:"succeeded"`
	Failed    []int         `json:"failed" yaml:"failed"`
}

// OK reports whether every attempted frame succeeded.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// String renders the closing summary printed after a run.
func (r Report) String() string {
	s := fmt.Sprintf("rendered: %d, failed: %d", len(r.Succeeded), len(r.Failed))
	if len(r.Failed) > 0 {
		s += fmt.Sprintf(", failed frames: %v", r.Failed)
	}
	return s
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStopOnFailure aborts the run after the first failed frame.
func WithStopOnFailure(stop bool) Option {
	return func(r *Runner) {
		r.stopOnFailure = stop
	}
}

// Runner drives per-frame renders through a launcher.
type Runner struct {
	builder       *command.Builder
	launcher      launch.Launcher
	logger        *zap.Logger
	stopOnFailure bool
}

// New constructs a Runner. builder and launcher are required.
func New(builder *command.Builder, launcher launch.Launcher, options ...Option) (*Runner, error) {
	if builder == nil {
		return nil, errors.New("farm: command builder is required")
	}
	if launcher == nil {
		return nil, errors.New("farm: launcher is required")
	}
	r := &Runner{
		builder:  builder,
		launcher: launcher,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Run renders every frame of req in ascending order. Launch failures are
// recorded against the frame and the run continues; context cancellation
// stops it and returns the partial report with the context error.
func (r *Runner) Run(ctx context.Context, req request.Request) (Report, error) {
	report := Report{}
	first, last := req.FrameRange()
	r.logger.Info("farm run started",
		zap.String("file", req.FilePath),
		zap.Int("first_frame", first),
		zap.Int("last_frame", last))

	// Compared against last before incrementing so a range ending at
	// math.MaxInt terminates.
	for frame := first; ; frame++ {
		if err := ctx.Err(); err != nil {
			return r.interrupted(report, err)
		}

		result, err := r.renderFrame(ctx, req, frame)
		if err != nil {
			return r.interrupted(report, err)
		}
		report.Results = append(report.Results, result)

		if result.OK() {
			report.Succeeded = append(report.Succeeded, frame)
		} else {
			report.Failed = append(report.Failed, frame)
			if r.stopOnFailure {
				break
			}
		}
		if frame == last {
			break
		}
	}

	r.logger.Info("farm run finished",
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (r *Runner) interrupted(report Report, err error) (Report, error) {
	r.logger.Warn("farm run interrupted",
		zap.Stringer("report", report),
		zap.Ints("succeeded", report.Succeeded),
		zap.Ints("failed", report.Failed),
		zap.Error(err))
	return report, err
}

// renderFrame only returns an error when the context was cancelled; launch
// failures are folded into the result.
func (r *Runner) renderFrame(ctx context.Context, req request.Request, frame int) (FrameResult, error) {
	cmd := r.builder.FrameCommand(req, frame)
	code, err := r.launcher.Execute(ctx, cmd)
	result := FrameResult{Frame: frame, Command: cmd, ExitCode: code}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		result.Err = err.Error()
	}

	if result.OK() {
		r.logger.Info("frame rendered", zap.Int("frame", frame))
	} else {
		r.logger.Warn("frame failed",
			zap.Int("frame", frame),
			zap.Int("exit_code", code),
			zap.Error(err))
	}
	return result, nil
}
