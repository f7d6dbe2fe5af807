package rendercli

import (
	"context"

	"github.com/goliatone/go-rendercli/pkg/command"
	"github.com/goliatone/go-rendercli/pkg/display"
	"github.com/goliatone/go-rendercli/pkg/orchestrator"
	"github.com/goliatone/go-rendercli/pkg/request"
)

// Request aliases request.Request so callers can describe a render job from
// the top-level module.
type Request = request.Request

// Fields aliases request.Fields, the raw input to NewRequest.
type Fields = request.Fields

// Result aliases display.Result, the outcome of a run.
type Result = display.Result

// NewRequest applies the length bounds and the device rule to f.
func NewRequest(f Fields) Request {
	return request.New(f)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Run collects a request through the configured collector and builds, and
// optionally launches, its command. It is the simplest entry point for
// callers that want the interactive flow.
func Run(ctx context.Context, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Run(ctx)
}

// BuildCommand formats req without prompting or launching anything.
func BuildCommand(req Request, options ...command.Option) string {
	return command.New(options...).Build(req)
}

// WithExecutable swaps the render tool executable used by the orchestrator's
// builder.
func WithExecutable(name string) orchestrator.Option {
	return orchestrator.WithBuilder(command.New(command.WithExecutable(name)))
}
