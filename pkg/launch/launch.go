// Package launch runs formatted render commands as child processes. Nothing
// here is used unless execution is explicitly requested.
package launch

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// Launcher executes a command string and reports the child's exit code. A
// non-zero exit is not an error; errors mean the process never ran to
// completion.
type Launcher interface {
	Execute(ctx context.Context, command string) (int, error)
}

// Option configures an ExecLauncher.
type Option func(*ExecLauncher)

// WithOutput wires the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *ExecLauncher) {
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithDir sets the working directory of the child.
func WithDir(dir string) Option {
	return func(l *ExecLauncher) {
		l.dir = strings.TrimSpace(dir)
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(l *ExecLauncher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// ExecLauncher splits commands with POSIX shell word rules and runs them
// directly, without an intermediate shell.
type ExecLauncher struct {
	stdout io.Writer
	stderr io.Writer
	dir    string
	logger *zap.Logger
}

var _ Launcher = (*ExecLauncher)(nil)

// NewExecLauncher constructs a launcher. Child output is discarded unless
// WithOutput is supplied.
func NewExecLauncher(options ...Option) *ExecLauncher {
	l := &ExecLauncher{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Execute runs command and waits for it. Quoting errors, a missing
// executable, a child killed by a signal or a cancelled context yield exit
// code -1 and an error.
func (l *ExecLauncher) Execute(ctx context.Context, command string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	args, err := shellquote.Split(command)
	if err != nil {
		return -1, newSplitError(command, err)
	}
	if len(args) == 0 {
		return -1, newSplitError(command, nil)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.Dir = l.dir

	l.logger.Debug("launching", zap.String("executable", args[0]), zap.Int("args", len(args)-1))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				l.logger.Warn("render tool terminated", zap.String("state", exitErr.String()))
				return -1, newSignalError(command, exitErr)
			}
			l.logger.Warn("render tool exited with failure", zap.Int("exit_code", code))
			return code, nil
		}
		return -1, newStartError(command, err)
	}

	l.logger.Debug("render tool finished", zap.Int("exit_code", 0))
	return 0, nil
}

// DryRunLauncher records commands instead of running them.
type DryRunLauncher struct {
	mu       sync.Mutex
	commands []string
	logger   *zap.Logger
}

var _ Launcher = (*DryRunLauncher)(nil)

// NewDryRunLauncher returns a launcher that never spawns processes.
func NewDryRunLauncher(logger *zap.Logger) *DryRunLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunLauncher{logger: logger}
}

// Execute records command and reports success.
func (l *DryRunLauncher) Execute(ctx context.Context, command string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	l.mu.Lock()
	l.commands = append(l.commands, command)
	l.mu.Unlock()
	l.logger.Info("dry-run: command not executed", zap.String("command", command))
	return 0, nil
}

// Commands returns a copy of the recorded commands.
func (l *DryRunLauncher) Commands() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.commands...)
}
