// Command rendercli asks for a scene file, render engine, device, frame range
// and output directory, then prints the matching render-tool invocation. The
// command is only executed when --execute is given.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-rendercli/internal/logging"
	"github.com/goliatone/go-rendercli/pkg/capture"
	"github.com/goliatone/go-rendercli/pkg/command"
	"github.com/goliatone/go-rendercli/pkg/display"
	"github.com/goliatone/go-rendercli/pkg/launch"
	"github.com/goliatone/go-rendercli/pkg/orchestrator"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitAborted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	executable    string
	format        string
	execute       bool
	perFrame      bool
	stopOnFailure bool
	noColor       bool
	verbose       bool
	attempts      int
}

// exitError carries a process exit code out of RunE. A nil err means the
// failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErr(err error) error {
	return &exitError{code: exitUsage, err: err}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "rendercli",
		Short: "Assemble a render-tool command line from interactive answers",
		Long: `rendercli asks for a scene file, render engine, compute device, frame range
and output directory, then prints the matching render-tool invocation.
Nothing is executed unless --execute is given.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErr(fmt.Errorf("unexpected arguments: %v", args))
			}
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.perFrame && !opts.execute {
				return usageErr(errors.New("--per-frame requires --execute"))
			}
			if opts.stopOnFailure && !opts.perFrame {
				return usageErr(errors.New("--stop-on-failure requires --per-frame"))
			}
			return runRequest(cmd.Context(), opts, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.executable, "executable", command.DefaultExecutable, "render tool executable placed at the head of the command")
	flags.StringVarP(&opts.format, "format", "f", string(display.FormatText), "output format (text, json, yaml)")
	flags.BoolVar(&opts.execute, "execute", false, "run the command and report its exit code (dry run by default)")
	flags.BoolVar(&opts.perFrame, "per-frame", false, "with --execute, render each frame in its own process")
	flags.BoolVar(&opts.stopOnFailure, "stop-on-failure", false, "with --per-frame, stop at the first failed frame")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured text output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	flags.IntVar(&opts.attempts, "attempts", capture.DefaultMaxAttempts, "invalid answers tolerated per prompt")
	return cmd
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "rendercli: %v\n", exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "rendercli: %v\n", err)
	return exitFailure
}

func runRequest(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	format, err := display.ParseFormat(opts.format)
	if err != nil {
		return usageErr(err)
	}

	logger, err := logging.New(logging.Config{Verbose: opts.verbose})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithCollector(capture.New(
			capture.WithPromptDriver(promptDriver(stdin, stderr)),
			capture.WithLogger(logger),
			capture.WithMaxAttempts(opts.attempts),
		)),
		orchestrator.WithBuilder(command.New(command.WithExecutable(opts.executable))),
		orchestrator.WithPerFrame(opts.perFrame),
		orchestrator.WithStopOnFailure(opts.stopOnFailure),
	}
	if opts.execute {
		orchOpts = append(orchOpts, orchestrator.WithLauncher(launch.NewExecLauncher(
			launch.WithOutput(stderr, stderr),
			launch.WithLogger(logger),
		)))
	}

	res, runErr := orchestrator.New(orchOpts...).Run(ctx)

	// Anything produced before a failure, such as a partial farm report, is
	// still shown.
	if res.Command != "" {
		printer := display.New(
			display.WithFormat(format),
			display.WithColor(!opts.noColor && isTerminal(stdout)),
		)
		if err := printer.Print(stdout, res); err != nil && runErr == nil {
			runErr = fmt.Errorf("print: %w", err)
		}
	}
	if runErr != nil {
		return runFailure(logger, runErr)
	}
	if code := exitCode(res); code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// exitCode maps a finished run onto the process exit status.
func exitCode(res display.Result) int {
	switch {
	case res.Farm != nil && !res.Farm.OK():
		return exitFailure
	case res.ExitCode == nil:
		return exitOK
	case *res.ExitCode < 0:
		return exitFailure
	default:
		return *res.ExitCode
	}
}

// promptDriver picks interactive prompts when stdin is a terminal and plain
// line reads otherwise.
func promptDriver(stdin io.Reader, stderr io.Writer) capture.PromptDriver {
	if in, ok := stdin.(*os.File); ok && isatty.IsTerminal(in.Fd()) {
		out, ok := stderr.(*os.File)
		if !ok {
			out = os.Stderr
		}
		return capture.NewSurveyDriver(in, out)
	}
	return capture.NewLineDriver(stdin, stderr)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func runFailure(logger *zap.Logger, err error) error {
	if errors.Is(err, capture.ErrAborted) || errors.Is(err, context.Canceled) {
		logger.Warn("run aborted", zap.Error(err))
		return &exitError{code: exitAborted, err: errors.New("aborted")}
	}
	logger.Error("run failed", zap.Error(err))
	return &exitError{code: exitFailure, err: err}
}
