package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a single text prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver abstracts the terminal so the collection sequence can be
// tested without a TTY and callers can swap implementations.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	in  *os.File
	out *os.File
}

// NewSurveyDriver returns an interactive driver bound to the given terminal
// files. Prompts are drawn on out so stdout can stay reserved for results.
func NewSurveyDriver(in, out *os.File) PromptDriver {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &surveyDriver{in: in, out: out}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, survey.WithStdio(d.in, d.out, d.out)); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	switch {
	case errors.Is(err, terminal.InterruptErr):
		return ErrAborted
	case errors.Is(err, io.EOF):
		return ErrInputClosed
	default:
		return err
	}
}

type lineDriver struct {
	reader  *bufio.Reader
	out     io.Writer
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLineDriver reads one answer per line from r and writes prompts to w.
// It serves piped or scripted input where no terminal is attached.
func NewLineDriver(r io.Reader, w io.Writer) PromptDriver {
	if w == nil {
		w = io.Discard
	}
	return &lineDriver{reader: bufio.NewReader(r), out: w}
}

func (d *lineDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if cfg.Default != "" {
		fmt.Fprintf(d.out, "%s [%s]: ", cfg.Message, cfg.Default)
	} else {
		fmt.Fprintf(d.out, "%s: ", cfg.Message)
	}

	line, err := d.readLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(d.out)
		return "", ErrInputClosed
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		answer = cfg.Default
	}
	return answer, nil
}

// readLine waits for the next line or for ctx to end. A read abandoned on
// cancellation stays pending and is consumed by the next call, so no input
// is lost and at most one reader goroutine exists.
func (d *lineDriver) readLine(ctx context.Context) (string, error) {
	if d.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := d.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		d.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-d.pending:
		d.pending = nil
		return res.line, res.err
	}
}

func (d *lineDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
