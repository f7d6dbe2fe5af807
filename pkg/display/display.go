// Package display presents the assembled command to the user as text, JSON
// or YAML.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mgutz/ansi"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-rendercli/pkg/farm"
	"github.com/goliatone/go-rendercli/pkg/request"
)

// Format controls how a Result is serialized.
type Format string

const (
	// FormatText prints a header and the command line.
	FormatText Format = "text"
	// FormatJSON emits a JSON document.
	FormatJSON Format = "json"
	// FormatYAML emits a YAML document.
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value onto a Format.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("display: unknown format %q (want text, json or yaml)", raw)
	}
}

// Result is everything shown after a run.
type Result struct {
	Command  string          `json:"command" yaml:"command"`
	Request  request.Request `json:"request" yaml:"request"`
	Executed bool            `json:"executed" yaml:"executed"`
	ExitCode *int            `json:"exitCode,omitempty" yaml:"exitCode,omitempty"`
	Farm     *farm.Report    `json:"farm,omitempty" yaml:"farm,omitempty"`
}

// Option configures a Printer.
type Option func(*Printer)

// WithFormat selects the output format.
func WithFormat(format Format) Option {
	return func(p *Printer) {
		if format != "" {
			p.format = format
		}
	}
}

// WithColor toggles ANSI styling of text output.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// Printer writes Results.
type Printer struct {
	format Format
	color  bool
}

// New constructs a Printer defaulting to plain text.
func New(options ...Option) *Printer {
	p := &Printer{format: FormatText}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Print serializes res to w.
func (p *Printer) Print(w io.Writer, res Result) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return p.printText(w, res)
	}
}

func (p *Printer) printText(w io.Writer, res Result) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(p.style("Command to run:", "cyan+b"))
	b.WriteString("\n")
	b.WriteString(res.Command)
	b.WriteString("\n")

	if !res.Executed {
		b.WriteString(p.style("(dry run: command not executed)", "black+h"))
		b.WriteString("\n")
	}
	if res.ExitCode != nil {
		style := "green"
		if *res.ExitCode != 0 {
			style = "red"
		}
		b.WriteString(p.style(fmt.Sprintf("exit code: %d", *res.ExitCode), style))
		b.WriteString("\n")
	}
	if res.Farm != nil {
		style := "green"
		if !res.Farm.OK() {
			style = "red"
		}
		b.WriteString(p.style(res.Farm.String(), style))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *Printer) style(s, style string) string {
	if !p.color {
		return s
	}
	return ansi.Color(s, style)
}
