// Package command formats render requests into invocations of the external
// render tool. It only produces text; launching belongs to package launch.
package command

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-rendercli/pkg/request"
)

// DefaultExecutable is the tool name used when no override is supplied.
const DefaultExecutable = "render-tool"

// FramePattern is appended to the output directory for per-frame renders.
const FramePattern = "frame_####"

// Option configures a Builder.
type Option func(*Builder)

// WithExecutable overrides the executable name at the head of every command.
func WithExecutable(name string) Option {
	return func(b *Builder) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			b.executable = trimmed
		}
	}
}

// Builder formats requests. The zero value is not usable; call New.
type Builder struct {
	executable string
}

// New constructs a Builder targeting DefaultExecutable unless overridden.
func New(options ...Option) *Builder {
	b := &Builder{executable: DefaultExecutable}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Executable reports the configured tool name.
func (b *Builder) Executable() string {
	return b.executable
}

// Build renders the animation command for req. Paths are quoted verbatim and
// the device flag is present only for the Cycles engine.
func (b *Builder) Build(req request.Request) string {
	var sb strings.Builder
	sb.WriteString(b.executable)
	sb.WriteString(` -b "`)
	sb.WriteString(req.FilePath)
	sb.WriteString(`" -s `)
	sb.WriteString(strconv.Itoa(req.FrameStart))
	sb.WriteString(" -e ")
	sb.WriteString(strconv.Itoa(req.FrameEnd))
	sb.WriteString(" -a")
	b.writeEngine(&sb, req)
	sb.WriteString(` -o "`)
	sb.WriteString(req.OutputDir)
	sb.WriteString(`/frame_"`)
	return sb.String()
}

// FrameCommand renders a single-frame command. Engine flags precede -f since
// the tool renders as soon as it reads the frame argument.
func (b *Builder) FrameCommand(req request.Request, frame int) string {
	var sb strings.Builder
	sb.WriteString(b.executable)
	sb.WriteString(` -b "`)
	sb.WriteString(req.FilePath)
	sb.WriteString(`"`)
	b.writeEngine(&sb, req)
	sb.WriteString(` -o "`)
	sb.WriteString(req.OutputDir)
	sb.WriteString("/")
	sb.WriteString(FramePattern)
	sb.WriteString(`" -f `)
	sb.WriteString(strconv.Itoa(frame))
	return sb.String()
}

func (b *Builder) writeEngine(sb *strings.Builder, req request.Request) {
	sb.WriteString(" --render-engine ")
	sb.WriteString(req.Mode)
	if req.UsesDevice() {
		sb.WriteString(" --cycles-device ")
		sb.WriteString(req.Device)
	}
}
