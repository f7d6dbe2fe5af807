// Package capture collects a render request interactively. Answers are read
// through a PromptDriver, bounded to the request limits and re-prompted when
// empty or, for frame numbers, not an integer.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-rendercli/pkg/request"
)

// Field identifiers used in messages, logs and error metadata.
const (
	FieldFilePath   = "filePath"
	FieldMode       = "mode"
	FieldDevice     = "device"
	FieldFrameStart = "frameStart"
	FieldFrameEnd   = "frameEnd"
	FieldOutputDir  = "outputDir"
)

// Collector runs the prompt sequence for one request.
type Collector struct {
	driver      PromptDriver
	logger      *zap.Logger
	maxAttempts int
}

// New constructs a Collector. Without WithPromptDriver it prompts on the
// process terminal.
func New(options ...Option) *Collector {
	c := &Collector{
		logger:      zap.NewNop(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil, nil)
	}
	return c
}

// Collect prompts for scene file, mode, device (Cycles only), frame range
// and output directory, in that order.
func (c *Collector) Collect(ctx context.Context) (request.Request, error) {
	if ctx == nil {
		return request.Request{}, errors.New("capture: context is required")
	}

	var (
		f   request.Fields
		err error
	)

	if f.FilePath, err = c.promptText(ctx, FieldFilePath, InputConfig{
		Message: "Scene file (.blend)",
		Help:    "Path to the scene to render",
	}, request.MaxPathLen); err != nil {
		return request.Request{}, err
	}

	if f.Mode, err = c.promptText(ctx, FieldMode, InputConfig{
		Message: "Render mode (EEVEE or CYCLES)",
		Help:    "Engine name, passed through verbatim; only CYCLES asks for a device",
	}, request.MaxTokenLen); err != nil {
		return request.Request{}, err
	}

	if request.UsesDevice(f.Mode) {
		if f.Device, err = c.promptText(ctx, FieldDevice, InputConfig{
			Message: "Device (CPU or GPU)",
			Help:    "Compute backend for Cycles",
		}, request.MaxTokenLen); err != nil {
			return request.Request{}, err
		}
	}

	if f.FrameStart, err = c.promptFrame(ctx, FieldFrameStart, "Start frame"); err != nil {
		return request.Request{}, err
	}
	if f.FrameEnd, err = c.promptFrame(ctx, FieldFrameEnd, "End frame"); err != nil {
		return request.Request{}, err
	}

	if f.OutputDir, err = c.promptText(ctx, FieldOutputDir, InputConfig{
		Message: "Output directory",
		Help:    "Frames are written as <dir>/frame_<number>",
	}, request.MaxPathLen); err != nil {
		return request.Request{}, err
	}

	req := request.New(f)
	c.logger.Debug("request collected",
		zap.String(FieldFilePath, req.FilePath),
		zap.String(FieldMode, req.Mode),
		zap.String(FieldDevice, req.Device),
		zap.Int(FieldFrameStart, req.FrameStart),
		zap.Int(FieldFrameEnd, req.FrameEnd),
		zap.String(FieldOutputDir, req.OutputDir))
	return req, nil
}

func (c *Collector) promptText(ctx context.Context, field string, cfg InputConfig, limit int) (string, error) {
	for attempt := 1; ; attempt++ {
		response, err := c.driver.Input(ctx, cfg)
		if err != nil {
			return "", err
		}

		value := strings.TrimSpace(response)
		if value == "" {
			if attempt >= c.maxAttempts {
				return "", newRequiredError(field, attempt)
			}
			_ = c.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", field))
			continue
		}

		if utf8.RuneCountInString(value) > limit {
			c.logger.Debug("input truncated",
				zap.String("field", field),
				zap.Int("limit", limit))
			value = request.Truncate(value, limit)
		}
		return value, nil
	}
}

func (c *Collector) promptFrame(ctx context.Context, field, message string) (int, error) {
	for attempt := 1; ; attempt++ {
		response, err := c.driver.Input(ctx, InputConfig{
			Message: message,
			Help:    "Whole frame number",
		})
		if err != nil {
			return 0, err
		}

		input := strings.TrimSpace(response)
		frame, err := strconv.Atoi(input)
		if err == nil {
			return frame, nil
		}

		c.logger.Debug("frame rejected",
			zap.String("field", field),
			zap.String("input", input),
			zap.Int("attempt", attempt))
		if attempt >= c.maxAttempts {
			return 0, newInvalidFrameError(field, input, attempt, err)
		}
		_ = c.driver.Info(ctx, fmt.Sprintf("Invalid %s: %q is not a whole number", field, input))
	}
}
