package farm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-rendercli/pkg/command"
	"github.com/goliatone/go-rendercli/pkg/launch"
	"github.com/goliatone/go-rendercli/pkg/request"
)

type scriptedLauncher struct {
	codes    map[string]int
	errs     map[string]error
	commands []string
	onRun    func()
}

func (s *scriptedLauncher) Execute(_ context.Context, cmd string) (int, error) {
	s.commands = append(s.commands, cmd)
	if s.onRun != nil {
		s.onRun()
	}
	for suffix, err := range s.errs {
		if strings.HasSuffix(cmd, suffix) {
			return -1, err
		}
	}
	for suffix, code := range s.codes {
		if strings.HasSuffix(cmd, suffix) {
			return code, nil
		}
	}
	return 0, nil
}

func sampleRequest(start, end int) request.Request {
	return request.New(request.Fields{
		FilePath:   "/tmp/scene.blend",
		Mode:       request.ModeCycles,
		Device:     request.DeviceGPU,
		FrameStart: start,
		FrameEnd:   end,
		OutputDir:  "/tmp/out",
	})
}

func TestRun_AllFramesSucceed(t *testing.T) {
	dry := launch.NewDryRunLauncher(nil)
	r, err := New(command.New(), dry)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), sampleRequest(1, 3))
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []int{1, 2, 3}, report.Succeeded)
	assert.Empty(t, report.Failed)

	commands := dry.Commands()
	require.Len(t, commands, 3)
	assert.Equal(t, `render-tool -b "/tmp/scene.blend" --render-engine CYCLES --cycles-device GPU -o "/tmp/out/frame_####" -f 1`, commands[0])
}

func TestRun_RecordsFailures(t *testing.T) {
	l := &scriptedLauncher{
		codes: map[string]int{"-f 11": 1},
		errs:  map[string]error{"-f 12": errors.New("exec: not found")},
	}
	r, err := New(command.New(), l)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), sampleRequest(10, 13))
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []int{10, 13}, report.Succeeded)
	assert.Equal(t, []int{11, 12}, report.Failed)
	require.Len(t, report.Results, 4)
	assert.Equal(t, "exec: not found", report.Results[2].Err)
	assert.Equal(t, "rendered: 2, failed: 2, failed frames: [11 12]", report.String())
}

func TestRun_ReversedRange(t *testing.T) {
	dry := launch.NewDryRunLauncher(nil)
	r, err := New(command.New(), dry)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), sampleRequest(3, 1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, report.Succeeded)
}

func TestRun_SingleFrame(t *testing.T) {
	dry := launch.NewDryRunLauncher(nil)
	r, err := New(command.New(), dry)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), sampleRequest(5, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{5}, report.Succeeded)
	assert.Len(t, dry.Commands(), 1)
}

func TestRun_StopOnFailure(t *testing.T) {
	l := &scriptedLauncher{codes: map[string]int{"-f 2": 4}}
	r, err := New(command.New(), l, WithStopOnFailure(true))
	require.NoError(t, err)

	report, err := r.Run(context.Background(), sampleRequest(1, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, report.Succeeded)
	assert.Equal(t, []int{2}, report.Failed)
	assert.Len(t, l.commands, 2)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := &scriptedLauncher{}
	l.onRun = func() {
		if len(l.commands) == 2 {
			cancel()
		}
	}
	r, err := New(command.New(), l)
	require.NoError(t, err)

	report, err := r.Run(ctx, sampleRequest(1, 5))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, l.commands, 2)
	assert.Equal(t, []int{1, 2}, report.Succeeded)
}

func TestRun_CancellationLogsPartialReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zapcore.WarnLevel)
	l := &scriptedLauncher{codes: map[string]int{"-f 2": 1}}
	l.onRun = func() {
		if len(l.commands) == 3 {
			cancel()
		}
	}
	r, err := New(command.New(), l, WithLogger(zap.New(core)))
	require.NoError(t, err)

	report, err := r.Run(ctx, sampleRequest(1, 5))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1, 3}, report.Succeeded)
	assert.Equal(t, []int{2}, report.Failed)

	entries := logs.FilterMessage("farm run interrupted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "rendered: 2, failed: 1, failed frames: [2]", entries[0].ContextMap()["report"])
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, launch.NewDryRunLauncher(nil))
	assert.Error(t, err)

	_, err = New(command.New(), nil)
	assert.Error(t, err)
}
