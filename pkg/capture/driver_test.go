package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestLineDriver_ReadsLines(t *testing.T) {
	var out bytes.Buffer
	d := NewLineDriver(strings.NewReader("  my scene.blend  \n\nlast"), &out)
	ctx := context.Background()

	got, err := d.Input(ctx, InputConfig{Message: "Scene"})
	if err != nil || got != "my scene.blend" {
		t.Fatalf("first input = %q, %v", got, err)
	}

	got, err = d.Input(ctx, InputConfig{Message: "Mode", Default: "EEVEE"})
	if err != nil || got != "EEVEE" {
		t.Fatalf("blank line should yield default, got %q, %v", got, err)
	}

	got, err = d.Input(ctx, InputConfig{Message: "Dir"})
	if err != nil || got != "last" {
		t.Fatalf("unterminated final line = %q, %v", got, err)
	}

	if _, err := d.Input(ctx, InputConfig{Message: "More"}); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed at EOF, got %v", err)
	}

	if !strings.Contains(out.String(), "Mode [EEVEE]: ") {
		t.Fatalf("prompt output missing default: %q", out.String())
	}
}

func TestLineDriver_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewLineDriver(strings.NewReader("x\n"), nil)
	if _, err := d.Input(ctx, InputConfig{Message: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLineDriver_CancelWhileReading(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	d := NewLineDriver(r, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := d.Input(ctx, InputConfig{Message: "Scene"})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Input did not return after cancellation")
	}

	// The abandoned read is picked up by the next prompt.
	if _, err := io.WriteString(w, "late.blend\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := d.Input(context.Background(), InputConfig{Message: "Scene"})
	if err != nil || got != "late.blend" {
		t.Fatalf("next input = %q, %v", got, err)
	}
}

func TestCollect_OverLineDriver(t *testing.T) {
	script := "/tmp/scene.blend\nCYCLES\nGPU\nabc\n1\n10\n/tmp/out\n"
	var out bytes.Buffer
	c := New(WithPromptDriver(NewLineDriver(strings.NewReader(script), &out)))

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got.Device != "GPU" || got.FrameStart != 1 || got.FrameEnd != 10 {
		t.Fatalf("unexpected request %+v", got)
	}
	if !strings.Contains(out.String(), "Invalid frameStart") {
		t.Fatalf("expected reprompt message in %q", out.String())
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted, got %v", err)
	}
	if err := translateSurveyErr(io.EOF); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("EOF should map to ErrInputClosed, got %v", err)
	}
	other := errors.New("boom")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("other errors pass through, got %v", err)
	}
}
