package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) *Spinner {
	s := newSpinnerWithContext(ctx, msg)
	s.w = io.Discard
	return s
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Rendering population.csv...")
	s.w = &buf
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering population.csv...") {
		t.Errorf("spinner output %q does not contain the message", buf.String())
	}
	if !s.Cancelled() {
		// Stop cancels the spinner's own context.
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := quietSpinner(ctx, "Loading...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := quietSpinner(ctx, "Fetching...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := quietSpinner(context.Background(), "Layout...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := quietSpinner(context.Background(), "Loading...")
	s.Stop()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerFollowsPipelineStages(t *testing.T) {
	ctx := context.Background()
	s := quietSpinner(ctx, "Starting...")

	tests := []struct {
		event func()
		want  string
	}{
		{func() { s.OnLoadStart(ctx, "population_2019.csv") }, "Loading population_2019.csv..."},
		{func() { s.OnLayoutStart(ctx, 10) }, "Laying out 10 bars..."},
		{func() { s.OnRenderStart(ctx, []string{"svg", "png"}) }, "Rendering svg, png..."},
	}
	for _, tt := range tests {
		tt.event()
		if got := s.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
	// Completion events keep the current message.
	s.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	if got := s.Message(); got != "Rendering svg, png..." {
		t.Errorf("Message() after completion = %q", got)
	}
}
