package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	fatal := errors.New("404")

	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", nil, 1, nil},
		{"recovers after transient", []error{transient, transient}, 3, nil},
		{"gives up after attempts", []error{transient, transient, transient, transient}, 3, transient},
		{"fatal stops immediately", []error{fatal}, 1, fatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), 3, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, time.Hour, func() error {
		return &RetryableError{Err: errors.New("down")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIsRetryable(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), &RetryableError{Err: errors.New("x")})
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable(joined) = false, want true")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable(plain) = true, want false")
	}
}
