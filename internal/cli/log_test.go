package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded dataset") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("wrote artifact") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("wrote artifact") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("cache disabled") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Rendered chart", "formats", []string{"svg", "png"})

	out := buf.String()
	for _, want := range []string{"Rendered chart (", "ms)", "formats="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to a default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("attached")
	if !strings.Contains(buf.String(), "attached") {
		t.Error("attached logger should write to its buffer")
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := New(&buf, LogDebug).RootCommand()
	root.SetArgs([]string{"render", testCSV, "-f", "json", "-o", filepath.Join(t.TempDir(), "c.json")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"loaded dataset", "wrote artifact"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("CLI log missing %q:\n%s", want, buf.String())
		}
	}
}
