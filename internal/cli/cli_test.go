package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"render", "scale", "preview", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out.String()), filepath.Join(xdg, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	c := New(io.Discard, LogInfo)

	run := func(args ...string) {
		t.Helper()
		root := c.RootCommand()
		root.SetArgs(args)
		root.SetOut(io.Discard)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	run("render", testCSV, "-f", "json", "-o", filepath.Join(t.TempDir(), "chart.json"))

	dir := filepath.Join(xdg, appName)
	if countFiles(t, dir) == 0 {
		t.Fatal("render should populate the cache")
	}

	run("cache", "clear")
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache root should survive clear: %v", err)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"html", "json", "pdf", "png", "svg"}},
		{"svg,", []string{"svg,html", "svg,json", "svg,pdf", "svg,png"}},
		{"svg,png,pdf,", []string{"svg,png,pdf,html", "svg,png,pdf,json"}},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, _ := completeFormats(nil, nil, tt.toComplete)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
		})
	}
}

func TestCompleteSource(t *testing.T) {
	exts, dir := completeSource(nil, nil, "")
	if len(exts) != 1 || exts[0] != "csv" {
		t.Errorf("extensions = %v, want [csv]", exts)
	}
	if dir&cobra.ShellCompDirectiveFilterFileExt == 0 {
		t.Error("source completion should filter by extension")
	}
	if got, _ := completeSource(nil, []string{"a.csv"}, ""); got != nil {
		t.Errorf("second argument completed to %v", got)
	}
}
