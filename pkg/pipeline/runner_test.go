package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/popchart/pkg/cache"
	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/observability"
)

const populationCSV = `Country,Population
China,1433784
India,1366418
United States of America,329065
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "population.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil, nil)
	defer runner.Close()

	opts := Options{Source: writeCSV(t, populationCSV), Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.Stats.Records != 3 || len(first.Layout.Bars) != 3 {
		t.Errorf("records = %d, bars = %d", first.Stats.Records, len(first.Layout.Bars))
	}
	if first.DataHash == "" || first.DataHash != DataHash(first.Dataset) {
		t.Error("DataHash not set")
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss the cache: %+v", first.CacheInfo)
	}
	if !bytes.Contains(first.Artifacts[FormatSVG], []byte(`data-country="China"`)) {
		t.Error("svg artifact missing China bar")
	}
	if !bytes.Contains(first.Artifacts[FormatJSON], []byte(`"bars"`)) {
		t.Error("json artifact missing bars")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Title = "Changed"
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("changing the title should invalidate the layout cache")
	}
}

func TestRunnerExecute_Errors(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing file", Options{Source: filepath.Join(t.TempDir(), "nope.csv")}, errors.ErrCodeFileNotFound},
		{"duplicate country", Options{Source: writeCSV(t, "Country,Population\nChina,1\nChina,2\n")}, errors.ErrCodeDuplicateKey},
		{"empty dataset", Options{Source: writeCSV(t, "Country,Population\n")}, errors.ErrCodeDegenerateDomain},
		{"no room", Options{Source: writeCSV(t, populationCSV), Width: 200}, errors.ErrCodeInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Execute(ctx, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunnerLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(populationCSV))
	}))
	defer srv.Close()

	runner := NewRunner(nil, nil, nil, nil)
	ds, err := runner.Load(context.Background(), Options{Source: srv.URL + "/population.csv"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds) != 3 || ds[2].Country != "United States of America" || ds[2].Population != 329065000 {
		t.Errorf("Load = %v", ds)
	}
}

func TestRunnerHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	rec := &stageRecorder{}
	observability.SetPipelineHooks(rec)

	runner := NewRunner(nil, nil, nil, nil)
	if _, err := runner.Execute(context.Background(), Options{Source: writeCSV(t, populationCSV)}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(rec.stages, ","); got != "load,layout,render" {
		t.Errorf("stages = %s, want load,layout,render", got)
	}
}

type stageRecorder struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []string
}

func (s *stageRecorder) add(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stage)
}

func (s *stageRecorder) OnLoadStart(context.Context, string)    { s.add("load") }
func (s *stageRecorder) OnLayoutStart(context.Context, int)     { s.add("layout") }
func (s *stageRecorder) OnRenderStart(context.Context, []string) { s.add("render") }
