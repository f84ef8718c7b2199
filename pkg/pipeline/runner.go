package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popchart/pkg/cache"
	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state; one value may serve concurrent requests
// with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher *dataset.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// [cache.DefaultKeyer] and a nil fetcher downloads without a body cache.
func NewRunner(c cache.Cache, keyer cache.Keyer, fetcher *dataset.Fetcher, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	if fetcher == nil {
		fetcher = dataset.NewFetcher(nil, logger)
	}
	return &Runner{Cache: c, Keyer: keyer, Fetcher: fetcher, Logger: logger}
}

// Execute runs load, layout and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.DataHash = DataHash(ds)
	result.Stats.Records = len(ds)
	result.Stats.Population = ds.Total()
	result.Stats.LoadTime = time.Since(start)
	r.Logger.Info("loaded dataset", "source", opts.Source, "records", len(ds), "duration", result.Stats.LoadTime)

	start = time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout", "bars", len(l.Bars), "ticks", len(l.XTicks), "cached", hit, "duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", hit, "duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset named by opts.Source.
func (r *Runner) Load(ctx context.Context, opts Options) (ds dataset.Dataset, err error) {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()
	defer func() { hooks.OnLoadComplete(ctx, opts.Source, len(ds), time.Since(start), err) }()

	if errors.IsURL(opts.Source) {
		return r.Fetcher.Load(ctx, opts.Source, opts.Refresh, opts.ParseOptions())
	}
	return dataset.Load(opts.Source, opts.ParseOptions())
}

// LayoutWithCacheInfo builds the chart layout, reporting whether it came
// from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ds dataset.Dataset, opts Options) (l chart.Layout, hit bool, err error) {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(ds))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, len(l.Bars), time.Since(start), err) }()

	key := r.Keyer.LayoutKey(DataHash(ds), opts.LayoutKeyOpts())
	if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		var cached chart.Layout
		if json.Unmarshal(data, &cached) == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err = chart.Build(ds, opts.ChartOptions())
	if err != nil {
		return chart.Layout{}, false, err
	}
	if data, err := json.Marshal(l); err == nil {
		if r.Cache.Set(ctx, key, data, cache.LayoutTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout builds the chart layout.
func (r *Runner) Layout(ctx context.Context, ds dataset.Dataset, opts Options) (chart.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format, reporting whether all
// of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l chart.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	opts.SetRenderDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts = make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, l, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, cache.ArtifactTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Render renders the layout in every requested format.
func (r *Runner) Render(ctx context.Context, l chart.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// DataHash is the content hash of a dataset, stable across sources that
// parse to the same records.
func DataHash(ds dataset.Dataset) string {
	data, _ := json.Marshal(ds)
	return cache.Hash(data)
}
