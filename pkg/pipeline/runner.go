package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/render"
	"github.com/matzehuels/chartcore/pkg/snapshot"
	"github.com/matzehuels/chartcore/pkg/store"
)

// Cache kinds reported to observability hooks.
const (
	kindLayout = "layout"
	kindExport = "export"
)

// pngScale is the resolution factor of PNG exports.
const pngScale = 2.0

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its cache, store and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Store persists chart documents for SaveChart. May be nil.
	Store store.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs a layout pass and exports its result, with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.Layout(ctx, opts)
	if err != nil {
		return nil, err
	}

	exportStart := time.Now()
	artifacts, hit, err := r.ExportWithCacheInfo(ctx, result.Layout, result.LayoutJSON, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = hit

	r.Logger.Info("exported layout",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.ExportTime)
	return result, nil
}

// Layout computes the layout of opts.Document, reusing a cached layout
// when one exists. Passes that continue a previous Global are never
// cached, since their result depends on state outside the document.
func (r *Runner) Layout(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	start := time.Now()
	cacheable := opts.Previous == nil
	key := r.Keyer.LayoutKey(optionHash(opts), opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := snapshot.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, kindLayout)
				result := newResult(l, data)
				result.CacheInfo.LayoutHit = true
				result.Stats.LayoutTime = time.Since(start)
				r.Logger.Debug("layout cache hit", "key", key)
				return result, nil
			}
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, kindLayout)
	}

	pass, err := Pass(ctx, opts)
	if err != nil {
		return nil, err
	}
	data, err := snapshot.Marshal(pass.Layout)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
	}
	if cacheable {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, kindLayout, len(data))
		}
	}

	result := newResult(pass.Layout, data)
	result.Global = pass.Global
	result.Stats.LayoutTime = time.Since(start)

	r.Logger.Info("computed layout",
		"series", result.Stats.SeriesCount,
		"items", result.Stats.ItemCount,
		"options", opts.String(),
		"duration", result.Stats.LayoutTime)
	return result, nil
}

func newResult(l snapshot.Layout, data []byte) *Result {
	result := &Result{
		Layout:     l,
		LayoutJSON: data,
		LayoutHash: cache.Hash(data),
		Artifacts:  make(map[string][]byte),
		Warnings:   l.Warnings,
	}
	result.Stats.SeriesCount = len(l.Series)
	for _, s := range l.Series {
		result.Stats.ItemCount += s.Count
	}
	return result
}

// optionHash identifies the chart a pass lays out: the document, its
// format and its set assignments.
func optionHash(opts Options) string {
	parts := [][]byte{[]byte(opts.Format), opts.Document}
	for _, s := range opts.Sets {
		parts = append(parts, []byte(s))
	}
	return cache.Hash(bytes.Join(parts, []byte{0}))
}

// ExportWithCacheInfo exports a layout in every format of opts.Formats and
// reports whether all of them came from the cache. layoutJSON is the
// serialized layout; it is computed when nil.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, l snapshot.Layout, layoutJSON []byte, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	if layoutJSON == nil {
		var err error
		if layoutJSON, err = snapshot.Marshal(l); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
		}
	}
	layoutHash := cache.Hash(layoutJSON)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		if format == FormatJSON {
			artifacts[format] = layoutJSON
			continue
		}
		key := r.Keyer.ExportKey(layoutHash, opts.ExportKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, kindExport)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, kindExport)
		allCached = false
	}
	if allCached {
		return artifacts, true, nil
	}

	rendered, err := Export(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ExportKey(layoutHash, opts.ExportKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLExport); err != nil {
			r.Logger.Warn("export cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, kindExport, len(data))
	}
	for format, data := range rendered {
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Export renders l in every non-JSON format of opts.Formats, uncached.
func Export(ctx context.Context, l snapshot.Layout, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte)
	var dot string
	var svg []byte
	for _, format := range opts.Formats {
		if format == FormatJSON {
			continue
		}
		if dot == "" {
			dot = render.ToDOT(l, render.Options{Series: opts.Series, Detailed: opts.Detailed})
		}
		if format == FormatDOT {
			out[format] = []byte(dot)
			continue
		}
		if svg == nil {
			var err error
			if svg, err = render.RenderSVG(ctx, dot); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
		}
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, pngScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		}
		if stderrors.Is(err, render.ErrNoConverter) {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "export %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", format)
		}
		out[format] = data
	}
	return out, nil
}

// SaveChart computes the layout of opts.Document and stores the document
// together with it. A doc without ID gets a new one.
func (r *Runner) SaveChart(ctx context.Context, doc *store.Document, opts Options) (*Result, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no document store configured")
	}
	opts.Document = doc.Option
	opts.Format = doc.Format
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	result, err := r.Layout(ctx, opts)
	if err != nil {
		return nil, err
	}
	doc.Format = opts.Format
	doc.Layout = result.LayoutJSON
	doc.LayoutKey = r.Keyer.LayoutKey(optionHash(opts), opts.LayoutKeyOpts())
	if err := r.Store.Save(ctx, doc); err != nil {
		return nil, err
	}
	return result, nil
}

// Close releases resources held by the runner: its cache and store.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
