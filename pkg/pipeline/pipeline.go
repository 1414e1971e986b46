// Package pipeline runs layout passes over chart option documents.
//
// A pass turns an option document into positioned series: the option is
// parsed into a [model.Global], data sources are prepared and read into
// Lists, coordinate systems are created and fitted to the data, and the
// layout tasks run over every series under a [Scheduler]. The result is a
// [snapshot.Layout] that the CLI, the API server and the exporters share.
//
// # Usage
//
// Create a Runner and execute a pass:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Document: doc,
//	    Format:   "json",
//	    Formats:  []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run stages individually:
//
//	// Layout only
//	result, err := runner.Layout(ctx, opts)
//
//	// Export an existing layout
//	artifacts, hit, err := runner.ExportWithCacheInfo(ctx, result.Layout, result.LayoutJSON, opts)
//
// [Pass] runs one uncached pass and keeps the live models, which is what
// callers stepping a force layout across passes need.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultChunkSize is the number of data items a large-mode series
	// lays out per progress step when it sets no progressive option.
	DefaultChunkSize = 3000

	// DefaultSeed seeds the placement of force layout nodes without a
	// position.
	DefaultSeed = uint64(1)
)

// Format constants for outputs.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pass Configuration
// =============================================================================

// Options contains all configuration of a layout pass and its exports.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Document is the chart option, in Format.
	Document []byte `json:"-"`
	// Format is "json" (default) or "toml".
	Format string `json:"format,omitempty"`
	// Sets are "path=value" assignments applied to a JSON document before
	// it is parsed, e.g. "series.0.stack=total".
	Sets []string `json:"set,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// ChunkSize is the progress chunk of large-mode series without a
	// progressive option.
	ChunkSize int `json:"chunk_size,omitempty"`
	// LargeThreshold overrides the largeThreshold of every series when
	// positive.
	LargeThreshold int `json:"large_threshold,omitempty"`
	// ForceSteps is the number of force layout steps run per pass. Zero
	// runs until the simulation stops, negative runs one step.
	ForceSteps int    `json:"force_steps,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`
	// Series restricts exports to the series with these indices; empty
	// exports all.
	Series   []int `json:"series,omitempty"`
	Detailed bool  `json:"detailed,omitempty"`

	// Refresh skips cache reads.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// Previous is the Global of the preceding pass over the same chart.
	// Series carry their layout state (force simulations) over from it.
	Previous *model.Global `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Global is the laid-out chart model. It is nil when the layout came
	// from the cache.
	Global *model.Global

	// Layout is the computed layout.
	Layout snapshot.Layout

	// LayoutJSON is the serialized Layout and LayoutHash its content hash.
	LayoutJSON []byte
	LayoutHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo

	// Warnings are the configuration problems the pass skipped over.
	Warnings []string
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SeriesCount int
	ItemCount   int
	LayoutTime  time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid output format %q (must be one of: json, dot, svg, png, pdf)", f)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout validates and sets defaults for a layout pass.
func (o *Options) ValidateForLayout() error {
	if len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidOption, "option document is required")
	}
	if o.Format == "" {
		o.Format = model.FormatJSON
	}
	if err := errors.ValidateFormat(o.Format); err != nil {
		return err
	}
	if len(o.Sets) > 0 && o.Format != model.FormatJSON {
		return errors.New(errors.ErrCodeInvalidOption, "set assignments need a json document, got %s", o.Format)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateSize(o.Width, o.Height); err != nil {
		return err
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForExport validates and sets defaults for exports.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for a layout pass.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:          o.Width,
		Height:         o.Height,
		ChunkSize:      o.ChunkSize,
		LargeThreshold: o.LargeThreshold,
		ForceSteps:     o.ForceSteps,
		Seed:           o.Seed,
	}
}

// ExportKeyOpts returns cache key options for an export.
func (o *Options) ExportKeyOpts(format string) cache.ExportKeyOpts {
	return cache.ExportKeyOpts{
		Format:   format,
		Series:   o.Series,
		Detailed: o.Detailed,
	}
}

// String summarizes the layout options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%gx%g chunk=%d seed=%d force_steps=%d", o.Width, o.Height, o.ChunkSize, o.Seed, o.ForceSteps)
}
