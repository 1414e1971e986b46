// Package cli implements the chartcore command-line interface.
//
// The commands read chart option documents in JSON or TOML, run them
// through the layout pipeline and write the result: layout JSON, a DOT
// graph or a rendered image. Layouts are cached on disk under the user
// cache directory so that laying out an unchanged option again is free.
// The CLI is built with cobra; output styling uses lipgloss and the
// interactive force viewer runs on bubbletea.
//
// # Commands
//
//   - layout: lay out chart option files and write layout JSON
//   - export: export an option or layout file as DOT, SVG, PNG or PDF
//   - inspect: print the resolved series of an option file
//   - force: step a force layout interactively
//   - serve: run the HTTP API
//   - cache: manage the local layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log. Long steps report their elapsed time at info level.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "chartcore"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output, os.Stdout by default.
	Out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Chartcore lays out declarative chart options",
		Long:          `Chartcore turns declarative chart options into positioned series: bars, points, sectors and graph nodes in pixel space, ready for a renderer.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.forceCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the layout cache directory, ~/.cache/chartcore on Linux.
var cacheDir = cache.DefaultDir

// basePath strips the extension of input, and a ".layout" suffix, to name
// the outputs derived from it.
func basePath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".layout")
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the pass options shared by commands running passes.
type layoutFlags struct {
	opts    pipeline.Options
	noCache bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.opts.Width, "width", pipeline.DefaultWidth, "viewport width")
	fs.Float64Var(&f.opts.Height, "height", pipeline.DefaultHeight, "viewport height")
	fs.StringArrayVar(&f.opts.Sets, "set", nil, "set an option value before the pass, e.g. series.0.stack=total (repeatable)")
	fs.IntVar(&f.opts.LargeThreshold, "large-threshold", 0, "override the largeThreshold of every series")
	fs.IntVar(&f.opts.ChunkSize, "chunk-size", pipeline.DefaultChunkSize, "items per progress step of large series")
	fs.IntVar(&f.opts.ForceSteps, "force-steps", 0, "force layout steps per pass (0 runs to convergence)")
	fs.Uint64Var(&f.opts.Seed, "seed", pipeline.DefaultSeed, "seed for random node placement")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// readOption reads an option document and detects its format from the
// file extension. "-" reads JSON from stdin.
func readOption(path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, model.FormatJSON, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, model.FormatFromPath(path), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseIndices parses a comma-separated list of series indices.
func parseIndices(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid series index %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
