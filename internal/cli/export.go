package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// exportCommand creates the export command rendering layout previews.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags      layoutFlags
		formatsStr string
		seriesStr  string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export [option|layout.json]",
		Short: "Export a chart layout as DOT, SVG, PNG or PDF",
		Long: `Export a chart layout as DOT, SVG, PNG or PDF.

The input is either a chart option file, which is laid out first, or a
layout file written by 'layout'. The export draws every laid-out item at
its position: points as dots, bars as boxes, line series as polylines and
graph series as node-link diagrams. PNG and PDF need rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(flags.opts.Formats); err != nil {
				return err
			}
			series, err := parseIndices(seriesStr)
			if err != nil {
				return err
			}
			flags.opts.Series = series
			return c.runExport(cmd.Context(), args[0], flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&seriesStr, "series", "", "export only these series indices (comma-separated)")
	cmd.Flags().BoolVar(&flags.opts.Detailed, "detailed", false, "label items with their series and data index")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

// isLayoutDocument reports whether data is a serialized layout rather
// than a chart option.
func isLayoutDocument(data []byte) bool {
	res := gjson.GetManyBytes(data, "width", "height", "series")
	return res[0].Type == gjson.Number && res[1].Type == gjson.Number && res[2].IsArray()
}

func (c *CLI) runExport(ctx context.Context, input string, flags layoutFlags, output string) error {
	doc, format, err := readOption(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		l          snapshot.Layout
		layoutJSON []byte
		cached     bool
	)
	if format == model.FormatJSON && isLayoutDocument(doc) {
		if l, err = snapshot.Unmarshal(doc); err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		layoutJSON = doc
	} else {
		opts := flags.opts
		opts.Document, opts.Format = doc, format
		result, err := runner.Layout(ctx, opts)
		if err != nil {
			return fmt.Errorf("lay out %s: %w", input, err)
		}
		l, layoutJSON, cached = result.Layout, result.LayoutJSON, result.CacheInfo.LayoutHit
		c.printWarnings(result.Warnings)
	}

	artifacts, exportHit, err := runner.ExportWithCacheInfo(ctx, l, layoutJSON, flags.opts)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	base := basePath(input)
	if output != "" && len(flags.opts.Formats) > 1 {
		base, output = basePath(output), ""
	}
	c.printSuccess("Exported %s", input)
	for _, f := range flags.opts.Formats {
		path := output
		if path == "" {
			path = base + "." + f
			if f == pipeline.FormatJSON {
				path = base + ".layout.json"
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.printFile(path)
	}
	items := 0
	for _, s := range l.Series {
		items += s.Count
	}
	c.printStats(len(l.Series), items, cached && exportHit)
	return nil
}
