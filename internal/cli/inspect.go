package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// inspectCommand creates the inspect command describing resolved series.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags   layoutFlags
		pattern string
		dims    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [option]",
		Short: "Show how the series of a chart option resolve",
		Long: `Show how the series of a chart option resolve.

For every series the table lists its coordinate system, data source
format, item count and stacking. --dimensions adds a table of the resolved
dimensions per series. --series filters series by a glob over their type
and name, e.g. 'bar*' or '*:revenue'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g glob.Glob
			if pattern != "" {
				var err error
				if g, err = glob.Compile(pattern, ':'); err != nil {
					return fmt.Errorf("invalid --series pattern: %w", err)
				}
			}
			return c.runInspect(args[0], flags, g, dims)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&pattern, "series", "", "glob over \"type:name\" selecting the series to show")
	cmd.Flags().BoolVar(&dims, "dimensions", false, "list the resolved dimensions of each series")

	return cmd
}

func (c *CLI) runInspect(input string, flags layoutFlags, match glob.Glob, dims bool) error {
	doc, format, err := readOption(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	opts := flags.opts
	opts.Document, opts.Format, opts.Logger = doc, format, c.Logger
	g, err := pipeline.Prepare(opts)
	if err != nil {
		return err
	}

	selected := selectSeries(g.Series(), match)
	fmt.Fprintln(c.Out, StyleTitle.Render(input))
	fmt.Fprintln(c.Out, seriesTable(selected))
	if dims {
		for _, s := range selected {
			if s.Data == nil {
				continue
			}
			fmt.Fprintln(c.Out, StyleHighlight.Render(fmt.Sprintf("series %d dimensions", s.Index)))
			fmt.Fprintln(c.Out, dimensionTable(s.Data))
		}
	}
	c.printWarnings(g.Warnings())
	return nil
}

// selectSeries keeps the series whose "type:name" matches, or all of them
// when match is nil.
func selectSeries(all []*model.SeriesModel, match glob.Glob) []*model.SeriesModel {
	if match == nil {
		return all
	}
	var out []*model.SeriesModel
	for _, s := range all {
		if match.Match(s.Type + ":" + s.Name) {
			out = append(out, s)
		}
	}
	return out
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func seriesTable(series []*model.SeriesModel) string {
	t := newTable("#", "Type", "Name", "Coord", "Source", "Items", "Stack")
	for _, s := range series {
		coordSys, source, items, stack := "-", "-", "-", "-"
		if s.CoordinateSystem != nil {
			coordSys = s.CoordinateSystem.Type()
		}
		if s.Source != nil {
			source = string(s.Source.Format)
			if s.Source.FromDataset {
				source += fmt.Sprintf(" (dataset %d)", s.Source.DatasetIndex)
			}
		}
		if s.Data != nil {
			items = strconv.Itoa(s.Data.Count())
			stack = stackSummary(s.Data.StackInfo())
		}
		if s.Graph != nil {
			items = fmt.Sprintf("%d nodes, %d edges", len(s.Graph.Nodes), len(s.Graph.Edges))
		}
		t.Row(strconv.Itoa(s.Index), s.Type, s.Name, coordSys, source, items, stack)
	}
	return t.Render()
}

func stackSummary(info data.StackInfo) string {
	if !info.Enabled() {
		return "-"
	}
	by := info.StackedByDimension
	if info.IsStackedByIndex {
		by = "index"
	}
	return info.StackedDimension + " by " + by
}

func dimensionTable(l *data.List) string {
	t := newTable("Name", "CoordDim", "Type", "Role", "Other")
	for _, d := range l.DimensionInfos() {
		var other []string
		for k, v := range d.OtherDims {
			other = append(other, fmt.Sprintf("%s=%d", k, v))
		}
		coordDim := d.CoordDim
		if d.CoordDimIndex > 0 {
			coordDim += fmt.Sprintf("[%d]", d.CoordDimIndex)
		}
		slices.Sort(other)
		t.Row(d.Name, coordDim, string(d.Type), d.Role.String(), strings.Join(other, " "))
	}
	return t.Render()
}
