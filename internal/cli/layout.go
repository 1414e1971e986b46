package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "layout [option.json|option.toml]...",
		Short: "Lay out chart option files",
		Long: `Lay out chart option files.

Each option file (JSON or TOML) runs through one layout pass and its layout
is written next to it as <name>.layout.json, or to --output when a single
file is given. Several files are laid out concurrently.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single input, got %d", len(args))
			}
			return c.runLayout(cmd.Context(), args, flags, output, jobs)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files laid out concurrently")

	return cmd
}

// layoutOutcome is the result of laying out one file.
type layoutOutcome struct {
	input, output string
	result        *pipeline.Result
}

// runLayout lays out every input and writes the layouts.
func (c *CLI) runLayout(ctx context.Context, inputs []string, flags layoutFlags, output string, jobs int) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, c.Logger.GetLevel() > LogDebug, fmt.Sprintf("Laying out %d chart(s)...", len(inputs)))
	spinner.Start()

	outcomes := make([]layoutOutcome, len(inputs))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			doc, format, err := readOption(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}
			opts := flags.opts
			opts.Document, opts.Format = doc, format
			result, err := runner.Layout(gctx, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			path := output
			if path == "" {
				path = basePath(input) + ".layout.json"
			}
			if path == "-" {
				mu.Lock()
				_, err = c.Out.Write(result.LayoutJSON)
				mu.Unlock()
			} else {
				err = os.WriteFile(path, result.LayoutJSON, 0o644)
			}
			if err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			outcomes[i] = layoutOutcome{input: input, output: path, result: result}

			mu.Lock()
			done++
			spinner.SetMessage(fmt.Sprintf("Laid out %d/%d chart(s)...", done, len(inputs)))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError(c, "Layout failed")
		return err
	}
	spinner.Stop()
	prog.done("layout complete", "charts", len(inputs))

	if output == "-" {
		return nil
	}
	for _, o := range outcomes {
		c.printSuccess("%s", o.input)
		c.printFile(o.output)
		c.printStats(o.result.Stats.SeriesCount, o.result.Stats.ItemCount, o.result.CacheInfo.LayoutHit)
		c.printWarnings(o.result.Warnings)
	}
	if len(outcomes) == 1 {
		c.printNextStep("Export", appName+" export "+outcomes[0].output)
	}
	return nil
}
