package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local layout cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.Out, dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the number and size of cached layouts and exports",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				entries, size, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("read %s: %w", fc.Dir(), err)
				}
				c.printInfo("%d cached entries, %s", entries, byteSize(size))
				c.printDetail("Directory: %s", fc.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached layouts and exports",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear %s: %w", fc.Dir(), err)
				}
				c.printSuccess("Removed %d cached entries", n)
				return nil
			},
		},
	)
	return cmd
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}
	return cache.NewFileCache(dir)
}

// byteSize formats n with a binary unit, "1.5 KiB".
func byteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
