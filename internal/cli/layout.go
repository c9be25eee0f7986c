package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coachvis/coachtree/pkg/graph"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		vizType string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a visualization layout from a coaching graph",
		Long: `Compute a visualization layout from a coaching graph.

The layout command takes a graph.json file (produced by 'build') and computes
positions for every coach. The output is a layout.json file that can be
rendered to SVG or DOT using the 'visualize' command.

Supports both tree (-t tree) and nodelink (-t nodelink) visualization types.
Tree layouts carry explicit canvas coordinates; nodelink layouts carry a
Graphviz DOT document and let Graphviz place nodes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], vizType, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&vizType, "type", "t", graph.VizTypeTree, "visualization type: tree (default), nodelink")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, vizType, output string, noCache bool) error {
	reg, conns, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", vizType))
	spinner.Start()

	l, err := runner.Layout(ctx, reg, conns, vizType)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(reg), len(conns), false)
	printNewline()
	printNextStep("Render", "coachtree visualize "+outputPath)

	return nil
}
