package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/graph"
	"github.com/coachvis/coachtree/pkg/pipeline"
)

// buildCommand creates the build command for constructing coaching graphs.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "build [rows file]",
		Short: "Build a coaching graph from assignment rows",
		Long: `Build a coaching graph from season-by-season assignment rows.

The input is a JSON, YAML, or CSV file of rows, one coordinator stint each:
season, head_coach, coordinator, role, team, and the team's win-loss-tie
record. The output is a graph.json file holding every coach's career roles
and the full head-coach/coordinator connection list, with hierarchy levels
assigned.

A single malformed row rejects the whole file; fix the row and rerun.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Building coaching graph...")
	spinner.Start()

	reg, conns, err := runner.Build(ctx, pipeline.Options{Input: input})
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	coach.AssignLevels(reg)
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.done(fmt.Sprintf("Built graph with %d coaches", len(reg)))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".graph.json"
	}

	if err := graph.WriteGraphFile(reg, conns, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Build complete")
	printFile(outputPath)
	printStats(len(reg), len(conns), false)
	printNewline()
	printNextStep("Compute layout", "coachtree layout "+outputPath)

	return nil
}
