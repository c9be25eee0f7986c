package cli

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/coachvis/coachtree/pkg/graph"
	"github.com/coachvis/coachtree/pkg/pipeline"
)

// renderCommand creates the render command: the end-to-end shortcut from
// assignment rows to visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		vizType    string
		noCache    bool
		refresh    bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "render [rows file]",
		Short: "Build, lay out, and render a coaching tree in one step",
		Long: `Build, lay out, and render a coaching tree in one step.

The render command runs the full pipeline: it reads assignment rows from a
JSON, YAML, or CSV file, builds the coaching graph, assigns hierarchy levels,
computes positions, and writes the rendered output.

With --watch, the command stays running and re-renders whenever the rows file
changes, which is handy while cleaning up a dataset.

Intermediate results are cached locally; use --refresh to force a full
recompute or --no-cache to disable caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if err := pipeline.ValidateVizType(vizType); err != nil {
				return err
			}

			opts := pipeline.Options{
				Input:   args[0],
				VizType: vizType,
				Formats: formats,
				Refresh: refresh,
			}
			if watch {
				return c.runRenderWatch(cmd.Context(), args[0], opts, output, noCache)
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().StringVarP(&vizType, "type", "t", graph.VizTypeTree, "visualization type: tree (default), nodelink")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached intermediate results")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the rows file changes")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering coaching tree...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printStats(result.Stats.CoachCount, result.Stats.ConnectionCount, result.CacheInfo.BuildHit)
	return nil
}

// runRenderWatch renders once, then re-renders on every change to the rows
// file until the context is cancelled. Render failures are reported and
// watching continues, so a half-saved file does not kill the session.
func (c *CLI) runRenderWatch(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := c.runRender(ctx, input, opts, output, noCache); err != nil {
		printError("%v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(input); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	printInfo("Watching %s for changes (ctrl-c to stop)", input)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			c.Logger.Debug("rows file changed", "event", ev.Op.String())
			if err := c.runRender(ctx, input, opts, output, noCache); err != nil {
				printError("%v", err)
			}
			// Editors that replace the file drop the watch; re-add.
			if ev.Has(fsnotify.Create) {
				_ = watcher.Add(input)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "err", err)
		}
	}
}
