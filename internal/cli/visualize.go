package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachvis/coachtree/pkg/graph"
	"github.com/coachvis/coachtree/pkg/pipeline"
	"github.com/coachvis/coachtree/pkg/render"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout to SVG or DOT",
		Long: `Render a computed layout to SVG or DOT.

The visualize command takes a layout.json file (produced by 'layout') and
renders it. The layout contains all positioning information, so this step is
purely about drawing.

Use 'render' as a shortcut to go directly from assignment rows to visual
output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], formats, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, formats []string, output string) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", l.VizType))
	spinner.Start()

	artifacts, err := renderLayout(ctx, l, formats)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formats,
		input:     input,
		output:    output,
	})
}

// renderLayout produces the requested artifacts from an already-computed
// layout, without the pipeline's caching.
func renderLayout(ctx context.Context, l graph.Layout, formats []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case pipeline.FormatJSON:
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case pipeline.FormatDOT:
			if l.IsNodelink() {
				out[format] = []byte(l.DOT)
			} else {
				out[format] = []byte(render.ToDOT(l))
			}
		case pipeline.FormatSVG:
			if l.IsNodelink() {
				svg, err := render.DOTToSVG(ctx, l.DOT)
				if err != nil {
					return nil, err
				}
				out[format] = svg
			} else {
				out[format] = render.SVG(l)
			}
		}
	}
	return out, nil
}
