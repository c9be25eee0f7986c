// Package pipeline orchestrates the coachtree visualization pipeline.
//
// The pipeline runs three stages over a load:
//
//  1. Build: assignment rows → coach registry + connection list
//  2. Layout: level assignment + coordinate computation
//  3. Render: SVG / DOT / JSON artifacts
//
// Each load constructs a fresh registry; nothing is merged into prior state,
// so concurrent Execute calls on one Runner never share mutable graph data.
// A stage failure aborts the load with no partial output.
//
// Create a Runner and execute:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "seasons.csv",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/graph"
)

// Output format constants.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeTree

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeTree:     true,
	graph.VizTypeNodelink: true,
}

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input selects the rows source: a file path, or pre-parsed rows.
	// Rows wins when both are set.
	Input string      `json:"input,omitempty"`
	Rows  []coach.Row `json:"rows,omitempty"`

	// Layout options
	VizType string `json:"viz_type,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the cache for every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this load.
	RunID string

	// Registry is the positioned coach registry.
	Registry coach.Registry

	// Connections is the full edge list, one entry per input row.
	Connections []coach.Connection

	// GraphHash is the content hash of the built graph.
	GraphHash string

	// Layout is the serialized positioned layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount        int
	CoachCount      int
	ConnectionCount int
	BuildTime       time.Duration
	LayoutTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return fmt.Errorf("invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Input == "" && len(o.Rows) == 0 {
		return fmt.Errorf("input path or rows are required")
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
