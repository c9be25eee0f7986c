// Package layout computes deterministic 2D positions for a leveled coach
// registry.
//
// Coaches are grouped by level into horizontal bands. Within a band, coaches
// are ordered by name so repeated runs over the same input always produce the
// same coordinates, and spaced so that n coaches get equal gaps and equal
// margins from both canvas edges.
package layout

import (
	"cmp"
	"slices"

	"github.com/coachvis/coachtree/pkg/coach"
)

// Canvas sizing constants. The minimums keep a single-node graph from
// collapsing into a degenerate frame.
const (
	MinWidth    = 1000.0
	MinHeight   = 600.0
	LevelHeight = 200.0 // vertical budget per hierarchy level
	CoachWidth  = 180.0 // horizontal budget per coach in the widest level
	TopMargin   = 100.0
)

// Canvas is the computed drawing extent for a positioned registry.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Compute assigns X and Y to every coach in the registry and returns the
// canvas extents. Levels must already be assigned; Compute groups by Level,
// sizes the canvas from the level count and the widest level, and positions
// each band's coaches at x = (i+1) * width/(n+1) in name order, with
// y = level * height/totalLevels + TopMargin.
//
// Compute is idempotent: recomputing over the same registry yields identical
// coordinates.
func Compute(reg coach.Registry) Canvas {
	if len(reg) == 0 {
		return Canvas{Width: MinWidth, Height: MinHeight}
	}

	groups := Groups(reg)
	totalLevels := reg.MaxLevel() + 1

	maxPerLevel := 0
	for _, group := range groups {
		if len(group) > maxPerLevel {
			maxPerLevel = len(group)
		}
	}

	canvas := Canvas{
		Width:  max(MinWidth, float64(maxPerLevel)*CoachWidth),
		Height: max(MinHeight, float64(totalLevels)*LevelHeight),
	}

	for level, group := range groups {
		y := float64(level)*(canvas.Height/float64(totalLevels)) + TopMargin
		spacing := canvas.Width / float64(len(group)+1)
		for i, c := range group {
			c.X = float64(i+1) * spacing
			c.Y = y
		}
	}

	return canvas
}

// Groups buckets the registry by level, each bucket sorted by coach name.
// Sorting is plain lexicographic byte order: deterministic and
// locale-independent.
func Groups(reg coach.Registry) map[int][]*coach.Coach {
	groups := make(map[int][]*coach.Coach)
	for _, c := range reg {
		groups[c.Level] = append(groups[c.Level], c)
	}
	for _, group := range groups {
		slices.SortStableFunc(group, func(a, b *coach.Coach) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}
	return groups
}
