package render

import (
	"strings"
	"testing"

	"github.com/coachvis/coachtree/pkg/graph"
)

func sampleLayout() graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeTree,
		Width:   1000,
		Height:  600,
		Nodes: []graph.Node{
			{Name: "Andy Reid", Level: 0, X: 500, Y: 100,
				Roles: []graph.Role{{Season: 2020, Team: "KC", Title: "Head Coach", Record: "14-2-0"}}},
			{Name: "Eric Bieniemy", Level: 1, X: 333.3, Y: 400,
				Roles: []graph.Role{{Season: 2020, Team: "KC", Title: "Offensive Coordinator", Record: "14-2-0"}}},
			{Name: "Steve Spagnuolo", Level: 1, X: 666.7, Y: 400},
		},
		Edges: []graph.Edge{
			{From: "Andy Reid", To: "Eric Bieniemy", Season: 2020, Team: "KC"},
			{From: "Andy Reid", To: "Steve Spagnuolo", Season: 2020, Team: "KC"},
		},
		Levels: map[int][]string{
			0: {"Andy Reid"},
			1: {"Eric Bieniemy", "Steve Spagnuolo"},
		},
	}
}

func TestSVG(t *testing.T) {
	out := string(SVG(sampleLayout()))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("output is not an SVG document")
	}
	if !strings.Contains(out, `viewBox="0 0 1000.0 600.0"`) {
		t.Error("viewBox does not match canvas")
	}
	for _, name := range []string{"Andy Reid", "Eric Bieniemy", "Steve Spagnuolo"} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing node %q", name)
		}
	}
	// Root styling only applies to level 0.
	if got := strings.Count(out, `class="coach root"`); got != 1 {
		t.Errorf("root boxes = %d, want 1", got)
	}
	if got := strings.Count(out, `<line class="edge"`); got != 2 {
		t.Errorf("edges = %d, want 2", got)
	}
	// Latest stint subtitle.
	if !strings.Contains(out, "2020 KC · Head Coach") {
		t.Error("output missing stint subtitle")
	}
}

func TestSVG_EscapesNames(t *testing.T) {
	l := graph.Layout{
		VizType: graph.VizTypeTree,
		Width:   1000, Height: 600,
		Nodes: []graph.Node{{Name: `Jim "Big" O'Brien <HC>`, X: 500, Y: 100}},
	}
	out := string(SVG(l))
	if strings.Contains(out, "<HC>") {
		t.Error("node name not escaped")
	}
	if !strings.Contains(out, "&lt;HC&gt;") {
		t.Error("escaped name missing from output")
	}
}

func TestSVG_SkipsEdgesWithMissingEndpoints(t *testing.T) {
	l := sampleLayout()
	l.Edges = append(l.Edges, graph.Edge{From: "Andy Reid", To: "Ghost"})
	out := string(SVG(l))
	if got := strings.Count(out, `<line class="edge"`); got != 2 {
		t.Errorf("edges = %d, want 2 (dangling edge skipped)", got)
	}
}

func TestToDOT(t *testing.T) {
	out := ToDOT(sampleLayout())

	if !strings.HasPrefix(out, "digraph coachtree {") {
		t.Error("output is not a digraph")
	}
	if !strings.Contains(out, "rankdir=TB") {
		t.Error("missing top-down rank direction")
	}
	if !strings.Contains(out, `"Andy Reid" -> "Eric Bieniemy" [label="2020 KC"`) {
		t.Error("missing labeled edge")
	}
	// Levels with two or more coaches pin a rank.
	if !strings.Contains(out, `{ rank=same; "Eric Bieniemy"; "Steve Spagnuolo" }`) {
		t.Error("missing rank=same group for level 1")
	}
	// Singleton levels do not.
	if strings.Contains(out, `{ rank=same; "Andy Reid" }`) {
		t.Error("singleton level should not pin a rank")
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	l := sampleLayout()
	// Reverse the edge order; sorted output must not change.
	l.Edges[0], l.Edges[1] = l.Edges[1], l.Edges[0]

	if ToDOT(sampleLayout()) != ToDOT(l) {
		t.Error("edge input order leaked into DOT output")
	}
}
