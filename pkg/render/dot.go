package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/coachvis/coachtree/pkg/graph"
)

// ToDOT converts a layout to Graphviz DOT format for node-link visualization.
// The hierarchy levels become Graphviz ranks (rankdir=TB), so Graphviz keeps
// the same top-down depth ordering the tree layout computes while choosing
// its own horizontal placement. Output is deterministic: nodes keep the
// layout's level-sorted order and edges are sorted by endpoints and season.
func ToDOT(l graph.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph coachtree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.35;\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(n))}
		if n.Level == 0 {
			attrs = append(attrs, "color=\"#c05621\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, level := range sortedLevels(l) {
		names := l.Levels[level]
		if len(names) < 2 {
			continue
		}
		quoted := make([]string, len(names))
		for i, name := range names {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, e := range sortedEdges(l.Edges) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n",
			e.From, e.To, fmt.Sprintf("%d %s", e.Season, e.Team))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n graph.Node) string {
	if len(n.Roles) == 0 {
		return n.Name
	}
	r := n.Roles[0]
	return fmt.Sprintf("%s\n%d %s (%s)", n.Name, r.Season, r.Team, r.Record)
}

func sortedLevels(l graph.Layout) []int {
	levels := make([]int, 0, len(l.Levels))
	for level := range l.Levels {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

func sortedEdges(edges []graph.Edge) []graph.Edge {
	out := make([]graph.Edge, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Season < b.Season
	})
	return out
}

// DOTToSVG renders a DOT document to SVG using Graphviz.
func DOTToSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
