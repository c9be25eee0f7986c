// Package render turns positioned layouts into display artifacts.
//
// It is the renderer collaborator for the core pipeline: the core produces a
// positioned registry, and this package draws it. Two visual forms are
// supported: a hand-drawn SVG of the computed tree coordinates ([SVG]) and a
// Graphviz node-link diagram ([ToDOT], [DOTToSVG]) that lets Graphviz do its
// own placement.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/coachvis/coachtree/pkg/graph"
)

// Node box geometry for the tree SVG.
const (
	nodeWidth  = 150.0
	nodeHeight = 56.0
)

const treeCSS = `
    .coach { fill: #ffffff; stroke: #2b6cb0; stroke-width: 2; }
    .coach.root { stroke: #c05621; }
    .edge { stroke: #a0aec0; stroke-width: 1.5; }
    .name { font: bold 14px sans-serif; fill: #1a202c; text-anchor: middle; }
    .detail { font: 11px sans-serif; fill: #4a5568; text-anchor: middle; }`

// SVG renders a tree layout to SVG bytes. Edges are drawn first so node boxes
// sit on top of them; nodes are emitted in slice order, which the pipeline
// keeps name-sorted per level for stable output.
func SVG(l graph.Layout) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", treeCSS)

	centers := nodeCenters(l)
	for _, e := range l.Edges {
		from, okF := centers[e.From]
		to, okT := centers[e.To]
		if !okF || !okT {
			continue
		}
		fmt.Fprintf(&buf, `  <line class="edge" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			from.x, from.y, to.x, to.y)
	}

	for _, n := range l.Nodes {
		class := "coach"
		if n.Level == 0 {
			class = "coach root"
		}
		fmt.Fprintf(&buf, `  <rect class="%s" x="%.1f" y="%.1f" width="%.0f" height="%.0f" rx="8"/>`+"\n",
			class, n.X-nodeWidth/2, n.Y-nodeHeight/2, nodeWidth, nodeHeight)
		fmt.Fprintf(&buf, `  <text class="name" x="%.1f" y="%.1f">%s</text>`+"\n",
			n.X, n.Y-2, html.EscapeString(n.Name))
		if stint := latestStint(n); stint != "" {
			fmt.Fprintf(&buf, `  <text class="detail" x="%.1f" y="%.1f">%s</text>`+"\n",
				n.X, n.Y+16, html.EscapeString(stint))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type point struct{ x, y float64 }

func nodeCenters(l graph.Layout) map[string]point {
	centers := make(map[string]point, len(l.Nodes))
	for _, n := range l.Nodes {
		centers[n.Name] = point{n.X, n.Y}
	}
	return centers
}

// latestStint summarizes a node's most recent role for the box subtitle,
// e.g. "2023 MIN · Head Coach". Roles arrive sorted by season descending.
func latestStint(n graph.Node) string {
	if len(n.Roles) == 0 {
		return ""
	}
	r := n.Roles[0]
	return fmt.Sprintf("%d %s · %s", r.Season, r.Team, r.Title)
}
