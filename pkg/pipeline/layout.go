package pipeline

import (
	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/graph"
	"github.com/coachvis/coachtree/pkg/layout"
	"github.com/coachvis/coachtree/pkg/render"
)

// buildLayout runs level assignment and positioning over the registry and
// serializes the result. The registry is mutated in place (levels, then
// coordinates); the returned Layout is a snapshot of it.
//
// For nodelink layouts the same leveled registry is converted to a DOT
// document instead of carrying canvas coordinates.
func buildLayout(reg coach.Registry, conns []coach.Connection, vizType string) graph.Layout {
	coach.AssignLevels(reg)
	canvas := layout.Compute(reg)

	l := graph.Layout{
		VizType: vizType,
		Width:   canvas.Width,
		Height:  canvas.Height,
		Levels:  make(map[int][]string),
		Edges:   make([]graph.Edge, 0, len(conns)),
	}

	// Nodes in level order, name-sorted within a level, so serialized output
	// is deterministic.
	groups := layout.Groups(reg)
	for level := 0; level <= reg.MaxLevel(); level++ {
		for _, c := range groups[level] {
			l.Levels[level] = append(l.Levels[level], c.Name)
			l.Nodes = append(l.Nodes, graph.Node{
				Name:  c.Name,
				Level: c.Level,
				X:     c.X,
				Y:     c.Y,
				Roles: layoutRoles(c),
			})
		}
	}

	for _, conn := range conns {
		l.Edges = append(l.Edges, graph.Edge{
			From:   conn.HeadCoach,
			To:     conn.Coordinator,
			Season: conn.Season,
			Team:   conn.Team,
		})
	}

	if vizType == graph.VizTypeNodelink {
		l.DOT = render.ToDOT(l)
		l.Nodes = nil
		l.Width, l.Height = 0, 0
	}

	return l
}

// layoutRoles carries a coach's history into the layout sorted by season
// descending, the ordering renderers present.
func layoutRoles(c *coach.Coach) []graph.Role {
	history := c.History()
	out := make([]graph.Role, len(history))
	for i, r := range history {
		out[i] = graph.Role{Season: r.Season, Team: r.Team, Title: r.Title, Record: r.Record}
	}
	return out
}
