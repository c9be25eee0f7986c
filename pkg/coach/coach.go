// Package coach models the coaching hierarchy extracted from flat
// season-by-season assignment rows.
//
// The package owns the first two stages of the visualization pipeline:
// building the coach registry and connection list from rows ([Build]), and
// assigning a hierarchical depth to every coach ([AssignLevels]). Coordinates
// are computed separately by the layout package.
//
// Coaches reference each other by name only. The Coordinators and HeadCoaches
// sets on a Coach, and the endpoints of a Connection, are lookups into the
// registry rather than owned pointers, so mutually-referencing coaches never
// form an ownership cycle.
package coach

import (
	"cmp"
	"slices"
)

// RoleHeadCoach is the role label that marks a head-coaching stint.
// Any other label ("Offensive Coordinator", "Defensive Coordinator", ...) is
// treated as a coordinator role.
const RoleHeadCoach = "Head Coach"

// Row is a single parsed assignment record: one coordinator serving under one
// head coach for a season and team. Rows arrive pre-parsed from the input
// provider; the core only re-checks the required fields.
type Row struct {
	Season      int    `json:"season" yaml:"season"`
	HeadCoach   string `json:"head_coach" yaml:"head_coach"`
	Coordinator string `json:"coordinator" yaml:"coordinator"`
	Role        string `json:"role" yaml:"role"`
	Team        string `json:"team" yaml:"team"`
	Wins        int    `json:"wins" yaml:"wins"`
	Losses      int    `json:"losses" yaml:"losses"`
	Ties        int    `json:"ties" yaml:"ties"`
}

// Role is one recorded stint held by a coach: a season, team, role label, and
// the team's record that year formatted "W-L-T".
type Role struct {
	Season int    `json:"season"`
	Team   string `json:"team"`
	Title  string `json:"role"`
	Record string `json:"record"`
}

// IsHeadCoach reports whether this stint is a head-coaching one.
func (r Role) IsHeadCoach() bool { return r.Title == RoleHeadCoach }

// Coach is one individual appearing anywhere in the input, keyed by name.
// Roles preserve append order (row processing order). Level, X, and Y start
// at zero and are populated by AssignLevels and layout.Compute respectively.
type Coach struct {
	Name         string
	Roles        []Role
	Coordinators map[string]struct{} // coaches who served under this coach
	HeadCoaches  map[string]struct{} // coaches this coach served under
	Level        int
	X, Y         float64
}

// hasRole reports whether the coach already holds a stint matching the given
// season, team, and role label.
func (c *Coach) hasRole(season int, team, title string) bool {
	for _, r := range c.Roles {
		if r.Season == season && r.Team == team && r.Title == title {
			return true
		}
	}
	return false
}

// History returns the coach's stints sorted by season descending, most recent
// first. Stints in the same season keep their append order. The receiver's
// Roles slice is not modified.
func (c *Coach) History() []Role {
	out := slices.Clone(c.Roles)
	slices.SortStableFunc(out, func(a, b Role) int {
		return cmp.Compare(b.Season, a.Season)
	})
	return out
}

// Connection is one recorded head-coach/coordinator pairing for a specific
// season and team. One Connection is emitted per input row, duplicates
// included, so len(connections) always equals the number of rows built.
type Connection struct {
	HeadCoach   string `json:"head_coach"`
	Coordinator string `json:"coordinator"`
	Season      int    `json:"season"`
	Team        string `json:"team"`
}

// Registry maps coach name to coach record. It is created whole by Build and
// mutated in place by AssignLevels (Level) and layout.Compute (X, Y); a new
// load replaces the registry rather than merging into it.
type Registry map[string]*Coach

// ensure returns the coach with the given name, creating an empty record on
// first sight.
func (reg Registry) ensure(name string) *Coach {
	if c, ok := reg[name]; ok {
		return c
	}
	c := &Coach{
		Name:         name,
		Coordinators: make(map[string]struct{}),
		HeadCoaches:  make(map[string]struct{}),
	}
	reg[name] = c
	return c
}

// Coaches returns all coaches sorted by name. The slice holds the registry's
// own records, not copies.
func (reg Registry) Coaches() []*Coach {
	out := make([]*Coach, 0, len(reg))
	for _, c := range reg {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Coach) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// History returns the named coach's stints sorted by season descending, or
// nil if the coach is unknown.
func (reg Registry) History(name string) []Role {
	c, ok := reg[name]
	if !ok {
		return nil
	}
	return c.History()
}

// MaxLevel returns the highest assigned level, or 0 for an empty registry.
func (reg Registry) MaxLevel() int {
	level := 0
	for _, c := range reg {
		if c.Level > level {
			level = c.Level
		}
	}
	return level
}
