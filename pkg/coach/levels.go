package coach

import "math"

// AssignLevels computes a hierarchical depth for every coach in the registry,
// mutating Level in place.
//
// # Roots
//
// A coach is a root when they hold at least one head-coach stint and either
// never held a coordinator role at all, or their earliest head-coach season
// is no later than their earliest coordinator season ("head coach first, or
// the same year" counts as a root). A coach with zero head-coach stints is
// never a root.
//
// # Propagation
//
// Roots start at level 0 and seed a FIFO queue. For each dequeued coach, every
// coach in its Coordinators set is raised to max(current, dequeued+1), so a
// coach reachable along several paths ends up at the depth of the longest
// path that reached it before it was processed. A coordinator is enqueued and
// marked visited only on first sight; its level can still be raised by later
// max() updates, but a coach that has already been dequeued is not processed
// again, so a late raise does not flow onward to its own coordinators. This
// can under-count depth in graphs with unequal path lengths to the same node;
// the behavior is deliberate and matches how the hierarchy is rendered.
//
// # Disconnected coaches
//
// Coaches unreachable from any root (for example a coordinator whose only
// listed head coach never appears as a head coach in the data) are placed one
// level below the deepest visited coach. This is a designed fallback, never
// an error.
func AssignLevels(reg Registry) {
	visited := make(map[string]bool, len(reg))
	var queue []*Coach

	for name, c := range reg {
		if isRoot(c) {
			c.Level = 0
			visited[name] = true
			queue = append(queue, c)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for name := range curr.Coordinators {
			sub, ok := reg[name]
			if !ok {
				continue
			}
			if level := curr.Level + 1; level > sub.Level {
				sub.Level = level
			}
			if !visited[name] {
				visited[name] = true
				queue = append(queue, sub)
			}
		}
	}

	maxVisited := 0
	for name := range visited {
		if l := reg[name].Level; l > maxVisited {
			maxVisited = l
		}
	}
	for name, c := range reg {
		if !visited[name] {
			c.Level = maxVisited + 1
		}
	}
}

// isRoot reports whether the coach starts a lineage: head coach only, or head
// coach no later than their first coordinator stint.
func isRoot(c *Coach) bool {
	minHead, minCoord := math.MaxInt, math.MaxInt
	for _, r := range c.Roles {
		if r.IsHeadCoach() {
			if r.Season < minHead {
				minHead = r.Season
			}
		} else if r.Season < minCoord {
			minCoord = r.Season
		}
	}
	if minHead == math.MaxInt {
		return false
	}
	return minHead <= minCoord
}

// Roots returns the names of all root coaches, in registry iteration order.
func Roots(reg Registry) []string {
	var roots []string
	for name, c := range reg {
		if isRoot(c) {
			roots = append(roots, name)
		}
	}
	return roots
}
