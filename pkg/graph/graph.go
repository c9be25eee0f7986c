// Package graph defines the serialization formats for coaching graphs and
// computed layouts.
//
// Two JSON documents flow between pipeline stages and tools:
//
//   - graph.json ([Graph]): the coach registry and connection list produced
//     by building, before or after level assignment.
//   - layout.json ([Layout]): the positioned graph plus canvas extents,
//     ready for a renderer.
//
// Both formats are designed for round-trip fidelity: import, transform, and
// re-export produce identical structures. Output is deterministic (coaches
// sorted by name, name sets sorted) so serialized bytes are stable cache and
// diff inputs.
package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/coachvis/coachtree/pkg/coach"
)

// Graph is the canonical serialization of a built coaching graph.
type Graph struct {
	Coaches     []Coach            `json:"coaches"`
	Connections []coach.Connection `json:"connections"`
}

// Coach is the serialized form of a registry entry. Coordinators and
// HeadCoaches are the sorted contents of the corresponding name sets.
type Coach struct {
	Name         string       `json:"name"`
	Roles        []coach.Role `json:"roles"`
	Coordinators []string     `json:"coordinators,omitempty"`
	HeadCoaches  []string     `json:"head_coaches,omitempty"`
	Level        int          `json:"level"`
	X            float64      `json:"x,omitempty"`
	Y            float64      `json:"y,omitempty"`
}

// FromRegistry converts a registry and connection list to the serialization
// format. Coaches are sorted by name for deterministic output.
func FromRegistry(reg coach.Registry, conns []coach.Connection) Graph {
	out := Graph{
		Coaches:     make([]Coach, 0, len(reg)),
		Connections: slices.Clone(conns),
	}
	for _, c := range reg.Coaches() {
		out.Coaches = append(out.Coaches, Coach{
			Name:         c.Name,
			Roles:        slices.Clone(c.Roles),
			Coordinators: sortedNames(c.Coordinators),
			HeadCoaches:  sortedNames(c.HeadCoaches),
			Level:        c.Level,
			X:            c.X,
			Y:            c.Y,
		})
	}
	return out
}

// ToRegistry converts a serialized Graph back to a registry and connection
// list. It fails if a connection or name set references a coach missing from
// the document, which indicates a corrupted file.
func ToRegistry(g Graph) (coach.Registry, []coach.Connection, error) {
	reg := make(coach.Registry, len(g.Coaches))
	for _, sc := range g.Coaches {
		if sc.Name == "" {
			return nil, nil, fmt.Errorf("coach with empty name")
		}
		if _, exists := reg[sc.Name]; exists {
			return nil, nil, fmt.Errorf("duplicate coach %q", sc.Name)
		}
		reg[sc.Name] = &coach.Coach{
			Name:         sc.Name,
			Roles:        slices.Clone(sc.Roles),
			Coordinators: nameSet(sc.Coordinators),
			HeadCoaches:  nameSet(sc.HeadCoaches),
			Level:        sc.Level,
			X:            sc.X,
			Y:            sc.Y,
		}
	}

	for _, sc := range g.Coaches {
		for _, name := range append(slices.Clone(sc.Coordinators), sc.HeadCoaches...) {
			if _, ok := reg[name]; !ok {
				return nil, nil, fmt.Errorf("coach %q references unknown coach %q", sc.Name, name)
			}
		}
	}
	for i, conn := range g.Connections {
		if _, ok := reg[conn.HeadCoach]; !ok {
			return nil, nil, fmt.Errorf("connection %d: unknown head coach %q", i, conn.HeadCoach)
		}
		if _, ok := reg[conn.Coordinator]; !ok {
			return nil, nil, fmt.Errorf("connection %d: unknown coordinator %q", i, conn.Coordinator)
		}
	}

	return reg, slices.Clone(g.Connections), nil
}

// MarshalGraph serializes a registry and connections to pretty-printed JSON.
func MarshalGraph(reg coach.Registry, conns []coach.Connection) ([]byte, error) {
	return json.MarshalIndent(FromRegistry(reg, conns), "", "  ")
}

// ReadGraph deserializes a Graph document from r into a registry and
// connection list.
func ReadGraph(r io.Reader) (coach.Registry, []coach.Connection, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, nil, fmt.Errorf("decode graph: %w", err)
	}
	return ToRegistry(g)
}

// ReadGraphFile reads a graph.json file.
func ReadGraphFile(path string) (coach.Registry, []coach.Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteGraph serializes the registry and connections to w.
func WriteGraph(reg coach.Registry, conns []coach.Connection, w io.Writer) error {
	data, err := MarshalGraph(reg, conns)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteGraphFile writes a graph.json file.
func WriteGraphFile(reg coach.Registry, conns []coach.Connection, path string) error {
	data, err := MarshalGraph(reg, conns)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func sortedNames(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
