package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// Layout is the serialization format for a positioned coaching graph.
//
// Check VizType to determine which fields are populated:
//
//	Tree ("tree"):
//	  - Nodes carry the computed x/y coordinates on the Width×Height canvas
//	  - Levels maps each depth to its name-sorted coach names
//
//	Nodelink ("nodelink"):
//	  - DOT holds a Graphviz document describing the same hierarchy
//
// Edges are shared by both types.
type Layout struct {
	VizType string `json:"viz_type"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Nodes  []Node           `json:"nodes,omitempty"`
	Edges  []Edge           `json:"edges,omitempty"`
	Levels map[int][]string `json:"levels,omitempty"`

	DOT string `json:"dot,omitempty"`
}

// IsTree returns true if this is a positioned tree layout.
func (l *Layout) IsTree() bool { return l.VizType == VizTypeTree }

// IsNodelink returns true if this is a Graphviz nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Node is one positioned coach. Roles are carried along sorted by season
// descending so renderers can show career history without re-deriving it.
type Node struct {
	Name  string  `json:"name"`
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Roles []Role  `json:"roles,omitempty"`
}

// Role mirrors coach.Role for serialization.
type Role struct {
	Season int    `json:"season"`
	Team   string `json:"team"`
	Title  string `json:"role"`
	Record string `json:"record"`
}

// Edge is one head-coach/coordinator pairing, drawn from head to coordinator.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Season int    `json:"season"`
	Team   string `json:"team"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates that
// the required fields for the viz type are present.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeTree
	}
	if l.IsTree() && len(l.Nodes) == 0 {
		return Layout{}, fmt.Errorf("tree layout must contain nodes")
	}
	if l.IsNodelink() && l.DOT == "" {
		return Layout{}, fmt.Errorf("nodelink layout must contain a DOT string")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
