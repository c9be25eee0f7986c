// Package pkg provides the core libraries for coachtree coaching-tree visualization.
//
// # Overview
//
// Coachtree transforms flat season-by-season coaching records into hierarchical
// tree diagrams where head coaches sit above the coordinators who served under
// them. The pkg directory is organized into these main areas:
//
//  1. [coach] - Domain logic (registry construction, mentorship levels)
//  2. [layout] - Deterministic 2D coordinate assignment
//  3. [render] - Output sinks (SVG, Graphviz DOT)
//  4. [graph] - Serialization types for graphs and layouts
//  5. [cache] - Content-addressed result caching (file, Redis)
//  6. [pipeline] - Orchestration (build → layout → render)
//
// # Architecture
//
// The typical data flow through coachtree:
//
//	Season Rows (CSV/JSON/YAML)
//	         ↓
//	   coach.Build          registry + connections
//	         ↓
//	   coach.AssignLevels   mentorship depth per coach
//	         ↓
//	   layout.Compute       canvas coordinates
//	         ↓
//	   render               SVG / DOT artifacts
//
// Each stage round-trips through the graph package's JSON types, so any stage
// can be run standalone from a saved file.
package pkg
