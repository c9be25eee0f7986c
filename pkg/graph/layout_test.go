package graph

import (
	"strings"
	"testing"
)

func treeLayout() Layout {
	return Layout{
		VizType: VizTypeTree,
		Width:   1000,
		Height:  600,
		Nodes: []Node{
			{Name: "Andy Reid", Level: 0, X: 500, Y: 100},
			{Name: "Eric Bieniemy", Level: 1, X: 500, Y: 400,
				Roles: []Role{{Season: 2019, Team: "KC", Title: "Offensive Coordinator", Record: "12-4-0"}}},
		},
		Edges: []Edge{
			{From: "Andy Reid", To: "Eric Bieniemy", Season: 2019, Team: "KC"},
		},
		Levels: map[int][]string{
			0: {"Andy Reid"},
			1: {"Eric Bieniemy"},
		},
	}
}

func TestLayout_RoundTrip(t *testing.T) {
	l := treeLayout()

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout failed: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout failed: %v", err)
	}

	if got.VizType != VizTypeTree || !got.IsTree() {
		t.Errorf("viz type = %q", got.VizType)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("nodes = %d, edges = %d", len(got.Nodes), len(got.Edges))
	}
	if got.Nodes[1].Roles[0].Record != "12-4-0" {
		t.Errorf("role record = %q", got.Nodes[1].Roles[0].Record)
	}
	if got.Levels[1][0] != "Eric Bieniemy" {
		t.Errorf("levels[1] = %v", got.Levels[1])
	}
}

func TestUnmarshalLayout_Validation(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			"tree without nodes",
			`{"viz_type": "tree"}`,
			"must contain nodes",
		},
		{
			"nodelink without dot",
			`{"viz_type": "nodelink"}`,
			"must contain a DOT string",
		},
		{
			"defaults to tree",
			`{"nodes": [{"name": "A", "level": 0, "x": 1, "y": 1}]}`,
			"",
		},
		{
			"nodelink with dot",
			`{"viz_type": "nodelink", "dot": "digraph {}"}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.json))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("UnmarshalLayout failed: %v", err)
				}
				if l.VizType == "" {
					t.Error("viz type not defaulted")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLayoutFile_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/layout.json"

	if err := WriteLayoutFile(treeLayout(), path); err != nil {
		t.Fatalf("WriteLayoutFile failed: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile failed: %v", err)
	}
	if len(got.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(got.Nodes))
	}
}
