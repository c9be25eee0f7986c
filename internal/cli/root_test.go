package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachvis/coachtree/pkg/pipeline"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	require.NotNil(t, root)

	assert.Equal(t, "coachtree", root.Use)
	assert.True(t, root.SilenceUsage)

	want := []string{"build", "layout", "visualize", "render", "browse", "serve", "cache", "completion"}
	got := make(map[string]bool)
	for _, sub := range root.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "root command should register %q", name)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{pipeline.FormatSVG}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFormats(tt.input))
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output uses input stem", "", "teams.csv", "teams"},
		{"output with format extension stripped", "tree.svg", "teams.csv", "tree"},
		{"output with unknown extension kept", "tree.out", "teams.csv", "tree.out"},
		{"output without extension kept", "tree", "teams.csv", "tree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, basePath(tt.output, tt.input))
		})
	}
}
