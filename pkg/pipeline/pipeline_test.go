package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/coachvis/coachtree/pkg/cache"
	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/errors"
	"github.com/coachvis/coachtree/pkg/graph"
)

func sampleRows() []coach.Row {
	return []coach.Row{
		{Season: 2019, HeadCoach: "Andy Reid", Coordinator: "Eric Bieniemy",
			Role: "Offensive Coordinator", Team: "KC", Wins: 12, Losses: 4},
		{Season: 2019, HeadCoach: "Andy Reid", Coordinator: "Steve Spagnuolo",
			Role: "Defensive Coordinator", Team: "KC", Wins: 12, Losses: 4},
		{Season: 2022, HeadCoach: "Kevin O'Connell", Coordinator: "Wes Phillips",
			Role: "Offensive Coordinator", Team: "MIN", Wins: 13, Losses: 4},
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	opts := Options{Rows: sampleRows()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if opts.VizType != graph.VizTypeTree {
		t.Errorf("default viz type = %q, want tree", opts.VizType)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("default formats = %v, want [svg]", opts.Formats)
	}

	// Idempotent.
	before := opts.VizType
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validate failed: %v", err)
	}
	if opts.VizType != before {
		t.Error("second validate changed options")
	}
}

func TestOptions_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no input", Options{}},
		{"bad viz type", Options{Rows: sampleRows(), VizType: "circular"}},
		{"bad format", Options{Rows: sampleRows(), Formats: []string{"png"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRunner_Execute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Rows:    sampleRows(),
		Formats: []string{FormatSVG, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run ID")
	}
	if result.Stats.RowCount != 3 {
		t.Errorf("row count = %d, want 3", result.Stats.RowCount)
	}
	if result.Stats.CoachCount != 5 {
		t.Errorf("coach count = %d, want 5", result.Stats.CoachCount)
	}
	if result.Stats.ConnectionCount != 3 {
		t.Errorf("connection count = %d, want 3", result.Stats.ConnectionCount)
	}

	for _, format := range []string{FormatSVG, FormatDOT, FormatJSON} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact is not DOT")
	}

	// Both head coaches started as head coaches: two roots at level 0 and
	// their coordinators at level 1.
	if got := result.Registry["Andy Reid"].Level; got != 0 {
		t.Errorf("Reid level = %d, want 0", got)
	}
	if got := result.Registry["Wes Phillips"].Level; got != 1 {
		t.Errorf("Phillips level = %d, want 1", got)
	}

	if result.CacheInfo.BuildHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("null cache reported a hit")
	}
}

func TestRunner_ExecuteCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Rows: sampleRows(), Formats: []string{FormatSVG}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if first.CacheInfo.BuildHit {
		t.Error("cold cache reported a build hit")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm cache info = %+v, want all hits", second.CacheInfo)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses the warm cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute failed: %v", err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh cache info = %+v, want no hits", third.CacheInfo)
	}
}

func TestRunner_ExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()
	ctx := context.Background()

	// A malformed row aborts the load with the row's code and no result.
	bad := sampleRows()
	bad[1].Coordinator = ""
	result, err := runner.Execute(ctx, Options{Rows: bad})
	if err == nil {
		t.Fatal("expected error for malformed row")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeMalformedRow {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeMalformedRow)
	}
	if result != nil {
		t.Error("failed run returned partial result")
	}

	// Missing input file.
	if _, err := runner.Execute(ctx, Options{Input: "/nonexistent/rows.json"}); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestRunner_NodelinkLayout(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Rows:    sampleRows(),
		VizType: graph.VizTypeNodelink,
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Layout.IsNodelink() {
		t.Errorf("viz type = %q, want nodelink", result.Layout.VizType)
	}
	if result.Layout.DOT == "" {
		t.Error("nodelink layout missing DOT document")
	}
	if len(result.Layout.Nodes) != 0 {
		t.Error("nodelink layout should not carry positioned nodes")
	}
	if !strings.Contains(result.Layout.DOT, "Andy Reid") {
		t.Error("DOT missing coaches")
	}
}

func TestBuildLayout_TreeDeterminism(t *testing.T) {
	build := func() graph.Layout {
		reg, conns, err := coach.Build(sampleRows())
		if err != nil {
			t.Fatal(err)
		}
		return buildLayout(reg, conns, graph.VizTypeTree)
	}

	first, err := graph.MarshalLayout(build())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		next, err := graph.MarshalLayout(build())
		if err != nil {
			t.Fatal(err)
		}
		if string(first) != string(next) {
			t.Fatal("layout serialization is not deterministic")
		}
	}
}
