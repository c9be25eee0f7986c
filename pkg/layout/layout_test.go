package layout

import (
	"testing"

	"github.com/coachvis/coachtree/pkg/coach"
)

func makeRegistry(levels map[string]int) coach.Registry {
	reg := make(coach.Registry)
	for name, level := range levels {
		reg[name] = &coach.Coach{
			Name:         name,
			Level:        level,
			Coordinators: make(map[string]struct{}),
			HeadCoaches:  make(map[string]struct{}),
		}
	}
	return reg
}

func TestCompute_Positions(t *testing.T) {
	// Three coaches on one level inside the minimum canvas: equal gaps at
	// 1000/4 intervals.
	reg := makeRegistry(map[string]int{
		"Alice": 0,
		"Bob":   0,
		"Carol": 0,
	})

	canvas := Compute(reg)

	if canvas.Width != MinWidth || canvas.Height != MinHeight {
		t.Fatalf("canvas = %+v, want minimums %vx%v", canvas, MinWidth, MinHeight)
	}

	wantX := map[string]float64{"Alice": 250, "Bob": 500, "Carol": 750}
	for name, x := range wantX {
		if got := reg[name].X; got != x {
			t.Errorf("%s X = %v, want %v", name, got, x)
		}
		// One level: band height is the whole canvas, offset by the margin.
		if got := reg[name].Y; got != TopMargin {
			t.Errorf("%s Y = %v, want %v", name, got, TopMargin)
		}
	}
}

func TestCompute_CanvasGrowth(t *testing.T) {
	tests := []struct {
		name       string
		levels     map[string]int
		wantWidth  float64
		wantHeight float64
	}{
		{
			"small graph keeps minimums",
			map[string]int{"A": 0, "B": 1},
			MinWidth, MinHeight,
		},
		{
			"deep graph grows height",
			map[string]int{"A": 0, "B": 1, "C": 2, "D": 3},
			MinWidth, 4 * LevelHeight,
		},
		{
			"wide level grows width",
			func() map[string]int {
				m := map[string]int{"Root": 0}
				for _, n := range []string{"C1", "C2", "C3", "C4", "C5", "C6"} {
					m[n] = 1
				}
				return m
			}(),
			6 * CoachWidth, MinHeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas := Compute(makeRegistry(tt.levels))
			if canvas.Width != tt.wantWidth {
				t.Errorf("width = %v, want %v", canvas.Width, tt.wantWidth)
			}
			if canvas.Height != tt.wantHeight {
				t.Errorf("height = %v, want %v", canvas.Height, tt.wantHeight)
			}
		})
	}
}

func TestCompute_BandY(t *testing.T) {
	reg := makeRegistry(map[string]int{"A": 0, "B": 1, "C": 2})

	Compute(reg)

	// Three levels in the 600 minimum: 200 per band, plus the top margin.
	want := map[string]float64{"A": 100, "B": 300, "C": 500}
	for name, y := range want {
		if got := reg[name].Y; got != y {
			t.Errorf("%s Y = %v, want %v", name, got, y)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	levels := map[string]int{
		"Walsh": 0, "Holmgren": 1, "Reid": 2, "Shanahan": 1, "Gruden": 2,
	}

	first := makeRegistry(levels)
	Compute(first)

	// Same logical input, fresh map (new iteration order) and repeated runs
	// must land every coach in the same spot.
	for run := 0; run < 3; run++ {
		next := makeRegistry(levels)
		Compute(next)
		Compute(next) // idempotent over already-positioned coaches
		for name := range levels {
			if first[name].X != next[name].X || first[name].Y != next[name].Y {
				t.Fatalf("run %d: %s moved from (%v,%v) to (%v,%v)",
					run, name, first[name].X, first[name].Y, next[name].X, next[name].Y)
			}
		}
	}
}

func TestCompute_EmptyRegistry(t *testing.T) {
	canvas := Compute(coach.Registry{})
	if canvas.Width != MinWidth || canvas.Height != MinHeight {
		t.Errorf("empty canvas = %+v, want %vx%v", canvas, MinWidth, MinHeight)
	}
}

func TestGroups_SortedByName(t *testing.T) {
	reg := makeRegistry(map[string]int{
		"Zimmer": 1, "Allen": 1, "McCarthy": 1, "Root": 0,
	})

	groups := Groups(reg)

	if len(groups[0]) != 1 || groups[0][0].Name != "Root" {
		t.Errorf("level 0 = %v", names(groups[0]))
	}
	want := []string{"Allen", "McCarthy", "Zimmer"}
	got := names(groups[1])
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("level 1 = %v, want %v", got, want)
		}
	}
}

func names(coaches []*coach.Coach) []string {
	out := make([]string, len(coaches))
	for i, c := range coaches {
		out[i] = c.Name
	}
	return out
}
