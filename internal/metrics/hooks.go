package metrics

import (
	"context"
	"time"

	"github.com/coachvis/coachtree/pkg/observability"
)

// Hooks adapts the Prometheus collectors to the pipeline's observability
// interfaces. Register registers it globally; the serve command does this at
// startup while CLI runs keep the no-op defaults.
type Hooks struct{}

// Register installs the Prometheus hooks as the process-wide observers.
func Register() {
	h := Hooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (Hooks) OnBuildStart(ctx context.Context, rowCount int) {
	RowsLoaded.Add(float64(rowCount))
}

func (Hooks) OnBuildComplete(ctx context.Context, coachCount, connectionCount int, duration time.Duration, err error) {
	StageDuration.WithLabelValues("build").Observe(float64(duration.Milliseconds()))
	if err != nil {
		LoadsTotal.WithLabelValues("error").Inc()
		return
	}
	LoadsTotal.WithLabelValues("ok").Inc()
	CoachesBuilt.Observe(float64(coachCount))
}

func (Hooks) OnLayoutStart(ctx context.Context, vizType string, coachCount int) {}

func (Hooks) OnLayoutComplete(ctx context.Context, vizType string, duration time.Duration, err error) {
	StageDuration.WithLabelValues("layout").Observe(float64(duration.Milliseconds()))
}

func (Hooks) OnRenderStart(ctx context.Context, formats []string) {}

func (Hooks) OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error) {
	StageDuration.WithLabelValues("render").Observe(float64(duration.Milliseconds()))
	if err == nil {
		for _, f := range formats {
			RendersTotal.WithLabelValues(f).Inc()
		}
	}
}

func (Hooks) OnCacheHit(ctx context.Context, stage string) {
	CacheOperations.WithLabelValues(stage, "hit").Inc()
}

func (Hooks) OnCacheMiss(ctx context.Context, stage string) {
	CacheOperations.WithLabelValues(stage, "miss").Inc()
}

func (Hooks) OnCacheSet(ctx context.Context, stage string, size int) {
	CacheOperations.WithLabelValues(stage, "set").Inc()
}

var (
	_ observability.PipelineHooks = Hooks{}
	_ observability.CacheHooks    = Hooks{}
)
