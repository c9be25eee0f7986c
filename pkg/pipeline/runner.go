package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/coachvis/coachtree/pkg/cache"
	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/errors"
	"github.com/coachvis/coachtree/pkg/graph"
	"github.com/coachvis/coachtree/pkg/observability"
	"github.com/coachvis/coachtree/pkg/render"
	"github.com/coachvis/coachtree/pkg/rows"
)

// Runner executes the pipeline with per-stage caching. It is stateless apart
// from the cache, keyer, and logger, so one Runner can serve concurrent
// Execute calls; every call builds its own registry.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching (NullCache), a nil
// keyer selects the default key scheme, and a nil logger falls back to
// log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete build → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	inputRows := opts.Rows
	if len(inputRows) == 0 {
		var err error
		inputRows, err = rows.ReadFile(opts.Input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read rows")
		}
	}
	result.Stats.RowCount = len(inputRows)

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(inputRows))
	reg, conns, hit, err := r.buildCached(ctx, inputRows, opts)
	observability.Pipeline().OnBuildComplete(ctx, len(reg), len(conns), time.Since(buildStart), err)
	if err != nil {
		return nil, err
	}
	result.Registry = reg
	result.Connections = conns
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.CoachCount = len(reg)
	result.Stats.ConnectionCount = len(conns)
	result.CacheInfo.BuildHit = hit

	if data, err := graph.MarshalGraph(reg, conns); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	opts.Logger.Info("built coaching graph",
		"coaches", len(reg),
		"connections", len(conns),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout (levels + positions)
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.VizType, len(reg))
	l, hit, err := r.layoutCached(ctx, reg, conns, result.GraphHash, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("computed layout",
		"viz_type", opts.VizType,
		"levels", len(l.Levels),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, hit, err := r.renderCached(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build runs only the build stage over the given rows.
func (r *Runner) Build(ctx context.Context, opts Options) (coach.Registry, []coach.Connection, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	inputRows := opts.Rows
	if len(inputRows) == 0 {
		var err error
		inputRows, err = rows.ReadFile(opts.Input)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read rows")
		}
	}
	reg, conns, _, err := r.buildCached(ctx, inputRows, opts)
	return reg, conns, err
}

// Layout runs level assignment and positioning over an already-built graph.
func (r *Runner) Layout(ctx context.Context, reg coach.Registry, conns []coach.Connection, vizType string) (graph.Layout, error) {
	if vizType == "" {
		vizType = DefaultVizType
	}
	if err := ValidateVizType(vizType); err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidVizType, err, "layout")
	}

	graphHash := ""
	if data, err := graph.MarshalGraph(reg, conns); err == nil {
		graphHash = cache.Hash(data)
	}
	l, _, err := r.layoutCached(ctx, reg, conns, graphHash, Options{VizType: vizType})
	return l, err
}

// Close releases resources held by the runner (the cache backend).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) buildCached(ctx context.Context, inputRows []coach.Row, opts Options) (coach.Registry, []coach.Connection, bool, error) {
	rowsData, err := rowsFingerprint(inputRows)
	if err != nil {
		return nil, nil, false, errors.Wrap(errors.ErrCodeInternal, err, "fingerprint rows")
	}
	key := r.Keyer.GraphKey(cache.Hash(rowsData))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if reg, conns, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "build")
				return reg, conns, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "build")
	}

	reg, conns, err := coach.Build(inputRows)
	if err != nil {
		return nil, nil, false, buildError(err)
	}

	if !opts.Refresh {
		if data, err := graph.MarshalGraph(reg, conns); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
				observability.Cache().OnCacheSet(ctx, "build", len(data))
			}
		}
	}
	return reg, conns, false, nil
}

func (r *Runner) layoutCached(ctx context.Context, reg coach.Registry, conns []coach.Connection, graphHash string, opts Options) (graph.Layout, bool, error) {
	key := r.Keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{VizType: opts.VizType})

	if !opts.Refresh && graphHash != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				applyPositions(reg, cached)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l := buildLayout(reg, conns, opts.VizType)

	if !opts.Refresh && graphHash != "" {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return l, false, nil
}

func (r *Runner) renderCached(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: format, VizType: l.VizType})
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	rendered, err := renderFormats(ctx, l, layoutData, opts.Formats)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: format, VizType: l.VizType})
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "render", len(data))
			}
		}
	}
	return rendered, false, nil
}

// renderFormats produces every requested artifact from one layout.
func renderFormats(ctx context.Context, l graph.Layout, layoutData []byte, formats []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case FormatJSON:
			out[format] = layoutData
		case FormatDOT:
			out[format] = []byte(dotFor(l))
		case FormatSVG:
			if l.IsNodelink() {
				svg, err := render.DOTToSVG(ctx, dotFor(l))
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "render nodelink svg")
				}
				out[format] = svg
			} else {
				out[format] = render.SVG(l)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
		}
	}
	return out, nil
}

// dotFor returns the layout's DOT document, generating it on demand for tree
// layouts that asked for DOT output.
func dotFor(l graph.Layout) string {
	if l.DOT != "" {
		return l.DOT
	}
	return render.ToDOT(l)
}

// applyPositions copies a cached layout's levels and coordinates back onto
// the registry, so callers see the same mutated registry whether or not the
// layout stage hit the cache.
func applyPositions(reg coach.Registry, l graph.Layout) {
	for _, n := range l.Nodes {
		if c, ok := reg[n.Name]; ok {
			c.Level = n.Level
			c.X = n.X
			c.Y = n.Y
		}
	}
	for level, names := range l.Levels {
		for _, name := range names {
			if c, ok := reg[name]; ok {
				c.Level = level
			}
		}
	}
}

// buildError maps domain build failures onto coded errors for the CLI/API.
func buildError(err error) error {
	switch {
	case stderrors.Is(err, coach.ErrNoRows):
		return errors.Wrap(errors.ErrCodeEmptyInput, err, "build graph")
	case stderrors.Is(err, coach.ErrMalformedRow):
		return errors.Wrap(errors.ErrCodeMalformedRow, err, "build graph")
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "build graph")
	}
}

// rowsFingerprint produces the canonical byte form of the input rows used
// for content-addressed cache keys.
func rowsFingerprint(inputRows []coach.Row) ([]byte, error) {
	return json.Marshal(inputRows)
}
