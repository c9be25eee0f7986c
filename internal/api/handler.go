// Package api implements the coachtree HTTP server surface.
//
// The server is stateless: every request carries its own rows and each load
// builds a fresh graph, so concurrent requests never observe each other's
// state. Caching (if configured) happens inside the pipeline runner by
// content hash, which is safe to share.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coachvis/coachtree/pkg/buildinfo"
	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/errors"
	"github.com/coachvis/coachtree/pkg/graph"
	"github.com/coachvis/coachtree/pkg/pipeline"
)

const maxRowCount = 50000

// Handler holds the HTTP handler dependencies.
type Handler struct {
	runner *pipeline.Runner
}

// New creates the router with all routes registered.
func New(runner *pipeline.Runner) http.Handler {
	h := &Handler{runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/v1/visualize", h.visualize)
	r.Post("/v1/graph", h.buildGraph)
	r.Post("/v1/coaches/{name}/history", h.history)
	r.Get("/healthz", h.healthz)
	r.Get("/version", h.version)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// visualizeRequest is the body for POST /v1/visualize.
type visualizeRequest struct {
	Rows    []coach.Row `json:"rows"`
	VizType string      `json:"viz_type,omitempty"`
	Formats []string    `json:"formats,omitempty"`
	Refresh bool        `json:"refresh,omitempty"`
}

// visualizeResponse carries everything a client needs to display the result.
// Artifacts are base64-encoded by JSON serialization of the byte slices.
type visualizeResponse struct {
	RunID     string             `json:"run_id"`
	Stats     statsResponse      `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
	Artifacts map[string][]byte  `json:"artifacts"`
}

type statsResponse struct {
	Rows        int   `json:"rows"`
	Coaches     int   `json:"coaches"`
	Connections int   `json:"connections"`
	BuildMs     int64 `json:"build_ms"`
	LayoutMs    int64 `json:"layout_ms"`
	RenderMs    int64 `json:"render_ms"`
}

// POST /v1/visualize — run the full pipeline over the posted rows.
func (h *Handler) visualize(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if !decodeRows(w, r, &req) {
		return
	}

	result, err := h.runner.Execute(r.Context(), pipeline.Options{
		Rows:    req.Rows,
		VizType: req.VizType,
		Formats: req.Formats,
		Refresh: req.Refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, visualizeResponse{
		RunID: result.RunID,
		Stats: statsResponse{
			Rows:        result.Stats.RowCount,
			Coaches:     result.Stats.CoachCount,
			Connections: result.Stats.ConnectionCount,
			BuildMs:     result.Stats.BuildTime.Milliseconds(),
			LayoutMs:    result.Stats.LayoutTime.Milliseconds(),
			RenderMs:    result.Stats.RenderTime.Milliseconds(),
		},
		CacheInfo: result.CacheInfo,
		Artifacts: result.Artifacts,
	})
}

// POST /v1/graph — build and return the graph document without rendering.
func (h *Handler) buildGraph(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if !decodeRows(w, r, &req) {
		return
	}

	reg, conns, err := h.runner.Build(r.Context(), pipeline.Options{Rows: req.Rows})
	if err != nil {
		writeError(w, err)
		return
	}
	coach.AssignLevels(reg)

	data, err := graph.MarshalGraph(reg, conns)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// POST /v1/coaches/{name}/history — career history for one coach within the
// posted rows, most recent season first.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if !decodeRows(w, r, &req) {
		return
	}

	reg, _, err := h.runner.Build(r.Context(), pipeline.Options{Rows: req.Rows})
	if err != nil {
		writeError(w, err)
		return
	}

	name := chi.URLParam(r, "name")
	roles := reg.History(name)
	if roles == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "coach %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"roles": roles,
	})
}

// GET /healthz — liveness probe.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /version — build information.
func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// decodeRows parses and bounds-checks the shared request body. It writes the
// error response itself and reports whether the caller should proceed.
func decodeRows(w http.ResponseWriter, r *http.Request, req *visualizeRequest) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	if len(req.Rows) > maxRowCount {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"row count %d exceeds max %d", len(req.Rows), maxRowCount))
		return false
	}
	return true
}
