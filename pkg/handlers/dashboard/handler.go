package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/tag-atlas/pkg/adapters"
	"github.com/de-tools/tag-atlas/pkg/models/api"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/session"
	"github.com/de-tools/tag-atlas/pkg/store/csvfile"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the interactive dashboard surface: session lifecycle,
// filtered views, the remediation grid, edit batches, metrics, and CSV
// export. It never formats presentation strings; currency and
// percentage formatting belong to the UI.
type Handler struct {
	sessions *session.Manager
	engine   *compliance.Engine
}

func NewHandler(sessions *session.Manager, engine *compliance.Engine) *Handler {
	return &Handler{
		sessions: sessions,
		engine:   engine,
	}
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.sessions.Create(ctx)

	schema := h.sessions.Original().Schema
	response := api.Session{
		ID:     s.ID,
		Schema: adapters.MapSchemaDomainToApi(schema),
	}
	for _, col := range schema.MissingColumns {
		response.Warnings = append(response.Warnings,
			fmt.Sprintf("column %q absent, dependent sections skipped", col))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode session")
	}
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "session")

	if err := h.sessions.Delete(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	working, err := h.sessions.Working(chi.URLParam(r, "session"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view := h.engine.Filter(working, filterSet(r))
	writeJSON(ctx, w, adapters.MapTableDomainToApi(view, working.Len()))
}

func (h *Handler) ListRemediation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	working, err := h.sessions.Working(chi.URLParam(r, "session"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view := h.engine.SelectForRemediation(working)
	writeJSON(ctx, w, adapters.MapTableDomainToApi(view, working.Len()))
}

func (h *Handler) ApplyEdits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "session")

	var batch api.EditBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, "malformed edit batch", http.StatusBadRequest)
		return
	}

	result, err := h.sessions.ApplyEdits(ctx, id, adapters.MapEditBatchApiToDomain(batch))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, adapters.MapApplyResultDomainToApi(result))
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	working, err := h.sessions.Working(chi.URLParam(r, "session"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	metrics := h.engine.Metrics(h.engine.Filter(working, filterSet(r)))
	writeJSON(ctx, w, adapters.MapMetricsDomainToApi(metrics))
}

func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmp, err := h.sessions.Compare(chi.URLParam(r, "session"), filterSet(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, adapters.MapComparisonDomainToApi(cmp))
}

func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	working, err := h.sessions.Working(chi.URLParam(r, "session"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, api.FilterOptions(h.engine.FilterOptions(working)))
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	working, err := h.sessions.Working(chi.URLParam(r, "session"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table := working
	filename := "working_table.csv"
	if r.URL.Query().Get("scope") == "remediation" {
		table = h.engine.SelectForRemediation(working)
		filename = "remediation_candidates.csv"
	}

	opts := csvfile.ExportOptions{IncludeDerived: r.URL.Query().Get("derived") == "1"}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := csvfile.Export(w, table, opts); err != nil {
		logger.Error().Err(err).Msg("failed to stream csv export")
	}
}

// filterSet maps multi-valued query params onto the filterable columns.
// Absent params leave their column unconstrained.
func filterSet(r *http.Request) domain.FilterSet {
	q := r.URL.Query()
	fs := domain.FilterSet{}
	for param, col := range map[string]string{
		"service":    domain.ColService,
		"region":     domain.ColRegion,
		"department": domain.ColDepartment,
	} {
		if values := q[param]; len(values) > 0 {
			fs[col] = values
		}
	}
	return fs
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
