package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/tag-atlas/pkg/models/api"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	engine := compliance.NewEngine(compliance.Options{})
	original, err := engine.Load(context.Background(),
		[]string{"ResourceID", "Service", "Region", "MonthlyCostUSD", "Tagged", "Department", "Project", "Environment", "Owner"},
		[]map[string]string{
			{"ResourceID": "R1", "Service": "EC2", "Region": "us-east-1", "MonthlyCostUSD": "100", "Tagged": "No"},
			{"ResourceID": "R2", "Service": "S3", "Region": "eu-west-1", "MonthlyCostUSD": "50", "Tagged": "Yes",
				"Department": "Sales", "Project": "Shop", "Environment": "Prod", "Owner": "carol"},
		})
	require.NoError(t, err)

	handler := NewHandler(session.NewManager(engine, original), engine)

	router := chi.NewRouter()
	router.Post("/sessions", handler.CreateSession)
	router.Delete("/sessions/{session}", handler.DeleteSession)
	router.Get("/sessions/{session}/resources", handler.ListResources)
	router.Get("/sessions/{session}/remediation", handler.ListRemediation)
	router.Post("/sessions/{session}/edits", handler.ApplyEdits)
	router.Get("/sessions/{session}/metrics", handler.GetMetrics)
	router.Get("/sessions/{session}/comparison", handler.GetComparison)
	router.Get("/sessions/{session}/filters", handler.GetFilterOptions)
	router.Get("/sessions/{session}/export", handler.Export)
	return router
}

func createSession(t *testing.T, router *chi.Mux) api.Session {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var s api.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	require.NotEmpty(t, s.ID)
	return s
}

func TestCreateSession_ReportsSchema(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	assert.True(t, s.Schema.HasCost)
	assert.True(t, s.Schema.HasTagged)
	assert.Contains(t, s.Schema.TagFields, "Owner")
	// CostCenter and CreatedBy are absent from the fixture
	assert.NotEmpty(t, s.Warnings)
}

func TestListResources_AppliesFilters(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/sessions/"+s.ID+"/resources?service=EC2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page api.ResourcePage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 2, page.Total)
	require.Equal(t, 1, page.Filtered)
	assert.Equal(t, "R1", page.Resources[0].ResourceID)
}

func TestRemediationAndEditsFlow(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+s.ID+"/remediation", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page api.ResourcePage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.Equal(t, 1, page.Filtered)
	assert.Equal(t, "R1", page.Resources[0].ResourceID)

	body, err := json.Marshal(api.EditBatch{Edits: []api.Edit{{
		ResourceID: "R1",
		Fields: map[string]*string{
			"Department":  ptr("Eng"),
			"Project":     ptr("Atlas"),
			"Environment": ptr("Prod"),
			"Owner":       ptr("alice"),
		},
	}, {
		ResourceID: "R999",
		Fields:     map[string]*string{"Department": ptr("X")},
	}}})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/sessions/"+s.ID+"/edits", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result api.ApplyResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, []string{"R999"}, result.Ignored)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+s.ID+"/comparison", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cmp api.Comparison
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cmp))
	assert.Equal(t, 1, cmp.Before.UntaggedCount)
	assert.Zero(t, cmp.After.UntaggedCount)
	assert.Equal(t, 100.0, cmp.Before.UntaggedCost)
	assert.Zero(t, cmp.After.UntaggedCost)
}

func TestApplyEdits_MalformedBody(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/sessions/"+s.ID+"/edits", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownSessionIs404(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/sessions/nope/resources",
		"/sessions/nope/metrics",
		"/sessions/nope/comparison",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestMetrics_FilteredWorkingTable(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/sessions/"+s.ID+"/metrics?region=eu-west-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var m api.Metrics
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&m))
	assert.Equal(t, 1, m.RowCount)
	assert.Equal(t, 50.0, m.TotalCost)
	assert.Zero(t, m.UntaggedCount)
}

func TestExport_StreamsCSV(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/sessions/"+s.ID+"/export?scope=remediation&derived=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2) // header + the single candidate
	assert.Contains(t, lines[0], "TagCompletenessScore")
	assert.True(t, strings.HasPrefix(lines[1], "R1,"))
}

func TestDeleteSession(t *testing.T) {
	router := newTestRouter(t)
	s := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+s.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+s.ID+"/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func ptr(s string) *string { return &s }
