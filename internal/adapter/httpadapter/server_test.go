package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/seaice-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockLister struct {
	items []domain.RecordSetSummary
}

func (m *mockLister) Recent() []domain.RecordSetSummary { return m.items }

func newTestServer(readyErr error, items ...domain.RecordSetSummary) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, &mockLister{items: items}, slog.Default())
}

func get(srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(fmt.Errorf("not ready yet")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

type orbitsBody struct {
	Count      int                       `json:"count"`
	RecordSets []domain.RecordSetSummary `json:"record_sets"`
}

func decodeOrbits(t *testing.T, rec *httptest.ResponseRecorder) orbitsBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body orbitsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOrbits(t *testing.T) {
	srv := newTestServer(nil,
		domain.RecordSetSummary{SourceID: "awi", OrbitID: "21094", NRecords: 10},
		domain.RecordSetSummary{SourceID: "nasa_jpl", OrbitID: "n/a", NRecords: 7},
		domain.RecordSetSummary{SourceID: "awi", OrbitID: "21093", NRecords: 12},
	)

	body := decodeOrbits(t, get(srv, "/orbits"))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "21094", body.RecordSets[0].OrbitID)

	body = decodeOrbits(t, get(srv, "/orbits?source=awi"))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "21093", body.RecordSets[1].OrbitID)

	body = decodeOrbits(t, get(srv, "/orbits?source=awi&limit=1"))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "21094", body.RecordSets[0].OrbitID)
}

func TestOrbits_Empty(t *testing.T) {
	rec := get(newTestServer(nil), "/orbits")
	body := decodeOrbits(t, rec)
	assert.Equal(t, 0, body.Count)
	assert.Contains(t, rec.Body.String(), `"record_sets":[]`)
}

func TestOrbits_BadLimit(t *testing.T) {
	rec := get(newTestServer(nil), "/orbits?limit=-2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
