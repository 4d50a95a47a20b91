package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/storage"
	"github.com/iWorld-y/controversy_radar/app/display/internal/conf"
	"github.com/iWorld-y/controversy_radar/app/display/internal/data"
	"github.com/iWorld-y/controversy_radar/app/display/internal/domain"
	"github.com/iWorld-y/controversy_radar/app/display/internal/service"
	"github.com/iWorld-y/controversy_radar/app/display/internal/usecase"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := storage.NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, store.Save(context.Background(), "P-2025-W45", &model.Report{
		WeekEnding: "2025-11-03",
		PortfolioSummary: model.PortfolioSummary{
			Metrics: model.Metrics{TotalIncidents: 1, AvgSeverity: 4, Trend: model.TrendStable},
		},
		Companies: []model.CompanyReport{
			{CompanyName: "Acme", Ticker: "ACM", WeeklyMetrics: model.Metrics{TotalIncidents: 1, AvgSeverity: 4, Trend: model.TrendStable}},
		},
	}))

	l := log.DefaultLogger
	uc := usecase.NewReportUseCase(data.NewReportRepo(data.NewDataWithStore(store), l), l)
	return NewHTTPServer(&conf.Server{}, service.NewDisplayService(uc, l), l)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHTTPServer_Reports(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	var list domain.ReportList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []string{"P-2025-W45"}, list.Keys)
	assert.Equal(t, 1, list.Total)

	rec = get(h, "/api/reports/P-2025-W45")
	require.Equal(t, http.StatusOK, rec.Code)
	var report model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "2025-11-03", report.WeekEnding)
	require.NotNil(t, report.Company("Acme"))

	rec = get(h, "/api/reports/P-2025-W45/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.ReportSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "P-2025-W45", summary.Key)
	require.Len(t, summary.Companies, 1)
	assert.Equal(t, model.TrendStable, summary.Companies[0].Trend)
}

func TestHTTPServer_NotFound(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/api/reports/P-2020-W1")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(h, "/api/reports/P-2020-W1/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPServer_InvalidKey(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/api/reports/bad%20key")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(h, "/api/reports/bad%20key/summary")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
