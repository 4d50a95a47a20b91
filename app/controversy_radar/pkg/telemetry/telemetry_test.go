package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

func TestRecorder_Observe(t *testing.T) {
	r := New("", "job")
	r.ObserveCompany("Acme", model.Metrics{TotalIncidents: 3, AvgSeverity: 2.5})
	r.ObservePortfolio(model.PortfolioSummary{Metrics: model.Metrics{TotalIncidents: 4, CountSev45: 1, AvgSeverity: 3}})
	r.Failure("search")
	r.Failure("search")
	r.Reject("Acme")
	r.Finish(time.Unix(100, 0), time.Unix(160, 0))

	assert.Equal(t, 3.0, testutil.ToFloat64(r.CompanyIncidents.WithLabelValues("Acme")))
	assert.Equal(t, 2.5, testutil.ToFloat64(r.CompanyAvgSeverity.WithLabelValues("Acme")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.PortfolioIncidents))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PortfolioSev45))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Failures.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Rejected.WithLabelValues("Acme")))
	assert.Equal(t, 60.0, testutil.ToFloat64(r.RunDuration))
	assert.Equal(t, 160.0, testutil.ToFloat64(r.LastSuccess))

	require.NoError(t, r.Push(context.Background()))
}

func TestRecorder_Push(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(srv.URL, "controversy_radar")
	r.ObservePortfolio(model.PortfolioSummary{Metrics: model.Metrics{TotalIncidents: 2}})
	require.NoError(t, r.Push(context.Background()))

	assert.Equal(t, "/metrics/job/controversy_radar", path)
	assert.NotEmpty(t, body)
}
