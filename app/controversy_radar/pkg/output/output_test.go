package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/metrics"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

func incident(id string, sev int, firstSeen string) model.Incident {
	return model.Incident{
		ID:        id,
		Category:  model.CategoryGovernanceLegal,
		Severity:  sev,
		Summary:   "summary " + id,
		Sources:   []model.Source{{URL: "https://example.com/" + id, Outlet: "Example"}},
		FirstSeen: firstSeen,
		Updated:   firstSeen,
	}
}

func buildReport(prior *model.Report) *model.Report {
	companies := []struct {
		name, ticker string
		incidents    []model.Incident
	}{
		{"Acme", "ACM", []model.Incident{incident("ACM-1", 2, "2025-11-01"), incident("ACM-2", 5, "2025-10-30")}},
		{"Globex", "GBX", []model.Incident{incident("GBX-1", 5, "2025-11-02"), incident("GBX-2", 4, "2025-11-01"), incident("GBX-3", 4, "2025-11-01")}},
		{"Initech", "INI", []model.Incident{incident("INI-1", 1, "2025-11-02")}},
	}
	r := &model.Report{WeekEnding: "2025-11-03"}
	var all []model.Incident
	for _, c := range companies {
		var pc *model.CompanyReport
		if prior != nil {
			pc = prior.Company(c.name)
		}
		r.Companies = append(r.Companies, model.CompanyReport{
			CompanyName:   c.name,
			Ticker:        c.ticker,
			Incidents:     c.incidents,
			WeeklyMetrics: metrics.Company(c.incidents, pc),
		})
		all = append(all, c.incidents...)
	}
	var pp *model.PortfolioSummary
	if prior != nil {
		pp = &prior.PortfolioSummary
	}
	r.PortfolioSummary = metrics.Portfolio(all, pp)
	return r
}

func TestTopIncidents(t *testing.T) {
	top := TopIncidents(buildReport(nil), TopN)
	require.Len(t, top, 5)

	ids := make([]string, 0, len(top))
	for _, inc := range top {
		ids = append(ids, inc.ID)
	}
	assert.Equal(t, []string{"GBX-1", "ACM-2", "GBX-2", "GBX-3", "ACM-1"}, ids)
	assert.Equal(t, "Globex", top[0].CompanyName)
}

func TestFormatDeltas(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	assert.Equal(t, "n/a", FormatFloatDelta(nil))
	assert.Equal(t, "+0.50", FormatFloatDelta(f(0.5)))
	assert.Equal(t, "-1.25", FormatFloatDelta(f(-1.25)))
	assert.Equal(t, "0.00", FormatFloatDelta(f(-0.001)))
	assert.Equal(t, "0.00", FormatFloatDelta(f(0.004)))

	assert.Equal(t, "n/a", FormatIntDelta(nil))
	assert.Equal(t, "0", FormatIntDelta(i(0)))
	assert.Equal(t, "+2", FormatIntDelta(i(2)))
	assert.Equal(t, "-3", FormatIntDelta(i(-3)))
}

func TestGroupByTrend(t *testing.T) {
	prior := buildReport(nil)
	prior.Companies[0].WeeklyMetrics.TotalIncidents = 0
	prior.Companies[1].WeeklyMetrics.TotalIncidents = 9

	g := GroupByTrend(buildReport(prior))
	assert.Equal(t, []string{"Acme"}, g.Worsening)
	assert.Equal(t, []string{"Globex"}, g.Improving)
	assert.Equal(t, []string{"Initech"}, g.Stable)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(dir, logger.Discard())
	require.NoError(t, err)

	report := buildReport(nil)
	out, err := r.Render("Test-2025-W45", report)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "report-Test-2025-W45.json"), out.JSONPath)
	body, err := os.ReadFile(out.JSONPath)
	require.NoError(t, err)
	var decoded model.Report
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, *report, decoded)

	f, err := os.Open(out.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"ACM-1", "Acme", "ACM"}, rows[1][:3])

	assert.FileExists(t, out.HTMLPath)
	assert.Contains(t, out.HTML, "Weekly Controversy Scan: Test-2025-W45")
	assert.Contains(t, out.HTML, "Total incidents: 6 (n/a WoW)")
	assert.Contains(t, out.HTML, metrics.NotesInitialRun)
	assert.NotContains(t, out.HTML, "INI-1")
	assert.Equal(t, "Weekly Controversy Scan: Test-2025-W45", out.Subject)
}

func TestRender_NoIncidentsSkipsCSV(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(dir, logger.Discard())
	require.NoError(t, err)

	report := &model.Report{
		WeekEnding:       "2025-11-03",
		PortfolioSummary: metrics.Portfolio(nil, nil),
		Companies: []model.CompanyReport{{
			CompanyName:   "Quiet",
			Incidents:     []model.Incident{},
			WeeklyMetrics: metrics.Company(nil, nil),
		}},
	}
	out, err := r.Render("Q-2025-W45", report)
	require.NoError(t, err)
	assert.Empty(t, out.CSVPath)
	assert.NoFileExists(t, filepath.Join(dir, "incidents-Q-2025-W45.csv"))
	assert.Contains(t, out.HTML, "No incidents this week.")
}

