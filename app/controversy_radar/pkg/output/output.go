// Package output 把周报写成 JSON、CSV 和 HTML 邮件正文
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// Outputs 本次渲染产生的文件，CSVPath 在没有事件时为空
type Outputs struct {
	JSONPath string
	CSVPath  string
	HTMLPath string
	Subject  string
	HTML     string
}

// Renderer 渲染输出文件到指定目录
type Renderer struct {
	dir string
	tpl *template.Template
	log logrus.FieldLogger
}

// NewRenderer 创建渲染器
func NewRenderer(dir string, log logrus.FieldLogger) (*Renderer, error) {
	tpl, err := template.New("email").Parse(emailTpl)
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	return &Renderer{dir: dir, tpl: tpl, log: log}, nil
}

// Subject 邮件标题
func Subject(key string) string {
	return "Weekly Controversy Scan: " + key
}

// Render 依次写出 report-{key}.json、incidents-{key}.csv、email_body-{key}.html
func (r *Renderer) Render(key string, report *model.Report) (*Outputs, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	out := &Outputs{Subject: Subject(key)}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	out.JSONPath = filepath.Join(r.dir, "report-"+key+".json")
	if err := os.WriteFile(out.JSONPath, body, 0o644); err != nil {
		return nil, fmt.Errorf("write report json: %w", err)
	}
	r.log.Infof("report.json 已保存到 %s", out.JSONPath)

	if len(report.AllIncidents()) == 0 {
		r.log.Info("本周没有事件，跳过 incidents.csv")
	} else {
		out.CSVPath = filepath.Join(r.dir, "incidents-"+key+".csv")
		if err := writeIncidentsCSV(out.CSVPath, report); err != nil {
			return nil, err
		}
		r.log.Infof("incidents.csv 已保存到 %s", out.CSVPath)
	}

	html, err := r.EmailBody(key, report)
	if err != nil {
		return nil, err
	}
	out.HTML = html
	out.HTMLPath = filepath.Join(r.dir, "email_body-"+key+".html")
	if err := os.WriteFile(out.HTMLPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("write email body: %w", err)
	}
	r.log.Infof("email_body.html 已保存到 %s", out.HTMLPath)

	return out, nil
}

type emailData struct {
	Key        string
	Report     *model.Report
	Summary    model.PortfolioSummary
	TotalDelta string
	AvgDelta   string
	Categories []CategoryCount
	Top        []RankedIncident
	Trends     TrendGroups
}

// EmailBody 渲染 HTML 邮件正文
func (r *Renderer) EmailBody(key string, report *model.Report) (string, error) {
	ps := report.PortfolioSummary
	data := emailData{
		Key:        key,
		Report:     report,
		Summary:    ps,
		TotalDelta: FormatIntDelta(ps.WoWDelta.TotalIncidents),
		AvgDelta:   FormatFloatDelta(ps.WoWDelta.AvgSeverity),
		Categories: CategoryBreakdown(ps.Metrics),
		Top:        TopIncidents(report, TopN),
		Trends:     GroupByTrend(report),
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

var csvHeader = []string{
	"incident_id", "company_name", "ticker", "category", "severity", "confidence",
	"summary", "summary_local", "key_quote", "first_seen_date", "updated",
	"source_outlet", "source_url", "source_count", "tags",
}

func writeIncidentsCSV(path string, report *model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create incidents csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write incidents csv: %w", err)
	}
	for _, c := range report.Companies {
		for _, inc := range c.Incidents {
			src := inc.PrimarySource()
			row := []string{
				inc.ID, c.CompanyName, c.Ticker, string(inc.Category),
				strconv.Itoa(inc.Severity), inc.Confidence,
				inc.Summary, inc.SummaryLocal, inc.KeyQuote, inc.FirstSeen, inc.Updated,
				src.Outlet, src.URL, strconv.Itoa(len(inc.Sources)), strings.Join(inc.Tags, ";"),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write incidents csv: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write incidents csv: %w", err)
	}
	return f.Close()
}
