package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedIncident 上游产出的事件缺少必填字段或取值非法
var ErrMalformedIncident = errors.New("malformed incident")

// RawSource 分析后端返回的来源，兼容 date / published_date 两种写法
type RawSource struct {
	URL           string `json:"url"`
	Outlet        string `json:"outlet"`
	Date          string `json:"date"`
	PublishedDate string `json:"published_date"`
	Language      string `json:"language"`
}

// RawIncident 分析后端返回的原始事件。
// 同时接受两种历史格式：first_seen + sources[].outlet，以及只有 published_date + source_url 的旧格式。
type RawIncident struct {
	ID           string      `json:"id"`
	Category     string      `json:"category"`
	Severity     json.Number `json:"severity"`
	Confidence   string      `json:"confidence"`
	Summary      string      `json:"summary"`
	SummaryEN    string      `json:"summary_en"`
	SummaryLocal string      `json:"summary_local"`
	KeyQuote     string      `json:"key_quote"`
	Sources      []RawSource `json:"sources"`
	FirstSeen    string      `json:"first_seen"`
	Updated      string      `json:"updated"`
	Tags         []string    `json:"tags"`

	// 旧格式字段
	PublishedDate string `json:"published_date"`
	SourceURL     string `json:"source_url"`
	Source        string `json:"source"`
	Language      string `json:"language"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedIncident, fmt.Sprintf(format, args...))
}

// Normalize 把原始事件转换为规范的 Incident。
// 缺少 id、severity、category 或 severity 不在 [1,5] 内的记录会被拒绝，不做静默默认。
func Normalize(raw RawIncident) (Incident, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return Incident{}, malformed("missing id")
	}

	if raw.Severity == "" {
		return Incident{}, malformed("incident %s: missing severity", id)
	}
	sev, err := raw.Severity.Float64()
	if err != nil || sev != math.Trunc(sev) {
		return Incident{}, malformed("incident %s: severity %q is not an integer", id, raw.Severity)
	}
	if sev < 1 || sev > 5 {
		return Incident{}, malformed("incident %s: severity %v out of range [1,5]", id, sev)
	}

	if strings.TrimSpace(raw.Category) == "" {
		return Incident{}, malformed("incident %s: missing category", id)
	}
	cat, err := ParseCategory(raw.Category)
	if err != nil {
		return Incident{}, malformed("incident %s: %v", id, err)
	}

	summary := raw.Summary
	if summary == "" {
		summary = raw.SummaryEN
	}

	firstSeen := raw.FirstSeen
	if firstSeen == "" {
		firstSeen = raw.PublishedDate
	}
	updated := raw.Updated
	if updated == "" {
		updated = firstSeen
	}

	sources := make([]Source, 0, len(raw.Sources)+1)
	for _, s := range raw.Sources {
		date := s.Date
		if date == "" {
			date = s.PublishedDate
		}
		sources = append(sources, Source{
			URL:      s.URL,
			Outlet:   s.Outlet,
			Date:     date,
			Language: s.Language,
		})
	}
	if len(sources) == 0 && (raw.SourceURL != "" || raw.Source != "") {
		sources = append(sources, Source{
			URL:      raw.SourceURL,
			Outlet:   raw.Source,
			Date:     raw.PublishedDate,
			Language: raw.Language,
		})
	}

	var tags []string
	if len(raw.Tags) > 0 {
		tags = append(tags, raw.Tags...)
	}

	return Incident{
		ID:           id,
		Category:     cat,
		Severity:     int(sev),
		Confidence:   raw.Confidence,
		Summary:      summary,
		SummaryLocal: raw.SummaryLocal,
		KeyQuote:     raw.KeyQuote,
		Sources:      sources,
		FirstSeen:    firstSeen,
		Updated:      updated,
		Tags:         tags,
	}, nil
}
