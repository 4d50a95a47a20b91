package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

var (
	fenceRe     = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")
	openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")
)

// stripMarkdownFences 去掉模型包裹在 JSON 外的 ``` 代码块，截断的响应只去掉起始行
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// parseIncidents 解析模型输出。接受裸数组，也接受 {"incidents": [...]} 包装。
func parseIncidents(raw string) ([]model.RawIncident, error) {
	body := stripMarkdownFences(raw)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	var incidents []model.RawIncident
	if err := json.Unmarshal([]byte(body), &incidents); err == nil {
		if incidents == nil {
			incidents = []model.RawIncident{}
		}
		return incidents, nil
	}

	var wrapped struct {
		Incidents []model.RawIncident `json:"incidents"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if wrapped.Incidents == nil {
		wrapped.Incidents = []model.RawIncident{}
	}
	return wrapped.Incidents, nil
}
