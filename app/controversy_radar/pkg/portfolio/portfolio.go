// Package portfolio 加载投资组合公司列表
package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// Load 从 CSV 文件读取公司列表
func Load(path string) ([]model.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open portfolio: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse 解析至少包含 name、ticker、aliases 列的 CSV。
// aliases 按逗号拆分；当 aliases 是最后一列且未加引号时，多出来的字段也并入别名。
func Parse(r io.Reader) ([]model.Company, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("portfolio csv is empty")
		}
		return nil, fmt.Errorf("read portfolio header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("portfolio csv missing %q column", "name")
	}
	tickerIdx, hasTicker := cols["ticker"]
	aliasIdx, hasAliases := cols["aliases"]
	aliasesLast := hasAliases && aliasIdx == len(header)-1

	companies := make([]model.Company, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read portfolio row: %w", err)
		}

		name := field(rec, nameIdx)
		if name == "" {
			continue
		}
		c := model.Company{Name: name, Aliases: []string{}}
		if hasTicker {
			c.Ticker = field(rec, tickerIdx)
		}
		if hasAliases {
			raw := field(rec, aliasIdx)
			if aliasesLast && len(rec) > len(header) {
				raw = strings.Join(rec[aliasIdx:], ",")
			}
			c.Aliases = SplitAliases(raw)
		}
		companies = append(companies, c)
	}
	return companies, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// SplitAliases 按逗号拆分别名，空串返回空切片
func SplitAliases(s string) []string {
	out := []string{}
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Resolve 优先使用配置中的 CSV 文件，否则使用配置内联的公司列表
func Resolve(cfg config.PortfolioConfig) ([]model.Company, error) {
	if cfg.File != "" {
		return Load(cfg.File)
	}
	companies := make([]model.Company, 0, len(cfg.Companies))
	for _, c := range cfg.Companies {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		aliases := []string{}
		for _, a := range c.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}
		companies = append(companies, model.Company{Name: strings.TrimSpace(c.Name), Ticker: c.Ticker, Aliases: aliases})
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("portfolio is empty: set portfolio.file or portfolio.companies")
	}
	return companies, nil
}
