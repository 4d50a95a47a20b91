package search

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// ControversyTerms 与公司名组合的争议关键词
var ControversyTerms = []string{
	"lawsuit", "investigation", "probe", "fine", "scandal", "fraud",
	"regulator", "allegations", "misconduct", "recall", "strike", "spill",
}

// BuildQuery 组合公司名、别名与争议关键词，例如
// ("Palantir Technologies" OR "Palantir") (lawsuit OR investigation OR ...)
func BuildQuery(c model.Company) string {
	names := []string{quote(c.Name)}
	seen := map[string]bool{strings.ToLower(c.Name): true}
	for _, a := range c.Aliases {
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, quote(a))
	}
	return fmt.Sprintf("(%s) (%s)", strings.Join(names, " OR "), strings.Join(ControversyTerms, " OR "))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}
