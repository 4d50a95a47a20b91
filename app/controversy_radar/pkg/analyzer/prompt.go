package analyzer

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

const systemPrompt = "You are an ESG controversy analyst. Output ONLY a valid JSON array. No prose, no markdown."

const instructions = `Identify controversies (legal, regulatory, environmental, social, product or financial misconduct) involving the company in the articles above.
Ignore routine business news such as contract wins or earnings.
Prioritize facts from primary sources (courts, regulators) over secondary reporting; articles marked [PRIMARY] come from such sources.

Return a JSON array. Each element:
{
  "category": one of %s,
  "severity": integer 1-5 (5 = most severe),
  "confidence": "high" | "medium" | "low",
  "summary_en": "one or two sentences in English",
  "summary_local": "summary in the article language when it is not English, else empty",
  "key_quote": "short verbatim quote",
  "sources": [{"url": "...", "outlet": "...", "date": "YYYY-MM-DD", "language": "en"}],
  "first_seen": "YYYY-MM-DD",
  "updated": "YYYY-MM-DD",
  "tags": ["..."]
}
Merge articles that describe the same incident into one element with several sources.
Return [] when there is no controversy.`

// contentLimit 单篇文章送入模型的最大字符数
const contentLimit = 5000

func categoryList() string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, fmt.Sprintf("%q", c))
	}
	return strings.Join(names, ", ")
}

// buildUserPrompt 拼接公司信息、文章列表与输出要求
func buildUserPrompt(c model.Company, articles []model.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s", c.Name)
	if c.Ticker != "" {
		fmt.Fprintf(&sb, " (%s)", c.Ticker)
	}
	if len(c.Aliases) > 0 {
		fmt.Fprintf(&sb, ", also known as %s", strings.Join(c.Aliases, ", "))
	}
	sb.WriteString("\n\n")

	for i, a := range articles {
		content := a.Content
		if content == "" {
			content = a.Snippet
		}
		if r := []rune(content); len(r) > contentLimit {
			content = string(r[:contentLimit])
		}
		marker := ""
		if IsHighPriority(a.Outlet) {
			marker = " [PRIMARY]"
		}
		fmt.Fprintf(&sb, "Article %d%s:\nTitle: %s\nOutlet: %s\nDate: %s\nLanguage: %s\nURL: %s\nContent: %s\n\n",
			i+1, marker, a.Title, a.Outlet, a.PublishedDate, a.Language, a.URL, content)
	}

	fmt.Fprintf(&sb, instructions, categoryList())
	return sb.String()
}
