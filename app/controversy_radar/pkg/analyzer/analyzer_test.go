package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

var palantir = model.Company{Name: "Palantir Technologies", Ticker: "PLTR", Aliases: []string{"Palantir"}}

func palantirArticles() []model.Article {
	return []model.Article{
		{Title: "Palantir wins new US Army contract", URL: "https://reuters.com/a", Outlet: "Reuters", PublishedDate: "2025-11-01", Language: "en"},
		{Title: "EU Regulators Open Probe into Palantir", URL: "https://bloomberg.com/b", Outlet: "Bloomberg", PublishedDate: "2025-10-31", Snippet: "an investigation", Language: "en"},
		{Title: "Investigation reported by local blog", URL: "https://blog.example/c", Outlet: "Some Blog", PublishedDate: "2025-10-30", Language: "en"},
	}
}

func TestMockAnalyzer(t *testing.T) {
	raws, err := MockAnalyzer{}.Analyze(context.Background(), palantir, palantirArticles())
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "PAL-2025-10-31-2", raws[0].ID)
	assert.Equal(t, "4", raws[0].Severity.String())
	assert.Equal(t, "Bloomberg", raws[0].Sources[0].Outlet)
	assert.Equal(t, "3", raws[1].Severity.String())

	inc, err := model.Normalize(raws[0])
	require.NoError(t, err)
	assert.Equal(t, model.CategoryGovernanceLegal, inc.Category)
	assert.Equal(t, "2025-10-31", inc.FirstSeen)
	assert.Contains(t, inc.Summary, "Bloomberg")
}

func TestMockAnalyzer_NoArticles(t *testing.T) {
	raws, err := MockAnalyzer{}.Analyze(context.Background(), palantir, nil)
	require.NoError(t, err)
	assert.NotNil(t, raws)
	assert.Empty(t, raws)
}

func TestIsHighPriority(t *testing.T) {
	assert.True(t, IsHighPriority("U.S. Department of Justice"))
	assert.True(t, IsHighPriority("Financial Times"))
	assert.False(t, IsHighPriority("TechCrunch"))
}

func TestStripMarkdownFences(t *testing.T) {
	tests := map[string]string{
		"```json\n[]\n```":  "[]",
		"```\n[1]\n```\n":   "[1]",
		"~~~json\n[2]\n~~~": "[2]",
		"```json\n[3]":      "[3]",
		"  [4]  ":           "[4]",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripMarkdownFences(in), in)
	}
}

func TestParseIncidents(t *testing.T) {
	raws, err := parseIncidents("```json\n[{\"category\":\"Environmental\",\"severity\":2}]\n```")
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "Environmental", raws[0].Category)

	raws, err = parseIncidents(`{"incidents":[{"category":"Environmental","severity":2}]}`)
	require.NoError(t, err)
	assert.Len(t, raws, 1)

	raws, err = parseIncidents("null")
	require.NoError(t, err)
	assert.NotNil(t, raws)

	_, err = parseIncidents("this is not json")
	assert.Error(t, err)
}

func TestAssignIDs(t *testing.T) {
	raws := []model.RawIncident{
		{ID: "model-made-up", FirstSeen: "2025-11-01"},
		{PublishedDate: "2025-11-02"},
		{Sources: []model.RawSource{{PublishedDate: "2025-11-03"}}},
		{},
	}
	AssignIDs(palantir, raws)
	assert.Equal(t, "PLTR-2025-11-01-1", raws[0].ID)
	assert.Equal(t, "PLTR-2025-11-02-2", raws[1].ID)
	assert.Equal(t, "PLTR-2025-11-03-3", raws[2].ID)
	assert.Equal(t, "PLTR-undated-4", raws[3].ID)

	AssignIDs(model.Company{Name: "Äpfel AG"}, raws[:1])
	assert.Equal(t, "ÄPF-2025-11-01-1", raws[0].ID)
}

func TestBuildUserPrompt(t *testing.T) {
	p := buildUserPrompt(palantir, palantirArticles())
	assert.Contains(t, p, "Palantir Technologies (PLTR)")
	assert.Contains(t, p, "Article 1 [PRIMARY]")
	assert.Contains(t, p, "Article 3:")
	assert.Contains(t, p, `"Social/Human Capital"`)
}

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCompleter) Complete(context.Context, string, string, int, float64) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	return s.replies[i], nil
}

func TestLLMAnalyzer_Analyze(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"```json\n[{\"category\":\"Governance/Legal\",\"severity\":4,\"first_seen\":\"2025-10-31\"}]\n```"}}
	a := NewLLMAnalyzer(c, LLMOptions{MaxRetries: 2, BaseDelay: time.Millisecond})

	raws, err := a.Analyze(context.Background(), palantir, palantirArticles())
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "PLTR-2025-10-31-1", raws[0].ID)
	assert.Equal(t, 1, c.calls)
}

func TestLLMAnalyzer_SkipsEmptyArticles(t *testing.T) {
	c := &scriptedCompleter{}
	raws, err := NewLLMAnalyzer(c, LLMOptions{}).Analyze(context.Background(), palantir, nil)
	require.NoError(t, err)
	assert.Empty(t, raws)
	assert.Zero(t, c.calls)
}

func TestLLMAnalyzer_RetriesRateLimit(t *testing.T) {
	c := &scriptedCompleter{
		errs:    []error{errors.New("status 429: Too Many Requests"), nil},
		replies: []string{"", "[]"},
	}
	a := NewLLMAnalyzer(c, LLMOptions{MaxRetries: 2, BaseDelay: time.Millisecond})

	raws, err := a.Analyze(context.Background(), palantir, palantirArticles())
	require.NoError(t, err)
	assert.Empty(t, raws)
	assert.Equal(t, 2, c.calls)
}

func TestLLMAnalyzer_InvalidJSON(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"nope", "still nope"}}
	a := NewLLMAnalyzer(c, LLMOptions{MaxRetries: 1, BaseDelay: time.Millisecond})

	raws, err := a.Analyze(context.Background(), palantir, palantirArticles())
	require.Error(t, err)
	assert.Empty(t, raws)
	assert.Equal(t, 2, c.calls)
}

func TestLLMAnalyzer_OtherErrorsAreNotRetried(t *testing.T) {
	c := &scriptedCompleter{errs: []error{errors.New("401 unauthorized")}}
	a := NewLLMAnalyzer(c, LLMOptions{MaxRetries: 3, BaseDelay: time.Millisecond})

	_, err := a.Analyze(context.Background(), palantir, palantirArticles())
	require.Error(t, err)
	assert.Equal(t, 1, c.calls)
}

func TestOpenAICompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(srv.URL, "sk-test", "gpt-4o-mini")
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), "sys", "user", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestAnthropicCompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"[]"}],"stop_reason":"end_turn",
			"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	c, err := NewAnthropicCompleter(srv.URL, "sk-ant", "claude-test")
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), "sys", "user", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), config.LLMConfig{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, MockAnalyzer{}, a)

	a, err = New(context.Background(), config.LLMConfig{Provider: "openai", APIKey: "k", Model: "m"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &LLMAnalyzer{}, a)

	a, err = New(context.Background(), config.LLMConfig{Provider: "google", APIKey: "k", Model: "m"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &LLMAnalyzer{}, a)

	for _, p := range []string{"openai", "anthropic", "google", "cohere"} {
		_, err := New(context.Background(), config.LLMConfig{Provider: p}, nil, nil)
		assert.Error(t, err, p)
	}
}
