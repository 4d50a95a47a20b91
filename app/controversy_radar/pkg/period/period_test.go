package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name    string
		run     time.Time
		current string
		prior   string
	}{
		{"mid year", date(2025, time.June, 18), "PortfolioName-2025-W25", "PortfolioName-2025-W24"},
		{"week 1 after 53-week year", date(2021, time.January, 4), "PortfolioName-2021-W1", "PortfolioName-2020-W53"},
		{"week 1 after 52-week year", date(2025, time.January, 1), "PortfolioName-2025-W1", "PortfolioName-2024-W52"},
		{"ISO year ahead of calendar year", date(2024, time.December, 30), "PortfolioName-2025-W1", "PortfolioName-2024-W52"},
		{"ISO year behind calendar year", date(2027, time.January, 1), "PortfolioName-2026-W53", "PortfolioName-2026-W52"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, prior := Keys("PortfolioName", tt.run)
			assert.Equal(t, tt.current, current)
			assert.Equal(t, tt.prior, prior)
		})
	}
}

func TestWindow(t *testing.T) {
	from, to := Window(date(2025, time.March, 3))
	assert.Equal(t, "2025-02-24", from)
	assert.Equal(t, "2025-03-03", to)
}

func TestValidKey(t *testing.T) {
	current, prior := Keys("ESG_Core.v2", date(2025, time.November, 3))
	assert.True(t, ValidKey(current))
	assert.True(t, ValidKey(prior))

	for _, bad := range []string{"", "ESG Core", "a/b", "../x", "组合"} {
		assert.False(t, ValidKey(bad), bad)
	}
}
