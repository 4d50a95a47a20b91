// Package period 生成周报的周期键
package period

import (
	"fmt"
	"regexp"
	"time"
)

// 周期键会用作文件名和数据库主键，label 与完整的键都限制在这个字符集内
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidKey 判断字符串是否可以作为周期键或其 label 部分
func ValidKey(s string) bool {
	return keyPattern.MatchString(s)
}

// Key 返回 "{label}-{ISO年}-W{ISO周}"，年份取 ISO 周所属年份而非日历年份
func Key(label string, t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%s-%d-W%d", label, year, week)
}

// Keys 返回本期与上期的周期键。上期键由 run 减 7 天后重新计算年份和周数，跨年时不会错位。
func Keys(label string, run time.Time) (current, prior string) {
	return Key(label, run), Key(label, run.AddDate(0, 0, -7))
}

// Window 返回检索窗口 [run-7d, run]，格式为 YYYY-MM-DD
func Window(run time.Time) (from, to string) {
	return run.AddDate(0, 0, -7).Format(time.DateOnly), run.Format(time.DateOnly)
}
