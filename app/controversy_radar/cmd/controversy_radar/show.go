package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/output"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563eb"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")).Width(18)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	trendStyle = map[model.Trend]lipgloss.Style{
		model.TrendWorsening: lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true),
		model.TrendImproving: lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")).Bold(true),
		model.TrendStable:    lipgloss.NewStyle(),
	}
)

func newShowCmd() *cobra.Command {
	var cfgPath string
	var list bool
	cmd := &cobra.Command{
		Use:   "show [period-key]",
		Short: "Print a stored weekly report, the latest one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("无法加载配置文件: %w", err)
			}
			store, err := storage.New(cmd.Context(), cfg.Storage, logger.Discard())
			if err != nil {
				return err
			}
			defer store.Close()

			if list {
				keys, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			}

			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			out, err := show(cmd.Context(), store, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addConfigFlag(cmd.Flags(), &cfgPath)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "只列出已保存的周期键")
	return cmd
}

// show 读取周报并渲染为终端摘要，key 为空时取最新一期
func show(ctx context.Context, store storage.Store, key string) (string, error) {
	if key == "" {
		keys, err := store.List(ctx)
		if err != nil {
			return "", err
		}
		if len(keys) == 0 {
			return "", fmt.Errorf("no reports stored yet")
		}
		key = keys[0]
	}
	report, err := store.Load(ctx, key)
	if err != nil {
		return "", err
	}
	if report == nil {
		return "", fmt.Errorf("report %s not found", key)
	}
	return renderSummary(key, report), nil
}

func renderSummary(key string, r *model.Report) string {
	ps := r.PortfolioSummary
	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	lines := []string{
		titleStyle.Render(output.Subject(key)),
		row("Week ending", r.WeekEnding),
		row("Total incidents", fmt.Sprintf("%d (%s)", ps.TotalIncidents, output.FormatIntDelta(ps.WoWDelta.TotalIncidents))),
		row("Avg severity", fmt.Sprintf("%.2f (%s)", ps.AvgSeverity, output.FormatFloatDelta(ps.WoWDelta.AvgSeverity))),
		row("Major (4-5)", fmt.Sprint(ps.CountSev45)),
		row("Trend", trendStyle[ps.Trend].Render(string(ps.Trend))),
		row("Notes", ps.Notes),
		"",
	}
	for _, c := range r.Companies {
		m := c.WeeklyMetrics
		lines = append(lines, fmt.Sprintf("%-32s %3d  avg %.2f  %s",
			c.CompanyName, m.TotalIncidents, m.AvgSeverity, trendStyle[m.Trend].Render(string(m.Trend))))
	}

	top := output.TopIncidents(r, output.TopN)
	if len(top) > 0 {
		lines = append(lines, "", titleStyle.Render("Top incidents"))
		for _, inc := range top {
			lines = append(lines, fmt.Sprintf("[%d] %s · %s · %s", inc.Severity, inc.CompanyName, inc.Category, inc.Summary))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
