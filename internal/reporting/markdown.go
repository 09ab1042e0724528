package reporting

import (
	"fmt"
	"strings"
	"time"

	"engagement-dashboard/internal/period"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Engagement Report: %s\n\n", r.Title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Range: %s\n\n", r.Selector))

	if !r.Ready {
		sb.WriteString("Select a complete date range to compare periods.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Current: %s to %s (%d days) | Previous: %s to %s\n\n",
		r.Current.Start, r.Current.End, r.Current.LengthDays, r.Previous.Start, r.Previous.End))

	// Comparison
	sb.WriteString("## Period Comparison\n\n")
	sb.WriteString("| Metric | Current | Previous | Change |\n")
	sb.WriteString("|--------|---------|----------|--------|\n")
	for _, row := range r.Comparison {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			row.Label, formatValue(row.Current), formatValue(row.Previous), formatChange(row)))
	}
	sb.WriteString("\n")
	if len(r.Unavailable) > 0 {
		sb.WriteString(fmt.Sprintf("Data unavailable for: %s\n\n", strings.Join(r.Unavailable, ", ")))
	}

	// Leaderboard
	if r.LeaderboardMetric != "" {
		sb.WriteString(fmt.Sprintf("## Top by %s\n\n", label(r.LeaderboardMetric)))
		if len(r.Leaderboard) > 0 {
			sb.WriteString("| # | Name | Clicks |\n")
			sb.WriteString("|---|------|--------|\n")
			for _, row := range r.Leaderboard {
				sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", row.Rank, row.Name, row.Clicks))
			}
		} else {
			sb.WriteString("No clicks recorded in this period.\n")
		}
		sb.WriteString("\n")
	}

	// Chart
	if len(r.Series) > 0 && len(r.Comparison) > 0 {
		sb.WriteString(fmt.Sprintf("## Daily %s\n\n", r.Comparison[0].Label))
		sb.WriteString("```\n")
		sb.WriteString(RenderChart(r.Series, 60, 10, ""))
		sb.WriteString("\n```\n")
	}

	return sb.String()
}

// formatValue renders an absent value as a dash.
func formatValue(v *int64) string {
	if v == nil {
		return "–"
	}
	return fmt.Sprintf("%d", *v)
}

// formatChange renders the absolute difference with its arrow. Flat shows no arrow.
func formatChange(row ComparisonRow) string {
	if row.Diff == nil {
		return "–"
	}
	abs := period.Delta{Diff: row.Diff}.Abs()
	if !row.Direction.ShowIndicator() {
		return fmt.Sprintf("%d", abs)
	}
	return fmt.Sprintf("%s %d", row.Direction.Arrow(), abs)
}

// RenderLeaderboardMarkdown renders a standalone leaderboard report as Markdown string.
func RenderLeaderboardMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s by %s\n\n", r.Title, label(r.LeaderboardMetric)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d days)\n\n", r.Current.Start, r.Current.End, r.Current.LengthDays))

	if len(r.Leaderboard) == 0 {
		sb.WriteString("No clicks recorded in this period.\n")
		return sb.String()
	}

	sb.WriteString("| # | Name | Clicks |\n")
	sb.WriteString("|---|------|--------|\n")
	for _, row := range r.Leaderboard {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", row.Rank, row.Name, row.Clicks))
	}
	return sb.String()
}
