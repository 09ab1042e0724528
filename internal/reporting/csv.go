package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders the period comparison as CSV string.
// Absent values are empty cells.
func RenderCSV(r *Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"metric", "current_start", "current_end", "current", "previous_start", "previous_end", "previous", "diff", "direction"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, row := range r.Comparison {
		record := []string{
			row.Metric,
			r.Current.Start.String(), r.Current.End.String(), cell(row.Current),
			r.Previous.Start.String(), r.Previous.End.String(), cell(row.Previous),
			cell(row.Diff),
			string(row.Direction),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

// RenderLeaderboardCSV renders the report leaderboard as CSV string.
func RenderLeaderboardCSV(r *Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"rank", "id", "name", "metric", "clicks"}); err != nil {
		return "", err
	}
	for _, row := range r.Leaderboard {
		record := []string{strconv.Itoa(row.Rank), row.ID, row.Name, r.LeaderboardMetric, strconv.FormatInt(row.Clicks, 10)}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

func cell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
