// Package report serializes analysis results to the text summary report and
// the enriched-data CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"QuantMarketLab/internal/model"
)

// WriteSummary renders the text report into dir and returns the file path.
func WriteSummary(dir, asset, periodLabel string, stats *model.SummaryStatistics, dist *model.DayOfWeekDistribution) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fileName(asset, periodLabel, "SummaryReport.txt"))
	content := FormatSummary(asset, periodLabel, stats, dist, time.Now())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write summary report: %w", err)
	}
	return path, nil
}

// FormatSummary renders the full report text. generatedAt is injected so
// tests can pin it.
func FormatSummary(asset, periodLabel string, stats *model.SummaryStatistics, dist *model.DayOfWeekDistribution, generatedAt time.Time) string {
	dec := stats.PointDecimals
	var b strings.Builder

	fmt.Fprintf(&b, "%s Daily Direction Analysis Report\n", asset)
	fmt.Fprintf(&b, "Analysis Period Label: %s\n", periodLabel)
	fmt.Fprintf(&b, "Actual Analyzed Period: %s to %s\n",
		stats.ActualStart.Format(model.DateFormat), stats.ActualEnd.Format(model.DateFormat))
	fmt.Fprintf(&b, "Report Generation Date: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	b.WriteString("I. Overall Daily Direction Statistics:\n")
	fmt.Fprintf(&b, "  Total Trading Days Analyzed: %d\n", stats.TotalDays)
	fmt.Fprintf(&b, "  UP Days: %d (%.2f%%)\n", stats.UpDays, stats.UpPct)
	fmt.Fprintf(&b, "  DOWN Days: %d (%.2f%%)\n", stats.DownDays, stats.DownPct)
	fmt.Fprintf(&b, "  Break Even Days: %d (%.2f%%)\n\n", stats.BreakEvenDays, stats.BreakEvenPct)

	fmt.Fprintf(&b, "II. Points Summary (Scaled by %g):\n", stats.PointMultiplier)
	fmt.Fprintf(&b, "  Total Scaled Points on UP Days: %.*f\n", dec, stats.TotalUpPoints)
	fmt.Fprintf(&b, "  Total Scaled Points on DOWN Days (sum of magnitudes): %.*f\n", dec, stats.TotalDownPoints)
	fmt.Fprintf(&b, "  Net Scaled Points (UP Points - DOWN Points): %.*f\n\n", dec, stats.NetPoints)

	b.WriteString("III. Longest Consecutive Streaks:\n")
	fmt.Fprintf(&b, "  Longest UP Streak: %d days\n", stats.LongestUpStreak)
	fmt.Fprintf(&b, "  Longest DOWN Streak: %d days\n", stats.LongestDownStreak)
	fmt.Fprintf(&b, "  Longest Break Even Streak: %d days\n\n", stats.LongestBreakEvenStreak)

	b.WriteString("IV. Daily Direction Distribution by Day of the Week:\n")
	writeDistributionTable(&b, dist)

	b.WriteString("\n" + strings.Repeat("=", 80) + "\nEnd of Report\n")
	return b.String()
}

// writeDistributionTable renders the weekday cross-tab with a row total and
// per-direction percentage columns. Percentages are per weekday row; an
// all-zero row shows 0.00 rather than dividing by zero.
func writeDistributionTable(b *strings.Builder, dist *model.DayOfWeekDistribution) {
	if dist == nil || dist.Empty() {
		b.WriteString("  (no weekday data)\n")
		return
	}

	table := tablewriter.NewWriter(b)
	table.Header("Day", "UP", "DOWN", "Break Even", "Total", "UP %", "DOWN %", "Break Even %")
	for _, row := range dist.Rows {
		total := row.Total()
		pct := func(n int) string {
			if total == 0 {
				return "0.00"
			}
			return strconv.FormatFloat(float64(n)/float64(total)*100, 'f', 2, 64)
		}
		table.Append(
			row.Day,
			strconv.Itoa(row.Up),
			strconv.Itoa(row.Down),
			strconv.Itoa(row.BreakEven),
			strconv.Itoa(total),
			pct(row.Up),
			pct(row.Down),
			pct(row.BreakEven),
		)
	}
	table.Render()
}

// WriteCSV writes the enriched per-day table into dir and returns the path.
func WriteCSV(dir, asset, periodLabel string, bars []model.AnalyzedBar) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fileName(asset, periodLabel, "DailyDirectionData.csv"))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Day_Name", "Direction", "Raw_Points", "Points_Display"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, bar := range bars {
		rec := []string{
			bar.Date.Format(model.DateFormat),
			num(bar.Open), num(bar.High), num(bar.Low), num(bar.Close),
			bar.DayName,
			string(bar.Direction),
			num(bar.RawPoints),
			num(bar.ScaledPoints),
		}
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func fileName(asset, periodLabel, suffix string) string {
	return fmt.Sprintf("%s_%s_%s", asset, strings.ReplaceAll(periodLabel, " ", "_"), suffix)
}
