// Package analyzer is the statistical core of QuantMarketLab. It transforms
// a validated daily OHLC series into an enriched per-day table plus aggregate
// direction statistics. It performs no I/O and never mutates its input.
package analyzer

import (
	"math"
	"sort"
	"time"

	"QuantMarketLab/internal/model"
)

// Options is the engine configuration. It is always passed explicitly;
// nothing in this package reads global state.
type Options struct {
	// PointMultiplier scales the close-open delta for display. Purely a
	// unit convention, default 10.
	PointMultiplier float64
	// PointDecimals is echoed to formatters, it does not affect computation.
	PointDecimals int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{PointMultiplier: 10, PointDecimals: 2}
}

// Result bundles the three artifacts of one analysis run.
type Result struct {
	Bars         []model.AnalyzedBar
	Stats        *model.SummaryStatistics
	Distribution *model.DayOfWeekDistribution
}

// Empty reports whether the run had no input rows. Empty input is a defined
// outcome, not an error: callers render a "no data" message instead of a
// report.
func (r *Result) Empty() bool {
	return len(r.Bars) == 0
}

// Run enriches the series and computes summary statistics and the
// day-of-week distribution in one pass over the input.
func Run(bars []model.PriceBar, opts Options) *Result {
	enriched := Enrich(bars, opts.PointMultiplier)
	if len(enriched) == 0 {
		return &Result{Distribution: &model.DayOfWeekDistribution{}}
	}
	return &Result{
		Bars:         enriched,
		Stats:        Summarize(enriched, opts),
		Distribution: DayOfWeekCounts(enriched),
	}
}

// Enrich produces one AnalyzedBar per input bar: weekday name, raw and
// scaled point deltas, and the streak group id. The input is copied, sorted
// by date and de-duplicated (first occurrence wins) before enrichment, so
// the upstream ordering guarantee is not load-bearing.
func Enrich(bars []model.PriceBar, multiplier float64) []model.AnalyzedBar {
	if len(bars) == 0 {
		return nil
	}

	sorted := make([]model.PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make([]model.AnalyzedBar, 0, len(sorted))
	group := 1
	for i, b := range sorted {
		if i > 0 && sameDay(b.Date, sorted[i-1].Date) {
			continue
		}
		if len(out) > 0 && b.Direction != out[len(out)-1].Direction {
			group++
		}
		raw := b.Close - b.Open
		out = append(out, model.AnalyzedBar{
			PriceBar:     b,
			DayName:      b.Date.Weekday().String(),
			RawPoints:    raw,
			ScaledPoints: raw * multiplier,
			StreakGroup:  group,
		})
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Summarize computes the aggregate statistics for a non-empty enriched
// series. Callers must special-case empty input via Result.Empty; invoked on
// an empty slice it still returns a zeroed record rather than dividing by
// zero.
func Summarize(bars []model.AnalyzedBar, opts Options) *model.SummaryStatistics {
	stats := &model.SummaryStatistics{
		PointMultiplier: opts.PointMultiplier,
		PointDecimals:   opts.PointDecimals,
	}

	total := len(bars)
	stats.TotalDays = total

	var upSum, downSum float64
	for _, b := range bars {
		switch b.Direction {
		case model.DirectionUp:
			stats.UpDays++
			upSum += b.ScaledPoints
		case model.DirectionDown:
			stats.DownDays++
			downSum += b.ScaledPoints
		}
		stats.NetPoints += b.ScaledPoints
	}
	// Derived by subtraction, matching the historical behavior: a direction
	// label outside the three known values is folded into break-even here
	// (the cleaner is the layer that rejects such labels).
	stats.BreakEvenDays = total - stats.UpDays - stats.DownDays

	if total > 0 {
		stats.UpPct = float64(stats.UpDays) / float64(total) * 100
		stats.DownPct = float64(stats.DownDays) / float64(total) * 100
		stats.BreakEvenPct = float64(stats.BreakEvenDays) / float64(total) * 100
	}

	stats.TotalUpPoints = upSum
	stats.TotalDownPoints = math.Abs(downSum)

	stats.LongestUpStreak, stats.LongestDownStreak, stats.LongestBreakEvenStreak = LongestStreaks(bars)

	if total > 0 {
		stats.ActualStart = bars[0].Date
		stats.ActualEnd = bars[total-1].Date
	}
	return stats
}
