// Package cleaner is the quality gate between raw data files and the
// analysis engine. Everything downstream assumes its output: parseable
// unique dates, positive finite prices, a classified direction per row.
package cleaner

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"QuantMarketLab/internal/model"
)

// Report counts what each cleaning step removed, for logging.
type Report struct {
	Input      int
	BadDates   int
	Duplicates int
	BadPrices  int
	Output     int
}

// dateLayouts accepted in raw files. Alpha Vantage uses plain dates; older
// raw files may carry a timestamp suffix.
var dateLayouts = []string{
	model.DateFormat,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// Clean validates and normalizes raw rows into PriceBars: rows with
// unparseable dates are dropped, duplicate dates keep the first occurrence,
// prices are coerced to float64 and rows with missing, zero or non-finite
// prices are dropped, a Direction is classified for every surviving row, and
// the result is sorted ascending by date.
func Clean(rows []model.RawBar) ([]model.PriceBar, Report) {
	rep := Report{Input: len(rows)}
	seen := make(map[string]bool, len(rows))
	bars := make([]model.PriceBar, 0, len(rows))

	for _, row := range rows {
		date, ok := parseDate(row.Date)
		if !ok {
			rep.BadDates++
			continue
		}
		key := date.Format(model.DateFormat)
		if seen[key] {
			rep.Duplicates++
			continue
		}

		open, ok1 := parsePrice(row.Open)
		high, ok2 := parsePrice(row.High)
		low, ok3 := parsePrice(row.Low)
		close, ok4 := parsePrice(row.Close)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			rep.BadPrices++
			continue
		}

		seen[key] = true
		bars = append(bars, model.PriceBar{
			Date:      date,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Direction: model.Classify(open, close),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	rep.Output = len(bars)
	return bars, rep
}

func parseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return t, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			// Normalize to the calendar-date grain.
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return t, false
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
