package analyzer

import "QuantMarketLab/internal/model"

// DayOfWeekCounts cross-tabulates weekday name against direction. The result
// always carries the five Monday..Friday rows in fixed order, all-zero rows
// included. Saturday and Sunday bars are dropped from this table only; they
// still count toward the overall summary totals. Empty input yields an empty
// distribution, which is distinct from "rows exist but none on a weekday".
func DayOfWeekCounts(bars []model.AnalyzedBar) *model.DayOfWeekDistribution {
	dist := &model.DayOfWeekDistribution{}
	if len(bars) == 0 {
		return dist
	}

	counts := make(map[string]map[model.Direction]int, len(model.Weekdays))
	for _, day := range model.Weekdays {
		counts[day] = make(map[model.Direction]int, len(model.Directions))
	}
	for _, b := range bars {
		cell, ok := counts[b.DayName]
		if !ok {
			continue // weekend
		}
		cell[b.Direction]++
	}

	dist.Rows = make([]model.DayOfWeekRow, 0, len(model.Weekdays))
	for _, day := range model.Weekdays {
		dist.Rows = append(dist.Rows, model.DayOfWeekRow{
			Day:       day,
			Up:        counts[day][model.DirectionUp],
			Down:      counts[day][model.DirectionDown],
			BreakEven: counts[day][model.DirectionBreakEven],
		})
	}
	return dist
}
