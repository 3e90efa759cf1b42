package analyzer

import "QuantMarketLab/internal/model"

// LongestStreaks returns, per direction, the length of the longest maximal
// run of consecutive bars with that direction. Directions with no run at all
// yield 0. Only the maximum matters; which run achieved it is not tracked.
func LongestStreaks(bars []model.AnalyzedBar) (up, down, breakEven int) {
	record := func(d model.Direction, size int) {
		switch d {
		case model.DirectionUp:
			if size > up {
				up = size
			}
		case model.DirectionDown:
			if size > down {
				down = size
			}
		case model.DirectionBreakEven:
			if size > breakEven {
				breakEven = size
			}
		}
	}

	size := 0
	for i, b := range bars {
		if i > 0 && b.StreakGroup != bars[i-1].StreakGroup {
			record(bars[i-1].Direction, size)
			size = 0
		}
		size++
	}
	if size > 0 {
		record(bars[len(bars)-1].Direction, size)
	}
	return up, down, breakEven
}
