package model

import "time"

// SummaryStatistics holds the aggregate results of one analysis run.
type SummaryStatistics struct {
	TotalDays     int
	UpDays        int
	DownDays      int
	BreakEvenDays int

	UpPct        float64
	DownPct      float64
	BreakEvenPct float64

	// Point sums use scaled points. TotalDownPoints is a magnitude so it is
	// directly comparable to TotalUpPoints; NetPoints is signed.
	TotalUpPoints   float64
	TotalDownPoints float64
	NetPoints       float64

	LongestUpStreak        int
	LongestDownStreak      int
	LongestBreakEvenStreak int

	// Echoed configuration, for downstream formatting only.
	PointMultiplier float64
	PointDecimals   int

	// Observed date range of the analyzed rows, which may be narrower than
	// the requested window.
	ActualStart time.Time
	ActualEnd   time.Time
}

// Weekdays is the fixed row order of the day-of-week distribution. The
// table only covers Monday through Friday; bars on other days are counted
// everywhere else but not here.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// DayOfWeekRow holds the direction counts for one weekday.
type DayOfWeekRow struct {
	Day       string
	Up        int
	Down      int
	BreakEven int
}

// Count returns the cell for the given direction, 0 for unknown labels.
func (r DayOfWeekRow) Count(d Direction) int {
	switch d {
	case DirectionUp:
		return r.Up
	case DirectionDown:
		return r.Down
	case DirectionBreakEven:
		return r.BreakEven
	}
	return 0
}

// Total returns the number of observations on this weekday.
func (r DayOfWeekRow) Total() int {
	return r.Up + r.Down + r.BreakEven
}

// DayOfWeekDistribution cross-tabulates weekday against direction. A
// populated distribution always carries exactly the five Monday..Friday rows,
// in that order; an empty one (built from no input rows) carries none.
type DayOfWeekDistribution struct {
	Rows []DayOfWeekRow
}

// Empty reports whether the distribution was built from no input at all.
func (d *DayOfWeekDistribution) Empty() bool {
	return len(d.Rows) == 0
}

// Total returns the sum of all cells, i.e. the number of weekday rows that
// went into the table.
func (d *DayOfWeekDistribution) Total() int {
	sum := 0
	for _, r := range d.Rows {
		sum += r.Total()
	}
	return sum
}
