package model

import "time"

// Direction classifies a daily bar by its close relative to its open.
type Direction string

const (
	DirectionUp        Direction = "UP"
	DirectionDown      Direction = "DOWN"
	DirectionBreakEven Direction = "BREAK_EVEN"
)

// Directions is the fixed column order used by reports and distributions.
var Directions = []Direction{DirectionUp, DirectionDown, DirectionBreakEven}

// Classify derives the direction of a bar from its open and close.
func Classify(open, close float64) Direction {
	switch {
	case close > open:
		return DirectionUp
	case close < open:
		return DirectionDown
	default:
		return DirectionBreakEven
	}
}

// Valid reports whether d is one of the three known direction labels.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown || d == DirectionBreakEven
}

// Display returns the human-readable label used in reports.
func (d Direction) Display() string {
	if d == DirectionBreakEven {
		return "Break Even"
	}
	return string(d)
}

// RawBar is one unvalidated row of a raw data file. All fields are kept as
// strings until the cleaner coerces them.
type RawBar struct {
	Date  string
	Open  string
	High  string
	Low   string
	Close string
}

// PriceBar is a single validated daily OHLC bar.
type PriceBar struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Direction Direction
}

// AnalyzedBar is a PriceBar enriched by the analysis engine.
type AnalyzedBar struct {
	PriceBar
	DayName      string
	RawPoints    float64
	ScaledPoints float64
	StreakGroup  int
}

// DateFormat is the canonical date layout for files and API responses.
const DateFormat = "2006-01-02"
