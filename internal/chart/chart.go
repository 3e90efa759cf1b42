// Package chart renders the four analysis visualizations as PNG files: the
// overall direction pie, the cumulative direction-count trend, the
// day-of-week grouped bars, and the cumulative points trend.
package chart

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"QuantMarketLab/internal/model"
)

// Palette shared by all plots.
var (
	colorUp        = drawing.Color{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}
	colorDown      = drawing.Color{R: 0xd6, G: 0x27, B: 0x28, A: 255}
	colorBreakEven = drawing.Color{R: 0xad, G: 0xb5, B: 0xbd, A: 255}
)

func directionColor(d model.Direction) drawing.Color {
	switch d {
	case model.DirectionUp:
		return colorUp
	case model.DirectionDown:
		return colorDown
	default:
		return colorBreakEven
	}
}

// Generate writes all four chart files into dir and returns their paths,
// keyed by chart name. Trend charts need at least two rows and are skipped
// with a warning below that; the caller treats missing keys as "not drawn".
func Generate(dir, asset, periodLabel string, bars []model.AnalyzedBar, stats *model.SummaryStatistics, dist *model.DayOfWeekDistribution) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	prefix := fmt.Sprintf("%s_%s", asset, strings.ReplaceAll(periodLabel, " ", "_"))
	paths := make(map[string]string, 4)

	pie := filepath.Join(dir, prefix+"_OverallDistribution_Pie.png")
	if err := renderDistributionPie(pie, stats); err != nil {
		return paths, err
	}
	paths["overall_dist_pie"] = pie

	if len(bars) < 2 {
		log.Printf("[WARN] %s: fewer than two rows, skipping trend charts", asset)
	} else {
		days := filepath.Join(dir, prefix+"_CumulativeDays_Trend.png")
		if err := renderCumulativeDays(days, bars); err != nil {
			return paths, err
		}
		paths["cumulative_days"] = days

		points := filepath.Join(dir, prefix+"_CumulativePoints_Trend.png")
		if err := renderCumulativePoints(points, bars); err != nil {
			return paths, err
		}
		paths["cumulative_points"] = points
	}

	if dist.Total() == 0 {
		log.Printf("[WARN] %s: no weekday rows, skipping day-of-week chart", asset)
	} else {
		dow := filepath.Join(dir, prefix+"_DayOfWeekDistribution_Grouped.png")
		if err := renderDayOfWeekBars(dow, dist); err != nil {
			return paths, err
		}
		paths["dow_dist_grouped"] = dow
	}
	return paths, nil
}

func renderDistributionPie(path string, stats *model.SummaryStatistics) error {
	values := make([]chart.Value, 0, 3)
	add := func(d model.Direction, n int) {
		if n == 0 {
			return // go-chart cannot draw zero-sized slices
		}
		values = append(values, chart.Value{
			Value: float64(n),
			Label: fmt.Sprintf("%s: %d days", d.Display(), n),
			Style: chart.Style{FillColor: directionColor(d)},
		})
	}
	add(model.DirectionUp, stats.UpDays)
	add(model.DirectionDown, stats.DownDays)
	add(model.DirectionBreakEven, stats.BreakEvenDays)

	pie := chart.PieChart{
		Title:  "Overall Distribution of Daily Directions",
		Width:  1024,
		Height: 720,
		Values: values,
	}
	return renderToFile(path, func(f *os.File) error { return pie.Render(chart.PNG, f) })
}

func renderCumulativeDays(path string, bars []model.AnalyzedBar) error {
	dates := make([]time.Time, len(bars))
	up := make([]float64, len(bars))
	down := make([]float64, len(bars))
	be := make([]float64, len(bars))
	var cu, cd, cb float64
	for i, b := range bars {
		switch b.Direction {
		case model.DirectionUp:
			cu++
		case model.DirectionDown:
			cd++
		default:
			cb++
		}
		dates[i], up[i], down[i], be[i] = b.Date, cu, cd, cb
	}

	c := chart.Chart{
		Title:  "Cumulative Count of Daily Directions Over Time",
		Width:  1280,
		Height: 720,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01")},
		Series: []chart.Series{
			chart.TimeSeries{Name: "UP Days", XValues: dates, YValues: up, Style: lineStyle(colorUp)},
			chart.TimeSeries{Name: "DOWN Days", XValues: dates, YValues: down, Style: lineStyle(colorDown)},
			chart.TimeSeries{Name: "Break Even Days", XValues: dates, YValues: be, Style: lineStyle(colorBreakEven)},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return renderToFile(path, func(f *os.File) error { return c.Render(chart.PNG, f) })
}

func renderCumulativePoints(path string, bars []model.AnalyzedBar) error {
	dates := make([]time.Time, len(bars))
	up := make([]float64, len(bars))
	down := make([]float64, len(bars))
	var cu, cd float64
	for i, b := range bars {
		switch b.Direction {
		case model.DirectionUp:
			cu += b.ScaledPoints
		case model.DirectionDown:
			cd += math.Abs(b.ScaledPoints)
		}
		dates[i], up[i], down[i] = b.Date, cu, cd
	}

	c := chart.Chart{
		Title:  "Cumulative Points Trend (UP vs. DOWN Days)",
		Width:  1280,
		Height: 720,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01")},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Cumulative UP Points", XValues: dates, YValues: up, Style: lineStyle(colorUp)},
			chart.TimeSeries{Name: "Cumulative DOWN Points (Magnitude)", XValues: dates, YValues: down, Style: lineStyle(colorDown)},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return renderToFile(path, func(f *os.File) error { return c.Render(chart.PNG, f) })
}

// renderDayOfWeekBars draws the weekday cross-tab as grouped bars: three
// bars per weekday, one per direction, in the fixed palette.
func renderDayOfWeekBars(path string, dist *model.DayOfWeekDistribution) error {
	bars := make([]chart.Value, 0, len(dist.Rows)*len(model.Directions))
	for _, row := range dist.Rows {
		for _, d := range model.Directions {
			bars = append(bars, chart.Value{
				Value: float64(row.Count(d)),
				Label: fmt.Sprintf("%s %s", row.Day[:3], shortLabel(d)),
				Style: chart.Style{FillColor: directionColor(d), StrokeColor: directionColor(d)},
			})
		}
	}

	c := chart.BarChart{
		Title:    "Daily Direction Count by Day of the Week",
		Width:    1280,
		Height:   720,
		BarWidth: 48,
		Bars:     bars,
	}
	return renderToFile(path, func(f *os.File) error { return c.Render(chart.PNG, f) })
}

func shortLabel(d model.Direction) string {
	if d == model.DirectionBreakEven {
		return "BE"
	}
	return string(d)
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2.5}
}

func renderToFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
