package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantMarketLab/internal/analyzer"
	"QuantMarketLab/internal/collector"
	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/recorder"
	"QuantMarketLab/internal/store"
)

func date(s string) time.Time {
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func testPipeline(t *testing.T, fetched []model.RawBar) *Pipeline {
	t.Helper()
	root := t.TempDir()
	st := &store.Store{
		RawDir:       filepath.Join(root, "raw"),
		ProcessedDir: filepath.Join(root, "processed"),
		ResultsDir:   filepath.Join(root, "results"),
		BackupDir:    filepath.Join(root, "backups"),
	}
	return &Pipeline{
		Store:     st,
		Collector: collector.NewCollector(&collector.MockFetcher{Bars: fetched}, st),
		Recorder:  recorder.NewNoopRecorder(),
		Options:   analyzer.DefaultOptions(),
	}
}

func fetchedWeek() []model.RawBar {
	return []model.RawBar{
		{Date: "2024-01-01", Open: "100", High: "104", Low: "99", Close: "103"},
		{Date: "2024-01-02", Open: "103", High: "104", Low: "100", Close: "101"},
		{Date: "2024-01-03", Open: "101", High: "102", Low: "100", Close: "101"},
		{Date: "2024-01-04", Open: "101", High: "105", Low: "101", Close: "104"},
		{Date: "2024-01-05", Open: "104", High: "105", Low: "101", Close: "102"},
	}
}

func TestPipeline_RefreshThenAnalyze(t *testing.T) {
	p := testPipeline(t, fetchedWeek())
	asset := model.Asset{Name: "GOLD", Type: model.AssetTypeCommodity, Function: "GOLD"}

	require.NoError(t, p.Refresh(context.Background(), asset))

	out, err := p.Analyze("GOLD", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.False(t, out.Result.Empty())

	assert.Equal(t, "Start_to_End", out.PeriodLabel)
	assert.Equal(t, 5, out.Result.Stats.TotalDays)
	assert.Equal(t, 2, out.Result.Stats.UpDays)
	assert.Equal(t, 2, out.Result.Stats.DownDays)
	assert.Equal(t, 1, out.Result.Stats.BreakEvenDays)

	// Text report, CSV and the four charts.
	assert.Len(t, out.Files, 6)
	assert.DirExists(t, out.OutputDir)
}

func TestPipeline_AnalyzeWindowNarrowsActualRange(t *testing.T) {
	p := testPipeline(t, fetchedWeek())
	asset := model.Asset{Name: "GOLD", Type: model.AssetTypeCommodity, Function: "GOLD"}
	require.NoError(t, p.Refresh(context.Background(), asset))

	out, err := p.Analyze("GOLD", date("2024-01-02"), date("2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, "20240102_to_20240104", out.PeriodLabel)
	assert.Equal(t, 3, out.Result.Stats.TotalDays)
	assert.Equal(t, date("2024-01-02"), out.Result.Stats.ActualStart)
	assert.Equal(t, date("2024-01-04"), out.Result.Stats.ActualEnd)
}

func TestPipeline_AnalyzeEmptyWindowIsNoData(t *testing.T) {
	p := testPipeline(t, fetchedWeek())
	asset := model.Asset{Name: "GOLD", Type: model.AssetTypeCommodity, Function: "GOLD"}
	require.NoError(t, p.Refresh(context.Background(), asset))

	out, err := p.Analyze("GOLD", date("2030-01-01"), date("2030-12-31"))
	require.NoError(t, err)
	assert.True(t, out.Result.Empty())
	assert.Empty(t, out.Files)
	assert.Empty(t, out.OutputDir)
}

func TestPipeline_AnalyzeWithoutProcessedDataErrors(t *testing.T) {
	p := testPipeline(t, nil)
	_, err := p.Analyze("GOLD", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no processed data")
}

func TestFilterByDate(t *testing.T) {
	bars := []model.PriceBar{
		{Date: date("2024-01-01")},
		{Date: date("2024-01-02")},
		{Date: date("2024-01-03")},
	}

	assert.Len(t, FilterByDate(bars, time.Time{}, time.Time{}), 3)
	assert.Len(t, FilterByDate(bars, date("2024-01-02"), time.Time{}), 2)
	assert.Len(t, FilterByDate(bars, time.Time{}, date("2024-01-02")), 2)

	// Bounds are inclusive on both sides.
	win := FilterByDate(bars, date("2024-01-02"), date("2024-01-02"))
	require.Len(t, win, 1)
	assert.Equal(t, date("2024-01-02"), win[0].Date)

	assert.Empty(t, FilterByDate(bars, date("2025-01-01"), time.Time{}))
	assert.Len(t, bars, 3)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "20240101_to_20241231", PeriodLabel(date("2024-01-01"), date("2024-12-31")))
	assert.Equal(t, "Start_to_20241231", PeriodLabel(time.Time{}, date("2024-12-31")))
	assert.Equal(t, "20240101_to_End", PeriodLabel(date("2024-01-01"), time.Time{}))
	assert.Equal(t, "Start_to_End", PeriodLabel(time.Time{}, time.Time{}))
}
