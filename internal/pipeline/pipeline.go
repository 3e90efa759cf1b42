// Package pipeline wires the stages together: raw acquisition, cleaning,
// the analysis engine, and the report/chart outputs. Each asset and period
// is processed independently; a failure aborts only that run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"QuantMarketLab/internal/analyzer"
	"QuantMarketLab/internal/chart"
	"QuantMarketLab/internal/cleaner"
	"QuantMarketLab/internal/collector"
	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/recorder"
	"QuantMarketLab/internal/report"
	"QuantMarketLab/internal/store"
)

// Pipeline executes the fetch/clean/analyze stages over the shared store.
type Pipeline struct {
	Store     *store.Store
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Options   analyzer.Options
}

// RunOutput describes one completed analysis run.
type RunOutput struct {
	Asset       string
	PeriodLabel string
	Result      *analyzer.Result
	OutputDir   string
	Files       []string
}

// Refresh updates the raw file for one asset and regenerates its processed
// file from it.
func (p *Pipeline) Refresh(ctx context.Context, asset model.Asset) error {
	if _, _, err := p.Collector.Update(ctx, asset); err != nil {
		return err
	}
	return p.CleanAsset(asset.Name)
}

// CleanAsset regenerates the processed file of an asset from its raw file.
func (p *Pipeline) CleanAsset(name string) error {
	raw, err := p.Store.ReadRaw(name)
	if err != nil {
		return fmt.Errorf("read raw %s: %w", name, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("no raw data for %s (run fetch first)", name)
	}

	bars, rep := cleaner.Clean(raw)
	log.Printf("[INFO] %s: cleaned %d raw rows -> %d bars (%d bad dates, %d duplicates, %d bad prices)",
		name, rep.Input, rep.Output, rep.BadDates, rep.Duplicates, rep.BadPrices)
	if len(bars) == 0 {
		return fmt.Errorf("cleaning %s produced an empty dataset", name)
	}
	return p.Store.WriteProcessed(name, bars)
}

// Analyze loads the processed series of an asset, filters it to the
// requested window and runs the engine. When the window holds no rows the
// returned output carries an empty Result and no files; that is the defined
// "no data" outcome, not an error. Otherwise the text report, the CSV and
// the charts are written under the results directory and the run is
// recorded.
func (p *Pipeline) Analyze(asset string, start, end time.Time) (*RunOutput, error) {
	full, err := p.Store.ReadProcessed(asset)
	if err != nil {
		return nil, err
	}

	label := PeriodLabel(start, end)
	out := &RunOutput{Asset: asset, PeriodLabel: label}

	period := FilterByDate(full, start, end)
	out.Result = analyzer.Run(period, p.Options)
	if out.Result.Empty() {
		log.Printf("[WARN] %s: no data in period %s", asset, label)
		return out, nil
	}

	dir, err := p.Store.ResultsPath(asset, label)
	if err != nil {
		return nil, err
	}
	out.OutputDir = dir

	reportPath, err := report.WriteSummary(dir, asset, label, out.Result.Stats, out.Result.Distribution)
	if err != nil {
		return nil, err
	}
	out.Files = append(out.Files, reportPath)

	csvPath, err := report.WriteCSV(dir, asset, label, out.Result.Bars)
	if err != nil {
		return nil, err
	}
	out.Files = append(out.Files, csvPath)

	charts, err := chart.Generate(dir, asset, label, out.Result.Bars, out.Result.Stats, out.Result.Distribution)
	if err != nil {
		return nil, err
	}
	for _, path := range charts {
		out.Files = append(out.Files, path)
	}

	if err := p.Recorder.RecordRun(asset, label, out.Result.Stats); err != nil {
		log.Printf("[ERROR] record run %s/%s: %v", asset, label, err)
	}

	log.Printf("[INFO] %s: analysis for %s complete, %d files in %s", asset, label, len(out.Files), dir)
	return out, nil
}

// FilterByDate keeps the bars within [start, end], both inclusive. A zero
// start or end leaves that side open. The input is not mutated.
func FilterByDate(bars []model.PriceBar, start, end time.Time) []model.PriceBar {
	out := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if !start.IsZero() && b.Date.Before(start) {
			continue
		}
		if !end.IsZero() && b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// PeriodLabel builds the file-safe label of a requested window, e.g.
// "20240101_to_20241231". Open ends read "Start" and "End".
func PeriodLabel(start, end time.Time) string {
	s, e := "Start", "End"
	if !start.IsZero() {
		s = start.Format("20060102")
	}
	if !end.IsZero() {
		e = end.Format("20060102")
	}
	return s + "_to_" + e
}
