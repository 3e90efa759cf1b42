// Package store owns the flat-file layout of the project: raw and processed
// per-asset CSVs, rotated raw-data backups, and per-run results directories.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"QuantMarketLab/internal/model"
)

// Store resolves and reads/writes the project's data files.
type Store struct {
	RawDir       string
	ProcessedDir string
	ResultsDir   string
	BackupDir    string

	BackupsEnabled bool
	MaxBackups     int
}

var rawHeader = []string{"Date", "Open", "High", "Low", "Close"}
var processedHeader = []string{"Date", "Open", "High", "Low", "Close", "Direction"}

// RawPath returns the raw CSV path for an asset.
func (s *Store) RawPath(asset string) string {
	return filepath.Join(s.RawDir, asset, asset+".csv")
}

// ProcessedPath returns the cleaned CSV path for an asset.
func (s *Store) ProcessedPath(asset string) string {
	return filepath.Join(s.ProcessedDir, asset, asset+".csv")
}

// ResultsPath creates (if needed) and returns the output directory for one
// analysis run.
func (s *Store) ResultsPath(asset, periodLabel string) (string, error) {
	dir := filepath.Join(s.ResultsDir, asset, periodLabel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	return dir, nil
}

// ReadRaw loads the raw CSV for an asset. A missing file is not an error; it
// returns an empty slice so the collector can create the file on first run.
func (s *Store) ReadRaw(asset string) ([]model.RawBar, error) {
	records, err := readCSV(s.RawPath(asset))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	rows := make([]model.RawBar, 0, len(records))
	for _, rec := range records {
		if len(rec) < 5 {
			continue
		}
		rows = append(rows, model.RawBar{Date: rec[0], Open: rec[1], High: rec[2], Low: rec[3], Close: rec[4]})
	}
	return rows, nil
}

// WriteRaw writes the raw CSV for an asset, creating its directory.
func (s *Store) WriteRaw(asset string, rows []model.RawBar) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Date, r.Open, r.High, r.Low, r.Close})
	}
	return writeCSV(s.RawPath(asset), rawHeader, records)
}

// ReadProcessed loads the cleaned CSV for an asset as validated PriceBars.
// Unlike ReadRaw, a missing file is an error: it means the cleaning pipeline
// has not been run.
func (s *Store) ReadProcessed(asset string) ([]model.PriceBar, error) {
	path := s.ProcessedPath(asset)
	records, err := readCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no processed data for %s at %s (run fetch and clean first)", asset, path)
		}
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(records))
	for i, rec := range records {
		if len(rec) < 6 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 6", path, i+2, len(rec))
		}
		bar, err := parseProcessedRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+2, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// WriteProcessed writes the cleaned CSV for an asset.
func (s *Store) WriteProcessed(asset string, bars []model.PriceBar) error {
	records := make([][]string, 0, len(bars))
	for _, b := range bars {
		records = append(records, []string{
			b.Date.Format(model.DateFormat),
			formatPrice(b.Open),
			formatPrice(b.High),
			formatPrice(b.Low),
			formatPrice(b.Close),
			string(b.Direction),
		})
	}
	return writeCSV(s.ProcessedPath(asset), processedHeader, records)
}

func parseProcessedRow(rec []string) (model.PriceBar, error) {
	var bar model.PriceBar
	date, err := time.Parse(model.DateFormat, rec[0])
	if err != nil {
		return bar, fmt.Errorf("parse date %q: %w", rec[0], err)
	}
	prices := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return bar, fmt.Errorf("parse price %q: %w", rec[i+1], err)
		}
		prices[i] = v
	}
	dir := model.Direction(rec[5])
	if !dir.Valid() {
		return bar, fmt.Errorf("unrecognized direction %q", rec[5])
	}
	return model.PriceBar{
		Date: date, Open: prices[0], High: prices[1], Low: prices[2], Close: prices[3],
		Direction: dir,
	}, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// readCSV returns the data records of a CSV file, skipping the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
