package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantMarketLab/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return &Store{
		RawDir:         filepath.Join(root, "raw"),
		ProcessedDir:   filepath.Join(root, "processed"),
		ResultsDir:     filepath.Join(root, "results"),
		BackupDir:      filepath.Join(root, "backups"),
		BackupsEnabled: true,
		MaxBackups:     2,
	}
}

func TestStore_RawRoundTrip(t *testing.T) {
	s := testStore(t)
	rows := []model.RawBar{
		{Date: "2024-01-01", Open: "1.10", High: "1.12", Low: "1.09", Close: "1.11"},
		{Date: "2024-01-02", Open: "1.11", High: "1.13", Low: "1.10", Close: "1.10"},
	}

	require.NoError(t, s.WriteRaw("EURUSD", rows))
	got, err := s.ReadRaw("EURUSD")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestStore_ReadRaw_MissingFileIsEmpty(t *testing.T) {
	s := testStore(t)
	rows, err := s.ReadRaw("GOLD")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_ProcessedRoundTrip(t *testing.T) {
	s := testStore(t)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []model.PriceBar{
		{Date: date, Open: 1.1, High: 1.12, Low: 1.09, Close: 1.105, Direction: model.DirectionUp},
	}

	require.NoError(t, s.WriteProcessed("EURUSD", bars))
	got, err := s.ReadProcessed("EURUSD")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Date.Equal(date))
	assert.Equal(t, 1.105, got[0].Close)
	assert.Equal(t, model.DirectionUp, got[0].Direction)
}

func TestStore_ReadProcessed_MissingFileErrors(t *testing.T) {
	s := testStore(t)
	_, err := s.ReadProcessed("GOLD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no processed data")
}

func TestStore_ReadProcessed_RejectsUnknownDirection(t *testing.T) {
	s := testStore(t)
	path := s.ProcessedPath("GOLD")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "Date,Open,High,Low,Close,Direction\n2024-01-01,1,2,1,2,SIDEWAYS\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := s.ReadProcessed("GOLD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized direction")
}

func TestStore_ResultsPathCreatesDirectory(t *testing.T) {
	s := testStore(t)
	dir, err := s.ResultsPath("GOLD", "20240101_to_20241231")
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_RotateBackups(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.WriteRaw("GOLD", []model.RawBar{{Date: "2024-01-01", Open: "1", High: "1", Low: "1", Close: "1"}}))

	// Seed two older backups so today's rotation exceeds MaxBackups.
	dir := filepath.Join(s.BackupDir, "GOLD")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, d := range []string{"2020-01-01", "2020-01-02"} {
		p := filepath.Join(dir, "GOLD_backup_"+d+".csv")
		require.NoError(t, os.WriteFile(p, []byte("old"), 0o644))
	}

	require.NoError(t, s.RotateBackups("GOLD"))

	matches, err := filepath.Glob(filepath.Join(dir, "GOLD_backup_*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, s.MaxBackups)
	// The oldest seeded backup must be the one pruned.
	for _, m := range matches {
		assert.NotContains(t, m, "2020-01-01")
	}

	// Running again on the same day is a no-op.
	require.NoError(t, s.RotateBackups("GOLD"))
	again, _ := filepath.Glob(filepath.Join(dir, "GOLD_backup_*.csv"))
	assert.Len(t, again, s.MaxBackups)
}

func TestStore_RotateBackupsDisabled(t *testing.T) {
	s := testStore(t)
	s.BackupsEnabled = false
	require.NoError(t, s.WriteRaw("GOLD", []model.RawBar{{Date: "2024-01-01", Open: "1", High: "1", Low: "1", Close: "1"}}))
	require.NoError(t, s.RotateBackups("GOLD"))
	_, err := os.Stat(filepath.Join(s.BackupDir, "GOLD"))
	assert.True(t, os.IsNotExist(err))
}
