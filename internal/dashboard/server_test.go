package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantMarketLab/internal/analyzer"
	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/pipeline"
	"QuantMarketLab/internal/recorder"
	"QuantMarketLab/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	base := t.TempDir()
	st := &store.Store{
		RawDir:       filepath.Join(base, "raw"),
		ProcessedDir: filepath.Join(base, "processed"),
		ResultsDir:   filepath.Join(base, "results"),
		BackupDir:    filepath.Join(base, "backups"),
	}

	// 2024-01-01 is a Monday.
	bars := make([]model.PriceBar, 0, 5)
	for i := 0; i < 5; i++ {
		open := 100.0 + float64(i)
		close := open + 0.5
		if i == 2 {
			close = open - 0.5
		}
		bars = append(bars, model.PriceBar{
			Date:      time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Open:      open,
			High:      close + 1,
			Low:       open - 1,
			Close:     close,
			Direction: model.Classify(open, close),
		})
	}
	require.NoError(t, st.WriteProcessed("EURUSD", bars))

	p := &pipeline.Pipeline{
		Store:    st,
		Recorder: recorder.NewNoopRecorder(),
		Options:  analyzer.DefaultOptions(),
	}
	assets := []model.Asset{
		{Name: "EURUSD", Type: model.AssetTypeFX, FromSymbol: "EUR", ToSymbol: "USD"},
		{Name: "WTI", Type: model.AssetTypeCommodity, Function: "WTI"},
	}
	return NewServer(":0", p, assets)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/analyze")
}

func TestHandleAssets(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []assetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "EURUSD", got[0].Name)
	assert.Equal(t, 5, got[0].Rows)
	assert.Equal(t, "2024-01-01", got[0].FirstDate)
	assert.Equal(t, "2024-01-05", got[0].LastDate)

	assert.Equal(t, "WTI", got[1].Name)
	assert.Zero(t, got[1].Rows)
	assert.Empty(t, got[1].FirstDate)
}

func TestHandleAnalyze(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze?asset=EURUSD", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "EURUSD", got.Asset)
	assert.Equal(t, "Start_to_End", got.PeriodLabel)
	assert.False(t, got.NoData)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 5, got.Summary.TotalDays)
	assert.Equal(t, 4, got.Summary.UpDays)
	assert.Equal(t, 1, got.Summary.DownDays)
	assert.Equal(t, "2024-01-01", got.Summary.ActualStartDate)
	assert.Equal(t, "2024-01-05", got.Summary.ActualEndDate)
	require.Len(t, got.Distribution, 5)
	assert.Equal(t, "Monday", got.Distribution[0].Day)
	require.Len(t, got.Bars, 5)
	assert.Equal(t, "2024-01-01", got.Bars[0].Date)
	assert.Equal(t, "Monday", got.Bars[0].DayName)
	assert.Equal(t, "UP", got.Bars[0].Direction)
	assert.InDelta(t, 0.5, got.Bars[0].RawPoints, 1e-9)
	assert.InDelta(t, 5.0, got.Bars[0].ScaledPoints, 1e-9)
	assert.NotEmpty(t, got.Files)
}

func TestHandleAnalyze_Window(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analyze?asset=EURUSD&start=2024-01-02&end=2024-01-03", nil)
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "20240102_to_20240103", got.PeriodLabel)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 2, got.Summary.TotalDays)
}

func TestHandleAnalyze_EmptyWindowIsNoData(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analyze?asset=EURUSD&start=2030-01-01", nil)
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.NoData)
	assert.Nil(t, got.Summary)
	assert.Empty(t, got.Files)
}

func TestHandleAnalyze_BadRequests(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name string
		url  string
	}{
		{"missing asset", "/api/analyze"},
		{"unknown asset", "/api/analyze?asset=NOPE"},
		{"bad date", "/api/analyze?asset=EURUSD&start=01-01-2024"},
		{"inverted window", "/api/analyze?asset=EURUSD&start=2024-01-05&end=2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var got errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotEmpty(t, got.Error)
		})
	}
}
