package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"QuantMarketLab/internal/model"
)

type assetInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Rows      int    `json:"rows"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
}

type summaryPayload struct {
	TotalDays     int `json:"total_days"`
	UpDays        int `json:"up_days"`
	DownDays      int `json:"down_days"`
	BreakEvenDays int `json:"break_even_days"`

	UpPct        float64 `json:"up_pct"`
	DownPct      float64 `json:"down_pct"`
	BreakEvenPct float64 `json:"break_even_pct"`

	TotalUpPoints   float64 `json:"total_up_points"`
	TotalDownPoints float64 `json:"total_down_points"`
	NetPoints       float64 `json:"net_points"`

	LongestUpStreak        int `json:"longest_up_streak"`
	LongestDownStreak      int `json:"longest_down_streak"`
	LongestBreakEvenStreak int `json:"longest_break_even_streak"`

	PointMultiplier float64 `json:"point_multiplier"`
	PointDecimals   int     `json:"point_decimals"`

	ActualStartDate string `json:"actual_start_date"`
	ActualEndDate   string `json:"actual_end_date"`
}

type distributionRow struct {
	Day       string `json:"day"`
	Up        int    `json:"up"`
	Down      int    `json:"down"`
	BreakEven int    `json:"break_even"`
}

type barPayload struct {
	Date         string  `json:"date"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	DayName      string  `json:"day_name"`
	Direction    string  `json:"direction"`
	RawPoints    float64 `json:"raw_points"`
	ScaledPoints float64 `json:"scaled_points"`
}

type analyzeResponse struct {
	Asset        string            `json:"asset"`
	PeriodLabel  string            `json:"period_label"`
	NoData       bool              `json:"no_data"`
	Summary      *summaryPayload   `json:"summary,omitempty"`
	Distribution []distributionRow `json:"distribution,omitempty"`
	Bars         []barPayload      `json:"bars,omitempty"`
	Files        []string          `json:"files,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	out := make([]assetInfo, 0, len(s.assets))
	for _, a := range s.assets {
		info := assetInfo{Name: a.Name, Type: a.Type}
		if bars, err := s.pipeline.Store.ReadProcessed(a.Name); err == nil && len(bars) > 0 {
			info.Rows = len(bars)
			info.FirstDate = bars[0].Date.Format(model.DateFormat)
			info.LastDate = bars[len(bars)-1].Date.Format(model.DateFormat)
		}
		out = append(out, info)
	}
	render.JSON(w, r, out)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	asset := r.URL.Query().Get("asset")
	if asset == "" {
		badRequest(w, r, "asset parameter is required")
		return
	}
	known := false
	for _, a := range s.assets {
		if a.Name == asset {
			known = true
			break
		}
	}
	if !known {
		badRequest(w, r, "unknown asset %q", asset)
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		badRequest(w, r, "%v", err)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		badRequest(w, r, "%v", err)
		return
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		badRequest(w, r, "start date must not be after end date")
		return
	}

	out, err := s.pipeline.Analyze(asset, start, end)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}

	resp := analyzeResponse{Asset: asset, PeriodLabel: out.PeriodLabel}
	if out.Result.Empty() {
		resp.NoData = true
		render.JSON(w, r, resp)
		return
	}

	stats := out.Result.Stats
	resp.Summary = &summaryPayload{
		TotalDays:     stats.TotalDays,
		UpDays:        stats.UpDays,
		DownDays:      stats.DownDays,
		BreakEvenDays: stats.BreakEvenDays,

		UpPct:        stats.UpPct,
		DownPct:      stats.DownPct,
		BreakEvenPct: stats.BreakEvenPct,

		TotalUpPoints:   stats.TotalUpPoints,
		TotalDownPoints: stats.TotalDownPoints,
		NetPoints:       stats.NetPoints,

		LongestUpStreak:        stats.LongestUpStreak,
		LongestDownStreak:      stats.LongestDownStreak,
		LongestBreakEvenStreak: stats.LongestBreakEvenStreak,

		PointMultiplier: stats.PointMultiplier,
		PointDecimals:   stats.PointDecimals,

		ActualStartDate: stats.ActualStart.Format(model.DateFormat),
		ActualEndDate:   stats.ActualEnd.Format(model.DateFormat),
	}
	for _, row := range out.Result.Distribution.Rows {
		resp.Distribution = append(resp.Distribution, distributionRow{
			Day: row.Day, Up: row.Up, Down: row.Down, BreakEven: row.BreakEven,
		})
	}
	for _, b := range out.Result.Bars {
		resp.Bars = append(resp.Bars, barPayload{
			Date:         b.Date.Format(model.DateFormat),
			Open:         b.Open,
			High:         b.High,
			Low:          b.Low,
			Close:        b.Close,
			DayName:      b.DayName,
			Direction:    string(b.Direction),
			RawPoints:    b.RawPoints,
			ScaledPoints: b.ScaledPoints,
		})
	}
	resp.Files = out.Files
	render.JSON(w, r, resp)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", name, v)
	}
	return t, nil
}
