package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"QuantMarketLab/internal/model"
)

const defaultAlphaVantageBase = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher against the Alpha Vantage daily
// endpoints. Requests are throttled client-side; the free tier rejects bursts
// well below its documented per-minute quota.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewAlphaVantageFetcher creates a fetcher throttled to callsPerMinute.
// An empty baseURL selects the production endpoint.
func NewAlphaVantageFetcher(baseURL, apiKey string, callsPerMinute int) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = defaultAlphaVantageBase
	}
	if callsPerMinute <= 0 {
		callsPerMinute = 5
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), 1),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// fxSeries is the FX_DAILY response shape. Price fields arrive as strings.
type fxSeries struct {
	Series map[string]struct {
		Open  string `json:"1. open"`
		High  string `json:"2. high"`
		Low   string `json:"3. low"`
		Close string `json:"4. close"`
	} `json:"Time Series FX (Daily)"`
	apiError
}

// commoditySeries is the commodity-function response shape. Commodity series
// publish a single daily value, no OHLC.
type commoditySeries struct {
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
	apiError
}

// apiError captures the three shapes Alpha Vantage uses for failures,
// throttling notes included, all delivered with HTTP 200.
type apiError struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
	ErrMessage  string `json:"Error Message"`
}

func (e apiError) message() string {
	switch {
	case e.ErrMessage != "":
		return e.ErrMessage
	case e.Note != "":
		return e.Note
	case e.Information != "":
		return e.Information
	}
	return ""
}

func (f *AlphaVantageFetcher) FetchDaily(ctx context.Context, asset model.Asset) ([]model.RawBar, error) {
	switch asset.Type {
	case model.AssetTypeFX:
		return f.fetchFX(ctx, asset)
	case model.AssetTypeCommodity:
		return f.fetchCommodity(ctx, asset)
	default:
		return nil, fmt.Errorf("unsupported asset type %q", asset.Type)
	}
}

func (f *AlphaVantageFetcher) fetchFX(ctx context.Context, asset model.Asset) ([]model.RawBar, error) {
	q := url.Values{}
	q.Set("function", "FX_DAILY")
	q.Set("from_symbol", asset.FromSymbol)
	q.Set("to_symbol", asset.ToSymbol)
	q.Set("outputsize", "full")
	q.Set("apikey", f.APIKey)

	var payload fxSeries
	if err := f.get(ctx, q, &payload); err != nil {
		return nil, err
	}
	if msg := payload.message(); msg != "" {
		return nil, fmt.Errorf("alphavantage: %s", msg)
	}
	if len(payload.Series) == 0 {
		return nil, fmt.Errorf("alphavantage: no FX data for %s", asset.Name)
	}

	bars := make([]model.RawBar, 0, len(payload.Series))
	for date, row := range payload.Series {
		bars = append(bars, model.RawBar{
			Date: date, Open: row.Open, High: row.High, Low: row.Low, Close: row.Close,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

func (f *AlphaVantageFetcher) fetchCommodity(ctx context.Context, asset model.Asset) ([]model.RawBar, error) {
	q := url.Values{}
	q.Set("function", asset.Function)
	q.Set("interval", "daily")
	q.Set("apikey", f.APIKey)

	var payload commoditySeries
	if err := f.get(ctx, q, &payload); err != nil {
		return nil, err
	}
	if msg := payload.message(); msg != "" {
		return nil, fmt.Errorf("alphavantage: %s", msg)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("alphavantage: no commodity data for %s", asset.Name)
	}

	points := payload.Data
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	// Commodity series carry a single daily value. Synthesize OHLC the way
	// the cleaned dataset expects it: open is the previous close, high/low
	// bracket the two. The first point has no previous close and is dropped.
	bars := make([]model.RawBar, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Value, points[i].Value
		if prev == "" || cur == "" || prev == "." || cur == "." {
			continue // the API publishes "." for missing values
		}
		high, low := prev, cur
		if lessNumeric(high, low) {
			high, low = low, high
		}
		bars = append(bars, model.RawBar{
			Date: points[i].Date, Open: prev, High: high, Low: low, Close: cur,
		})
	}
	return bars, nil
}

func lessNumeric(a, b string) bool {
	av, errA := strconv.ParseFloat(a, 64)
	bv, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return av < bv
}

func (f *AlphaVantageFetcher) get(ctx context.Context, q url.Values, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("alphavantage decode: %w", err)
	}
	return nil
}
