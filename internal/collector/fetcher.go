package collector

import (
	"context"

	"QuantMarketLab/internal/model"
)

// Fetcher retrieves the full daily history for one asset from a data source.
type Fetcher interface {
	FetchDaily(ctx context.Context, asset model.Asset) ([]model.RawBar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.RawBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, _ model.Asset) ([]model.RawBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}
