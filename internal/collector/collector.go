package collector

import (
	"context"
	"fmt"
	"log"
	"sort"

	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/store"
)

// Collector keeps the raw data files of the configured assets up to date.
type Collector struct {
	Fetcher Fetcher
	Store   *store.Store
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st *store.Store) *Collector {
	return &Collector{Fetcher: fetcher, Store: st}
}

// Update fetches the latest daily history for one asset and merges it into
// the existing raw file: rows are keyed by date, freshly fetched rows win
// over stale local ones, and the merged file is sorted ascending. The
// previous file is rotated into the backups before it is overwritten.
// Returns the number of dates added and the resulting total.
func (c *Collector) Update(ctx context.Context, asset model.Asset) (added, total int, err error) {
	if err := c.Store.RotateBackups(asset.Name); err != nil {
		log.Printf("[WARN] backup %s: %v", asset.Name, err)
	}

	existing, err := c.Store.ReadRaw(asset.Name)
	if err != nil {
		return 0, 0, fmt.Errorf("read raw %s: %w", asset.Name, err)
	}

	fetched, err := c.Fetcher.FetchDaily(ctx, asset)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch %s: %w", asset.Name, err)
	}

	merged := mergeByDate(existing, fetched)
	if err := c.Store.WriteRaw(asset.Name, merged); err != nil {
		return 0, 0, fmt.Errorf("write raw %s: %w", asset.Name, err)
	}

	added = len(merged) - len(existing)
	log.Printf("[INFO] %s: %d new rows from %s, %d total", asset.Name, added, c.Fetcher.Name(), len(merged))
	return added, len(merged), nil
}

// UpdateAll updates every asset sequentially. Per-asset failures are logged
// and do not abort the remaining assets; the first error is returned at the
// end.
func (c *Collector) UpdateAll(ctx context.Context, assets []model.Asset) error {
	var firstErr error
	for _, asset := range assets {
		if _, _, err := c.Update(ctx, asset); err != nil {
			log.Printf("[ERROR] update %s: %v", asset.Name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func mergeByDate(existing, fetched []model.RawBar) []model.RawBar {
	byDate := make(map[string]model.RawBar, len(existing)+len(fetched))
	for _, r := range existing {
		byDate[r.Date] = r
	}
	for _, r := range fetched {
		byDate[r.Date] = r
	}
	merged := make([]model.RawBar, 0, len(byDate))
	for _, r := range byDate {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })
	return merged
}
