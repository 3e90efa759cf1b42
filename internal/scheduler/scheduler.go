// Package scheduler runs the periodic data refresh while the dashboard is
// serving.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/pipeline"
)

// Scheduler owns the cron tasks of serve mode.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Assets   []model.Asset
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, assets []model.Asset) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Assets:   assets,
		Ctx:      ctx,
	}
}

// Register adds the refresh task under the given cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled data refresh")
	for _, asset := range s.Assets {
		if err := s.Pipeline.Refresh(s.Ctx, asset); err != nil {
			log.Printf("[ERROR] refresh %s: %v", asset.Name, err)
			continue
		}
	}
	log.Println("[INFO] scheduled data refresh finished")
}
