package recorder

import "QuantMarketLab/internal/model"

// Recorder persists a history of analysis runs for later inspection.
type Recorder interface {
	RecordRun(asset, periodLabel string, stats *model.SummaryStatistics) error
	Close() error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_, _ string, _ *model.SummaryStatistics) error { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
