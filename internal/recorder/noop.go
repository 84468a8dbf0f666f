package recorder

import (
	"context"

	"PremiumSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSeries(context.Context, string, []model.EnrichedPoint) error { return nil }
func (n *NoopRecorder) RecordRanking(context.Context, model.Ranking) error                { return nil }
func (n *NoopRecorder) LoadSeries(context.Context, string) ([]model.EnrichedPoint, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                                      { return nil }
