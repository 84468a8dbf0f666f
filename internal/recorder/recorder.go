package recorder

import (
	"context"

	"PremiumSentinel/internal/model"
)

// Recorder persists enriched series and ranking snapshots for later analysis.
type Recorder interface {
	// RecordSeries replaces everything stored for ticker with points.
	RecordSeries(ctx context.Context, ticker string, points []model.EnrichedPoint) error
	// RecordRanking appends one ranking snapshot.
	RecordRanking(ctx context.Context, ranking model.Ranking) error
	// LoadSeries returns the stored series for ticker, ascending by date.
	LoadSeries(ctx context.Context, ticker string) ([]model.EnrichedPoint, error)
	Close() error
}
