package service

import (
	"context"

	"github.com/okian/scout/internal/adapters/snapshot"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/ranking"
	"github.com/okian/scout/pkg/logger"
)

// NewRanker builds the ranker described by cfg.
func NewRanker(cfg *config.Config) *ranking.Ranker {
	return ranking.NewRanker(
		ranking.WithPriorityMode(ranking.PriorityMode(cfg.PriorityMode)),
		ranking.WithPriorityWeight(cfg.PriorityWeight),
		ranking.WithSimilarTolerance(cfg.SimilarTolerance),
	)
}

// FromConfig loads the configured snapshot and builds a Service over it.
// Snapshot failures are returned as *snapshot.DataLoadError.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	src := snapshot.Source{
		Format: cfg.SnapshotFormat,
		Path:   cfg.SnapshotPath,
		DSN:    cfg.PostgresDSN,
		Table:  cfg.PostgresTable,
	}
	loader, err := snapshot.New(src, model.FeatureSet(cfg.RadarFeatures))
	if err != nil {
		return nil, err
	}
	ds, err := snapshot.Load(ctx, loader, cfg.SnapshotFormat)
	if err != nil {
		return nil, err
	}

	svc, err := New(ds, append([]Option{WithRanker(NewRanker(cfg)), WithResultCache(cfg.ResultCacheSize)}, opts...)...)
	if err != nil {
		return nil, err
	}
	svc.logger.Info(ctx, "snapshot loaded",
		logger.String("format", cfg.SnapshotFormat),
		logger.Int("athletes", ds.Len()),
		logger.Int("features", len(ds.Features())),
		logger.Strings("roles", ds.Roles()),
	)
	return svc, nil
}
