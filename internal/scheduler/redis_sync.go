package scheduler

import (
	"context"

	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/registry"
	redisstore "github.com/EOPeakDesigns/applink/internal/store/redis"
)

// RedisSyncer warms the memory index from Redis on startup, so platform
// overrides survive a restart even when the override file is absent.
type RedisSyncer struct {
	store  *redisstore.Store
	index  *registry.Index
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *registry.Index,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads platform specs from Redis and updates the memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing platform specs from redis to memory")

	specs, err := rs.store.GetAllPlatforms(ctx)
	if err != nil {
		return err
	}

	if len(specs) == 0 {
		rs.logger.Info("no platform specs found in redis")
		return nil
	}

	rs.index.Apply(specs)

	rs.logger.Info("synced platform specs from redis",
		logger.Int("count", len(specs)))

	return nil
}
