package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/registry"
	redisstore "github.com/EOPeakDesigns/applink/internal/store/redis"
)

// RegistryReloader handles periodic reloading of the platforms.yaml
// override file into the memory index.
type RegistryReloader struct {
	loader        *registry.Loader
	mapper        *registry.Mapper
	store         *redisstore.Store
	index         *registry.Index
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewRegistryReloader creates a new registry reloader
func NewRegistryReloader(
	platformFile string,
	store *redisstore.Store,
	idx *registry.Index,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *RegistryReloader {
	return &RegistryReloader{
		loader:        registry.NewLoader(platformFile),
		mapper:        registry.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (rr *RegistryReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := rr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(rr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload platform registry",
						logger.Error(err))
				}
			case <-rr.manualTrigger:
				rr.logger.Info("manual reload triggered")
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload platform registry",
						logger.Error(err))
				}
			case <-rr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (rr *RegistryReloader) Stop() {
	close(rr.stopCh)
}

// Reload loads the platform overrides and updates index + store.
// Builtins stay in place; the file can only override or extend them.
func (rr *RegistryReloader) Reload(ctx context.Context) error {
	rr.logger.Info("reloading platform registry from file")

	config, err := rr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load platforms: %w", err)
	}

	specs, err := rr.mapper.MapPlatforms(config)
	if err != nil {
		return fmt.Errorf("failed to map platforms: %w", err)
	}

	rr.logger.Info("loaded platform overrides",
		logger.Int("count", len(specs)))

	// Update memory index
	rr.index.Apply(specs)

	// Update Redis store (best effort)
	if rr.store != nil {
		if err := rr.store.SavePlatformsMany(ctx, specs); err != nil {
			rr.logger.Warn("failed to save platform specs to redis",
				logger.Error(err))
			// Don't fail - memory index is the primary source
		} else {
			rr.logger.Info("platform specs saved to redis")
		}

		// Cached plans may have been built from replaced specs.
		if err := rr.store.FlushPlans(ctx); err != nil {
			rr.logger.Warn("failed to flush cached plans after reload",
				logger.Error(err))
		}
	}

	return nil
}
