package scheduler

import (
	"context"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/logger"
	redisstore "github.com/fangbw17/sidebar/internal/store/redis"
)

// RedisSyncer warms the catalog from Redis on startup
type RedisSyncer struct {
	store   *redisstore.Store
	catalog *catalog.Catalog
	locales map[string]bool
	logger  logger.Logger
}

// NewRedisSyncer creates a new Redis syncer. Only the given locales are restored.
func NewRedisSyncer(
	store *redisstore.Store,
	cat *catalog.Catalog,
	locales []string,
	log logger.Logger,
) *RedisSyncer {
	set := make(map[string]bool, len(locales))
	for _, l := range locales {
		set[l] = true
	}
	return &RedisSyncer{
		store:   store,
		catalog: cat,
		locales: set,
		logger:  log,
	}
}

// Sync loads snapshots from Redis into the catalog
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing snapshots from redis to memory")

	snaps, err := rs.store.GetAllSnapshots(ctx)
	if err != nil {
		return err
	}

	keep := make([]*domain.LocaleSnapshot, 0, len(snaps))
	for _, s := range snaps {
		if !rs.locales[s.Locale] {
			rs.logger.Debug("skipping snapshot of unconfigured locale",
				logger.String("locale", s.Locale))
			continue
		}
		keep = append(keep, s)
	}

	if len(keep) == 0 {
		rs.logger.Info("no snapshots found in redis")
		return nil
	}

	rs.catalog.PutMany(keep)

	rs.logger.Info("synced snapshots from redis",
		logger.Int("count", len(keep)))

	return nil
}
