package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/logger"
	redisstore "github.com/fangbw17/sidebar/internal/store/redis"
)

const (
	// DefaultGCThreshold is how long a disabled snapshot is served before deletion
	DefaultGCThreshold = 7 * 24 * time.Hour
)

// GarbageCollector removes snapshots whose locale file has been gone too long
type GarbageCollector struct {
	store     *redisstore.Store
	catalog   *catalog.Catalog
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
	stopOnce  sync.Once
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store *redisstore.Store,
	cat *catalog.Catalog,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		catalog:   cat,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	gc.Collect(ctx)

	ticker := time.NewTicker(gc.interval)
	gc.wg.Add(1)
	go func() {
		defer gc.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector and waits for it to exit
func (gc *GarbageCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
	gc.wg.Wait()
}

// Collect deletes snapshots disabled for longer than the threshold and
// returns how many were removed.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	now := gc.now()
	deleted := 0

	expired := func(s *domain.LocaleSnapshot) bool {
		return s.Disabled && !s.UpdatedAt.IsZero() && now.Sub(s.UpdatedAt) >= gc.threshold
	}

	for _, snap := range gc.catalog.All() {
		if !expired(snap) {
			continue
		}

		// The locale may have been republished since All.
		if !gc.catalog.DeleteIf(snap.Locale, expired) {
			continue
		}
		disabledFor := now.Sub(snap.UpdatedAt)

		// Redis is best effort
		if gc.store != nil {
			if err := gc.store.DeleteSnapshot(ctx, snap.Locale); err != nil {
				gc.logger.Warn("failed to delete snapshot from redis",
					logger.String("locale", snap.Locale),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled snapshot",
			logger.String("locale", snap.Locale),
			logger.String("disabled_for", disabledFor.String()))

		deleted++
	}

	if deleted == 0 {
		gc.logger.Debug("no snapshots to garbage collect")
	}
	return deleted
}
