package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/config"
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/logger"
	"github.com/fangbw17/sidebar/internal/metrics"
	"github.com/fangbw17/sidebar/internal/sidebar"
	"github.com/fangbw17/sidebar/internal/site"
	"github.com/fangbw17/sidebar/internal/sources/navlocale"
	redisstore "github.com/fangbw17/sidebar/internal/store/redis"
)

type localeSource struct {
	name   string
	loader *navlocale.Loader
}

// Reloader rebuilds the site configuration of every locale, periodically
// and on demand, and publishes the result to the catalog and Redis.
type Reloader struct {
	sources       []localeSource
	meta          site.Meta
	buildOpts     []sidebar.Option
	store         *redisstore.Store
	catalog       *catalog.Catalog
	metrics       metrics.Recorder
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	mu            sync.Mutex        // serializes Reload
	persisted     map[string]string // locale -> persistKey of the snapshot last saved to Redis
	wg            sync.WaitGroup
	stopOnce      sync.Once
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// ReloaderOptions configures a Reloader. Store and Metrics may be nil.
type ReloaderOptions struct {
	Locales       []config.Locale
	Meta          site.Meta
	BuildOptions  []sidebar.Option
	Store         *redisstore.Store
	Catalog       *catalog.Catalog
	Metrics       metrics.Recorder
	Logger        logger.Logger
	Interval      time.Duration
	ManualTrigger chan struct{}
}

// NewReloader creates a new reloader
func NewReloader(opts ReloaderOptions) *Reloader {
	sources := make([]localeSource, 0, len(opts.Locales))
	for _, l := range opts.Locales {
		sources = append(sources, localeSource{name: l.Name, loader: navlocale.NewLoader(l.File)})
	}

	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	return &Reloader{
		sources:       sources,
		meta:          opts.Meta,
		buildOpts:     opts.BuildOptions,
		store:         opts.Store,
		catalog:       opts.Catalog,
		metrics:       rec,
		logger:        opts.Logger,
		interval:      opts.Interval,
		now:           time.Now,
		persisted:     make(map[string]string),
		stopCh:        make(chan struct{}),
		manualTrigger: opts.ManualTrigger,
	}
}

// Start loads every locale once, then keeps reloading in the background.
// A failed initial load is fatal only for locales nothing is known about.
func (r *Reloader) Start(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		if missing := r.catalog.Missing(r.localeNames()); len(missing) > 0 {
			return fmt.Errorf("initial reload failed: %w", err)
		}
		r.logger.Warn("initial reload failed, serving previous snapshots",
			logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reloadAndLog(ctx)
			case <-r.manualTrigger:
				r.logger.Info("manual reload triggered")
				r.reloadAndLog(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the background loop and waits for it to exit
func (r *Reloader) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Reloader) reloadAndLog(ctx context.Context) {
	if err := r.Reload(ctx); err != nil {
		r.logger.Error("failed to reload locales", logger.Error(err))
	}
}

// Reload rebuilds every locale. One failing locale does not prevent the
// others from being published; all failures are returned together.
func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.now()
	r.logger.Info("reloading locales", logger.Int("count", len(r.sources)))

	var (
		errs    error
		current []*domain.LocaleSnapshot
	)
	for _, src := range r.sources {
		snap, err := r.reloadLocale(src)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		if snap != nil {
			current = append(current, snap)
		}
	}

	if r.store != nil {
		r.persist(ctx, current)
	}

	r.metrics.ReloadDuration(r.now().Sub(start))
	return errs
}

// persist saves the snapshots Redis does not hold yet and extends the TTL
// of the others. Redis is best effort; the catalog is the serving source.
func (r *Reloader) persist(ctx context.Context, snaps []*domain.LocaleSnapshot) {
	var (
		dirty []*domain.LocaleSnapshot
		fresh []string
	)
	byLocale := make(map[string]*domain.LocaleSnapshot, len(snaps))
	for _, s := range snaps {
		byLocale[s.Locale] = s
		if r.persisted[s.Locale] == persistKey(s) {
			fresh = append(fresh, s.Locale)
		} else {
			dirty = append(dirty, s)
		}
	}

	if len(fresh) > 0 {
		missing, err := r.store.RefreshSnapshots(ctx, fresh)
		if err != nil {
			r.logger.Warn("failed to refresh snapshots in redis", logger.Error(err))
			for _, locale := range fresh {
				delete(r.persisted, locale)
			}
		}
		for _, locale := range missing {
			dirty = append(dirty, byLocale[locale])
		}
	}

	if len(dirty) == 0 {
		return
	}

	if err := r.store.SaveSnapshotsMany(ctx, dirty); err != nil {
		r.logger.Warn("failed to save snapshots to redis", logger.Error(err))
		for _, s := range dirty {
			delete(r.persisted, s.Locale)
		}
		return
	}

	for _, s := range dirty {
		r.persisted[s.Locale] = persistKey(s)
	}
	r.logger.Info("snapshots saved to redis", logger.Int("count", len(dirty)))
}

func persistKey(s *domain.LocaleSnapshot) string {
	if s.Disabled {
		return s.Revision + ":disabled"
	}
	return s.Revision
}

// reloadLocale returns the snapshot now published for the locale. On error
// the previous snapshot, if any, is returned alongside it.
func (r *Reloader) reloadLocale(src localeSource) (*domain.LocaleSnapshot, error) {
	log := r.logger.With(logger.String("locale", src.name), logger.String("file", src.loader.Path()))
	prev, _ := r.catalog.Get(src.name)
	now := r.now()

	file, err := src.loader.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && prev != nil {
			if prev.Disabled {
				return prev, nil
			}
			log.Warn("locale file disappeared, keeping previous snapshot as disabled")
			prev.Disabled = true
			prev.UpdatedAt = now
			r.catalog.Put(prev)
			r.metrics.BuildFinished(src.name, metrics.ResultDisabled)
			return prev, nil
		}
		r.metrics.BuildFinished(src.name, metrics.ResultError)
		return prev, fmt.Errorf("locale %s: %w", src.name, err)
	}

	cfg := site.Assemble(r.meta, file, r.buildOpts...)
	rev, err := domain.Revision(cfg)
	if err != nil {
		r.metrics.BuildFinished(src.name, metrics.ResultError)
		return prev, fmt.Errorf("locale %s: failed to hash site config: %w", src.name, err)
	}

	groups, links := cfg.ThemeConfig.Sidebar.Stats()
	r.metrics.BuildFinished(src.name, metrics.ResultOK)
	r.metrics.SidebarSize(src.name, groups, links)

	if prev != nil && prev.Revision == rev && !prev.Disabled {
		prev.LoadedAt = now
		r.catalog.Put(prev)
		log.Debug("locale unchanged", logger.String("revision", rev))
		return prev, nil
	}

	snap := &domain.LocaleSnapshot{
		Locale:    src.name,
		Source:    src.loader.Path(),
		Site:      cfg,
		Revision:  rev,
		LoadedAt:  now,
		UpdatedAt: now,
	}
	r.catalog.Put(snap)

	log.Info("locale published",
		logger.String("revision", rev),
		logger.Int("groups", groups),
		logger.Int("links", links))

	return snap, nil
}

func (r *Reloader) localeNames() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.name)
	}
	return names
}
