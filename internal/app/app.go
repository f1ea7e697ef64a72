package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/config"
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/httpserver"
	"github.com/fangbw17/sidebar/internal/httpserver/deps"
	"github.com/fangbw17/sidebar/internal/logger"
	"github.com/fangbw17/sidebar/internal/metrics"
	"github.com/fangbw17/sidebar/internal/redis"
	"github.com/fangbw17/sidebar/internal/scheduler"
	"github.com/fangbw17/sidebar/internal/sidebar"
	"github.com/fangbw17/sidebar/internal/site"
	redisstore "github.com/fangbw17/sidebar/internal/store/redis"
	"github.com/fangbw17/sidebar/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	catalog     *catalog.Catalog
	reloader    *scheduler.Reloader
	gc          *scheduler.GarbageCollector
	watcher     *scheduler.Watcher
}

// New wires every component from cfg. Nothing runs until Run.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	cat := catalog.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Redis is optional: without it every start is a cold load.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		store = redisstore.NewStore(client, cfg.RedisSnapshotTTL)

		syncer := scheduler.NewRedisSyncer(store, cat, cfg.LocaleNames(), loggerClient)
		if err := syncer.Sync(ctx); err != nil {
			loggerClient.Warn("failed to sync from redis on startup, will load from locale files",
				logger.Error(err))
		}
	} else {
		loggerClient.Info("redis not configured, snapshot persistence disabled")
	}

	reloadTrigger := make(chan struct{}, 1)

	var buildOpts []sidebar.Option
	if cfg.PrefixLinks {
		buildOpts = append(buildOpts, sidebar.WithLinkPrefixing())
	}

	reloader := scheduler.NewReloader(scheduler.ReloaderOptions{
		Locales:       cfg.Locales,
		Meta:          siteMeta(cfg),
		BuildOptions:  buildOpts,
		Store:         store,
		Catalog:       cat,
		Metrics:       m,
		Logger:        loggerClient,
		Interval:      cfg.ReloadInterval,
		ManualTrigger: reloadTrigger,
	})

	gc := scheduler.NewGarbageCollector(store, cat, loggerClient, cfg.GCInterval, cfg.GCThreshold)

	var watcher *scheduler.Watcher
	if cfg.Watch {
		files := make([]string, 0, len(cfg.Locales))
		for _, l := range cfg.Locales {
			files = append(files, l.File)
		}
		w, err := scheduler.NewWatcher(files, reloadTrigger, cfg.WatchDebounce, loggerClient)
		if err != nil {
			closeRedis(redisClient, loggerClient)
			return nil, err
		}
		watcher = w
	}

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
		Locales:        cfg.LocaleNames(),
		Catalog:        cat,
		RedisClient:    redisClient,
		WatchEnabled:   watcher != nil,
		ReloadTrigger:  reloadTrigger,
		MetricsHandler: m.Handler(),
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		catalog:     cat,
		reloader:    reloader,
		gc:          gc,
		watcher:     watcher,
	}, nil
}

func siteMeta(cfg *config.Config) site.Meta {
	meta := site.Meta{
		Title:       cfg.SiteTitle,
		Description: cfg.SiteDescription,
		SrcDir:      cfg.SrcDir,
	}
	for _, l := range cfg.SocialLinks {
		meta.SocialLinks = append(meta.SocialLinks, domain.SocialLink{Icon: l.Icon, Link: l.Link})
	}
	return meta
}

// Run serves until SIGINT/SIGTERM, then shuts every component down.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting sidebar v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("sidebar %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	defer func() { _ = a.logger.Sync() }()
	defer closeRedis(a.redisClient, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reloader: %w", err)
	}
	defer a.reloader.Stop()
	a.logger.Info("reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.Strings("locales", a.cfg.LocaleNames()))

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	defer a.gc.Stop()

	if a.watcher != nil {
		a.watcher.Start()
		defer a.watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ sidebar stopped cleanly")
	return nil
}

func closeRedis(client *goredis.Client, log logger.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Warnf("failed to close redis: %v", err)
		return
	}
	log.Info("✅ Redis closed cleanly")
}
