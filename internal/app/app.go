package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/EOPeakDesigns/applink/internal/clock"
	"github.com/EOPeakDesigns/applink/internal/config"
	"github.com/EOPeakDesigns/applink/internal/httpserver"
	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/redis"
	"github.com/EOPeakDesigns/applink/internal/registry"
	"github.com/EOPeakDesigns/applink/internal/resolve"
	"github.com/EOPeakDesigns/applink/internal/scheduler"
	"github.com/EOPeakDesigns/applink/internal/session"
	redisstore "github.com/EOPeakDesigns/applink/internal/store/redis"
	"github.com/EOPeakDesigns/applink/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	registry    *registry.Index
	sessions    *session.Manager
	reloader    *scheduler.RegistryReloader
	gc          *scheduler.SessionCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
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
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Memory index seeded with the builtin platform specs
	idx := registry.NewIndex()

	// Redis store
	store := redisstore.NewStore(redisClient)

	// Warm the index with any overrides persisted in Redis
	syncer := scheduler.NewRedisSyncer(store, idx, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, continuing with builtins",
			logger.Error(err))
	}

	// File overrides (if a platform file is configured)
	var reloader *scheduler.RegistryReloader
	var reloadTrigger chan struct{}
	if cfg.PlatformFile != "" {
		loggerClient.Info("platform file configured, initializing registry reloader",
			logger.String("file", cfg.PlatformFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewRegistryReloader(
			cfg.PlatformFile,
			store,
			idx,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("no platform file configured, using builtin specs only")
	}

	// Resolution engine
	resolver := resolve.New(idx)
	engineCfg := session.Config{
		MobileWindow:  cfg.MobileWindow,
		DesktopWindow: cfg.DesktopWindow,
		BlurGrace:     cfg.BlurGrace,
		SafetyMargin:  cfg.SafetyMargin,
		SessionTTL:    cfg.SessionTTL,
		PresentChoice: cfg.PresentChoice,
	}.WithDefaults()
	sessions := session.NewManager(resolver, clock.System(), loggerClient, engineCfg)

	// Session sweeper
	gc := scheduler.NewSessionCollector(sessions, loggerClient, cfg.GCInterval)

	// Dependencies passed to routes (extend as needed).
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
		PlatformFile:   cfg.PlatformFile,
		RedisClient:    redisClient,
		Registry:       idx,
		Resolver:       resolver,
		Sessions:       sessions,
		Engine:         engineCfg,
		FallbackURL:    cfg.FallbackURL,
		AllowedDomains: cfg.AllowedDomains,
		PlanCacheTTL:   cfg.PlanCacheTTL,
		ReloadTrigger:  reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		registry:    idx,
		sessions:    sessions,
		reloader:    reloader,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting applink v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("applink %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start registry reloader (if a platform file is configured)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start registry reloader: %w", err)
		}
		a.logger.Info("registry reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start session sweeper
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}
	a.logger.Info("session sweeper started",
		logger.Duration("interval", a.cfg.GCInterval))

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

	// Stop reloader
	if a.reloader != nil {
		a.reloader.Stop()
	}

	// Stop session sweeper
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ applink stopped cleanly")
	return nil
}
