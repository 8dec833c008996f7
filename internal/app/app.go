package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/alexander-kolodka/crestic-docs/internal/config"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/index"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/redis"
	"github.com/alexander-kolodka/crestic-docs/internal/scheduler"
	redisstore "github.com/alexander-kolodka/crestic-docs/internal/store/redis"
	"github.com/alexander-kolodka/crestic-docs/internal/theme"
	"github.com/alexander-kolodka/crestic-docs/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	server        *httpserver.Server
	redisClient   *goredis.Client
	memIndex      *index.MemoryIndex
	reloader      *scheduler.OverridesReloader
	pruner        *scheduler.FeedbackPruner
	reloadTrigger chan struct{}
}

// New wires the service. Redis is optional, but once configured it must
// answer within the connect timeout.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		store = redisstore.NewStore(client)
	} else {
		loggerClient.Info("redis not configured, feedback counters kept in memory only")
	}

	memIndex := index.NewMemoryIndex(theme.Default())

	if store != nil {
		syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
		if err := syncer.Sync(ctx); err != nil {
			loggerClient.Warn("failed to sync feedback from redis on startup",
				logger.Error(err))
		}
	}

	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewOverridesReloader(
		cfg.OverridesFile,
		store,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	pruner := scheduler.NewFeedbackPruner(
		store,
		memIndex,
		loggerClient,
		cfg.PruneInterval,
		cfg.FeedbackTTL,
	)

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
		OverridesFile:  cfg.OverridesFile,
		Store:          store,
		MemoryIndex:    memIndex,
		ThemeCacheTTL:  cfg.ThemeCacheTTL,
		FeedbackBurst:  cfg.FeedbackBurst,
		FeedbackPerMin: cfg.FeedbackPerMin,
		ReloadTrigger:  reloadTrigger,
	}

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        httpserver.New(cfg, loggerClient, d),
		redisClient:   redisClient,
		memIndex:      memIndex,
		reloader:      reloader,
		pruner:        pruner,
		reloadTrigger: reloadTrigger,
	}, nil
}

// Run starts the workers and the HTTP server and blocks until ctx is done
// or the server fails. SIGHUP requests an overrides reload.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting crestic-docs %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	if err := a.reloader.Start(ctx); err != nil {
		a.closeRedis()
		return fmt.Errorf("failed to start overrides reloader: %w", err)
	}
	a.logger.Info("overrides reloader started",
		logger.String("file", a.cfg.OverridesFile),
		logger.Duration("interval", a.cfg.ReloadInterval))

	if err := a.pruner.Start(ctx); err != nil {
		a.reloader.Stop()
		a.closeRedis()
		return fmt.Errorf("failed to start feedback pruner: %w", err)
	}
	a.logger.Info("feedback pruner started",
		logger.Duration("interval", a.cfg.PruneInterval),
		logger.Duration("ttl", a.cfg.FeedbackTTL))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				a.logger.Info("SIGHUP received, reloading overrides")
				select {
				case a.reloadTrigger <- struct{}{}:
				default:
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		a.reloader.Stop()
		a.pruner.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.closeRedis()
	if err != nil {
		return err
	}

	a.logger.Info("✅ crestic-docs stopped cleanly")
	return nil
}

func (a *App) closeRedis() {
	if a.redisClient == nil {
		return
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Warnf("failed to close redis: %v", err)
		return
	}
	a.logger.Info("✅ Redis closed cleanly")
}
