package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/auth"
	"github.com/osse101/CommunityEconomy_Go/internal/boost"
	"github.com/osse101/CommunityEconomy_Go/internal/bootstrap"
	"github.com/osse101/CommunityEconomy_Go/internal/concurrency"
	"github.com/osse101/CommunityEconomy_Go/internal/config"
	"github.com/osse101/CommunityEconomy_Go/internal/database"
	"github.com/osse101/CommunityEconomy_Go/internal/handler"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/ratelimit"
	"github.com/osse101/CommunityEconomy_Go/internal/scheduler"
	"github.com/osse101/CommunityEconomy_Go/internal/server"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
	"github.com/osse101/CommunityEconomy_Go/internal/sse"
	"github.com/osse101/CommunityEconomy_Go/internal/worker"
)

const (
	serviceName     = "community-economy"
	shutdownTimeout = 15 * time.Second
)

// @title Community Economy API
// @version 1.0
// @description Leveling, coins and property investments for a community chat.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg, serviceName)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	ctx := context.Background()

	if cfg.MigrateOnStartup {
		if err := database.Migrate(ctx, cfg.GetDBConnString()); err != nil {
			fatal("Failed to run migrations", err)
		}
	}

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:    cfg.DBMaxConns,
		MaxConnIdle: cfg.DBMaxConnIdle,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	repos := bootstrap.InitializeRepositories(dbPool)

	settingsStore := settings.NewStore(repos.Settings)
	if err := bootstrap.SyncSettings(ctx, settingsStore); err != nil {
		fatal("Failed to initialise settings", err)
	}

	catalog, err := bootstrap.LoadPropertyCatalog(cfg.PropertyCatalogPath)
	if err != nil {
		fatal("Failed to load property catalog", err)
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		fatal("Failed to initialise events", err)
	}

	boostService := boost.NewService(repos.Boost)
	resolver := boost.NewCachedResolver(boostService, cfg.BoostCacheSize, cfg.BoostCacheTTL)
	boostService.AddInvalidator(resolver)

	// both engines take the same per-user locks
	locks := concurrency.NewLockManager()
	progressionService := progression.NewService(repos.Account, settingsStore, resolver, locks, publisher)
	investmentService := investment.NewService(repos.Investment, repos.TickLocker, locks, publisher, catalog)

	hub := sse.NewHub()
	hub.Start()
	bootstrap.RegisterEventHandlers(bus, hub)

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.ScheduleNow(cfg.TickInterval, worker.NewPropertyTickJob(investmentService, nil))
	sched.Schedule(cfg.BoostPurgeInterval, worker.NewBoostPurgeJob(boostService))

	readiness := map[string]handler.Pinger{"database": dbPool}

	var limiter *ratelimit.Limiter
	redisClient, err := connectRedis(ctx, cfg)
	if err != nil {
		fatal("Failed to connect to redis", err)
	}
	if redisClient != nil {
		limiter = ratelimit.New(redisClient, cfg.RateLimitPerMin, time.Minute, nil)
		readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Deps{
		Readiness:   readiness,
		Progression: progressionService,
		Investment:  investmentService,
		Settings:    settingsStore,
		Boosts:      boostService,
		Tokens:      auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Hub:         hub,
		Limiter:     limiter,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		Hub:                hub,
		ResilientPublisher: publisher,
		Redis:              redisClient,
		DBPool:             dbPool,
	})
}
