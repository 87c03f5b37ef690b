// Package main - точка входа ZV Rewards Hub.
//
// Философия: признание важнее соревнования. Хаб превращает сухие KPI
// в живую систему признания: баллы, уровни, бейджи и челленджи делают
// вклад каждого сотрудника видимым для всей команды.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистые правила начисления без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: in-memory store, write-behind PostgreSQL, Redis-кеши
// - Interface: REST API
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	// Application layer
	"github.com/zv-rewards/zv-rewards-hub/internal/application/command"
	"github.com/zv-rewards/zv-rewards-hub/internal/application/eventhandler"
	"github.com/zv-rewards/zv-rewards-hub/internal/application/query"

	// Domain layer
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/leaderboard"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"

	// Infrastructure layer
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/messaging"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/memory"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/postgres"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/redis"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/scheduler"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/zv-rewards/zv-rewards-hub/internal/interface/http"

	// Packages
	"github.com/zv-rewards/zv-rewards-hub/config"
	"github.com/zv-rewards/zv-rewards-hub/pkg/circuitbreaker"
	"github.com/zv-rewards/zv-rewards-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	appLog, slogLog := setupLoggers(cfg)
	slogLog.Info("starting ZV Rewards Hub",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К POSTGRESQL (опционально, write-behind журнал)
	// ─────────────────────────────────────────────────────────────────────────
	var dbConn *postgres.Connection
	var snapshotRepo employee.SnapshotRepository

	if cfg.Database.URL != "" {
		slogLog.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			if cfg.IsProduction() {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			slogLog.Warn("database unavailable, running memory-only", "error", err)
		} else {
			defer func() {
				slogLog.Info("closing database connection...")
				dbConn.Close()
			}()

			if cfg.Database.AutoMigrate {
				slogLog.Info("running database migrations...")
				migrator := postgres.NewMigrator(dbConn)
				if err := migrator.Migrate(ctx); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
			}

			snapshotRepo = postgres.NewSnapshotRepository(dbConn)
			slogLog.Info("database connection established")
		}
	} else {
		slogLog.Info("DATABASE_URL not set, state will not survive restarts")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ПОДКЛЮЧЕНИЕ К REDIS (опционально, кеши)
	// ─────────────────────────────────────────────────────────────────────────
	var redisClient *redis.Client
	var lbCache leaderboard.Cache

	if !cfg.Redis.Disabled {
		slogLog.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout
		redisCfg.KeyPrefix = cfg.Redis.KeyPrefix

		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			slogLog.Warn("Redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			lbCache = redis.NewLeaderboardCache(redisClient)
			if snapshotRepo != nil {
				snapshotRepo = redis.NewCachedSnapshotRepository(snapshotRepo, redisClient, redis.DefaultSnapshotTTL)
			}
			slogLog.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ ХРАНИЛИЩА СОСТОЯНИЙ
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing employee store...")

	storeOpts := []memory.Option{memory.WithLogger(slogLog)}
	if snapshotRepo != nil {
		breaker := circuitbreaker.SnapshotBreaker(func(name string, from, to circuitbreaker.State) {
			slogLog.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		})
		storeOpts = append(storeOpts,
			memory.WithSnapshotRepository(snapshotRepo),
			memory.WithSaveTimeout(cfg.Database.SaveTimeout),
			memory.WithCircuitBreaker(breaker),
		)
	}

	store := memory.NewStore(memory.DefaultSeed(), storeOpts...)
	defer store.Close()

	if snapshotRepo != nil {
		if err := store.WarmUp(ctx); err != nil {
			slogLog.Warn("warm-up from snapshots failed, using seed state", "error", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing event bus...")

	busCfg := messaging.DefaultConfig()
	busCfg.AsyncMode = cfg.EventBus.AsyncMode
	busCfg.WorkerPoolSize = cfg.EventBus.WorkerPoolSize
	busCfg.EnableMetrics = cfg.EventBus.EnableMetrics
	busCfg.Logger = slogLog

	eventBus := messaging.NewInMemoryEventBus(busCfg)
	defer func() {
		slogLog.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("registering event handlers...")

	if lbCache != nil {
		pointsHandler := eventhandler.NewOnPointsChangedHandler(lbCache, slogLog)
		if err := eventBus.Subscribe(shared.EventPointsChanged, pointsHandler.Handle); err != nil {
			return fmt.Errorf("failed to subscribe points handler: %w", err)
		}
	}

	activityFeed := eventhandler.NewActivityFeedHandler(eventhandler.DefaultFeedCapacity, slogLog)
	if err := eventBus.SubscribeAll(activityFeed.Handle); err != nil {
		return fmt.Errorf("failed to subscribe activity feed: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing application layer...")

	catalog := employee.DefaultCatalog()

	deps := httpserver.Dependencies{
		AdvanceChallenge: command.NewAdvanceChallengeHandler(store, eventBus),
		SubmitEvaluation: command.NewSubmitEvaluationHandler(store, eventBus),
		SubmitFeedback:   command.NewSubmitFeedbackHandler(store, eventBus),
		RedeemReward:     command.NewRedeemRewardHandler(store, catalog, eventBus),
		CheckIn:          command.NewCheckInHandler(store, eventBus, cfg.App.Location),
		ImportSnapshot:   command.NewImportSnapshotHandler(store, eventBus),
		ResetEmployee:    command.NewResetEmployeeHandler(store, eventBus),

		GetEmployee:      query.NewGetEmployeeHandler(store),
		ListEmployees:    query.NewListEmployeesHandler(store),
		GetLeaderboard:   query.NewGetLeaderboardHandler(store, lbCache),
		GetKPITrend:      query.NewGetKPITrendHandler(store),
		ExportSnapshot:   query.NewExportSnapshotHandler(store),
		GetRewardCatalog: query.NewGetRewardCatalogHandler(store, catalog),

		ActivityFeed: activityFeed,
		BusMetrics:   eventBus.Metrics(),
		Logger:       appLog,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ЗАПУСК ПЛАНИРОВЩИКА ФОНОВЫХ ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		slogLog.Info("starting scheduler...")

		sched := scheduler.NewScheduler(scheduler.Config{Logger: slogLog})

		if lbCache != nil {
			rebuildJob := jobs.NewRebuildLeaderboardJob(store, lbCache, slogLog)
			if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildLeaderboardInterval)); err != nil {
				return fmt.Errorf("failed to register leaderboard job: %w", err)
			}
		}

		if snapshotRepo != nil {
			flushJob := jobs.NewFlushSnapshotsJob(store, snapshotRepo, slogLog)
			if err := sched.Register(flushJob, scheduler.NewIntervalSchedule(cfg.Scheduler.FlushSnapshotsInterval)); err != nil {
				return fmt.Errorf("failed to register flush job: %w", err)
			}
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			slogLog.Info("stopping scheduler...")
			sched.Stop()
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК HTTP СЕРВЕРА
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.MaxHeaderBytes = cfg.HTTP.MaxHeaderBytes
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpCfg.AdminTokenHash = cfg.HTTP.AdminTokenHash
	httpCfg.AdminTokenHeader = cfg.HTTP.AdminTokenHeader

	server := httpserver.NewServer(httpCfg, deps)
	serverErr := server.StartAsync()
	slogLog.Info("HTTP server started", "address", httpCfg.Address())

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ОЖИДАНИЕ СИГНАЛА ЗАВЕРШЕНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slogLog.Info("received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
		slogLog.Info("context cancelled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogLog.Error("HTTP server shutdown failed", "error", err)
	}

	slogLog.Info("shutdown complete")
	return nil
}

// setupLoggers создаёт структурный логгер приложения и slog-логгер
// для инфраструктурных компонентов.
func setupLoggers(cfg *config.Config) (*logger.Logger, *slog.Logger) {
	level := logger.ParseLevel(cfg.Observability.LogLevel)
	appLog := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     level,
		AddCaller: cfg.App.Debug,
	})

	var handler slog.Handler
	slogOpts := &slog.HandlerOptions{Level: slogLevel(cfg.Observability.LogLevel)}
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, slogOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, slogOpts)
	}
	slogLog := slog.New(handler)
	slog.SetDefault(slogLog)

	return appLog, slogLog
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

