package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	httptransport "github.com/civicdesk/grievance-service/internal/api/http"
	"github.com/civicdesk/grievance-service/internal/api/http/handlers"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/cache"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/events"
	"github.com/civicdesk/grievance-service/internal/observability"
	"github.com/civicdesk/grievance-service/internal/persistence"
	"github.com/civicdesk/grievance-service/internal/repository"
	"github.com/civicdesk/grievance-service/internal/service"
	"github.com/civicdesk/grievance-service/internal/store"
	"github.com/civicdesk/grievance-service/internal/triage"
	"github.com/civicdesk/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handlers.PingFunc{}

	var db *sqlx.DB
	var dialect string
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		db, dialect = pg.DB(), persistence.DialectPostgres
		checks["postgres"] = pg.Ping
	default:
		sqliteDB, err := persistence.OpenSQLite(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer sqliteDB.Close()
		db, dialect = sqliteDB, persistence.DialectSQLite
		checks["sqlite"] = sqliteDB.PingContext
	}

	if cfg.Database.RunMigrations {
		if err := persistence.RunMigrations(ctx, db, dialect, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var statsCache cache.StatsCache = cache.NewMemoryStatsCache()
	if cfg.Redis.StatsCache == config.StatsCacheRedis {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		statsCache = cache.NewRedisStatsCache(redis.Client, cfg.App.Name, cfg.Redis.StatsTTL())
		checks["redis"] = redis.Ping
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	classifier := triage.LoadClassifier(cfg.Triage.ModelPath, logger)
	sentiment := triage.LoadSentimentScorer(cfg.Triage.LexiconPath, logger)
	logger.Info("triage ready",
		zap.String("classifier", classifier.Name()),
		zap.Bool("sentiment_available", sentiment.Available()))

	grievanceStore := store.New(repository.NewGrievanceRepository(db), statsCache, logger)
	grievanceService := service.NewGrievanceService(service.GrievanceDependencies{
		Store:        grievanceStore,
		Assessor:     triage.NewAssessor(classifier, sentiment),
		Minter:       triage.NewTicketMinter(),
		Dispatcher:   dispatcher,
		Recorder:     metrics,
		Logger:       logger,
		MintAttempts: cfg.Triage.MintAttempts,
	})
	authService, err := service.NewAuthService(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("invalid admin credentials", zap.Error(err))
	}

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks),
		Grievances:     handlers.NewGrievancesHandler(grievanceService),
		Admin:          handlers.NewAdminHandler(authService, grievanceService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
