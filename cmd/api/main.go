package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/alerts"
	"green-gauge/green-gauge-backend/internal/auth"
	"green-gauge/green-gauge-backend/internal/config"
	"green-gauge/green-gauge-backend/internal/ledger"
	"green-gauge/green-gauge-backend/internal/marketplace"
	"green-gauge/green-gauge-backend/internal/notifications/websocket"
	"green-gauge/green-gauge-backend/internal/reports"
	"green-gauge/green-gauge-backend/internal/scheduler"
	"green-gauge/green-gauge-backend/internal/seed"
	"green-gauge/green-gauge-backend/internal/snapshot"
	"green-gauge/green-gauge-backend/internal/telemetry"
	"green-gauge/green-gauge-backend/internal/trading"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	seedDemo := flag.Bool("seed", false, "load demo fixtures at startup")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger := buildLogger(cfg.Logging.Level)
	defer logger.Sync()

	// One mutex serializes every state-changing operation in the engine.
	engineMu := &sync.Mutex{}

	accountStore := accounts.NewStore()
	telemetryStore := telemetry.NewStore()
	ledgerStore := ledger.NewStore()
	book := trading.NewBook()
	creditStore := marketplace.NewStore()

	hub := websocket.NewHub(logger)
	alertEngine := alerts.NewEngine(engineMu, telemetryStore, accountStore, hub, logger)

	accountsSvc := accounts.NewService(engineMu, accountStore, telemetryStore, logger,
		cfg.Engine.DefaultAllowance, cfg.Engine.StartingTokens)
	telemetrySvc := telemetry.NewService(engineMu, telemetryStore, accountStore, alertEngine, logger)
	ledgerSvc := ledger.NewService(engineMu, ledgerStore)
	tradingSvc := trading.NewService(engineMu, book, accountStore, ledgerStore, telemetryStore, logger)
	marketplaceSvc := marketplace.NewService(engineMu, creditStore, accountStore, ledgerStore, logger)
	reportsSvc := reports.NewService(ledgerSvc, telemetrySvc, logger)
	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	ctx := context.Background()

	var backend snapshot.Backend
	if cfg.Snapshot.S3Bucket != "" {
		s3Backend, err := snapshot.NewS3Backend(ctx, cfg.Snapshot.S3Bucket, cfg.Snapshot.S3Key)
		if err != nil {
			logger.Fatal("failed to initialize S3 snapshot backend", zap.Error(err))
		}
		backend = s3Backend
	} else {
		backend = snapshot.NewFileBackend(cfg.Snapshot.Path)
	}

	snapshotter := snapshot.NewSnapshotter(engineMu,
		accountStore, book, creditStore, ledgerStore, telemetryStore, alertEngine,
		backend, logger)
	if err := snapshotter.Load(ctx); err != nil {
		logger.Fatal("failed to restore snapshot", zap.Error(err))
	}

	if *seedDemo {
		err := seed.Run(seed.Services{
			Accounts:    accountsSvc,
			Trading:     tradingSvc,
			Marketplace: marketplaceSvc,
			Telemetry:   telemetrySvc,
		}, logger)
		if err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	jobs := scheduler.New(alertEngine, snapshotter, logger)
	if err := jobs.Start(cfg.Jobs.AlertScanCron, cfg.Jobs.SnapshotCron); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	router := gin.Default()
	router.Use(authSvc.Middleware())

	auth.RegisterRoutes(router, auth.NewHandler(authSvc))

	api := router.Group("/api/v1")
	{
		accounts.RegisterRoutes(api, accounts.NewHandler(accountsSvc))
		telemetry.RegisterRoutes(api, telemetry.NewHandler(telemetrySvc))
		trading.RegisterRoutes(api, trading.NewHandler(tradingSvc))
		marketplace.RegisterRoutes(api, marketplace.NewHandler(marketplaceSvc))
		ledger.RegisterRoutes(api, ledger.NewHandler(ledgerSvc))
		alerts.RegisterRoutes(api, alerts.NewHandler(alertEngine))
		reports.RegisterRoutes(api, reports.NewHandler(reportsSvc))
	}

	router.GET("/ws", func(c *gin.Context) {
		if err := hub.HandleConnection(c.Writer, c.Request, auth.Principal(c)); err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
		}
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":                "healthy",
			"timestamp":             time.Now(),
			"websocket_connections": hub.ConnectionCount(),
		})
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	jobs.Stop()

	// Final snapshot so a clean shutdown loses nothing.
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 30*time.Second)
	if err := snapshotter.Save(saveCtx); err != nil {
		logger.Error("final snapshot failed", zap.Error(err))
	}
	cancelSave()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}

func buildLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}
	return logger
}
