package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // cron timezone on minimal images

	"donoryuk/internal/adapters/http/middleware"
	"donoryuk/internal/adapters/http/routes"
	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/adapters/storage"
	"donoryuk/internal/config"
	"donoryuk/internal/core/services"
	"donoryuk/internal/pkg/logger"
	"donoryuk/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "donoryuk/docs" // Swagger docs
)

// @title DonorYuk API
// @version 1.0
// @description Blood donor matching: compatibility lookup, donor registration and verification

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// bodyLimit leaves room for the multipart envelope around a 5MB donor card
const bodyLimit = 6 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "donoryuk")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if !cfg.EnvFileLoaded {
		zlog.Info("no .env file found, using process environment")
	}

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx := context.Background()

	// Connect to database
	db, err := config.ConnectDatabase(cfg, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			zlog.Warn("close database", zap.Error(err))
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		return err
	}
	zlog.Info("database migration completed")

	if err := config.NewSeeder(db, cfg.Admin, zlog).Run(ctx); err != nil {
		zlog.Warn("seeding failed", zap.Error(err))
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	cronService, err := services.NewCronService(
		cfg.Cron,
		repositories.NewRefreshTokenRepository(db),
		repositories.NewDonorRepository(db),
		zlog,
	)
	if err != nil {
		return err
	}
	cronService.Start()
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "DonorYuk API v" + routes.Version,
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    bodyLimit,
		UnescapePath: true,
		ReadTimeout:  30 * time.Second,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, routes.Deps{
		DB:       db,
		Config:   cfg,
		Storage:  store,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   zlog,
	})

	go gracefulShutdown(app, zlog)

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	return app.Listen(":" + cfg.Port)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zlog *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server stopped gracefully")
}
