package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/config"
	"github.com/rao-samarth/timetable-generator/internal/api/handler"
	"github.com/rao-samarth/timetable-generator/internal/api/router"
	"github.com/rao-samarth/timetable-generator/internal/repository"
	"github.com/rao-samarth/timetable-generator/internal/service"
	"github.com/rao-samarth/timetable-generator/internal/term"
	"github.com/rao-samarth/timetable-generator/pkg/database"
	applogger "github.com/rao-samarth/timetable-generator/pkg/logger"
	"github.com/rao-samarth/timetable-generator/pkg/redis"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Connect to the database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 Run migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("obtain underlying sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Connect to Redis (optional: degrade instead of aborting startup)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis connection failed, catalog cache and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. Load the term calendar
	cal := term.Spring2026()

	// 6. Dependency injection: Repository -> Service -> Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, rdb, cal, logger)
	h := handler.NewHandler(svc)

	// 6.1 Warm the catalog. Missing source workbooks are not fatal: the
	// reload endpoint can repopulate once the files are in place.
	if _, err := svc.Catalog.Load(context.Background(), cfg.Catalog.RescrapeOnStartup); err != nil {
		if errors.Is(err, service.ErrNoCatalogData) {
			logger.Warn("no catalog data yet, waiting for reload")
		} else {
			logger.Fatal("catalog load failed", zap.Error(err))
		}
	}

	// 7. Initialize routes
	engine := router.Setup(cfg, h, rdb, logger)

	// 8. Start the HTTP server (graceful shutdown)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	// 9. Wait for a signal, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
