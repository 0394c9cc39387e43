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

	webAdapter "salon-billing/internal/adapters/web"
	"salon-billing/internal/app"
	"salon-billing/internal/config"
	"salon-billing/internal/core"
	"salon-billing/internal/db"
	"salon-billing/internal/logging"
	"salon-billing/internal/seed"
	"salon-billing/internal/store/memory"
	"salon-billing/internal/store/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store core.Store
	if cfg.DatabaseURL == "" && cfg.Development() {
		mem := memory.New()
		seed.LoadMemory(mem, seed.Demo())
		store = mem
		logger.Warn("DATABASE_URL not set, serving the in-memory demo catalog")
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	opts := core.Options{
		Location:        loc,
		Logger:          logger,
		StrictStock:     cfg.StrictStock,
		DefaultStarGoal: cfg.MonthlyStarGoal,
	}
	svc := app.NewAppService(app.NewServices(store, opts), loc, nil)

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		BodyLimit:      cfg.BodyLimit,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("timezone", loc.String()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
	logger.Info("server stopped")
}
