// restore-seed is a one-shot tool to restore the demo salon catalog: branches,
// locations, staff, services, packages, products and opening stock. It is safe
// to run repeatedly. With -token it also prints an admin JWT for local testing.
//
// Usage: go run ./cmd/restore-seed [-token]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"salon-billing/internal/adapters/web"
	"salon-billing/internal/config"
	"salon-billing/internal/core"
	"salon-billing/internal/db"
	"salon-billing/internal/logging"
	"salon-billing/internal/seed"

	"go.uber.org/zap"
)

func main() {
	printToken := flag.Bool("token", false, "print an admin JWT signed with JWT_SECRET")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect", zap.Error(err))
	}
	defer pool.Close()

	catalog := seed.Demo()
	if err := seed.Restore(ctx, pool, catalog); err != nil {
		logger.Fatal("Failed to restore seed data", zap.Error(err))
	}
	logger.Info("seed data restored",
		zap.Int("branches", len(catalog.Branches)),
		zap.Int("services", len(catalog.Services)),
		zap.Int("products", len(catalog.Products)),
	)

	if *printToken {
		if cfg.JWTSecret == "" {
			logger.Fatal("JWT_SECRET is not set")
		}
		token, err := web.IssueToken(cfg.JWTSecret, core.Actor{UserID: cfg.OperatorUserID, Role: core.RoleAdmin}, 24*time.Hour)
		if err != nil {
			logger.Fatal("token", zap.Error(err))
		}
		fmt.Println(token)
	}
}
