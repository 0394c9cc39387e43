package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"salon-billing/internal/adapters/cli"
	"salon-billing/internal/app"
	"salon-billing/internal/config"
	"salon-billing/internal/core"
	"salon-billing/internal/db"
	"salon-billing/internal/logging"
	"salon-billing/internal/store/postgres"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: app <command> [args]   (app help for the list)")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// Console output belongs to the command; the logger only reports problems.
	logger, err := logging.New("warn", true)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	loc, _ := cfg.Location()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}
	defer pool.Close()

	opts := core.Options{
		Location:        loc,
		Logger:          logger,
		StrictStock:     cfg.StrictStock,
		DefaultStarGoal: cfg.MonthlyStarGoal,
	}
	svc := app.NewAppService(app.NewServices(postgres.New(pool), opts), loc, nil)

	operator := core.Actor{UserID: cfg.OperatorUserID, Role: core.RoleAdmin}
	if err := cli.Run(ctx, svc, operator, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		pool.Close()
		os.Exit(1)
	}
}
