package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"timesheet/internal/config"
	"timesheet/internal/db"
	"timesheet/internal/logger"
	"timesheet/internal/repository"
	"timesheet/internal/seed"
)

func main() {
	users := flag.Int("users", seed.DefaultOptions().Users, "number of random users to create")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "faker seed, fixed values give repeatable data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Development: !cfg.IsProduction()})
	defer func() { _ = log.Sync() }()
	log.Info("Starting seed script...")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, logger.NewGormLogger(log, logger.GormLevel("warn"), time.Second))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Connected to database", zap.String("driver", cfg.DBDriver))

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	opts := seed.DefaultOptions()
	opts.Users = *users

	result, err := seed.New(repository.NewStore(gormDB), log, *randSeed).Run(context.Background(), opts)
	if err != nil {
		log.Fatal("Failed to seed", zap.Error(err))
	}

	log.Info("Seed completed successfully!",
		zap.Int("users", result.Users),
		zap.Int("projects", result.Projects),
		zap.Int("attributes", result.Attributes),
		zap.Int("timesheets", result.Timesheets),
		zap.String("login", seed.DemoEmail+" / "+seed.DemoPassword),
	)
}
