package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"timesheet/docs"
	"timesheet/internal/auth"
	"timesheet/internal/config"
	"timesheet/internal/db"
	"timesheet/internal/handler"
	"timesheet/internal/kv"
	"timesheet/internal/logger"
	"timesheet/internal/repository"
	"timesheet/internal/router"
	"timesheet/internal/seed"
	"timesheet/internal/service"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	shutdownTimeout    = 10 * time.Second
)

// @title Timesheet API
// @version 1.0
// @description Projects with typed custom attributes, memberships and time entries, secured by JWT.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: !cfg.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN,
		logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel), slowQueryThreshold))
	if err != nil {
		log.Fatal("Database init failed", zap.Error(err))
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal("Database reset failed", zap.Error(err))
		}
	} else if err := db.Migrate(gormDB); err != nil {
		log.Fatal("Auto-migrate failed", zap.Error(err))
	}

	kvClient := kv.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = kvClient.Close() }()
	if err := kvClient.Ping(context.Background()); err != nil {
		log.Warn("Redis unreachable, token revocation will fail until it is back", zap.Error(err))
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(kvClient)

	// Initialize services
	authService := service.NewAuthService(store.Users(), jwtService, tokenStore)
	userService := service.NewUserService(store.Users())
	projectService := service.NewProjectService(store)
	attributeService := service.NewAttributeService(store)
	timesheetService := service.NewTimesheetService(store)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Project:   handler.NewProjectHandler(projectService),
		Attribute: handler.NewAttributeHandler(attributeService),
		Timesheet: handler.NewTimesheetHandler(timesheetService),
	}
	if !cfg.IsProduction() {
		handlers.Seed = handler.NewSeedHandler(seed.New(store, log, time.Now().UnixNano()))
	}

	e := echo.New()
	router.Register(e, cfg, log, authService, handlers)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = stripScheme(cfg.SwaggerHost)
	}
	log.Info("Swagger documentation available", zap.String("url", swaggerURL(cfg)))

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("Server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped")
}

func stripScheme(host string) string {
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimPrefix(host, "https://")
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
