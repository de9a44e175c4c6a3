package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airwise/api"
	"airwise/internal/acclient"
	"airwise/internal/config"
	"airwise/internal/db"
	"airwise/internal/handlers"
	"airwise/internal/logger"
	"airwise/internal/scheduler"
	"airwise/internal/service"
	"airwise/internal/validation"
	"airwise/server"
)

func main() {
	cfg := config.Load()

	database, err := db.Init(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	db.Seed(database, cfg.SystemID, cfg.IDSeparator)

	objectRepo := db.NewObjectRepository(database)
	userRepo := db.NewUserRepository(database)
	commandRepo := db.NewCommandRepository(database)

	validator := validation.New(cfg.SystemID)
	authz := service.NewAuthorizer(userRepo, validator, cfg.SystemID, cfg.IDSeparator)
	registry := acclient.New(cfg.DemoACURL)

	objectsService := service.NewObjectsService(objectRepo, validator, authz, cfg.SystemID, cfg.IDSeparator)
	usersService := service.NewUsersService(userRepo, validator, cfg.SystemID, cfg.IDSeparator)
	commandsService := service.NewCommandsService(objectRepo, commandRepo, userRepo, validator, authz, registry, cfg.SystemID, cfg.IDSeparator)

	taskScheduler := scheduler.New(objectRepo, commandsService)
	taskScheduler.Start()
	defer taskScheduler.Stop()

	securityMonitor := scheduler.NewSecurityMonitor(objectRepo, userRepo, registry, cfg.SystemID, cfg.IDSeparator)
	securityMonitor.Start()
	defer securityMonitor.Stop()

	srv := server.New()
	api.Register(
		srv.Router(),
		handlers.NewObjectHandler(objectsService),
		handlers.NewCommandHandler(commandsService),
		handlers.NewUserHandler(usersService),
		handlers.NewAdminHandler(objectsService, usersService, commandsService),
	)

	go func() {
		if err := srv.Start(cfg.Host, cfg.Port); err != nil {
			logger.Error("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("forced shutdown: %v", err)
	}
}
