package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"airwise/internal/demoac"
	"airwise/internal/logger"
	"airwise/middleware"
)

func main() {
	_ = godotenv.Load()

	port := 3001
	if raw := os.Getenv("AIRWISE_DEMOAC_PORT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			port = n
		}
	}
	storePath := os.Getenv("AIRWISE_DEMOAC_STORE")
	if storePath == "" {
		storePath = "demoac.json"
	}

	store, err := demoac.NewStore(storePath)
	if err != nil {
		logger.Error("failed to open unit store: %v", err)
		os.Exit(1)
	}

	simulator := demoac.NewMotionSimulator(store)
	simulator.Start()
	defer simulator.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	demoac.NewHandler(store).Register(router)

	go func() {
		logger.Info("Demo AC registry starting on :%d", port)
		if err := router.Run(fmt.Sprintf(":%d", port)); err != nil {
			logger.Error("demo AC registry stopped: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down demo AC registry")
}
