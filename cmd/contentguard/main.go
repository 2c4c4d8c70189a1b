package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/ContentGuard/pkg/config"
	"github.com/NeuralTrust/ContentGuard/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/ContentGuard/pkg/infra/logger"
	"github.com/NeuralTrust/ContentGuard/pkg/server"
	"github.com/NeuralTrust/ContentGuard/pkg/server/router"
	"github.com/NeuralTrust/ContentGuard/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const serviceName = "contentguard"

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger(serviceName)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	info := version.GetInfo()
	logger.WithFields(logrus.Fields{
		"version": info.Version,
		"commit":  info.Commit,
	}).Info("starting " + serviceName)

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize container: %v", err)
	}
	container.MetricsWorker.StartWorkers(cfg.Metrics.Workers)

	apiServer := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(container.MiddlewareTransport, container.HandlerTransport),
		},
	})

	go func() {
		if err := apiServer.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	<-stopChan

	logger.Info("shutdown signal received")
	if err := apiServer.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to shut down server")
	}
	container.Close()
	logger.Info("server stopped")
}
