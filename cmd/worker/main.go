// Package main implements the notification worker process. It consumes the
// shared Redis job queue and delivers email with the three-tier retry
// policy; the API server only enqueues.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/notify"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Worker error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	workerLogger := logger.Setup(cfg.Server.LogLevel)

	if cfg.Queue.BrokerURL == "" {
		return fmt.Errorf("no broker URL configured; the worker process requires an external queue")
	}

	broker, err := notify.NewRedisBroker(cfg.Queue.BrokerURL, cfg.Queue.ResultBackendURL)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer func() {
		if err := broker.Close(); err != nil {
			workerLogger.Error("Error closing broker", "error", err)
		}
	}()

	sender := notify.NewSMTPSender(cfg.Mail)

	workerCfg := notify.DefaultWorkerConfig()
	if cfg.Queue.WorkerCount > 0 {
		workerCfg.WorkerCount = cfg.Queue.WorkerCount
	}

	worker := notify.NewWorker(broker, sender, workerCfg, workerLogger)
	worker.Start()
	workerLogger.Info("Notification worker started",
		"worker_count", workerCfg.WorkerCount,
		"max_attempts", workerCfg.MaxAttempts)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownCh

	workerLogger.Info("Shutting down worker...")
	worker.Stop()
	workerLogger.Info("Worker shutdown completed")
	return nil
}
