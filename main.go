package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nicholasnlawson/dispensingpwa/config"
	"github.com/nicholasnlawson/dispensingpwa/data"
	"github.com/nicholasnlawson/dispensingpwa/handlers"
	"github.com/nicholasnlawson/dispensingpwa/health"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/refdata"
	"github.com/nicholasnlawson/dispensingpwa/scheduler"
	"github.com/nicholasnlawson/dispensingpwa/server"
	"github.com/nicholasnlawson/dispensingpwa/validation"
)

func init() {
	// Read the env variables from the working directory, falling back to
	// the executable directory for service deployments
	if err := godotenv.Load(); err != nil {
		ex, err := os.Executable()
		if err != nil {
			logging.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		if err := os.Chdir(filepath.Dir(ex)); err != nil {
			logging.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithRetention(cfg.LogDir, cfg.LogRetentionWeeks)

	// Wire the dependency graph
	dataContainer := data.NewDataContainer()
	loader := refdata.NewLoader(cfg.DataDir, cfg.RefdataBaseURL)
	validator := validation.NewDataValidator()
	healthChecker := health.NewHealthChecker(dataContainer)
	handler := handlers.NewHTTPHandler(dataContainer, validator, healthChecker)

	sched := scheduler.NewScheduler(dataContainer, loader, validator)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Attempt graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
