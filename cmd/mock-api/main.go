// cmd/mock-api/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"insured-registration/internal/common/config"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/mockapi"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	latency := flag.Duration("latency", 0, "delay added to every response")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	fixtures, err := mockapi.LoadFixtures(cfg.MockAPI.Fixtures)
	if err != nil {
		zapLog.Fatal("fixtures load failed", zap.Error(err))
	}

	api := mockapi.NewServer(fixtures, mockapi.Options{Latency: *latency, Logger: log})

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", api.Router())

	srv := &http.Server{
		Addr:              cfg.MockAPI.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("Mock API listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Mock API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping mock API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}
	zapLog.Info("Mock API stopped gracefully")
}
