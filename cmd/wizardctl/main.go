// cmd/wizardctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"insured-registration/internal/common/config"
	"insured-registration/internal/common/database"
	apperrors "insured-registration/internal/common/errors"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/common/observability"
	"insured-registration/internal/gateway"
)

// app holds what every subcommand needs. It is built once before any subcommand runs.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	gateway gateway.Gateway
	obs     *observability.Observability
	redis   *database.RedisClient
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		if stdErr, ok := apperrors.As(err); ok {
			fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", stdErr.Code, stdErr.Message)
			if stdErr.Details != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", stdErr.Details)
			}
			if apperrors.IsRetryableErrorCode(stdErr.Code) {
				fmt.Fprintln(os.Stderr, "The failure is transient, run the command again.")
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		noCache    bool
	)
	a := &app{}

	cmd := &cobra.Command{
		Use:           "wizardctl",
		Short:         "Insured registration wizard tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), configPath, logLevel, noCache)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML); defaults to configs/config.yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the Redis reference cache")

	cmd.AddCommand(lookupCommands(a)...)
	cmd.AddCommand(runCmd(a))

	return cmd
}

func (a *app) setup(ctx context.Context, configPath, logLevel string, noCache bool) error {
	var err error
	if configPath != "" {
		a.cfg, err = config.LoadFromFile(configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := a.cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	// Logs go to stderr so stdout stays machine readable.
	a.log = logger.NewZapAdapter(logger.New(level, a.cfg.Logging.Format, "stderr"))

	var gw gateway.Gateway = gateway.NewClientFromConfig(a.cfg, a.log)
	if a.cfg.Cache.Enabled && !noCache {
		a.redis = database.NewRedis(a.cfg.Database.Redis)
		if err := a.redis.Ping(ctx); err != nil {
			a.log.Warn("Reference cache unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
			_ = a.redis.Close()
			a.redis = nil
		} else {
			gw = gateway.NewCachedGateway(gw, a.redis.Client, time.Duration(a.cfg.Cache.TTL)*time.Second, a.log)
		}
	}
	a.gateway = gw

	if a.cfg.Metrics.Enabled {
		obs, err := observability.New(a.cfg.App.Name)
		if err != nil {
			a.log.Warn("OpenTelemetry metrics disabled", map[string]interface{}{"error": err.Error()})
		}
		a.obs = obs
		go a.serveMetrics()
	}
	return nil
}

func (a *app) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.log.Debug("Metrics server listening", map[string]interface{}{"address": a.cfg.Metrics.Address})
	if err := http.ListenAndServe(a.cfg.Metrics.Address, mux); err != nil {
		a.log.Debug("Metrics server stopped", map[string]interface{}{"error": err.Error()})
	}
}

func (a *app) close() {
	if a.obs != nil {
		a.obs.Shutdown()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
