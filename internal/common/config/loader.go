// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "insured-registration/internal/common/errors"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml on top and
// applies environment overrides (apis.georef.base_url -> APIS_GEOREF_BASE_URL).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every known key so AutomaticEnv overrides work even when the
// key is absent from the YAML files.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"app.name", "app.version", "app.environment",
		"apis.georef.base_url", "apis.georef.timeout",
		"apis.vehicles.base_url", "apis.vehicles.timeout",
		"apis.insurance.base_url", "apis.insurance.timeout",
		"apis.max_cities",
		"registration.delay", "registration.year_range", "registration.phone_region",
		"registration.validation_concurrency",
		"cache.enabled", "cache.ttl",
		"database.redis.address", "database.redis.password", "database.redis.db",
		"logging.level", "logging.format", "logging.output",
		"metrics.enabled", "metrics.address",
		"mock_api.address", "mock_api.fixtures",
	} {
		_ = v.BindEnv(key)
	}
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "insured-registration"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.APIs.GeoRef.BaseURL == "" {
		cfg.APIs.GeoRef.BaseURL = "https://apis.datos.gob.ar/georef/api"
	}
	for _, api := range []*APIConfig{&cfg.APIs.GeoRef, &cfg.APIs.Vehicles, &cfg.APIs.Insurance} {
		if api.Timeout == 0 {
			api.Timeout = 10000
		}
	}
	if cfg.APIs.MaxCities == 0 {
		cfg.APIs.MaxCities = 1000
	}

	if len(cfg.Registration.AllowedPasswordTiers) == 0 {
		cfg.Registration.AllowedPasswordTiers = []string{"Medium", "Strong"}
	}
	if cfg.Registration.YearRange == 0 {
		cfg.Registration.YearRange = 20
	}
	if cfg.Registration.PhoneRegion == "" {
		cfg.Registration.PhoneRegion = "AR"
	}
	if cfg.Registration.ValidationConcurrency == 0 {
		cfg.Registration.ValidationConcurrency = 4
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
	if cfg.MockAPI.Address == "" {
		cfg.MockAPI.Address = ":8081"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	apis := map[string]string{
		"apis.georef.base_url":    cfg.APIs.GeoRef.BaseURL,
		"apis.vehicles.base_url":  cfg.APIs.Vehicles.BaseURL,
		"apis.insurance.base_url": cfg.APIs.Insurance.BaseURL,
	}
	for key, raw := range apis {
		if raw == "" {
			return fmt.Errorf("%s is required", key)
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
		}
	}

	if cfg.Registration.Delay < 0 {
		return fmt.Errorf("registration.delay must not be negative")
	}
	if cfg.Registration.YearRange < 1 {
		return fmt.Errorf("registration.year_range must be positive")
	}

	if cfg.Cache.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when cache is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
