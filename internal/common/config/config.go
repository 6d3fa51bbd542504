// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	APIs         APIsConfig         `mapstructure:"apis"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	MockAPI      MockAPIConfig      `mapstructure:"mock_api"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig describes one upstream reference-data API.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// APIsConfig holds the reference-data endpoints used by the gateway.
type APIsConfig struct {
	GeoRef    APIConfig `mapstructure:"georef"`
	Vehicles  APIConfig `mapstructure:"vehicles"`
	Insurance APIConfig `mapstructure:"insurance"`

	// MaxCities is sent as the GeoRef "max" parameter so a province returns all municipalities.
	MaxCities int `mapstructure:"max_cities"`
}

// RegistrationConfig controls the register call and the wizard rules.
type RegistrationConfig struct {
	Delay                 int      `mapstructure:"delay"` // milliseconds
	AllowedPasswordTiers  []string `mapstructure:"allowed_password_tiers"`
	YearRange             int      `mapstructure:"year_range"`
	PhoneRegion           string   `mapstructure:"phone_region"`
	ValidationConcurrency int      `mapstructure:"validation_concurrency"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl"` // seconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// MockAPIConfig configures cmd/mock-api.
type MockAPIConfig struct {
	Address  string `mapstructure:"address"`
	Fixtures string `mapstructure:"fixtures"`
}
