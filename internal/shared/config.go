package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values loaded from TOML.
const (
	EnvProxyURL      = "MOVIEBOT_PROXY_URL"
	EnvDBPath        = "MOVIEBOT_DB_PATH"
	EnvStorageDriver = "MOVIEBOT_STORAGE_DRIVER"
	EnvLogLevel      = "MOVIEBOT_LOG_LEVEL"
	EnvRedisAddr     = "MOVIEBOT_REDIS_ADDR"
	EnvTMDBAPIKey    = "TMDB_API_KEY"
)

// Storage drivers understood by [StorageConfig].
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	API     APIConfig     `toml:"api"`
	Proxy   ProxyConfig   `toml:"proxy"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver        string `toml:"driver"`
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// AuthConfig controls the simulated latency of login and registration.
type AuthConfig struct {
	Latency       Duration `toml:"latency"`
	RedirectDelay Duration `toml:"redirect_delay"`
}

// APIConfig configures the metadata client that talks to the proxy.
type APIConfig struct {
	ProxyURL  string   `toml:"proxy_url"`
	Timeout   Duration `toml:"timeout"`
	RateLimit float64  `toml:"rate_limit"`
	Workers   int      `toml:"workers"`
}

// ProxyConfig contains the TMDB proxy server settings.
type ProxyConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	TMDBBaseURL  string   `toml:"tmdb_base_url"`
	TMDBAPIKey   string   `toml:"tmdb_api_key"`
	ImageBaseURL string   `toml:"image_base_url"`
	RateLimit    float64  `toml:"rate_limit"`
	Burst        int      `toml:"burst"`
	CacheTTL     Duration `toml:"cache_ttl"`
}

// LogConfig sets the log level and an optional log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a [time.Duration] that decodes from TOML strings such as "1500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q", ErrInvalidConfig, text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Addr returns the host:port the proxy listens on.
func (p ProxyConfig) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads path when it exists and falls back to defaults otherwise,
// then applies .env and process environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	config.ApplyEnv(os.Getenv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config values from the environment lookup function.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvProxyURL); v != "" {
		c.API.ProxyURL = v
	}
	if v := getenv(EnvDBPath); v != "" {
		c.Storage.Path = v
	}
	if v := getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvTMDBAPIKey); v != "" {
		c.Proxy.TMDBAPIKey = v
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Storage.Driver == DriverSQLite && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required for sqlite", ErrInvalidConfig)
	}

	if c.Auth.Latency.Duration < 0 {
		return fmt.Errorf("%w: auth.latency must not be negative", ErrInvalidConfig)
	}

	if c.Proxy.Port <= 0 || c.Proxy.Port > 65535 {
		return fmt.Errorf("%w: proxy.port %d out of range", ErrInvalidConfig, c.Proxy.Port)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
