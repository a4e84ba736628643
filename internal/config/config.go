// Package config loads the service configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/simaogato/stocksync-backend/internal/adapter/quote/yahoo"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full service configuration.
type Config struct {
	Store       StoreConfig     `yaml:"store"`
	Quotes      QuotesConfig    `yaml:"quotes"`
	Reconcile   ReconcileConfig `yaml:"reconcile"`
	Health      HealthConfig    `yaml:"health"`
	GRPC        GRPCConfig      `yaml:"grpc"`
	Log         LogConfig       `yaml:"log"`
	SeedSymbols []string        `yaml:"seed_symbols"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver"` // sqlite, postgres or memory
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type QuotesConfig struct {
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // <= 0 disables limiting
	Burst             int     `yaml:"burst"`
	MaxRetries        int     `yaml:"max_retries"`

	Timeout      time.Duration `yaml:"timeout"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	CacheTTL     time.Duration `yaml:"cache_ttl"` // 0s disables the cache
}

type ReconcileConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
}

type HealthConfig struct {
	ProbeSymbol string `yaml:"probe_symbol"` // empty disables the active quote probe

	StaleAfter time.Duration `yaml:"stale_after"`
	Interval   time.Duration `yaml:"interval"`
}

type GRPCConfig struct {
	Addr     string `yaml:"addr"`
	APIToken string `yaml:"api_token"`
}

type LogConfig struct {
	ServiceName string `yaml:"service_name"`
	Level       string `yaml:"level"`    // debug, info, error, severe
	Encoding    string `yaml:"encoding"` // plain or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: "stocksync.db",
		},
		Quotes: QuotesConfig{
			BaseURL:           yahoo.DefaultBaseURL,
			RequestsPerSecond: 1,
			Burst:             2,
			MaxRetries:        2,
			Timeout:           10 * time.Second,
			RetryBackoff:      500 * time.Millisecond,
			CacheTTL:          30 * time.Second,
		},
		Reconcile: ReconcileConfig{MaxConcurrency: 4},
		Health: HealthConfig{
			StaleAfter: 24 * time.Hour,
			Interval:   30 * time.Second,
		},
		GRPC: GRPCConfig{
			Addr:     ":8080",
			APIToken: "dev-token",
		},
		Log: LogConfig{
			ServiceName: "stocksync",
			Level:       "info",
			Encoding:    "plain",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	LoadDotenvOnce()

	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := cfg.decode(file); err != nil {
			return nil, err
		}
	}
	return cfg.finish(os.Getenv)
}

// LoadFromReader is Load for an already opened document, with overrides taken from getenv.
func LoadFromReader(r io.Reader, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return cfg.finish(getenv)
}

func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func (c *Config) finish(getenv func(string) string) (*Config, error) {
	c.applyEnv(getenv)
	c.normalise()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Store.Driver, "STORE_DRIVER")
	set(&c.Store.SQLitePath, "SQLITE_PATH")
	set(&c.Store.PostgresDSN, "DB_CONN_STR")
	set(&c.GRPC.APIToken, "API_TOKEN")
	set(&c.GRPC.Addr, "GRPC_ADDR")
	set(&c.Quotes.BaseURL, "QUOTES_BASE_URL")
	set(&c.Log.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(getenv("RECONCILE_MAX_CONCURRENCY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Reconcile.MaxConcurrency = n
		}
	}

	// If explicit string is missing, build it from individual vars (Docker friendly)
	if c.Store.Driver == DriverPostgres && c.Store.PostgresDSN == "" {
		c.Store.PostgresDSN = postgresDSN(getenv)
	}
}

func postgresDSN(getenv func(string) string) string {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		get("DB_HOST", "localhost"),
		get("DB_PORT", "5432"),
		get("DB_USER", "postgres"),
		get("DB_PASSWORD", "postgres"),
		get("DB_NAME", "stocksync"),
	)
}

func (c *Config) normalise() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of sqlite, postgres, memory", c.Store.Driver))
	}

	if c.Reconcile.MaxConcurrency <= 0 {
		errs = append(errs, errors.New("reconcile.max_concurrency must be positive"))
	}
	if c.Quotes.MaxRetries < 0 {
		errs = append(errs, errors.New("quotes.max_retries must not be negative"))
	}
	if c.Quotes.Timeout < 0 || c.Quotes.RetryBackoff < 0 || c.Quotes.CacheTTL < 0 || c.Health.StaleAfter < 0 || c.Health.Interval < 0 {
		errs = append(errs, errors.New("quotes and health durations must not be negative"))
	}
	if c.GRPC.Addr == "" {
		errs = append(errs, errors.New("grpc.addr is required"))
	}
	if c.GRPC.APIToken == "" {
		errs = append(errs, errors.New("grpc.api_token is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
