package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	BackendDisk     = "disk"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// tracing
	TracingEnabled bool `toml:"tracing_enabled"`
	// store
	StoreBackend   string `toml:"store_backend"`
	DataDir        string `toml:"data_dir"`
	SQLitePath     string `toml:"sqlite_path"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	CacheSizeMB    int    `toml:"cache_size_mb"`
	// http api
	AllowedOrigins []string `toml:"allowed_origins"`

	// secrets, from env only
	SentryDSN     string `toml:"-"`
	RedisPassword string `toml:"-"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML config file and returns the config for the given env,
// with defaults applied and secrets taken from the environment (or a .env file
// next to the working dir, if present).
func Load(env, path string) (*Config, error) {
	var tomlCfg Toml
	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env file: %s", err)
	}
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")
	cfg.RedisPassword = os.Getenv("GYMLOG_REDIS_PASS")

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9090
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = BackendDisk
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "./data/gymlog.db"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	c.StoreBackend = strings.ToLower(c.StoreBackend)
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendDisk, BackendSQLite, BackendMemory:
	case BackendPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres backend requires postgres_host and postgres_db_name")
		}
	case BackendRedis:
		if c.RedisHost == "" {
			return errors.New("redis backend requires redis_host")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
	if c.CacheSizeMB < 0 {
		return fmt.Errorf("invalid cache size: %d", c.CacheSizeMB)
	}
	return nil
}
