package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// RoutingConfig tunes the ordering engine.
type RoutingConfig struct {
	DefaultStrategy     string `mapstructure:"default_strategy"`
	MaxExactPoints      int    `mapstructure:"max_exact_points"`
	ExactFallback       string `mapstructure:"exact_fallback"` // "nearest" or "reject"
	CancelCheckInterval int    `mapstructure:"cancel_check_interval"`
	CacheTTL            int    `mapstructure:"cache_ttl"` // seconds
	Workers             int    `mapstructure:"workers"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
}

// SeedConfig controls the built-in point provider used when no database is configured.
type SeedConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	LatencyMS int  `mapstructure:"latency_ms"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: POI_ROUTING_MAX_EXACT_POINTS → routing.max_exact_points
	v.SetEnvPrefix("POI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "poi")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "interestingpoint")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "route-planning")
	v.SetDefault("routing.default_strategy", "proximity")
	v.SetDefault("routing.max_exact_points", 9)
	v.SetDefault("routing.exact_fallback", "nearest")
	v.SetDefault("routing.cancel_check_interval", 4096)
	v.SetDefault("routing.cache_ttl", 60)
	v.SetDefault("routing.workers", 4)
	v.SetDefault("routing.timeout_seconds", 10)
	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.latency_ms", 0)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	} else if !c.Seed.Enabled {
		errs = append(errs, "one of database.enabled or seed.enabled must be set")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	switch strings.ToLower(c.Routing.DefaultStrategy) {
	case "proximity", "exact", "nearest":
	default:
		errs = append(errs, fmt.Sprintf("routing.default_strategy must be proximity, exact or nearest, got %q", c.Routing.DefaultStrategy))
	}
	// 12! orderings is already minutes of work.
	if c.Routing.MaxExactPoints < 1 || c.Routing.MaxExactPoints > 12 {
		errs = append(errs, fmt.Sprintf("routing.max_exact_points must be 1-12, got %d", c.Routing.MaxExactPoints))
	}
	if c.Routing.ExactFallback != "nearest" && c.Routing.ExactFallback != "reject" {
		errs = append(errs, fmt.Sprintf("routing.exact_fallback must be nearest or reject, got %q", c.Routing.ExactFallback))
	}
	if c.Routing.CancelCheckInterval <= 0 {
		errs = append(errs, "routing.cancel_check_interval must be positive")
	}
	if c.Routing.CacheTTL < 0 {
		errs = append(errs, "routing.cache_ttl must not be negative")
	}
	if c.Routing.Workers <= 0 {
		errs = append(errs, "routing.workers must be positive")
	}
	if c.Routing.TimeoutSeconds <= 0 {
		errs = append(errs, "routing.timeout_seconds must be positive")
	}
	if c.Seed.LatencyMS < 0 {
		errs = append(errs, "seed.latency_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
