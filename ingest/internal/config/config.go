package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/seawatch-systems/seawatch-stack/common/database"
)

// Storage backends.
const (
	DatabaseTypePostgres = "postgres"
	DatabaseTypeMemory   = "memory"
)

// DefaultAdminKey is used when no admin key is configured.
const DefaultAdminKey = "admin_secret_key_change_me"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Migrations MigrationsConfig `mapstructure:"migrations"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
}

type DatabaseConfig struct {
	Type     string         `mapstructure:"type"`
	URL      string         `mapstructure:"url"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Pool     PoolConfig     `mapstructure:"pool"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

type PoolConfig struct {
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

type AuthConfig struct {
	AdminKey string `mapstructure:"admin_key"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MigrationsConfig struct {
	Path    string `mapstructure:"path"`
	AutoRun bool   `mapstructure:"auto_run"`
}

// ConnString returns database.url when set, otherwise a URL assembled from
// the postgres section.
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     fmt.Sprintf("%s:%d", c.Postgres.Host, c.Postgres.Port),
		Path:     "/" + c.Postgres.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.Postgres.SSLMode),
	}
	return u.String()
}

// PoolConfig converts the pool section for common/database.
func (c DatabaseConfig) PoolConfig() database.PoolConfig {
	return database.PoolConfig{
		MaxConns:        c.Pool.MaxConns,
		MinConns:        c.Pool.MinConns,
		MaxConnLifetime: c.Pool.MaxConnLifetime,
		MaxConnIdleTime: c.Pool.MaxConnIdleTime,
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case DatabaseTypePostgres, DatabaseTypeMemory:
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Auth.AdminKey == "" {
		return fmt.Errorf("auth.admin_key must not be empty")
	}
	return nil
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_body_size", 1048576)
	v.SetDefault("database.type", DatabaseTypePostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "seawatch")
	v.SetDefault("database.postgres.user", "seawatch")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.pool.max_conns", 5)
	v.SetDefault("database.pool.min_conns", 1)
	v.SetDefault("database.pool.max_conn_lifetime", "5m")
	v.SetDefault("database.pool.max_conn_idle_time", "1m")
	v.SetDefault("auth.admin_key", DefaultAdminKey)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("migrations.path", "ingest/migrations")
	v.SetDefault("migrations.auto_run", true)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/seawatch/ingest")
	}

	// Environment variables override (INGEST_SERVER_PORT, etc.)
	v.SetEnvPrefix("INGEST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Deployment variables shared with the rest of the fleet tooling
	_ = v.BindEnv("database.url", "INGEST_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("auth.admin_key", "INGEST_AUTH_ADMIN_KEY", "ADMIN_API_KEY")
	_ = v.BindEnv("server.port", "INGEST_SERVER_PORT", "APP_PORT")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
