package config

import (
	"github.com/maxviazov/cricket-scoring-service/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"` // validated by logger.New after defaults
	Storage    StorageConfig       `mapstructure:"storage"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Redis      RedisConfig         `mapstructure:"redis"`
	Commentary CommentaryConfig    `mapstructure:"commentary"`
	Scoring    ScoringConfig       `mapstructure:"scoring"`
	CORS       CORSConfig          `mapstructure:"cors"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// StorageConfig selects the repository implementation.
// memory keeps everything in process and is meant for local runs and demos.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=postgres memory"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"gte=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	Migrate           bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	// StreamPrefix is joined with the match format, e.g. matches.updates.T20.
	StreamPrefix string `mapstructure:"stream_prefix"`
}

type CommentaryConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	URL       string `mapstructure:"url" validate:"required_if=Enabled true"`
	APIKey    string `mapstructure:"api_key"`
	TimeoutMS int    `mapstructure:"timeout_ms" validate:"gte=0"`
	Attempts  int    `mapstructure:"attempts" validate:"gte=0"`
}

type ScoringConfig struct {
	// WicketPolicy is the default for new matches: always | strict.
	WicketPolicy string `mapstructure:"wicket_policy" validate:"oneof=always strict"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
