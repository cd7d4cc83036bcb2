package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Graph    GraphConfig    `yaml:"graph"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds access-token verification settings. Token issuance lives
// in the external identity service; this core only verifies and resolves
// actors.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"graphcore"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// GraphConfig holds graph-substrate tunables.
type GraphConfig struct {
	// ExtraEntityTypesRaw extends the well-known entity type vocabulary.
	// Comma-separated, e.g. "webinar,membership".
	ExtraEntityTypesRaw string `yaml:"extra_entity_types" env:"GRAPH_EXTRA_ENTITY_TYPES"`

	MaxBatchSize     int `yaml:"max_batch_size"     env:"GRAPH_MAX_BATCH_SIZE"     env-default:"500"`
	MaxBulkKnowledge int `yaml:"max_bulk_knowledge" env:"GRAPH_MAX_BULK_KNOWLEDGE" env-default:"1000"`

	// ExtraEntityTypes is parsed from ExtraEntityTypesRaw during validation.
	ExtraEntityTypes []string `yaml:"-" env:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MetricsConfig holds Prometheus settings. The maintenance binaries are
// short-lived, so counters are pushed to a Pushgateway instead of being
// scraped; an empty PushURL disables the push.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"graphcore"`
	PushURL   string `yaml:"push_url"  env:"METRICS_PUSH_URL"`
}
