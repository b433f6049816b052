package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	strutil "sigilo/pkg/platform/strings"
)

// Config captures process-level configuration. Everything comes from the
// environment so main stays lean and deployments stay twelve-factor.
type Config struct {
	Addr string

	// DatabaseURL enables the Postgres-backed stores when set; otherwise
	// the in-memory stores are used.
	DatabaseURL string

	// Redis backs the patient lookup cache when configured.
	Redis RedisConfig

	// KafkaBrokers enables mirroring audit entries to the compliance topic.
	KafkaBrokers []string
	AuditTopic   string

	// AuditFailClosed makes emergency-purpose requests fail when the audit
	// write fails, instead of returning results with an audit-pending flag.
	AuditFailClosed bool

	// JWTSigningKey verifies clinic-context tokens.
	JWTSigningKey string

	// LookupTimeout bounds a single disclosure request end to end.
	LookupTimeout time.Duration
}

// RedisConfig holds Redis connection settings for the lookup cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// CacheTTL bounds how long cached candidate sets are served. Keep this
	// short: stale consent state must not outlive a revocation for long.
	CacheTTL time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("SIGILO_ADDR", ":8080"),
		DatabaseURL: os.Getenv("SIGILO_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("SIGILO_REDIS_URL"),
			PoolSize:     envInt("SIGILO_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SIGILO_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("SIGILO_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SIGILO_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SIGILO_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("SIGILO_CACHE_TTL", 5*time.Minute),
		},
		AuditTopic:      envOr("SIGILO_AUDIT_TOPIC", "sigilo.audit.compliance"),
		AuditFailClosed: os.Getenv("SIGILO_AUDIT_FAIL_CLOSED") == "true",
		JWTSigningKey:   envOr("SIGILO_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		LookupTimeout:   envDuration("SIGILO_LOOKUP_TIMEOUT", 10*time.Second),
	}

	if brokers := os.Getenv("SIGILO_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strutil.DedupeAndTrim(strings.Split(brokers, ","))
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
