package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	InstanceDomain   string
	StrictFederation bool

	KeyFetchTimeoutSecs int
	KeyRefreshGuardSecs int

	InboxRateLimitRequests      int
	InboxRateLimitWindowSeconds int
	RateLimitFailClosed         bool
	RateLimitMaxKeys            int

	PeerTimestampSkewSecs int
	FederationPeersJSON   string

	AdminAPIKey        string
	RevocationFailOpen bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                    addr,
		PostgresDSN:                 os.Getenv("POSTGRES_DSN"),
		LogLevel:                    envDefault("LOG_LEVEL", "info"),
		InstanceDomain:              os.Getenv("INSTANCE_DOMAIN"),
		StrictFederation:            envBoolDefault("STRICT_FEDERATION", false),
		KeyFetchTimeoutSecs:         envIntDefault("KEY_FETCH_TIMEOUT_SECONDS", 10),
		KeyRefreshGuardSecs:         envIntDefault("KEY_REFRESH_GUARD_SECONDS", 30),
		InboxRateLimitRequests:      envIntDefault("INBOX_RATE_LIMIT_REQUESTS", 120),
		InboxRateLimitWindowSeconds: envIntDefault("INBOX_RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFailClosed:         envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:            envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		PeerTimestampSkewSecs:       envIntDefault("PEER_TIMESTAMP_SKEW_SECONDS", 300),
		FederationPeersJSON:         os.Getenv("FEDERATION_PEERS"),
		AdminAPIKey:                 os.Getenv("ADMIN_API_KEY"),
		RevocationFailOpen:          envBoolDefault("REVOCATION_FAIL_OPEN", false),
		RedisAddr:                   os.Getenv("REDIS_ADDR"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                     envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) KeyFetchTimeout() time.Duration {
	return time.Duration(c.KeyFetchTimeoutSecs) * time.Second
}

func (c Config) KeyRefreshGuard() time.Duration {
	return time.Duration(c.KeyRefreshGuardSecs) * time.Second
}

func (c Config) InboxRateLimitWindow() time.Duration {
	return time.Duration(c.InboxRateLimitWindowSeconds) * time.Second
}

func (c Config) PeerTimestampSkew() time.Duration {
	return time.Duration(c.PeerTimestampSkewSecs) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}
