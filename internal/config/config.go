package config

import (
	"os"
)

// TenancyMode selects how registration and teamspace resolution behave.
const (
	TenancySingle = "single"
	TenancyMulti  = "multi"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// RedisHost empty means the in-memory rate-limit store is used.
	RedisHost string
	RedisPort string

	GinMode     string
	TenancyMode string

	// TrustProxyHeaders controls whether forwarded-for headers are believed
	// when resolving the client IP for rate limiting.
	TrustProxyHeaders bool

	// RateLimitFailClosed makes rate checks reject requests when the backing
	// store is unreachable. The default is fail-open so a store outage does
	// not lock every user out.
	RateLimitFailClosed bool
}

func Load() *Config {
	return &Config{
		DBDriver:            getEnv("DB_DRIVER", "postgres"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "storyreel"),
		DBPassword:          getEnv("DB_PASSWORD", "storyreel"),
		DBName:              getEnv("DB_NAME", "storyreel"),
		RedisHost:           getEnv("REDIS_HOST", ""),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		TenancyMode:         getEnv("TENANCY_MODE", TenancyMulti),
		TrustProxyHeaders:   getEnv("TRUST_PROXY_HEADERS", "false") == "true",
		RateLimitFailClosed: getEnv("RATE_LIMIT_FAIL_CLOSED", "false") == "true",
	}
}

// IsProduction reports whether the server runs in release mode; session
// cookies are marked Secure only then.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
