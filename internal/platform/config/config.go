// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"

	"givepact/pkg/domain"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// DatabaseURL enables the Postgres stores; empty keeps everything in
	// memory (dev mode).
	DatabaseURL string

	// RedisURL enables the token support read-through cache.
	Redis Redis

	// KafkaBrokers enables the Kafka event publisher; empty falls back to the
	// in-process channel worker.
	KafkaBrokers []string
	KafkaTopic   string

	// Owner is the single controlling identity; Admins widens privileged
	// operations to an allowlist when set.
	Owner  domain.Address
	Admins []domain.Address

	// Treasury is the account emergency withdrawals draw from.
	Treasury domain.Address
}

// Redis captures connection settings for the cache client.
type Redis struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TokenSupportCacheTTL bounds staleness of cached token support flags.
var TokenSupportCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("GIVEPACT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "givepact.events"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   topic,
		Owner:        domain.Address(os.Getenv("GIVEPACT_OWNER")),
		Admins:       addressList(os.Getenv("GIVEPACT_ADMINS")),
		Treasury:     domain.Address(os.Getenv("GIVEPACT_TREASURY")),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func addressList(raw string) []domain.Address {
	var out []domain.Address
	for _, part := range splitList(raw) {
		out = append(out, domain.Address(part))
	}
	return out
}
