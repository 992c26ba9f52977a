// Package cache is a small key/value client with an in-process backend
// (go-cache) and a Redis backend. The webhook receiver uses it to remember
// delivery ids.
package cache

import (
	"context"
	"errors"
	"time"
)

// Drivers accepted by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Client is safe for concurrent use.
type Client interface {
	// SetIfAbsent stores value only if key is absent and reports whether it did.
	// A zero ttl never expires.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error

	// Stats reports the backend and how many keys it holds.
	Stats(ctx context.Context) (Stats, error)
}

type Stats struct {
	Driver string `json:"driver"`
	Keys   int64  `json:"keys"`
}

type Config struct {
	Driver   string
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New builds a client for cfg.Driver; an empty driver means memory.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case DriverRedis:
		return NewRedis(ctx, cfg)
	case DriverMemory, "":
		return NewMemory(cfg.Prefix), nil
	default:
		return nil, errors.New("cache: unknown driver " + cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
