package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache stores raw upstream response bodies by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
}

// New builds the configured backend. "none" and "" return a cache that always misses.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewTTLCache(), nil
	case BackendRedis:
		return NewRedisCache(ctx, opts)
	case BackendNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error)              { return nil, ErrCacheMiss }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Close() error                                             { return nil }
