package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/middleware"
)

// opTimeout bounds each cache backend call; a slow cache must never
// slow the request path.
const opTimeout = 200 * time.Millisecond

const keyPrefix = "analysis:"

// Redis is the analysis snapshot cache. Every operation is best-effort:
// backend failures read as misses and drop writes, never errors.
type Redis struct {
	client *redis.Client
}

// New connects using a redis:// or rediss:// URL (the latter carries
// TLS config through ParseURL).
func New(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

// Get fetches a cached analysis snapshot by fingerprint.
func (r *Redis) Get(ctx context.Context, fingerprint string) (*domain.Analysis, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get error fingerprint=%s: %v", fingerprint, err)
			middleware.IncCacheOp("get", "error")
		} else {
			middleware.IncCacheOp("get", "miss")
		}
		return nil, false
	}
	var a domain.Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		log.Printf("cache decode error fingerprint=%s: %v", fingerprint, err)
		middleware.IncCacheOp("get", "error")
		return nil, false
	}
	middleware.IncCacheOp("get", "hit")
	return &a, true
}

// Put stores an analysis snapshot under its fingerprint.
func (r *Redis) Put(ctx context.Context, fingerprint string, a *domain.Analysis, ttl time.Duration) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := r.client.Set(ctx, keyPrefix+fingerprint, raw, ttl).Err(); err != nil {
		log.Printf("cache put error fingerprint=%s: %v", fingerprint, err)
		middleware.IncCacheOp("put", "error")
		return
	}
	middleware.IncCacheOp("put", "ok")
}

// Ping probes the backend for health checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *Redis) Close() error { return r.client.Close() }

// Noop is the cache used when no backend is configured; every lookup
// misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.Analysis, bool)         { return nil, false }
func (Noop) Put(context.Context, string, *domain.Analysis, time.Duration) {}
