package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/karimwaheed/strategy-lab/pkg/logger"
)

const (
	// DefaultCacheKeyPrefix is the prefix for idea keys in Redis.
	DefaultCacheKeyPrefix = "ideas:"
	// DefaultCacheTTL bounds staleness if an invalidation is ever missed.
	DefaultCacheTTL = 15 * time.Minute
)

var ideaCacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "idea_cache_lookups_total",
		Help: "Total number of idea cache lookups by outcome",
	},
	[]string{"outcome"}, // "hit", "miss", "error"
)

// CachedStore is a Redis read-through cache in front of another Store.
// Only single-idea reads are cached; List always goes to the inner store.
// Cache failures degrade to the inner store, never to request failures.
type CachedStore struct {
	inner     Store
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewCachedStore wraps inner with a Redis cache.
func NewCachedStore(inner Store, client *redis.Client) *CachedStore {
	return &CachedStore{
		inner:     inner,
		client:    client,
		keyPrefix: DefaultCacheKeyPrefix,
		ttl:       DefaultCacheTTL,
	}
}

// Get retrieves an idea, serving from Redis when possible.
func (s *CachedStore) Get(ctx context.Context, id string) (*Idea, error) {
	key := s.keyPrefix + id

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var idea Idea
		if jsonErr := json.Unmarshal(data, &idea); jsonErr == nil {
			ideaCacheLookups.WithLabelValues("hit").Inc()
			return &idea, nil
		}
		// Corrupt entry: fall through to the inner store and rewrite it.
		ideaCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		ideaCacheLookups.WithLabelValues("miss").Inc()
	default:
		ideaCacheLookups.WithLabelValues("error").Inc()
		logger.Warn("Idea cache read failed",
			logger.ErrorField(err),
			logger.String("idea_id", id),
		)
	}

	idea, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, idea)
	return idea, nil
}

// List delegates to the inner store.
func (s *CachedStore) List(ctx context.Context) ([]*Idea, error) {
	return s.inner.List(ctx)
}

// Create writes through to the inner store and primes the cache.
func (s *CachedStore) Create(ctx context.Context, idea *Idea) error {
	if err := s.inner.Create(ctx, idea); err != nil {
		return err
	}
	s.fill(ctx, idea)
	return nil
}

// Update writes through to the inner store and refreshes the cache.
func (s *CachedStore) Update(ctx context.Context, idea *Idea) error {
	if err := s.inner.Update(ctx, idea); err != nil {
		return err
	}
	s.fill(ctx, idea)
	return nil
}

// Delete removes the idea and invalidates its cache entry.
func (s *CachedStore) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.keyPrefix+id).Err(); err != nil {
		logger.Warn("Idea cache invalidation failed",
			logger.ErrorField(err),
			logger.String("idea_id", id),
		)
	}
	return nil
}

// Close closes the inner store. The Redis client is owned by the caller.
func (s *CachedStore) Close() error {
	return s.inner.Close()
}

func (s *CachedStore) fill(ctx context.Context, idea *Idea) {
	data, err := json.Marshal(idea)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, s.keyPrefix+idea.ID, data, s.ttl).Err(); err != nil {
		logger.Warn("Idea cache fill failed",
			logger.ErrorField(err),
			logger.String("idea_id", idea.ID),
		)
	}
}

// NewRedisClient connects to Redis and verifies connectivity.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis", logger.String("addr", addr))
	return client, nil
}
