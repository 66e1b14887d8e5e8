// Package cache is a read-through, never-expiring cache for immutable
// reference data. A cache outage degrades to direct computation; it never
// fails a read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lostfits/lostfits/internal/observability/metrics"
	"go.uber.org/zap"
)

// Forever resolves values through the Store, computing and storing on miss.
type Forever struct {
	store   Store
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewForever(store Store, log *zap.Logger, m *metrics.Metrics) *Forever {
	return &Forever{
		store:   store,
		log:     log.Named("cache"),
		metrics: m,
	}
}

// Key derives a cache key from a namespace, the operation name, and its
// arguments: positional args in call order, map args expanded to k=v pairs
// sorted by key, nil values excluded.
func Key(namespace, op string, args ...any) string {
	parts := []string{namespace, op}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case map[string]any:
			keys := make([]string, 0, len(v))
			for k := range v {
				if v[k] != nil {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v[k]))
			}
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, ":")
}

// GetOrCompute returns the cached value for key, or runs compute and stores
// the result. dest receives the JSON-decoded value either way. Store
// failures are logged and bypassed; compute errors propagate uncached.
func (c *Forever) GetOrCompute(ctx context.Context, key string, dest any, compute func(ctx context.Context) (any, error)) error {
	cached, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(cached, dest); jsonErr == nil {
			c.metrics.IncCacheLookup("hit")
			return nil
		}
		// Undecodable entry: treat as a miss and overwrite below.
		c.log.Warn("dropping undecodable cache entry", zap.String("key", key))
	case err == ErrMiss:
		c.metrics.IncCacheLookup("miss")
	default:
		c.metrics.IncCacheLookup("error")
		c.log.Warn("cache read failed, computing directly", zap.String("key", key), zap.Error(err))
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value for %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, encoded); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return json.Unmarshal(encoded, dest)
}

// Invalidate removes keys matching a wildcard pattern and reports how many
// were deleted. For administrative correction only; normal flow never
// invalidates immutable data.
func (c *Forever) Invalidate(ctx context.Context, pattern string) (int, error) {
	deleted, err := c.store.DeletePattern(ctx, pattern)
	if err != nil {
		c.log.Error("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		return deleted, err
	}
	c.log.Info("cache invalidated", zap.String("pattern", pattern), zap.Int("deleted", deleted))
	return deleted, nil
}
