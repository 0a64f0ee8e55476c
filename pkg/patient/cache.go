package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

const seriesKeyPrefix = "healthai:series:"

// SeriesCache holds the current series of each patient. Get reports a miss
// with ok == false and a nil error.
type SeriesCache interface {
	Get(ctx context.Context, name string) (models.Series, bool, error)
	Set(ctx context.Context, name string, series models.Series) error
	Delete(ctx context.Context, name string) error
}

type MemoryCache struct {
	mu     sync.RWMutex
	series map[string]models.Series
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{series: make(map[string]models.Series)}
}

func (c *MemoryCache) Get(_ context.Context, name string) (models.Series, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series, ok := c.series[name]
	if !ok {
		return nil, false, nil
	}
	return cloneSeries(series), true, nil
}

func (c *MemoryCache) Set(_ context.Context, name string, series models.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.series[name] = cloneSeries(series)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.series, name)
	return nil
}

// RedisCache stores each series as one JSON document. Missing channels
// round-trip through JSON null.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, name string) (models.Series, bool, error) {
	data, err := c.client.Get(ctx, seriesKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached series for %q: %w", name, err)
	}

	var series models.Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, false, fmt.Errorf("decoding cached series for %q: %w", name, err)
	}
	return series, true, nil
}

func (c *RedisCache) Set(ctx context.Context, name string, series models.Series) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("encoding series for %q: %w", name, err)
	}
	if err := c.client.Set(ctx, seriesKey(name), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching series for %q: %w", name, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, name string) error {
	return c.client.Del(ctx, seriesKey(name)).Err()
}

func seriesKey(name string) string {
	return seriesKeyPrefix + name
}

func cloneSeries(series models.Series) models.Series {
	if series == nil {
		return nil
	}
	out := make(models.Series, len(series))
	copy(out, series)
	return out
}
