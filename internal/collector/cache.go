package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"WTISentinel/internal/model"
)

const barCachePrefix = "wtisentinel:bars:"

// CachedFetcher caches bar requests in Redis. When Redis is unreachable it
// passes straight through to the wrapped fetcher. Quotes are never cached.
type CachedFetcher struct {
	Inner  Fetcher
	client *redis.Client
	ttl    time.Duration

	mu          sync.Mutex
	failures    int
	maxFailures int
}

// NewCachedFetcher wraps inner with a Redis cache.
func NewCachedFetcher(inner Fetcher, client *redis.Client, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedFetcher{Inner: inner, client: client, ttl: ttl, maxFailures: 3}
}

// NewRedisClient opens a client and pings it. A failed ping is logged, the
// client is still returned so the cache can recover later.
func NewRedisClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis ping failed, bar cache degraded")
	} else {
		log.Info().Str("addr", addr).Msg("redis connected")
	}
	return client
}

func (c *CachedFetcher) Name() string { return c.Inner.Name() + "+redis" }

func (c *CachedFetcher) key(symbol string, interval model.Interval, count int) string {
	return fmt.Sprintf("%s%s:%s:%s:%d", barCachePrefix, c.Inner.Name(), symbol, interval, count)
}

func (c *CachedFetcher) healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures < c.maxFailures
}

func (c *CachedFetcher) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.failures = 0
		return
	}
	c.failures++
	if c.failures == c.maxFailures {
		log.Warn().Err(err).Msg("redis marked unhealthy, bypassing bar cache")
	}
}

func (c *CachedFetcher) FetchBars(ctx context.Context, symbol string, interval model.Interval, count int) ([]model.Candle, error) {
	key := c.key(symbol, interval, count)

	if c.healthy() {
		data, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			c.record(nil)
			var bars []model.Candle
			if jsonErr := json.Unmarshal(data, &bars); jsonErr == nil {
				return bars, nil
			}
		case errors.Is(err, redis.Nil):
			c.record(nil)
		default:
			c.record(err)
		}
	}

	bars, err := c.Inner.FetchBars(ctx, symbol, interval, count)
	if err != nil {
		return nil, err
	}

	if c.healthy() {
		if data, err := json.Marshal(bars); err == nil {
			c.record(c.client.Set(ctx, key, data, c.ttl).Err())
		}
	}
	return bars, nil
}

func (c *CachedFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return c.Inner.FetchCurrentPrice(ctx, symbol)
}
