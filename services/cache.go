package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rpgroster/models"
)

// PlayerCache is a best-effort read-through cache in front of the store.
// A miss is (nil, nil).
type PlayerCache interface {
	Get(ctx context.Context, id int64) (*models.Player, error)
	Set(ctx context.Context, p *models.Player) error
	Invalidate(ctx context.Context, id int64) error
}

const DefaultCacheTTL = 10 * time.Minute

// RedisPlayerCache stores players as JSON under "player:<id>" with a TTL.
type RedisPlayerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlayerCache(client *redis.Client, ttl time.Duration) *RedisPlayerCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisPlayerCache{client: client, ttl: ttl}
}

func cacheKey(id int64) string {
	return "player:" + strconv.FormatInt(id, 10)
}

func (c *RedisPlayerCache) Get(ctx context.Context, id int64) (*models.Player, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var p models.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisPlayerCache) Set(ctx context.Context, p *models.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(p.ID), data, c.ttl).Err()
}

func (c *RedisPlayerCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, cacheKey(id)).Err()
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (*models.Player, error) { return nil, nil }
func (nopCache) Set(context.Context, *models.Player) error          { return nil }
func (nopCache) Invalidate(context.Context, int64) error            { return nil }
