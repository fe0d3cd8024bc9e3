package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fieldbooking/internal/domain/models"
)

// RedisCache stores the field catalog, which changes rarely but is read on
// every browse.
type RedisCache struct {
	client    *redis.Client
	fieldsTTL time.Duration
}

func NewRedisCache(addr, password string, db int, fieldsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		fieldsTTL: fieldsTTL,
	}
}

// GetFields returns (nil, nil) on a cache miss.
func (c *RedisCache) GetFields(ctx context.Context) ([]models.Field, error) {
	data, err := c.client.Get(ctx, fieldsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var fields []models.Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *RedisCache) SetFields(ctx context.Context, fields []models.Field) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fieldsKey(), payload, c.fieldsTTL).Err()
}

func fieldsKey() string {
	return "cache:fields"
}
