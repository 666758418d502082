package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/parkingsystem/config"
	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client          *redis.Client
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, availabilityTTL: availabilityTTL}
}

// GetAvailability returns nil, nil on a cache miss.
func (c *RedisCache) GetAvailability(ctx context.Context) ([]domain.Availability, error) {
	data, err := c.client.Get(ctx, availabilityKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var availability []domain.Availability
	if err := json.Unmarshal(data, &availability); err != nil {
		return nil, err
	}
	return availability, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, availability []domain.Availability) error {
	payload, err := json.Marshal(availability)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(), payload, c.availabilityTTL).Err()
}

func (c *RedisCache) InvalidateAvailability(ctx context.Context) error {
	return c.client.Del(ctx, availabilityKey()).Err()
}

func (c *RedisCache) AcquireVehicleLock(ctx context.Context, regNumber string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, vehicleLockKey(regNumber), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseVehicleLock(ctx context.Context, regNumber string) error {
	return c.client.Del(ctx, vehicleLockKey(regNumber)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func availabilityKey() string {
	return "cache:spots:availability"
}

func vehicleLockKey(regNumber string) string {
	return fmt.Sprintf("lock:vehicle:%s", regNumber)
}
