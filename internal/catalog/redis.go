package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/gentleman753/campuseats/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// RedisCache implements MenuCache. All redis calls go through a
// circuit breaker: when redis is down the breaker opens and reads
// degrade to direct repository queries instead of waiting on timeouts.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
	brk     *gobreaker.CircuitBreaker[[]byte]
}

func NewRedisCache(client *redis.Client) *RedisCache {
	// A cache miss is a normal outcome, not a breaker failure
	isSuccessful := func(err error) bool {
		return err == nil || errors.Is(err, ErrCacheMiss)
	}
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
		brk:     circuitbreaker.New[[]byte]("catalog-cache", isSuccessful),
	}
}

func (r *RedisCache) GetCanteens(ctx context.Context) ([]domain.Canteen, error) {
	data, err := r.get(ctx, canteensKey())
	if err != nil {
		return nil, err
	}

	var canteens []domain.Canteen
	if err := json.Unmarshal(data, &canteens); err != nil {
		return nil, fmt.Errorf("unmarshal canteens failed: %w", err)
	}
	return canteens, nil
}

func (r *RedisCache) SetCanteens(ctx context.Context, canteens []domain.Canteen) error {
	return r.set(ctx, canteensKey(), canteens)
}

func (r *RedisCache) GetMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
	data, err := r.get(ctx, menuKey(canteenID))
	if err != nil {
		return nil, err
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err)
	}
	return items, nil
}

func (r *RedisCache) SetMenu(ctx context.Context, canteenID string, items []domain.MenuItem) error {
	return r.set(ctx, menuKey(canteenID), items)
}

func (r *RedisCache) get(ctx context.Context, key string) ([]byte, error) {
	return r.brk.Execute(func() ([]byte, error) {
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		if err != nil {
			return nil, fmt.Errorf("redis get failed: %w", err)
		}
		return data, nil
	})
}

func (r *RedisCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	_, err = r.brk.Execute(func() ([]byte, error) {
		if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis set failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func canteensKey() string {
	return "catalog:canteens"
}

func menuKey(canteenID string) string {
	return fmt.Sprintf("catalog:menu:%s", canteenID)
}
