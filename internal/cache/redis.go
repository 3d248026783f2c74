package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	invalidationChannel = "rentalops:invalidate"
	countersKey         = "rentalops:dashboard:counters"
	countersTTL         = 5 * time.Minute
)

// RedisCache backs the dashboard counters and the invalidation bus with one
// redis client.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Invalidate publishes an entity-change event and drops the cached counters,
// forcing the next dashboard read through to SQL.
func (c *RedisCache) Invalidate(ctx context.Context, kind EntityKind, id int32) error {
	payload := fmt.Sprintf("%s:%d", kind, id)
	if err := c.client.Publish(ctx, invalidationChannel, payload).Err(); err != nil {
		return err
	}
	return c.client.Del(ctx, countersKey).Err()
}

// GetCounters returns the cached dashboard counters, or (nil, nil) on a cache
// miss.
func (c *RedisCache) GetCounters(ctx context.Context) (*DashboardCounters, error) {
	data, err := c.client.Get(ctx, countersKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var counters DashboardCounters
	if err := json.Unmarshal([]byte(data), &counters); err != nil {
		return nil, err
	}
	return &counters, nil
}

func (c *RedisCache) SetCounters(ctx context.Context, counters *DashboardCounters) error {
	data, err := json.Marshal(counters)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, countersKey, data, countersTTL).Err()
}

// Subscribe returns a channel of invalidation payloads ("kind:id"). The
// channel closes when ctx is canceled or the connection drops.
func (c *RedisCache) Subscribe(ctx context.Context) <-chan string {
	sub := c.client.Subscribe(ctx, invalidationChannel)
	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
