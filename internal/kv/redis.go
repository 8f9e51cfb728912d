package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// RedisStore adapts a local Redis to Store. Values live without TTL: this is
// the client's durable storage, not a cache.
type RedisStore struct{ RDB *redis.Client }

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.RDB.Set(ctx, key, value, 0).Err()
}

// RedisBroadcaster relays change notifications over pub/sub.
type RedisBroadcaster struct {
	RDB     *redis.Client
	Channel string
}

func (b *RedisBroadcaster) Publish(ctx context.Context) error {
	return b.RDB.Publish(ctx, b.Channel, "").Err()
}

func (b *RedisBroadcaster) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	sub := b.RDB.Subscribe(ctx, b.Channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// coalesce: satu sinyal pending sudah cukup
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
