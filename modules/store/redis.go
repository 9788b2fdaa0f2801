package store

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Redis persists values in a redis server.
type Redis struct {
	client *redis.Client
}

func OpenRedis(addr string, db int) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("store: redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	return &Redis{client: client}, nil
}

// Ping checks the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return errors.Wrap(r.client.Ping(ctx).Err(), "store: redis ping")
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: redis get %s", key)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(r.client.Set(ctx, key, value, 0).Err(), "store: redis set %s", key)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(r.client.Del(ctx, key).Err(), "store: redis delete %s", key)
}

func (r *Redis) Close() error {
	return r.client.Close()
}
