package tokenstore

import (
	"context"
	"errors"
	"fmt"

	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the token pair under two string keys:
//
//	<prefix>:access_token
//	<prefix>:refresh_token
//
// Every client using the same prefix shares the session.
type RedisStore struct {
	client     redis.UniversalClient
	accessKey  string
	refreshKey string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "vehicles"
	}
	return &RedisStore{
		client:     client,
		accessKey:  prefix + ":access_token",
		refreshKey: prefix + ":refresh_token",
	}
}

func (r *RedisStore) SetTokens(ctx context.Context, access, refresh string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.accessKey, access, 0)
		pipe.Set(ctx, r.refreshKey, refresh, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("[RedisStore SetTokens] %w: %w", ierrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, r.accessKey)
}

func (r *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, r.refreshKey)
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.accessKey, r.refreshKey).Err(); err != nil {
		return fmt.Errorf("[RedisStore Clear] %w: %w", ierrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *RedisStore) get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("[RedisStore get] %s: %w: %w", key, ierrors.ErrStorageUnavailable, err)
	}
	return val, nil
}
