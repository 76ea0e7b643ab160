// Package redis implements store.KVStore on top of go-redis.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/store"
	goredis "github.com/redis/go-redis/v9"
)

// KVStore stores raw payloads as plain Redis strings; expiry is delegated to SET ... EX.
type KVStore struct {
	client goredis.Cmdable
}

var _ store.KVStore = (*KVStore)(nil)

// NewClient builds a go-redis client from configuration. TLS is enabled when
// requested explicitly or when running in production.
func NewClient(cfg *config.Config) *goredis.Client {
	opts := &goredis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS || cfg.IsProduction() {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	return goredis.NewClient(opts)
}

// NewKVStore wraps any go-redis command surface (client, cluster or mock).
func NewKVStore(client goredis.Cmdable) *KVStore {
	return &KVStore{client: client}
}

// Get returns store.ErrNotFound when the key is absent or expired.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set writes value under key. A zero ttl keeps the key until overwritten.
func (s *KVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
