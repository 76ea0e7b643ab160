package store

import (
	"context"
	"time"
)

// This file defines the key-value contract shared by the cache and the battery route.
// The error constants are defined in errors.go

// KVStore is a flat string-keyed byte store with per-key expiry.
// A ttl of zero means the value never expires.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}
