// Package db defines the key-value contract used by the embedding cache.
package db

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the key-value facade consumed by the embedding cache.
type Store interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
