package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

// Store keeps precomputed analytics payloads for a limited time.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

type noopStore struct{}

// NewNoopStore returns a Store that never holds anything.
func NewNoopStore() Store {
	return noopStore{}
}

func (noopStore) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

func (noopStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (noopStore) DeletePrefix(context.Context, string) error {
	return nil
}

func (noopStore) Close() error {
	return nil
}
