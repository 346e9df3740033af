// Package redis provides a Redis-backed BlobStore.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/parley-dev/parley/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.BlobStore using a single Redis key.
// Redis SET is atomic, so readers observe either the previous blob or the new
// one, satisfying the store contract.
type Store struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

type Option func(*Store)

// WithKey overrides the Redis key the blob is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithTTL sets an expiration for the blob. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    "parley:graph",
		ttl:    0,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Read retrieves the blob.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, ports.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get blob from redis: %w", err)
	}
	return data, nil
}

// Write replaces the blob.
func (s *Store) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set blob in redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
