// Package redis implements the markup store on Redis, letting several
// processes share one pre-warmed page tier.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/pergola/pkg/domain"
)

// Store implements ports.MarkupStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for stored pages.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored pages.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
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
		prefix: "pergola:page:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(url string) string {
	return s.prefix + url
}

// Get returns the stored markup, or domain.ErrNotCached.
func (s *Store) Get(ctx context.Context, url string) (string, error) {
	markup, err := s.client.Get(ctx, s.key(url)).Result()
	if errors.Is(err, backend.Nil) {
		return "", domain.ErrNotCached
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return markup, nil
}

// Set stores markup for url, with the configured TTL.
func (s *Store) Set(ctx context.Context, url, markup string) error {
	if err := s.client.Set(ctx, s.key(url), markup, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete evicts url.
func (s *Store) Delete(ctx context.Context, url string) error {
	if err := s.client.Del(ctx, s.key(url)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
