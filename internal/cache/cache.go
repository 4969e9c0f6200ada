// Package cache is the read-through cache for product, category and tag
// lookups. A Store is built once per process and passed to whoever needs it;
// the database stays the source of truth and every cache failure degrades to
// a miss.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	KeyCategories = "categories"
	KeyTags       = "tags"
)

func ProductKey(id uuid.UUID) string { return "product:" + id.String() }

// Backend is the storage behind a Store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Purge(ctx context.Context) error
	Ping(ctx context.Context) error
	Name() string
}

type Store struct {
	backend Backend
	ttl     time.Duration
}

func New(backend Backend, ttl time.Duration) *Store {
	return &Store{backend: backend, ttl: ttl}
}

// Get decodes the cached value into dst. It reports false on a miss, on a
// backend error or when the cached bytes no longer decode. A nil Store always
// misses.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	if s == nil {
		return false
	}
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache: get failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		_ = s.backend.Delete(ctx, key)
		return false
	}
	return true
}

func (s *Store) Set(ctx context.Context, key string, v any) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache: encode failed")
		return
	}
	if err := s.backend.Set(ctx, key, raw, s.ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || len(keys) == 0 {
		return
	}
	if err := s.backend.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: invalidate failed")
	}
}

func (s *Store) InvalidateAll(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.backend.Purge(ctx); err != nil {
		log.Warn().Err(err).Msg("cache: purge failed")
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.backend.Ping(ctx)
}

func (s *Store) Backend() string {
	if s == nil {
		return "none"
	}
	return s.backend.Name()
}

// Fetch returns the cached value for key, or calls load and caches its
// result. Load errors are returned as-is and nothing is cached.
func Fetch[T any](ctx context.Context, s *Store, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if s.Get(ctx, key, &v) {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	s.Set(ctx, key, v)
	return v, nil
}
