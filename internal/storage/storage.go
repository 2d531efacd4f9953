package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Backend is raw byte storage keyed by string.
type Backend interface {
	// Load returns the value for key and whether it exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save writes value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store serializes JSON values into a [Backend].
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *log.Logger
}

// New creates a Store over backend. A nil logger discards diagnostics.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, logger: logger.With("component", "storage")}
}

// Get decodes the value stored at key into a T, returning def when the key is missing or unreadable.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(ctx, s, key, def)
}

// get must be called with s.mu held.
func get[T any](ctx context.Context, s *Store, key string, def T) T {
	data, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read key, using default", "key", key, "error", err)
		return def
	}
	if !ok || len(data) == 0 {
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("malformed stored value, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Set encodes v as JSON and stores it at key.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, key, v)
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	s.logger.Debug("stored key", "key", key, "bytes", len(data))
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, key)
}

func (s *Store) remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	s.logger.Debug("removed key", "key", key)
	return nil
}

// RemoveAll deletes every key in order, stopping at the first failure.
func (s *Store) RemoveAll(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if err := s.remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether key holds a value.
func (s *Store) Has(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok, err := s.backend.Load(ctx, key)
	return err == nil && ok
}

// Update reads key (or def), applies fn and writes the result, all under the store lock.
//
// When fn returns an error nothing is written and the error is returned unchanged.
func Update[T any](ctx context.Context, s *Store, key string, def T, fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(get(ctx, s, key, def))
	if err != nil {
		return err
	}
	return s.set(ctx, key, next)
}
