package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/moviebot/internal/repositories"
	"github.com/desertthunder/moviebot/internal/shared"
)

// flakyBackend fails every operation once failing is set.
type flakyBackend struct {
	*repositories.MemoryRepository
	failing bool
}

var errBackend = errors.New("backend offline")

func (f *flakyBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failing {
		return nil, false, errBackend
	}
	return f.MemoryRepository.Load(ctx, key)
}

func (f *flakyBackend) Save(ctx context.Context, key string, value []byte) error {
	if f.failing {
		return errBackend
	}
	return f.MemoryRepository.Save(ctx, key, value)
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get missing returns default", func(t *testing.T) {
		s := New(repositories.NewMemoryRepository(), nil)

		got := Get(ctx, s, "moviebot_watchlist", []string{"fallback"})
		if len(got) != 1 || got[0] != "fallback" {
			t.Errorf("expected default, got %v", got)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		s := New(repositories.NewMemoryRepository(), nil)

		if err := s.Set(ctx, "k", map[string]int{"a": 1}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got := Get(ctx, s, "k", map[string]int{})
		if got["a"] != 1 {
			t.Errorf("expected a=1, got %v", got)
		}
		if !s.Has(ctx, "k") {
			t.Error("Has() should report stored key")
		}
	})

	t.Run("malformed value degrades to default", func(t *testing.T) {
		mem := repositories.NewMemoryRepository()
		if err := mem.Save(ctx, "moviebot_ratings", []byte("{not json")); err != nil {
			t.Fatalf("seed error = %v", err)
		}

		var buf bytes.Buffer
		s := New(mem, shared.NewLogger(&buf))

		got := Get(ctx, s, "moviebot_ratings", map[string]int{})
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty default map, got %v", got)
		}
		if !strings.Contains(buf.String(), "malformed stored value") {
			t.Errorf("expected diagnostic, got %q", buf.String())
		}
	})

	t.Run("wrong shape degrades to default", func(t *testing.T) {
		mem := repositories.NewMemoryRepository()
		_ = mem.Save(ctx, "moviebot_remember", []byte(`"yes"`))
		s := New(mem, nil)

		if Get(ctx, s, "moviebot_remember", false) {
			t.Error("expected default false for non-boolean value")
		}
	})

	t.Run("backend read error degrades to default", func(t *testing.T) {
		fb := &flakyBackend{MemoryRepository: repositories.NewMemoryRepository(), failing: true}
		s := New(fb, nil)

		if got := Get(ctx, s, "k", 42); got != 42 {
			t.Errorf("expected default 42, got %d", got)
		}
		if s.Has(ctx, "k") {
			t.Error("Has() should be false on backend error")
		}
	})

	t.Run("Set surfaces backend error", func(t *testing.T) {
		fb := &flakyBackend{MemoryRepository: repositories.NewMemoryRepository(), failing: true}
		s := New(fb, nil)

		if err := s.Set(ctx, "k", 1); !errors.Is(err, errBackend) {
			t.Errorf("expected backend error, got %v", err)
		}
	})

	t.Run("Remove and RemoveAll", func(t *testing.T) {
		s := New(repositories.NewMemoryRepository(), nil)
		for _, k := range []string{"a", "b", "c"} {
			if err := s.Set(ctx, k, true); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}

		if err := s.Remove(ctx, "a"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := s.Remove(ctx, "a"); err != nil {
			t.Errorf("removing a missing key should not fail: %v", err)
		}
		if err := s.RemoveAll(ctx, "b", "c"); err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		for _, k := range []string{"a", "b", "c"} {
			if s.Has(ctx, k) {
				t.Errorf("key %s should be gone", k)
			}
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("read modify write", func(t *testing.T) {
		s := New(repositories.NewMemoryRepository(), nil)

		appendID := func(ids []string) ([]string, error) { return append(ids, "550"), nil }
		if err := Update(ctx, s, "list", []string{}, appendID); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if err := Update(ctx, s, "list", []string{}, appendID); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got := Get(ctx, s, "list", []string{})
		if len(got) != 2 {
			t.Errorf("expected 2 entries, got %v", got)
		}
	})

	t.Run("error aborts write", func(t *testing.T) {
		s := New(repositories.NewMemoryRepository(), nil)
		_ = s.Set(ctx, "n", 1)

		abort := errors.New("abort")
		err := Update(ctx, s, "n", 0, func(n int) (int, error) { return n + 1, abort })
		if !errors.Is(err, abort) {
			t.Fatalf("expected abort error, got %v", err)
		}
		if got := Get(ctx, s, "n", 0); got != 1 {
			t.Errorf("value should be unchanged, got %d", got)
		}
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		s := New(repositories.NewMemoryRepository(), nil)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = Update(ctx, s, "counter", 0, func(n int) (int, error) { return n + 1, nil })
			}()
		}
		wg.Wait()

		if got := Get(ctx, s, "counter", 0); got != 50 {
			t.Errorf("expected 50, got %d", got)
		}
	})
}
