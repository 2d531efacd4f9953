package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MovieCacheRepository caches upstream metadata responses in SQLite.
//
// Expired rows are treated as missing and removed by [MovieCacheRepository.Purge].
type MovieCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewMovieCacheRepository creates a new MovieCacheRepository with the given database connection
func NewMovieCacheRepository(db *sql.DB) *MovieCacheRepository {
	return &MovieCacheRepository{db: db, now: time.Now}
}

// Get returns the cached body for key when it has not expired.
func (r *MovieCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT body FROM movie_cache WHERE cache_key = ? AND expires_at > ?`

	var body []byte
	err := r.db.QueryRowContext(ctx, query, key, r.now().Unix()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}
	return body, true, nil
}

// Put stores body under key until ttl elapses, replacing any earlier entry.
func (r *MovieCacheRepository) Put(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	now := r.now()
	query := `
		INSERT INTO movie_cache (cache_key, body, fetched_at, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at, expires_at = excluded.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, body, now.Unix(), now.Add(ttl).Unix()); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (r *MovieCacheRepository) Purge(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movie_cache WHERE expires_at <= ?`, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}
