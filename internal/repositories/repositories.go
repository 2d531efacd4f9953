package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/redis/go-redis/v9"
)

// Backend mirrors storage.Backend so repositories can be selected without importing storage.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Opened is a backend plus whatever must be released when the process exits.
type Opened struct {
	Backend Backend
	DB      *sql.DB       // set for the sqlite driver
	Redis   *redis.Client // set for the redis driver
}

// Close releases the underlying connection.
func (o *Opened) Close() error {
	switch {
	case o.DB != nil:
		return o.DB.Close()
	case o.Redis != nil:
		return o.Redis.Close()
	default:
		return nil
	}
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg shared.StorageConfig) (*Opened, error) {
	switch cfg.Driver {
	case shared.DriverSQLite, "":
		db, err := shared.OpenStorageDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Opened{Backend: NewKVRepository(db), DB: db}, nil
	case shared.DriverRedis:
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Opened{Backend: NewRedisRepository(client, cfg.RedisPrefix), Redis: client}, nil
	case shared.DriverMemory:
		return &Opened{Backend: NewMemoryRepository()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}
