// Package open builds a storage.Driver from a driver name and its target.
package open

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/papercomputeco/disrello/pkg/storage"
	"github.com/papercomputeco/disrello/pkg/storage/file"
	"github.com/papercomputeco/disrello/pkg/storage/inmemory"
	"github.com/papercomputeco/disrello/pkg/storage/postgres"
	"github.com/papercomputeco/disrello/pkg/storage/redis"
	"github.com/papercomputeco/disrello/pkg/storage/sqlite"
)

const (
	File     = "file"
	Memory   = "memory"
	SQLite   = "sqlite"
	Postgres = "postgres"
	Redis    = "redis"
)

// ErrUnsupportedDriver is returned for driver names Open does not know.
var ErrUnsupportedDriver = errors.New("unsupported storage driver")

// Options selects and targets a driver. Only the field matching Driver is read.
type Options struct {
	Driver      string
	Path        string
	SQLitePath  string
	PostgresDSN string
	RedisAddr   string
	RedisKey    string
}

// SupportedDrivers returns every driver name Open accepts.
func SupportedDrivers() []string {
	return []string{File, Memory, SQLite, Postgres, Redis}
}

// IsSupported reports whether name is a known driver.
func IsSupported(name string) bool {
	return slices.Contains(SupportedDrivers(), name)
}

// Open creates the driver named in opts. Network drivers are checked for
// connectivity before being returned.
func Open(ctx context.Context, opts Options) (storage.Driver, error) {
	switch opts.Driver {
	case File, "":
		if opts.Path == "" {
			return nil, errors.New("file storage requires a path")
		}
		return file.NewDriver(opts.Path), nil

	case Memory:
		return inmemory.NewDriver(), nil

	case SQLite:
		if opts.SQLitePath == "" {
			return nil, errors.New("sqlite storage requires sqlite_path")
		}
		driver, err := sqlite.NewSQLiteDriver(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		return driver, nil

	case Postgres:
		if opts.PostgresDSN == "" {
			return nil, errors.New("postgres storage requires postgres_dsn")
		}
		driver, err := postgres.NewDriver(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		return driver, nil

	case Redis:
		if opts.RedisAddr == "" {
			return nil, errors.New("redis storage requires redis_addr")
		}
		driver, err := redis.NewDriver(ctx, opts.RedisAddr, opts.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis storer: %w", err)
		}
		return driver, nil

	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedDriver, opts.Driver, SupportedDrivers())
	}
}
