// Package redis stores the document snapshot under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage"
)

// DefaultKey is used when no key is configured.
const DefaultKey = "disrello:document"

// Driver implements storage.Driver on a Redis string value. SET replaces the
// value atomically, so readers see either the old or the new snapshot.
type Driver struct {
	client *redis.Client
	key    string
}

// NewDriver connects to conn, which may be a redis:// URL or a bare
// host:port address.
func NewDriver(ctx context.Context, conn, key string) (*Driver, error) {
	opts, err := redis.ParseURL(conn)
	if err != nil {
		opts = &redis.Options{Addr: strings.TrimSpace(conn)}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewDriverWithClient(client, key), nil
}

// NewDriverWithClient wraps an existing client.
func NewDriverWithClient(client *redis.Client, key string) *Driver {
	if key == "" {
		key = DefaultKey
	}
	return &Driver{client: client, key: key}
}

func (d *Driver) Load(ctx context.Context) (*model.Document, error) {
	data, err := d.client.Get(ctx, d.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewDocument(), nil
		}
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return storage.Decode(data)
}

func (d *Driver) Save(ctx context.Context, doc *model.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}
	if err := d.client.Set(ctx, d.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (d *Driver) Close() error {
	return d.client.Close()
}
