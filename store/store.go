// Package store provides the backends persisting money manager collections.
//
// A backend is a plain key value store of byte slices. Loading a key that was
// never saved returns an error wrapping fs.ErrNotExist.
package store

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Store is a key value store of raw collections.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	io.Closer
}

// Open returns the store designated by the URL.
//
//	mem:                        memory store
//	file:<dir> or <dir>         one JSON file per key in a directory
//	redis://host:port/db        Redis
//	postgres://... postgresql:// PostgreSQL
func Open(ctx context.Context, rawURL string) (Store, error) {
	switch {
	case rawURL == "mem:" || rawURL == "memory:":
		return NewMemory(), nil
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		return OpenRedis(ctx, rawURL)
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return OpenPostgres(ctx, rawURL)
	case strings.HasPrefix(rawURL, "file:"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid store url %q: %w", rawURL, err)
		}
		dir := u.Opaque
		if dir == "" {
			dir = u.Path
		}
		if dir == "" {
			return nil, fmt.Errorf("invalid store url %q: missing directory", rawURL)
		}
		return NewFile(dir), nil
	case strings.Contains(rawURL, "://"):
		return nil, fmt.Errorf("unsupported store url %q", rawURL)
	case rawURL == "":
		return nil, fmt.Errorf("empty store url")
	default:
		return NewFile(rawURL), nil
	}
}
