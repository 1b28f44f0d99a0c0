// Package mirror provides the local durable copy of storefront state that
// keeps the engine usable while the backend is unreachable.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Well-known keys
const (
	KeyProducts    = "products"
	KeyUser        = "user"
	KeyToken       = "token"
	KeyCredentials = "users_db"
	KeyCart        = "cart"
	KeyOutbox      = "outbox"
)

// ErrClosed is returned by operations on a closed mirror
var ErrClosed = errors.New("mirror: closed")

// Mirror is a small key/value store of JSON documents
type Mirror interface {
	// Get decodes the value at key into v. It reports false when the key is absent.
	Get(ctx context.Context, key string, v any) (bool, error)
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open picks an implementation from target: "memory" (or empty) for an
// in-process map, a redis:// or rediss:// URL for Redis, anything else is
// treated as a bbolt file path.
func Open(target string) (Mirror, error) {
	switch {
	case target == "" || target == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		m, err := OpenRedis(target, "")
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		m, err := OpenBolt(target)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

func encode(key string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mirror: encode %s: %w", key, err)
	}
	return data, nil
}

func decode(key string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("mirror: decode %s: %w", key, err)
	}
	return nil
}
