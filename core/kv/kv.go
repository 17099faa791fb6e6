// Package kv is the namespaced key-value store the service persists into.
// Values are JSON documents addressed by opaque string keys; the only
// secondary access path is a prefix scan.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Entry is one key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Decode unmarshals the entry value into dest.
func (e Entry) Decode(dest any) error {
	if err := json.Unmarshal(e.Value, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", e.Key, err)
	}
	return nil
}

// Store is implemented by every backend.
type Store interface {
	// Get decodes the value at key into dest, or returns ErrNotFound.
	Get(ctx context.Context, key string, dest any) error
	// Set stores value (JSON-encoded) at key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
	// Create stores value at key only when the key is absent and reports
	// whether it wrote. An existing value is never touched.
	Create(ctx context.Context, key string, value any) (bool, error)
	// GetByPrefix returns every entry whose key starts with prefix, ordered by key.
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
	// Update atomically replaces the value at key with fn(current).
	// Returns ErrNotFound when the key does not exist.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
	// Incr atomically adds delta to the integer counter at key and returns the new value.
	// A missing counter starts at zero.
	Incr(ctx context.Context, key string, delta int64) (int64, error)
	// Counter returns the counter at key, zero when missing.
	Counter(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key joins namespace segments with ':'.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Prefix returns the scan prefix for a namespace, including the trailing ':'.
func Prefix(parts ...string) string {
	return strings.Join(parts, ":") + ":"
}
