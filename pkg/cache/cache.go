// Package cache provides byte-level caching backends and key derivation for
// wordtower.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key on disk, for the CLI
//   - [RedisCache]: shared cache for the HTTP service and multiple players
//   - [NullCache]: never stores anything, used when caching is disabled
//
// All backends implement [Cache]. A TTL of zero means the entry never
// expires.
//
// # Keys
//
// Keys are built by a [Keyer] so every component agrees on the layout:
//
//	k := cache.NewDefaultKeyer()
//	k.WordsKey("https://games.example.com")      // words:<hash>
//	k.ReportKey(vocabHash, placements)            // report:<hash>
//
// [ScopedKeyer] prefixes every key, which keeps the word lists of different
// players (tokens) apart in a shared Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Default TTLs per entry kind. Word lists change every turn on the live
// service, so they expire quickly; builds and reports are pure functions
// of their key.
const (
	TTLWords  = 10 * time.Minute
	TTLBuild  = 7 * 24 * time.Hour
	TTLReport = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss,
	// including when the entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps it until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON reads key and unmarshals it into v.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		// A value we cannot decode is as good as missing.
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
