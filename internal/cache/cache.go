// Package cache stores classification suggestions in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for byte-level caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "jdsort:v1:"

// CacheKey hashes its parts into a fixed-length key safe for file names
func CacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// NoopCache never stores anything; used when caching is disabled
type NoopCache struct{}

func (NoopCache) Get(string) ([]byte, bool) { return nil, false }

func (NoopCache) Set(string, []byte, time.Duration) error { return nil }

func (NoopCache) Delete(string) error { return nil }

func (NoopCache) Clear() error { return nil }
