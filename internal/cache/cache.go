// Package cache holds short-lived fetched articles keyed by URL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque values with a TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// CacheKey generates a cache key from an article URL
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "credence:article:v1:" + hex.EncodeToString(hash[:])
}
