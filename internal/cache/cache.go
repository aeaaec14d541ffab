// Package cache provides a layered (memory + disk) cache for fetched
// pages, so interrupted runs do not re-download biographies.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey generates a cache key for a page URL
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "lineage:v1:" + hex.EncodeToString(hash[:])
}
