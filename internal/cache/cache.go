package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for response caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from the given parts (provider name,
// query terms, date bounds). Identical inputs always produce the same
// key, which is what keeps re-runs of an unchanged topic idempotent.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "dwverify:v1:" + hex.EncodeToString(hash[:])
}
