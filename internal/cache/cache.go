// Package cache stores computed score curves keyed by a digest of their inputs.
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

// keyVersion changes whenever the cached payload or the scoring rules change
const keyVersion = "acroeval:v1:"

// Key derives a cache key from the given parts. Parts are length-prefixed so
// that ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		h.Write(size[:])
		h.Write(p)
	}
	return keyVersion + hex.EncodeToString(h.Sum(nil))
}
