package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/groundcheck/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key, e.g. Key("serper", query, "10")
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "groundcheck:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the cache described by the configuration.
// A disabled cache never stores anything; without Disk the cache
// lives only as long as the process.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	if !cfg.Disk {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// TTL returns the entry lifetime matching the outermost enabled layer
func TTL(cfg model.CacheConfig) time.Duration {
	if cfg.Disk {
		return cfg.DiskTTL
	}
	return cfg.MemoryTTL
}

// Nop is a cache that misses on every lookup
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }
