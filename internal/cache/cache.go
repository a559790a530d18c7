// Package cache stores per-document extraction results so unchanged notes
// are not rescanned.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/milestones/internal/model"
)

const keyPrefix = "milestones:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey identifies one extraction: the document path, its exact text and
// the settings that shape the result. Editing the note or changing a setting
// yields a new key.
func CacheKey(path, text, fingerprint string) string {
	h := sha256.New()
	for _, part := range []string{path, text, fingerprint} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Entry is what gets cached for one document
type Entry struct {
	Milestones []model.Milestone `json:"milestones"`
	ScannedAt  time.Time         `json:"scanned_at"`
}

// GetEntry loads and decodes a cached entry
func GetEntry(c Cache, key string) (*Entry, bool) {
	data, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}

// SetEntry encodes and stores an entry
func SetEntry(c Cache, key string, e *Entry, ttl time.Duration) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return c.Set(key, data, ttl)
}
