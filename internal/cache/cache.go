package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching LLM page responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// promptVersion is bumped whenever the extraction prompt changes shape, so
// stale cached responses are never replayed against a new prompt.
const promptVersion = "v1"

// PageKey generates a cache key for one page's extraction request. The key
// covers provider, model and the page text itself: any change to either
// produces a fresh entry.
func PageKey(provider, model, pageText string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(pageText))
	return "quotemark:" + promptVersion + ":" + hex.EncodeToString(h.Sum(nil))
}

// DocumentKey generates a cache key for a whole-document extraction request.
// The key covers every page's text, so any page change invalidates it, and
// the prefix keeps document entries apart from per-page ones.
func DocumentKey(provider, model string, pageTexts []string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	for _, t := range pageTexts {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	return "quotemark:" + promptVersion + ":doc:" + hex.EncodeToString(h.Sum(nil))
}
