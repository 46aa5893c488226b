// Package cache keeps fetched pages for the lifetime of a session.
// Nothing is written to disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Cache defines the interface for page caching
type Cache interface {
	Get(rawURL string) (model.Page, bool)
	Set(rawURL string, page model.Page)
	Delete(rawURL string)
	Clear()
	Len() int
}

// CacheKey generates a cache key from a URL.
// Scheme and host case and the fragment do not affect the key.
func CacheKey(rawURL string) string {
	hash := sha256.Sum256([]byte(normalize(rawURL)))
	return "claimcheck:v1:" + hex.EncodeToString(hash[:])
}

func normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
