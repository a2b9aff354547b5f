package handler

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// apiKeyHeader is the header the frontend sends its key in.
const apiKeyHeader = "X-API-Key"

// APIKeyGuard protects data routes with a single configured API key. When no
// key is configured the guard lets everything through, which keeps local
// development friction-free; production deployments are expected to set one.
type APIKeyGuard struct {
	// keyDigest is the SHA-256 of the configured key, or nil when unset.
	// Comparing fixed-length digests keeps the comparison constant-time
	// without leaking the key length.
	keyDigest []byte
}

// NewAPIKeyGuard creates a guard for the given key. An empty key disables
// the check.
func NewAPIKeyGuard(key string) *APIKeyGuard {
	g := &APIKeyGuard{}
	if key != "" {
		sum := sha256.Sum256([]byte(key))
		g.keyDigest = sum[:]
	}
	return g
}

// Enabled reports whether a key is configured.
func (g *APIKeyGuard) Enabled() bool {
	return g.keyDigest != nil
}

// Require is a middleware rejecting requests whose X-API-Key header does not
// match the configured key.
func (g *APIKeyGuard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.keyDigest == nil {
			next.ServeHTTP(w, r)
			return
		}

		provided := sha256.Sum256([]byte(r.Header.Get(apiKeyHeader)))
		if subtle.ConstantTimeCompare(provided[:], g.keyDigest) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
