// Client identity resolution for rate limiting.
//
// DESIGN: Prefer real client IPs from proxy headers; when absent, fall back
// to a deterministic hash of request fingerprint headers. The fallback is
// prefixed so operators can tell spoofed/absent-IP traffic from genuine IPs
// in logs. Resolution never fails: an all-missing-header request still lands
// in a stable (if coarse) bucket.
package gateway

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
)

const fallbackIDPrefix = "anon-"

// resolveClientID derives the rate-limit identifier for a request.
func resolveClientID(h http.Header) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if ip := h.Get("X-Real-Ip"); ip != "" {
		return strings.TrimSpace(ip)
	}

	hash := fnv.New32a()
	_, _ = hash.Write([]byte(h.Get("User-Agent") + h.Get("X-Api-Key")))
	return fmt.Sprintf("%s%08x", fallbackIDPrefix, hash.Sum32())
}
