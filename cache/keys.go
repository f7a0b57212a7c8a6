package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Key builds a content-addressed cache key from namespace and the
// normalized parts. The hash is stable across process restarts.
func Key(namespace string, parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(strings.TrimSpace(strings.ToLower(p))))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
