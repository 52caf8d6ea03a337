package cache

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key derives a deterministic cache key from a prefix and a set of query
// parameters. Parameter order never matters: keys are sorted and repeated
// values are sorted within their key, so equivalent requests share an entry.
func Key(prefix string, params url.Values) string {
	if len(params) == 0 {
		return prefix
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		values := append([]string(nil), params[k]...)
		sort.Strings(values)
		for _, v := range values {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
			b.WriteByte('&')
		}
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s:%x", prefix, hash[:8])
}
