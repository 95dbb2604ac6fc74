// Package keys derives deterministic cache fingerprints from a request's
// identity: the upstream target plus its query parameters. Two requests
// with the same target and the same parameter set always map to the same
// fingerprint regardless of the order the parameters were assembled in.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Canonical returns the canonical request form used for fingerprinting:
// the target followed by its parameters sorted by name and query-escaped.
// It is exposed for logging and debugging; cache keys should come from
// Fingerprint.
func Canonical(target string, params map[string]string) string {
	if len(params) == 0 {
		return target
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(target)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[name]))
	}
	return b.String()
}

// Fingerprint returns the hex-encoded SHA-256 digest of the canonical
// request form. Equal targets with equal parameter sets yield identical
// fingerprints; any change to the target, a parameter name or a value
// yields a different one.
func Fingerprint(target string, params map[string]string) string {
	sum := sha256.Sum256([]byte(Canonical(target, params)))
	return hex.EncodeToString(sum[:])
}
