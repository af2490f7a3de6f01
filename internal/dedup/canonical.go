package dedup

import (
	"net/url"
	"strings"
)

// trackingParams is the fixed blocklist of query parameters stripped during
// canonicalization. Anything not listed here is preserved.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"msclkid":      {},
	"mc_cid":       {},
	"mc_eid":       {},
	"_hsenc":       {},
	"_hsmi":        {},
	"mkt_tok":      {},
}

// CanonicalURL normalizes a URL into the form used as a deduplication key:
// scheme forced to https (for http/https), host lowercased, one trailing
// slash stripped from the path, tracking parameters removed, fragment dropped.
// Surviving query keys are re-emitted in sorted order, so canonical forms may
// differ from the input's key order (and from keys produced by systems that
// preserve it). It never fails: unparsable or non-hierarchical input is
// returned unchanged.
func CanonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Opaque != "" {
		// mailto: and friends; nothing to normalize.
		return raw
	}

	scheme := u.Scheme
	if scheme == "http" || scheme == "https" {
		scheme = "https"
	}

	host := strings.ToLower(u.Host)

	path := u.EscapedPath()
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	query := ""
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if _, tracking := trackingParams[k]; tracking {
				delete(q, k)
			}
		}
		query = q.Encode()
	}

	var b strings.Builder
	if scheme != "" {
		b.WriteString(scheme)
		if host != "" {
			b.WriteString("://")
		} else {
			b.WriteString(":")
		}
	}
	b.WriteString(host)
	b.WriteString(path)
	if query != "" {
		b.WriteString("?")
		b.WriteString(query)
	}
	return b.String()
}
