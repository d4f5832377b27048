// Package canonical derives stable identity keys for product listings
// URL canonicalization pipeline order
// 1 Parse and force https scheme
// 2 Lowercase host and strip a leading www
// 3 Drop tracking query params (utm_* gclid fbclid ref tag and friends)
// 4 Sort and dedupe the surviving query params
// 5 Collapse duplicate slashes in the path and strip the trailing slash
// The same underlying listing yields the same key across repeated searches
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"dealscout/internal/core/textfold"
)

// trackingParams are dropped outright during canonicalization
var trackingParams = map[string]struct{}{
	"gclid":       {},
	"fbclid":      {},
	"msclkid":     {},
	"yclid":       {},
	"ref":         {},
	"ref_":        {},
	"referrer":    {},
	"tag":         {},
	"affid":       {},
	"aff_id":      {},
	"affiliate":   {},
	"campaign":    {},
	"mc_cid":      {},
	"mc_eid":      {},
	"igshid":      {},
	"si":          {},
	"spm":         {},
	"_branch_ref": {},
}

func isTracking(key string) bool {
	k := strings.ToLower(key)
	if strings.HasPrefix(k, "utm_") {
		return true
	}
	_, ok := trackingParams[k]
	return ok
}

// Identity derives the canonical key for a listing, in preference order:
// the canonicalized URL, then the provider-scoped external id, then a
// digest of the folded descriptive fields. Empty string means the listing
// carries no usable identity and must be dropped before persistence
func Identity(providerID, externalID, rawURL, title, merchant string) string {
	if k := Key(rawURL); k != "" {
		return k
	}
	if externalID != "" {
		return providerID + ":" + externalID
	}
	folded := textfold.Fold(title)
	if folded == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(providerID + "\x00" + folded + "\x00" + textfold.Fold(merchant)))
	return providerID + ":sha:" + hex.EncodeToString(sum[:8])
}

// Key returns the canonical identity key for a raw listing URL
// Empty string means the input could not be canonicalized and the
// listing should be dropped before persistence
func Key(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	// scheme-relative and bare-host inputs still canonicalize
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	} else if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = "https"
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	u.Host = host

	u.RawQuery = normalizeQuery(u.Query())
	u.Fragment = ""
	u.Path = collapseSlashes(u.Path)
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	if u.Path == "/" {
		u.Path = ""
	}

	return u.String()
}

// normalizeQuery drops tracking params then sorts keys and values
func normalizeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		if isTracking(k) {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := append([]string(nil), q[k]...)
		sort.Strings(vals)
		seen := map[string]struct{}{}
		for _, v := range vals {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
