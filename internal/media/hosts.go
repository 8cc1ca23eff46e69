package media

import (
	"net/url"
	"strings"
)

// NormalizeHosts accepts allow-list entries as bare domains or full URLs
// and reduces each to a lower-cased hostname. Empty and unparseable
// entries are dropped.
func NormalizeHosts(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "://") {
			u, err := url.Parse(e)
			if err != nil || u.Hostname() == "" {
				continue
			}
			e = u.Hostname()
		} else {
			// Strip any path or port from a bare entry like
			// "example.com/uploads" or "example.com:8080".
			if i := strings.IndexAny(e, "/:"); i >= 0 {
				e = e[:i]
			}
		}
		if e != "" {
			out = append(out, strings.ToLower(e))
		}
	}
	return out
}

// HostAllowed reports whether the URL's host exactly matches, or is a
// subdomain of, one of the allowed hosts. allowed must already be
// normalized.
func HostAllowed(rawURL string, allowed []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, a := range allowed {
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}
