package markup

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// embedShortcodeRe matches the classic [embed]URL[/embed] shortcode.
var embedShortcodeRe = regexp.MustCompile(`\[embed\]\s*(\S+?)\s*\[/embed\]`)

// EmbedProvider identifies the embed provider for a URL, or "" when the
// host is not a known provider.
func EmbedProvider(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch {
	case host == "youtube.com", host == "youtu.be", host == "youtube-nocookie.com",
		strings.HasSuffix(host, ".youtube.com"):
		return "youtube"
	case host == "vimeo.com", strings.HasSuffix(host, ".vimeo.com"):
		return "vimeo"
	}
	return ""
}

// DetectEmbeds turns [embed] shortcodes and provider URLs standing alone on
// their own line into anchors tagged with the provider name. Standalone
// URLs that match no known provider are left as plain text; shortcodes
// around unknown URLs are stripped down to the bare URL.
func DetectEmbeds(rawHTML string) string {
	out := embedShortcodeRe.ReplaceAllStringFunc(rawHTML, func(m string) string {
		sub := embedShortcodeRe.FindStringSubmatch(m)
		target := sub[1]
		if prov := EmbedProvider(target); prov != "" {
			return embedAnchor(target, prov)
		}
		return target
	})

	lines := strings.Split(out, "\n")
	changed := false
	for i, line := range lines {
		candidate := strings.TrimSpace(line)
		// A paragraph holding nothing but the URL counts as standalone.
		if strings.HasPrefix(candidate, "<p>") && strings.HasSuffix(candidate, "</p>") {
			candidate = strings.TrimSpace(candidate[len("<p>") : len(candidate)-len("</p>")])
		}
		if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
			continue
		}
		if strings.ContainsAny(candidate, " \t<>") {
			continue // not a bare URL on its own line
		}
		if prov := EmbedProvider(candidate); prov != "" {
			lines[i] = strings.Replace(line, candidate, embedAnchor(candidate, prov), 1)
			changed = true
		}
	}
	if changed {
		out = strings.Join(lines, "\n")
	}
	return out
}

func embedAnchor(target, provider string) string {
	escaped := html.EscapeString(target)
	return `<a href="` + escaped + `" data-embed-provider="` + provider + `">` + escaped + `</a>`
}
