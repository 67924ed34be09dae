package outputfmt

import (
	"net/url"
	"regexp"
	"strings"
)

var absoluteURLInTextRE = regexp.MustCompile(`https?://[^\s"'<>]+`)

// SanitizeErrorText prepares error text for delivery into a chat transcript:
// URL hosts are removed and sensitive query values redacted, while the
// path/query/fragment details operators need for triage are kept.
func SanitizeErrorText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return absoluteURLInTextRE.ReplaceAllStringFunc(raw, sanitizeURLInText)
}

func sanitizeURLInText(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	if strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return raw
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if q := redactSensitiveQuery(u.Query()); q != "" {
		path += "?" + q
	}
	if frag := strings.TrimSpace(u.EscapedFragment()); frag != "" {
		path += "#" + frag
	}
	return path
}

func redactSensitiveQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	for k := range q {
		if isSensitiveQueryKey(k) {
			q.Set(k, "[redacted]")
		}
	}
	return q.Encode()
}

func isSensitiveQueryKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return false
	}
	n := strings.ReplaceAll(strings.ReplaceAll(k, "-", ""), "_", "")
	if n == "key" {
		return true
	}
	switch {
	case strings.Contains(n, "apikey"),
		strings.Contains(n, "authorization"),
		strings.Contains(n, "token"),
		strings.Contains(n, "secret"),
		strings.Contains(n, "password"),
		strings.Contains(n, "cookie"):
		return true
	}
	return false
}
