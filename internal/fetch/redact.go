package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// Redacted replaces the value of a credential query parameter.
const Redacted = "REDACTED"

// sensitiveParams are query parameters whose values never leave the process.
var sensitiveParams = map[string]bool{
	"api_key":      true,
	"apikey":       true,
	"key":          true,
	"token":        true,
	"access_token": true,
}

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// RedactURL masks the values of credential query parameters in raw. Parameter
// order and everything outside those values is left untouched.
func RedactURL(raw string) string {
	base, rest, ok := strings.Cut(raw, "?")
	if !ok {
		return raw
	}
	query, frag, hasFrag := strings.Cut(rest, "#")

	parts := strings.Split(query, "&")
	changed := false
	for i, p := range parts {
		name, value, hasValue := strings.Cut(p, "=")
		if !hasValue || value == "" {
			continue
		}
		key := name
		if n, err := url.QueryUnescape(name); err == nil {
			key = n
		}
		if sensitiveParams[strings.ToLower(key)] {
			parts[i] = name + "=" + Redacted
			changed = true
		}
	}
	if !changed {
		return raw
	}

	out := base + "?" + strings.Join(parts, "&")
	if hasFrag {
		out += "#" + frag
	}
	return out
}

// redactText applies RedactURL to every URL embedded in s, such as the one a
// *url.Error quotes.
func redactText(s string) string {
	return urlPattern.ReplaceAllStringFunc(s, RedactURL)
}
