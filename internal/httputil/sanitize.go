package httputil

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// validRoomPattern matches room ids: numeric ids and vanity slugs.
var validRoomPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateRoomID checks that a caller-supplied room id contains only safe characters.
func ValidateRoomID(id string) error {
	if id == "" {
		return fmt.Errorf("room ID cannot be empty")
	}
	if len(id) > 64 {
		return fmt.Errorf("room ID too long: %d characters", len(id))
	}
	if !validRoomPattern.MatchString(id) {
		return fmt.Errorf("room ID contains invalid characters: %q", id)
	}
	return nil
}

// WithQuery appends encoded query parameters to a base URL.
func WithQuery(base string, query url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query.Encode()
}

// ParseHeader splits a "Key: Value" pair as given on the command line.
func ParseHeader(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, ":")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("malformed header %q (want \"Key: Value\")", s)
	}
	return k, strings.TrimSpace(v), nil
}

// MergeHeaders combines header maps into one keyed by canonical header name.
// Later maps override earlier ones regardless of how their keys are cased.
func MergeHeaders(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		keys := make([]string, 0, len(layer))
		for k := range layer {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out[http.CanonicalHeaderKey(k)] = layer[k]
		}
	}
	return out
}
