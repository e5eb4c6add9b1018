package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonicalize maps equivalent spellings of a URL to one form:
// lowercase scheme and host, no default port, no trailing slash
// (except root), no query and no fragment. It is idempotent and
// never mutates its input.
func Canonicalize(source url.URL) url.URL {
	canonical := source

	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = strings.TrimRight(canonical.Path, "/")
		if canonical.Path == "" {
			canonical.Path = "/"
		}
		canonical.RawPath = ""
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""
	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// Resolve resolves ref against base and canonicalizes the result.
// base must be absolute.
func Resolve(base url.URL, ref string) (url.URL, error) {
	if !base.IsAbs() {
		return url.URL{}, fmt.Errorf("base url %q is not absolute", base.String())
	}
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return url.URL{}, fmt.Errorf("parse reference %q: %w", ref, err)
	}
	return Canonicalize(*base.ResolveReference(parsed)), nil
}

// MustParse parses raw and panics on failure. Intended for constants.
func MustParse(raw string) url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return *u
}
