package transform

import (
	"net/url"
	"regexp"
	"strings"
)

// IDFromURI returns the id segment of a vendor URI (spotify:<type>:<id>).
//
// The URI is not validated: anything without a third segment yields "".
func IDFromURI(uri string) string {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,}$`)

// ValidID reports whether id looks like a vendor base-62 id.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ExtractID pulls the id of the given kind ("playlist", "track") out of a
// bare id, a spotify:<kind>:<id> URI or an open.spotify.com URL. Locale
// path prefixes such as /intl-de/ are skipped. The result is not validated.
func ExtractID(raw, kind string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		for i := 1; i < len(parts)-1; i++ {
			if parts[i] == kind {
				return parts[i+1]
			}
		}
		return IDFromURI(raw)
	}

	if !strings.Contains(raw, "/") {
		return raw
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == kind {
			return segments[i+1]
		}
	}
	return segments[len(segments)-1]
}
