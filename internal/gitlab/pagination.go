package gitlab

import (
	"net/http"
	"strings"
)

// nextPageURL extracts the rel="next" target from a Link header.
//
// GitLab paginates with Link headers of the form:
//
//	<url>; rel="prev", <url>; rel="next", <url>; rel="first", <url>; rel="last"
//
// It returns the empty string when there is no next page.
func nextPageURL(header http.Header) string {
	link := header.Get("Link")
	if link == "" {
		return ""
	}
	for _, entry := range strings.Split(link, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}
		url := strings.Trim(strings.TrimSpace(parts[0]), "<>")
		rel := strings.TrimSpace(parts[1])
		if rel == `rel="next"` {
			return url
		}
	}
	return ""
}
