package blog

import (
	"net/url"
	"strings"
	"time"
)

// displayLayout renders dates like "Jan 05, 2024".
const displayLayout = "Jan 02, 2006"

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate converts an ISO-8601 date to its display form. Dates that do
// not parse are returned unchanged.
func FormatDate(iso string) string {
	trimmed := strings.TrimSpace(iso)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(displayLayout)
		}
	}
	return iso
}

// EncodeURIComponent percent-encodes s for use as a query value. Spaces
// become %20 rather than '+'.
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// QueryHref links to the detail view for slug.
func QueryHref(slug string) string {
	return "post.html?slug=" + EncodeURIComponent(slug)
}

// DefaultSiteTitle names the site when no title is configured.
const DefaultSiteTitle = "Decrypt"

// PageTitle is the document title used by the detail view of p.
func PageTitle(siteTitle string, p Post) string {
	if siteTitle == "" {
		siteTitle = DefaultSiteTitle
	}
	return siteTitle + " — " + p.Title
}
