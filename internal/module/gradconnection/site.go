package gradconnection

import (
	"strconv"
	"strings"
)

const (
	Domain     = "https://au.gradconnection.com"
	DefaultURL = "https://au.gradconnection.com/graduate-jobs/computer-science/australia/"
	PageQuery  = "?page="
	PageStart  = 1
	PageEnd    = 100
)

// PageURL builds the listing URL for a page. Page 1 is the bare base URL.
func PageURL(base, query string, page int) string {
	if page <= 1 {
		return base
	}
	return base + query + strconv.Itoa(page)
}

// absoluteURL prefixes relative hrefs with the site domain
func absoluteURL(domain, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	}
	return strings.TrimRight(domain, "/") + "/" + strings.TrimLeft(href, "/")
}
