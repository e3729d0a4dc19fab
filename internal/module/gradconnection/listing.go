package gradconnection

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const listingLinkSelector = ".box_container .box-header .box-header-title"

// ExtractListingURLs returns the job detail links on a search results page,
// in document order and without repeats. No matches yields an empty slice.
func ExtractListingURLs(html, domain string) []string {
	urls := []string{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return urls
	}

	seen := make(map[string]bool)
	doc.Find(listingLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		link := absoluteURL(domain, href)
		if seen[link] {
			return
		}
		seen[link] = true
		urls = append(urls, link)
	})

	return urls
}
