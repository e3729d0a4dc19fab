package gradconnection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractListingURLs(t *testing.T) {
	html := `<html><body>
<div class="box_container">
  <div class="box-header"><a class="box-header-title" href="/employers/acme/jobs/acme-grad/">Acme</a></div>
  <div class="box-header"><a class="box-header-title" href="https://au.gradconnection.com/employers/beta/jobs/beta-intern/">Beta</a></div>
  <div class="box-header"><a class="box-header-title" href="/employers/acme/jobs/acme-grad/">Acme again</a></div>
  <div class="box-header"><a class="box-header-title">No link</a></div>
</div>
<a class="box-header-title" href="/outside/">Outside the container</a>
</body></html>`

	urls := ExtractListingURLs(html, "https://au.gradconnection.com")

	assert.Equal(t, []string{
		"https://au.gradconnection.com/employers/acme/jobs/acme-grad/",
		"https://au.gradconnection.com/employers/beta/jobs/beta-intern/",
	}, urls)
}

func TestExtractListingURLs_NoMatchesIsEmpty(t *testing.T) {
	inputs := []string{
		"",
		"<html><body><p>No jobs found</p></body></html>",
		`<div class="box_container"></div>`,
		"<<not really html",
	}

	for _, in := range inputs {
		urls := ExtractListingURLs(in, testDomain)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	}
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, testBaseURL, PageURL(testBaseURL, PageQuery, 1))
	assert.Equal(t, testBaseURL+"?page=2", PageURL(testBaseURL, PageQuery, 2))
	assert.Equal(t, testBaseURL+"?page=100", PageURL(testBaseURL, PageQuery, 100))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://example.test/a", absoluteURL("https://example.test", "/a"))
	assert.Equal(t, "https://example.test/a", absoluteURL("https://example.test/", "a"))
	assert.Equal(t, "http://other.test/b", absoluteURL("https://example.test", "http://other.test/b"))
	assert.Equal(t, "https://cdn.test/c", absoluteURL("https://example.test", "//cdn.test/c"))
}
