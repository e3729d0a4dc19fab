package gradconnection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

const testDomain = "https://example.test"
const testBaseURL = "https://example.test/graduate-jobs/computer-science/australia/"

func listingHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="box_container">`)
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<div class="box-header"><a class="box-header-title" href="%s">Job</a></div>`, h)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

const fullDetailHTML = `<html><body>
<div class="employers-panel"><h2 class="employers-panel-title"> Acme Corp </h2></div>
<div class="employers-profile-hgroup"><h1 class="employers-profile-h1">Graduate Software Engineer</h1></div>
<div class="campaign-content-container"><p>Join our team.</p><p>Build things.</p></div>
<ul>
<li class="box-content-catagories"><strong class="box-content-catagories-bold">Job type</strong>Graduate Job</li>
<li class="box-content-catagories"><strong class="box-content-catagories-bold">DISCIPLINES</strong><p class="ellipsis-text-paragraph">Computer Science, IT</p></li>
<li class="box-content-catagories"><strong class="box-content-catagories-bold">Work rights</strong><p class="ellipsis-text-paragraph">Australian Citizen</p></li>
<li class="box-content-catagories"><strong class="box-content-catagories-bold">Locations</strong><p class="ellipsis-text-paragraph">Sydney</p></li>
<li class="box-content-catagories"><strong class="box-content-catagories-bold">Start date</strong><p class="ellipsis-text-paragraph">February 2027</p></li>
<li class="box-content-catagories"><strong class="box-content-catagories-bold">Closing Date</strong>31st Mar 2026</li>
</ul>
<div class="ai-summary_campaign-summary-container ai-summary_campaign-summary-expanded"><p>A summary.</p><div class="ai-summary_user-rating-container">Was this helpful?</div><div class="ai-summary_scroll-overlay-campaign"><p>Read more</p></div></div>
</body></html>`

const minimalDetailHTML = `<html><body>
<div class="employers-panel"><h2 class="employers-panel-title">Beta</h2></div>
<div class="employers-profile-hgroup"><h1 class="employers-profile-h1">Intern</h1></div>
<div class="campaign-content-container">Short description</div>
</body></html>`

// stubFetcher serves canned markup per URL; URLs in fail return an error
type stubFetcher struct {
	pages map[string]string
	fail  map[string]bool
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return "", errors.New("connection reset")
	}
	html, ok := f.pages[url]
	if !ok {
		return "<html></html>", nil
	}
	return html, nil
}

// stubExtractor builds a minimal detail per URL; URLs in fail return an error
type stubExtractor struct {
	fail  map[string]error
	calls []string
	hook  func(url string)
}

func (e *stubExtractor) Name() string { return "stub" }

func (e *stubExtractor) Extract(_ context.Context, url string) (*domain.JobDetail, error) {
	e.calls = append(e.calls, url)
	if e.hook != nil {
		e.hook(url)
	}
	if err := e.fail[url]; err != nil {
		return nil, err
	}
	return &domain.JobDetail{
		URL:            url,
		EmployerTitle:  "Employer",
		JobTitle:       "Title",
		JobDescription: "Description",
	}, nil
}

type recordingSink struct {
	mu   sync.Mutex
	msgs []*domain.JobMessage
	err  error
}

func (s *recordingSink) Publish(_ context.Context, msg *domain.JobMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

type failingAppender struct{}

func (failingAppender) Append(string, []string, [][]string) error {
	return errors.New("disk full")
}
