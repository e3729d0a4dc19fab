package gradconnection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/project-tktt/gradconnection-crawler/internal/browser"
	"github.com/project-tktt/gradconnection-crawler/internal/common/cleaner"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
	"golang.org/x/text/cases"
)

// ErrMissingField is returned when a required detail section is not on the page
var ErrMissingField = errors.New("required field not found")

const (
	employerSelector    = ".employers-panel .employers-panel-title"
	jobTitleSelector    = ".employers-profile-hgroup .employers-profile-h1"
	descriptionSelector = ".campaign-content-container"

	categorySelector      = ".box-content-catagories"
	categoryLabelSelector = ".box-content-catagories-bold"
	categoryValueSelector = ".ellipsis-text-paragraph"

	aiSummarySelector  = ".ai-summary_campaign-summary-container.ai-summary_campaign-summary-expanded"
	aiRatingSelector   = ".ai-summary_user-rating-container"
	aiOverlaySelector  = ".ai-summary_scroll-overlay-campaign"
	aiReadMoreSelector = ".ai-summary_scroll-overlay-campaign p"
	showMoreSelector   = ".btn-show-link"
)

var textCleaner = cleaner.NewCleaner()

// DetailActions reveal collapsed sections before the page is parsed.
// Pages without these elements are fine.
func DetailActions() []browser.Action {
	return []browser.Action{
		{Name: "show-more", Selector: showMoreSelector, All: true},
		{Name: "ai-summary", Selector: aiReadMoreSelector},
	}
}

// ParseJobDetail extracts a job posting from rendered detail page markup
func ParseJobDetail(url, html string) (*domain.JobDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	detail := &domain.JobDetail{URL: url}

	required := []struct {
		name     string
		selector string
		dst      *string
	}{
		{"employer_title", employerSelector, &detail.EmployerTitle},
		{"job_title", jobTitleSelector, &detail.JobTitle},
		{"job_description", descriptionSelector, &detail.JobDescription},
	}
	for _, f := range required {
		sel := doc.Find(f.selector).First()
		if sel.Length() == 0 {
			return nil, fmt.Errorf("%w: %s (%s)", ErrMissingField, f.name, f.selector)
		}
		*f.dst = textOf(sel)
	}

	fold := cases.Fold()
	doc.Find(categorySelector).Each(func(_ int, category *goquery.Selection) {
		label := category.Find(categoryLabelSelector).First()
		if label.Length() == 0 {
			return
		}

		title := fold.String(textOf(label))
		switch {
		case strings.Contains(title, "job type"):
			detail.JobType = withoutLabel(category)
		case strings.Contains(title, "disciplines"):
			detail.Disciplines = paragraph(category)
		case strings.Contains(title, "work rights"):
			detail.WorkRights = paragraph(category)
		case strings.Contains(title, "locations"):
			detail.Locations = paragraph(category)
		case strings.Contains(title, "start date"):
			detail.StartDate = paragraph(category)
		case strings.Contains(title, "closing date"):
			detail.EndDate = withoutLabel(category)
		}
	})

	if summary := doc.Find(aiSummarySelector).First(); summary.Length() > 0 {
		summary = summary.Clone()
		summary.Find(aiRatingSelector).Remove()
		summary.Find(aiOverlaySelector).Remove()
		detail.AISummary = optionalText(textOf(summary))
	}

	return detail, nil
}

// withoutLabel is the category text once its bold label is dropped
func withoutLabel(category *goquery.Selection) *string {
	c := category.Clone()
	c.Find(categoryLabelSelector).Remove()
	return optionalText(textOf(c))
}

func paragraph(category *goquery.Selection) *string {
	p := category.Find(categoryValueSelector).First()
	if p.Length() == 0 {
		return nil
	}
	return optionalText(textOf(p))
}

func textOf(s *goquery.Selection) string {
	html, err := goquery.OuterHtml(s)
	if err != nil {
		return strings.Join(strings.Fields(s.Text()), " ")
	}
	return textCleaner.CleanToText(html)
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
