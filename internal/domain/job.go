package domain

import (
	"fmt"
	"strconv"
	"time"
)

// JobSource represents a job listing source
type JobSource string

const (
	SourceGradConnection JobSource = "gradconnection"
)

// CSV headers for the checkpoint files
var (
	JobURLHeader        = []string{"page", "url"}
	PageFailureHeader   = []string{"page", "url"}
	DetailFailureHeader = []string{"url", "exception"}
	JobDetailHeader     = []string{
		"url",
		"employer_title",
		"job_title",
		"job_description",
		"ai_job_summary",
		"job_type",
		"disciplines",
		"work_rights",
		"locations",
		"start_date",
		"end_date",
	}
)

// JobURL is a job detail link discovered on a listing page
type JobURL struct {
	Page int    `json:"page"`
	URL  string `json:"url"`
}

func (j JobURL) Row() []string {
	return []string{strconv.Itoa(j.Page), j.URL}
}

// JobURLFromRow parses a row of the job URL checkpoint
func JobURLFromRow(row []string) (JobURL, error) {
	if len(row) < len(JobURLHeader) {
		return JobURL{}, fmt.Errorf("job url row: want %d columns, got %d", len(JobURLHeader), len(row))
	}
	page, err := strconv.Atoi(row[0])
	if err != nil {
		return JobURL{}, fmt.Errorf("job url row: parse page %q: %w", row[0], err)
	}
	return JobURL{Page: page, URL: row[1]}, nil
}

// PageFailure records a listing page that could not be fetched
type PageFailure struct {
	Page int    `json:"page"`
	URL  string `json:"url"`
}

func (f PageFailure) Row() []string {
	return []string{strconv.Itoa(f.Page), f.URL}
}

// DetailFailure records a job URL whose detail extraction failed
type DetailFailure struct {
	URL string `json:"url"`
	Err string `json:"exception"`
}

func (f DetailFailure) Row() []string {
	return []string{f.URL, f.Err}
}

// JobDetail is the structured content of a single job posting.
// Optional fields are nil when the page has no such section.
type JobDetail struct {
	URL            string    `json:"url"`
	EmployerTitle  string    `json:"employer_title"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
	AISummary      *string   `json:"ai_job_summary,omitempty"`
	JobType        *string   `json:"job_type,omitempty"`
	Disciplines    *string   `json:"disciplines,omitempty"`
	WorkRights     *string   `json:"work_rights,omitempty"`
	Locations      *string   `json:"locations,omitempty"`
	StartDate      *string   `json:"start_date,omitempty"`
	EndDate        *string   `json:"end_date,omitempty"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// Row renders the detail in JobDetailHeader column order. Absent fields become empty cells.
func (j *JobDetail) Row() []string {
	return []string{
		j.URL,
		j.EmployerTitle,
		j.JobTitle,
		j.JobDescription,
		deref(j.AISummary),
		deref(j.JobType),
		deref(j.Disciplines),
		deref(j.WorkRights),
		deref(j.Locations),
		deref(j.StartDate),
		deref(j.EndDate),
	}
}

// JobDetailFromRow parses a row of the job details checkpoint
func JobDetailFromRow(row []string) (*JobDetail, error) {
	if len(row) < len(JobDetailHeader) {
		return nil, fmt.Errorf("job detail row: want %d columns, got %d", len(JobDetailHeader), len(row))
	}
	return &JobDetail{
		URL:            row[0],
		EmployerTitle:  row[1],
		JobTitle:       row[2],
		JobDescription: row[3],
		AISummary:      optional(row[4]),
		JobType:        optional(row[5]),
		Disciplines:    optional(row[6]),
		WorkRights:     optional(row[7]),
		Locations:      optional(row[8]),
		StartDate:      optional(row[9]),
		EndDate:        optional(row[10]),
	}, nil
}

// JobMessage is the envelope published to the downstream queue
type JobMessage struct {
	RunID       string     `json:"run_id"`
	Source      JobSource  `json:"source"`
	Detail      *JobDetail `json:"detail"`
	PublishedAt time.Time  `json:"published_at"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
