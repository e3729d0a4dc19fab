package ui

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/project-tktt/gradconnection-crawler/internal/module"
)

// FileStat is a checkpoint file and its size on disk
type FileStat struct {
	Path string
	Size int64
}

// SummaryRows lays out a run summary as table rows, header first
func SummaryRows(s *module.RunSummary, files []FileStat) [][]string {
	rows := [][]string{
		{"Metric", "Value"},
		{"Run", s.RunID},
		{"Pages fetched", humanize.Comma(int64(s.Pages))},
		{"Pages failed", humanize.Comma(int64(s.PageFailures))},
		{"URL rows", humanize.Comma(int64(s.URLRows))},
		{"Unique URLs", humanize.Comma(int64(s.UniqueURLs))},
		{"Details saved", humanize.Comma(int64(s.Details))},
		{"Details failed", humanize.Comma(int64(s.DetailFailures))},
	}
	if s.Skipped > 0 {
		rows = append(rows, []string{"Already harvested", humanize.Comma(int64(s.Skipped))})
	}
	rows = append(rows, []string{"Duration", s.Duration.Round(time.Second).String()})
	for _, f := range files {
		rows = append(rows, []string{f.Path, humanize.Bytes(uint64(f.Size))})
	}
	return rows
}

// PrintSummary renders the run summary table
func PrintSummary(s *module.RunSummary, files []FileStat) error {
	return pterm.DefaultTable.WithHasHeader().WithData(SummaryRows(s, files)).Render()
}
