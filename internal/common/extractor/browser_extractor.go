package extractor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/project-tktt/gradconnection-crawler/internal/browser"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// Renderer loads a page in a browser and returns its markup after running the actions
type Renderer interface {
	Render(ctx context.Context, url string, actions []browser.Action) (*browser.Rendered, error)
}

// ParseFunc extracts a job detail from rendered markup
type ParseFunc func(url, html string) (*domain.JobDetail, error)

// BrowserExtractor implements Extractor for pages that need client-side rendering
type BrowserExtractor struct {
	renderer Renderer
	actions  []browser.Action
	parse    ParseFunc
	source   domain.JobSource
}

// NewBrowserExtractor creates an extractor that renders, runs actions, then parses
func NewBrowserExtractor(source domain.JobSource, renderer Renderer, actions []browser.Action, parse ParseFunc) *BrowserExtractor {
	return &BrowserExtractor{
		renderer: renderer,
		actions:  actions,
		parse:    parse,
		source:   source,
	}
}

func (e *BrowserExtractor) Name() string {
	return fmt.Sprintf("browser_%s", e.source)
}

func (e *BrowserExtractor) Extract(ctx context.Context, url string) (*domain.JobDetail, error) {
	page, err := e.renderer.Render(ctx, url, e.actions)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	for _, r := range page.Actions {
		if r.Outcome == browser.Failed {
			log.Printf("[%s] Optional action %s", e.Name(), r)
		}
	}

	detail, err := e.parse(url, page.HTML)
	if err != nil {
		return nil, err
	}
	detail.ScrapedAt = time.Now()
	return detail, nil
}
