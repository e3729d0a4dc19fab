package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultActionTimeout = 2 * time.Second

// Config controls the browser used for detail pages
type Config struct {
	Headless          bool
	NavigationTimeout time.Duration
	UserAgent         string
	// Download the Playwright driver and Chromium before launching
	Install bool
}

// Manager owns one Playwright driver and one Chromium process for a whole run.
// Each Render call gets its own browser context, closed before Render returns.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	config  Config
}

// NewManager starts Playwright and launches Chromium
func NewManager(cfg Config) (*Manager, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}

	if cfg.Install {
		log.Println("[Browser] Installing Playwright driver and Chromium")
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &Manager{pw: pw, browser: browser, config: cfg}, nil
}

// Render loads url in a fresh session, runs the actions in order and returns the resulting markup
func (m *Manager) Render(ctx context.Context, url string, actions []Action) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := playwright.BrowserNewContextOptions{}
	if m.config.UserAgent != "" {
		opts.UserAgent = playwright.String(m.config.UserAgent)
	}

	session, err := m.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("[Browser] Error closing session for %s: %v", url, err)
		}
	}()

	page, err := session.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(m.config.NavigationTimeout.Milliseconds())),
	}); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	results := make([]ActionResult, 0, len(actions))
	for _, a := range actions {
		results = append(results, runAction(page, a))
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}

	return &Rendered{URL: url, HTML: html, Actions: results}, nil
}

// Close shuts down Chromium and the Playwright driver
func (m *Manager) Close() error {
	if err := m.browser.Close(); err != nil {
		_ = m.pw.Stop()
		return fmt.Errorf("close browser: %w", err)
	}
	return m.pw.Stop()
}

func runAction(page playwright.Page, a Action) ActionResult {
	res := ActionResult{Name: a.Name}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}

	loc := page.Locator(a.Selector)
	count, err := loc.Count()
	if err != nil {
		res.Outcome, res.Err = Failed, err
		return res
	}
	if count == 0 {
		res.Outcome = Absent
		return res
	}

	targets := []playwright.Locator{loc.First()}
	if a.All {
		if targets, err = loc.All(); err != nil {
			res.Outcome, res.Err = Failed, err
			return res
		}
	}

	for _, target := range targets {
		if err := target.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(float64(timeout.Milliseconds())),
		}); err != nil {
			res.Outcome, res.Err = Failed, err
			return res
		}
		res.Clicked++
	}

	res.Outcome = Performed
	return res
}
