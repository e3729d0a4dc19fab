package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/project-tktt/gradconnection-crawler/internal/browser"
	"github.com/project-tktt/gradconnection-crawler/internal/checkpoint"
	"github.com/project-tktt/gradconnection-crawler/internal/common/extractor"
	"github.com/project-tktt/gradconnection-crawler/internal/config"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
	"github.com/project-tktt/gradconnection-crawler/internal/module"
	"github.com/project-tktt/gradconnection-crawler/internal/module/gradconnection"
	"github.com/project-tktt/gradconnection-crawler/internal/notify"
	"github.com/project-tktt/gradconnection-crawler/internal/queue"
	"github.com/project-tktt/gradconnection-crawler/internal/ui"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

type options struct {
	url            string
	pages          int
	reset          bool
	resume         bool
	fromCheckpoint bool
	skipHarvested  bool
	install        bool
	schedule       string
	quiet          bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var opts options
	flag.StringVar(&opts.url, "url", "", "listing URL of the first page (prompted when empty)")
	flag.IntVar(&opts.pages, "pages", 0, "last listing page to fetch (default from config)")
	flag.BoolVar(&opts.reset, "reset", false, "clear existing checkpoint files without asking")
	flag.BoolVar(&opts.resume, "resume", false, "keep existing checkpoint files without asking")
	flag.BoolVar(&opts.fromCheckpoint, "from-checkpoint", false, "read job URLs from the URL checkpoint instead of paginating")
	flag.BoolVar(&opts.skipHarvested, "skip-harvested", false, "do not re-extract jobs already in the details checkpoint")
	flag.BoolVar(&opts.install, "install", false, "install the Playwright driver and Chromium first")
	flag.StringVar(&opts.schedule, "schedule", "", "cron expression for repeated runs (e.g. \"@every 6h\")")
	flag.BoolVar(&opts.quiet, "quiet", false, "no banner, prompts or progress bar")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("Crawler error: %v", err)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, opts)

	ui.PrintBanner(opts.quiet)

	mode, err := chooseMode(opts, cfg.Schedule)
	if err != nil {
		return err
	}
	if opts.url == "" && !opts.quiet && cfg.Schedule == "" && !opts.fromCheckpoint {
		if cfg.Crawler.BaseURL, err = ui.AskURL(cfg.Crawler.BaseURL); err != nil {
			return fmt.Errorf("read url: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := checkpoint.NewStore(cfg.Checkpoint.Dir, cfg.Checkpoint.Prefix)
	if err != nil {
		return err
	}

	manager, err := browser.NewManager(browser.Config{
		Headless:          cfg.Browser.Headless,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		UserAgent:         cfg.Crawler.UserAgent,
		Install:           cfg.Browser.Install,
	})
	if err != nil {
		return err
	}
	defer manager.Close()

	fetcher := extractor.NewCollyFetcher(extractor.ExtractorConfig{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Crawler.FetchTimeout,
		Headers:   map[string]string{"User-Agent": cfg.Crawler.UserAgent},
	})
	detailExtractor := extractor.NewBrowserExtractor(
		domain.SourceGradConnection,
		manager,
		gradconnection.DetailActions(),
		gradconnection.ParseJobDetail,
	)

	var sink gradconnection.DetailSink
	if cfg.Redis.Publish {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		log.Printf("Redis connected, publishing to %s", cfg.Redis.JobQueue)
		sink = queue.NewPublisher(rdb, cfg.Redis.JobQueue)
	}

	crawler := gradconnection.NewCrawler(gradconnection.Config{
		BaseURL:      cfg.Crawler.BaseURL,
		Domain:       cfg.Crawler.Domain,
		PageQuery:    cfg.Crawler.PageQuery,
		PageStart:    cfg.Crawler.PageStart,
		PageEnd:      cfg.Crawler.PageEnd,
		RequestDelay: cfg.Crawler.RequestDelay,
	}, fetcher, detailExtractor, store, sink)

	var notifier *notify.TelegramNotifier
	if cfg.Telegram.Enabled() {
		if notifier, err = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID); err != nil {
			log.Printf("Telegram disabled: %v", err)
		}
	}

	r := &runner{
		crawler:  crawler,
		store:    store,
		notifier: notifier,
		quiet:    opts.quiet,
		opts: module.RunOptions{
			FromCheckpoint: opts.fromCheckpoint,
			SkipHarvested:  opts.skipHarvested,
		},
	}

	if cfg.Schedule != "" {
		return runCrawlerScheduler(ctx, r, mode, cfg.Schedule)
	}
	return r.runOnce(ctx, mode)
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.url != "" {
		cfg.Crawler.BaseURL = opts.url
	}
	if opts.pages > 0 {
		cfg.Crawler.PageEnd = opts.pages
	}
	if opts.install {
		cfg.Browser.Install = true
	}
	if opts.schedule != "" {
		cfg.Schedule = opts.schedule
	}
}

// chooseMode asks the user unless a flag or unattended mode already decides it
func chooseMode(opts options, schedule string) (module.Mode, error) {
	switch {
	case opts.reset && opts.resume:
		return module.ModeResume, errors.New("-reset and -resume are mutually exclusive")
	case opts.fromCheckpoint && opts.reset:
		return module.ModeResume, errors.New("-from-checkpoint reads the URL checkpoint that -reset would clear")
	case opts.reset:
		return module.ModeReset, nil
	case opts.resume, opts.fromCheckpoint, opts.quiet, schedule != "":
		return module.ModeResume, nil
	}
	return ui.AskMode()
}

type runner struct {
	crawler  *gradconnection.Crawler
	store    *checkpoint.Store
	notifier *notify.TelegramNotifier
	quiet    bool
	opts     module.RunOptions
}

func (r *runner) runOnce(ctx context.Context, mode module.Mode) error {
	if err := r.crawler.Prepare(mode); err != nil {
		return fmt.Errorf("prepare checkpoints: %w", err)
	}

	progress := ui.NewProgress()
	if !r.quiet {
		r.crawler.OnProgress(progress.Update)
	}

	summary, err := r.crawler.Run(ctx, r.opts)
	progress.Finish()

	if summary.Interrupted {
		fmt.Println("Scraping operation cancelled.")
		err = nil
	}

	if !r.quiet {
		if perr := ui.PrintSummary(summary, r.checkpointFiles()); perr != nil {
			log.Printf("Print summary: %v", perr)
		}
	}

	if r.notifier != nil {
		if nerr := r.notifier.SendSummary(summary, err); nerr != nil {
			log.Printf("Telegram notify failed: %v", nerr)
		}
	}

	return err
}

func (r *runner) checkpointFiles() []ui.FileStat {
	files := make([]ui.FileStat, 0, len(checkpoint.All))
	for _, name := range checkpoint.All {
		files = append(files, ui.FileStat{Path: r.store.Path(name), Size: r.store.Size(name)})
	}
	return files
}

// runCrawlerScheduler runs once immediately, then on every tick of expr until ctx is done.
// Scheduled runs always resume; a tick is skipped while the previous run is still going.
func runCrawlerScheduler(ctx context.Context, r *runner, first module.Mode, expr string) error {
	if err := r.runOnce(ctx, first); err != nil {
		log.Printf("Crawler error: %v", err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(expr, func() {
		if ctx.Err() != nil {
			return
		}
		if err := r.runOnce(ctx, module.ModeResume); err != nil {
			log.Printf("Crawler error: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", expr, err)
	}

	c.Start()
	log.Printf("Scheduler started, cron: %s", expr)

	<-ctx.Done()
	log.Println("Shutdown signal received, stopping...")
	<-c.Stop().Done()
	return nil
}
