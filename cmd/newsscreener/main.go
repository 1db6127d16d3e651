package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"NewsScreener/internal/app"
	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
	"NewsScreener/internal/logging"
)

// feedFlags collects repeatable --feed name=url values.
type feedFlags []config.FeedConfig

func (f *feedFlags) String() string {
	names := make([]string, 0, len(*f))
	for _, feed := range *f {
		names = append(names, feed.Name)
	}
	return strings.Join(names, ",")
}

func (f *feedFlags) Set(value string) error {
	name, url, found := strings.Cut(value, "=")
	if !found {
		// bare URL: use it as its own name
		name, url = value, value
	}
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("feed %q has no url", value)
	}
	*f = append(*f, config.FeedConfig{Name: name, URL: url, Source: "rss"})
	return nil
}

func main() {
	// .env is optional; environment variables may be set directly.
	_ = godotenv.Load()

	var feeds feedFlags
	configPath := flag.String("config", "", "path to YAML config file")
	limit := flag.Int("limit", 0, "max items per feed (overrides config)")
	report := flag.String("report", "", "force a single report kind (daily|weekly|monthly|quarterly|semi_annual|annual)")
	daemon := flag.Bool("daemon", false, "keep running the pipeline on an interval")
	interval := flag.Duration("interval", 0, "daemon run interval (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address in daemon mode")
	dryRun := flag.Bool("dry-run", false, "run the pipeline without sending email")
	flag.Var(&feeds, "feed", "feed as name=url (repeatable; replaces the configured feed list)")
	flag.Parse()

	cfg := config.Load(*configPath)
	if len(feeds) > 0 {
		cfg.Feeds = feeds
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	opts := app.Options{
		Limit:       *limit,
		Daemon:      *daemon,
		Interval:    *interval,
		MetricsAddr: *metricsAddr,
		DryRun:      *dryRun,
	}
	if *report != "" {
		kind := domain.ReportKind(*report)
		if !kind.Valid() {
			fmt.Fprintf(os.Stderr, "unknown report kind %q\n", *report)
			os.Exit(2)
		}
		opts.Report = kind
	}

	application, err := app.New(cfg, opts, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("interrupt received, cancelling")
		cancel()
	}()

	started := time.Now()
	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("done", "elapsed", time.Since(started).Round(time.Millisecond))
}
