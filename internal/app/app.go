package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"NewsScreener/internal/config"
	"NewsScreener/internal/dedup"
	"NewsScreener/internal/domain"
	"NewsScreener/internal/infrastructure/anthropic"
	"NewsScreener/internal/infrastructure/feed"
	"NewsScreener/internal/infrastructure/history"
	"NewsScreener/internal/infrastructure/mail"
	"NewsScreener/internal/infrastructure/scheduler"
	"NewsScreener/internal/infrastructure/storage"
	"NewsScreener/internal/logging"
	"NewsScreener/internal/metrics"
	"NewsScreener/internal/ports"
	"NewsScreener/internal/source"
	"NewsScreener/internal/textutil"
	"NewsScreener/internal/usecase"
)

// Options carries CLI-level overrides into the wiring.
type Options struct {
	Report      domain.ReportKind // force a single kind; empty lets the calendar decide
	Limit       int               // per-feed item cap override
	Daemon      bool
	Interval    time.Duration
	MetricsAddr string
	DryRun      bool
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	opts     Options
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	metrics  *metrics.Metrics
	db       *sql.DB
	seen     *dedup.Redis
}

// New builds a runnable application instance.
func New(cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if cfg.Anthropic.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not configured")
	}
	baseLogger.Info("credentials loaded",
		"anthropic_api_key", textutil.DescribeSecret(cfg.Anthropic.APIKey),
		"email_password", textutil.DescribeSecret(cfg.Email.Password))

	if opts.MetricsAddr == "" {
		opts.MetricsAddr = cfg.Daemon.MetricsAddr
	}

	app := &Application{cfg: cfg, opts: opts, logger: baseLogger}

	registry := source.NewRegistry()
	registry.Register(feed.NewRSSSource(nil, cfg.Screening.MaxContentChars))

	limit := cfg.Screening.PerFeedLimit
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	articleSource := source.NewAggregate(registry, cfg.Feeds, limit, baseLogger.With("component", "source"))

	chat := anthropic.NewClient(cfg.Anthropic)
	screener := usecase.NewTierOneScreener(chat, cfg.Anthropic.Tier1Model, cfg.Screening,
		baseLogger.With("component", "screener"))
	writer := usecase.NewReportWriter(chat, cfg.Anthropic.Tier2Model, cfg.Anthropic.SummaryModel,
		baseLogger.With("component", "report"))

	var results ports.ResultRepository
	var historyRepo ports.HistoryRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := storage.NewPostgresRepository(db)
		results = repo
		historyRepo = repo
		app.db = db
	} else {
		baseLogger.Warn("no database configured, using file-backed history", "path", cfg.History.Path)
		historyRepo = history.NewFileStore(cfg.History.Path)
	}

	var seen ports.SeenCache
	if cfg.Redis.Addr != "" {
		redisSeen := dedup.NewRedis(cfg.Redis.Addr, cfg.Redis.SeenTTL)
		app.seen = redisSeen
		seen = redisSeen
	} else {
		seen = dedup.NewMemory(0, cfg.Redis.SeenTTL)
	}

	var mailer ports.Mailer
	if cfg.Email.User != "" && cfg.Email.Password != "" && cfg.Email.Receiver != "" {
		mailer = mail.NewMailer(cfg.Email)
	} else if !opts.DryRun {
		baseLogger.Warn("email is not configured, reports will not be delivered")
	}

	if opts.Daemon && opts.MetricsAddr != "" {
		app.metrics = metrics.New()
		chat.SetRetryNotifier(app.metrics.APIRetries.Inc)
	}

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     articleSource,
		Screener:   screener,
		Analyst:    writer,
		Summarizer: writer,
		Results:    results,
		History:    historyRepo,
		Mailer:     mailer,
		Seen:       seen,
		Metrics:    app.metrics,
		Logger:     baseLogger.With("component", "pipeline"),
		TopPercent: cfg.Screening.TopPercent,
		MinSelect:  cfg.Screening.MinSelect,
		DryRun:     opts.DryRun,
	})
	return app, nil
}

// Run performs a single pipeline execution, or keeps running on an
// interval in daemon mode until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.db.PingContext(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
	}

	if !a.opts.Daemon {
		var kinds []domain.ReportKind
		if a.opts.Report != "" {
			kinds = []domain.ReportKind{a.opts.Report}
		}
		return a.pipeline.Run(ctx, time.Now().UTC(), kinds)
	}

	if a.metrics != nil {
		a.serveMetrics(ctx)
	}

	interval := a.opts.Interval
	if interval <= 0 {
		interval = a.cfg.Daemon.Interval
	}
	driver := scheduler.NewIntervalScheduler(interval)
	runner := usecase.NewRunner(driver, a.pipeline, a.logger.With("component", "runner"))
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return runner.Stop(stopCtx)
}

func (a *Application) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	server := &http.Server{Addr: a.opts.MetricsAddr, Handler: mux}

	go func() {
		a.logger.Info("metrics listener started", "addr", a.opts.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics listener stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.seen != nil {
		_ = a.seen.Close()
	}
}
