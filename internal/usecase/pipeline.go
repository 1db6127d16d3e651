package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsScreener/internal/domain"
	"NewsScreener/internal/metrics"
	"NewsScreener/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Screener   ports.Screener
	Analyst    ports.Analyst
	Summarizer ports.Summarizer
	Results    ports.ResultRepository
	History    ports.HistoryRepository
	Mailer     ports.Mailer
	Seen       ports.SeenCache
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	TopPercent int
	MinSelect  int
	DryRun     bool
}

// Pipeline implements the screening workflow: fetch, dedup, score,
// persist, then generate and deliver every due report.
type Pipeline struct {
	source     ports.ArticleSource
	screener   ports.Screener
	analyst    ports.Analyst
	summarizer ports.Summarizer
	results    ports.ResultRepository
	history    ports.HistoryRepository
	mailer     ports.Mailer
	seen       ports.SeenCache
	metrics    *metrics.Metrics
	logger     *slog.Logger
	topPercent int
	minSelect  int
	dryRun     bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		screener:   deps.Screener,
		analyst:    deps.Analyst,
		summarizer: deps.Summarizer,
		results:    deps.Results,
		history:    deps.History,
		mailer:     deps.Mailer,
		seen:       deps.Seen,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		topPercent: deps.TopPercent,
		minSelect:  deps.MinSelect,
		dryRun:     deps.DryRun,
	}
}

// Run executes one full screening cycle. An empty kinds slice lets the
// calendar decide which reports are due. Report failures are recorded
// per kind and do not abort the remaining kinds.
func (p *Pipeline) Run(ctx context.Context, now time.Time, kinds []domain.ReportKind) error {
	if p.source == nil || p.screener == nil {
		return fmt.Errorf("pipeline is missing source or screener")
	}

	runID := uuid.New().String()
	started := time.Now()
	if len(kinds) == 0 {
		kinds = DueReports(now)
	}
	p.info("run started", "run_id", runID, "kinds", kinds)

	articles, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch articles: %w", err)
	}
	p.count(func(m *metrics.Metrics) { m.ArticlesFetched.Add(float64(len(articles))) })

	fresh, err := p.dropProcessed(ctx, articles)
	if err != nil {
		return err
	}
	p.info("articles fetched", "run_id", runID, "total", len(articles), "fresh", len(fresh))
	if len(fresh) == 0 {
		p.info("nothing to screen", "run_id", runID)
		return nil
	}

	results, err := p.screener.Screen(ctx, fresh)
	if err != nil {
		return fmt.Errorf("screen articles: %w", err)
	}
	p.count(func(m *metrics.Metrics) { m.ArticlesScreened.Add(float64(len(results))) })

	selected := SelectTop(results, p.topPercent, p.minSelect)
	p.persistResults(ctx, results, selected)
	p.info("screening done", "run_id", runID, "screened", len(results), "selected", len(selected))

	var reportErrs int
	for _, kind := range kinds {
		if err := p.runReport(ctx, kind, selected); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			reportErrs++
			p.count(func(m *metrics.Metrics) { m.ReportFailures.WithLabelValues(string(kind)).Inc() })
			p.warn("report failed", "run_id", runID, "kind", kind, "error", err)
			continue
		}
		p.count(func(m *metrics.Metrics) { m.ReportsSent.WithLabelValues(string(kind)).Inc() })
	}

	p.count(func(m *metrics.Metrics) {
		m.RunsTotal.Inc()
		m.RunDuration.Observe(time.Since(started).Seconds())
	})
	p.info("run finished", "run_id", runID, "duration", time.Since(started).Round(time.Millisecond))

	if reportErrs == len(kinds) && len(kinds) > 0 {
		return fmt.Errorf("all %d reports failed", reportErrs)
	}
	return nil
}

// dropProcessed filters out articles already persisted or present in the
// cross-run seen cache. Cache errors degrade to "not seen".
func (p *Pipeline) dropProcessed(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	skip := map[string]bool{}
	if p.results != nil && len(articles) > 0 {
		ids := make([]string, len(articles))
		for i, article := range articles {
			ids[i] = article.ID
		}
		var err error
		skip, err = p.results.AlreadyProcessed(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load processed: %w", err)
		}
	}

	fresh := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if skip[article.ID] {
			continue
		}
		if p.seen != nil {
			seen, err := p.seen.Seen(ctx, article.ID)
			if err != nil {
				p.warn("seen cache lookup failed", "id", article.ID, "error", err)
			} else if seen {
				continue
			}
		}
		fresh = append(fresh, article)
	}
	return fresh, nil
}

func (p *Pipeline) persistResults(ctx context.Context, results, selected []domain.ScreeningResult) {
	selectedIDs := make(map[string]bool, len(selected))
	for _, result := range selected {
		selectedIDs[result.Article.ID] = true
	}

	for _, result := range results {
		if selectedIDs[result.Article.ID] && result.Status != domain.StatusFailed {
			result.Status = domain.StatusSelected
		}
		if result.Status == domain.StatusFailed {
			p.count(func(m *metrics.Metrics) { m.ArticlesFailed.Inc() })
		}

		if p.results != nil {
			if err := p.results.SaveResult(ctx, result); err != nil {
				p.warn("persist result failed", "id", result.Article.ID, "error", err)
				continue
			}
			p.count(func(m *metrics.Metrics) { m.ResultsSaved.Inc() })
		}
		if p.seen != nil {
			if err := p.seen.Mark(ctx, result.Article.ID); err != nil {
				p.warn("seen cache mark failed", "id", result.Article.ID, "error", err)
			}
		}
	}
}

func (p *Pipeline) runReport(ctx context.Context, kind domain.ReportKind, selected []domain.ScreeningResult) error {
	if p.analyst == nil {
		return fmt.Errorf("pipeline has no analyst")
	}

	accumulated, err := BuildAccumulatedContext(ctx, p.history, kind)
	if err != nil {
		p.warn("accumulated context unavailable", "kind", kind, "error", err)
		accumulated = ""
	}

	report, err := p.analyst.Analyze(ctx, kind, selected, accumulated)
	if err != nil {
		return err
	}

	if p.mailer != nil && !p.dryRun {
		if err := p.mailer.SendReport(ctx, report); err != nil {
			return fmt.Errorf("deliver %s report: %w", kind, err)
		}
	}

	if p.history == nil {
		return nil
	}

	summary := "summary unavailable"
	if p.summarizer != nil {
		if s, err := p.summarizer.Summarize(ctx, report); err != nil {
			p.warn("summarize report failed", "kind", kind, "error", err)
		} else {
			summary = s
		}
	}

	entry := domain.HistoryEntry{Kind: kind, Summary: summary, CreatedAt: time.Now().UTC()}
	if err := p.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if err := p.history.Prune(ctx, kind, kind.HistoryLimit()); err != nil {
		p.warn("prune history failed", "kind", kind, "error", err)
	}
	return nil
}

func (p *Pipeline) count(fn func(*metrics.Metrics)) {
	if p.metrics != nil {
		fn(p.metrics)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
