package ports

import (
	"context"
	"time"

	"NewsScreener/internal/domain"
)

// CompletionRequest describes one LLM call.
type CompletionRequest struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int
}

// ChatCompleter pushes prompts to an LLM API and returns the text reply.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ArticleSource pulls fresh articles from configured upstream feeds.
type ArticleSource interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// Screener scores articles for relevance and assigns a label.
type Screener interface {
	Screen(ctx context.Context, articles []domain.Article) ([]domain.ScreeningResult, error)
}

// Analyst turns selected articles into a full report for the given cadence.
type Analyst interface {
	Analyze(ctx context.Context, kind domain.ReportKind, selected []domain.ScreeningResult, accumulated string) (domain.Report, error)
}

// Summarizer condenses a delivered report into a few sentences for history.
type Summarizer interface {
	Summarize(ctx context.Context, report domain.Report) (string, error)
}

// ResultRepository persists screening results for deduplication and audit.
type ResultRepository interface {
	AlreadyProcessed(ctx context.Context, ids []string) (map[string]bool, error)
	SaveResult(ctx context.Context, result domain.ScreeningResult) error
}

// HistoryRepository stores report summaries and serves accumulated context.
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	Recent(ctx context.Context, kind domain.ReportKind, n int) ([]domain.HistoryEntry, error)
	Prune(ctx context.Context, kind domain.ReportKind, keep int) error
}

// Mailer delivers a rendered report to the configured recipient.
type Mailer interface {
	SendReport(ctx context.Context, report domain.Report) error
}

// SeenCache remembers article IDs across runs so feeds are not re-screened.
type SeenCache interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

// Scheduler controls when pipeline runs execute in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
