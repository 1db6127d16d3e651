package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsScreener/internal/domain"
	"NewsScreener/internal/ports"
	"NewsScreener/internal/textutil"
)

const (
	reportMaxTokens    = 8000
	summaryMaxTokens   = 300
	reportContentChars = 1500
)

// ReportWriter generates tier-2 reports and their history summaries.
type ReportWriter struct {
	chat         ports.ChatCompleter
	tier2Model   string
	summaryModel string
	logger       *slog.Logger
}

var _ ports.Analyst = (*ReportWriter)(nil)
var _ ports.Summarizer = (*ReportWriter)(nil)

// NewReportWriter wires the completion client with the analysis models.
func NewReportWriter(chat ports.ChatCompleter, tier2Model, summaryModel string, log *slog.Logger) *ReportWriter {
	return &ReportWriter{
		chat:         chat,
		tier2Model:   tier2Model,
		summaryModel: summaryModel,
		logger:       log,
	}
}

// Analyze builds the cadence prompt with accumulated context and the
// selected news block, then asks the deep model for the report body.
func (w *ReportWriter) Analyze(ctx context.Context, kind domain.ReportKind, selected []domain.ScreeningResult, accumulated string) (domain.Report, error) {
	if w.chat == nil {
		return domain.Report{}, fmt.Errorf("report writer has no completion client")
	}
	if len(selected) == 0 {
		return domain.Report{}, fmt.Errorf("no selected articles for %s report", kind)
	}

	prompt := buildReportPrompt(kind, selected, accumulated)
	if w.logger != nil {
		w.logger.Debug("generate report", "kind", kind, "articles", len(selected), "context", accumulated != "")
	}

	body, err := w.chat.Complete(ctx, ports.CompletionRequest{
		Model:     w.tier2Model,
		Prompt:    prompt,
		MaxTokens: reportMaxTokens,
	})
	if err != nil {
		return domain.Report{}, fmt.Errorf("generate %s report: %w", kind, err)
	}

	return domain.Report{
		Kind:        kind,
		Body:        textutil.CleanReportBody(body),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Summarize condenses the report into at most three sentences for the
// history store. A summarization failure is reported, not fatal: the
// caller decides whether to store a placeholder.
func (w *ReportWriter) Summarize(ctx context.Context, report domain.Report) (string, error) {
	if w.chat == nil {
		return "", fmt.Errorf("report writer has no completion client")
	}

	summary, err := w.chat.Complete(ctx, ports.CompletionRequest{
		Model:     w.summaryModel,
		Prompt:    "Summarize the following investment report in three key sentences:\n\n" + textutil.Truncate(report.Body, 3000),
		MaxTokens: summaryMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize %s report: %w", report.Kind, err)
	}
	return strings.TrimSpace(summary), nil
}

func buildReportPrompt(kind domain.ReportKind, selected []domain.ScreeningResult, accumulated string) string {
	var b strings.Builder
	b.WriteString(promptFor(kind))

	if accumulated != "" {
		b.WriteString("\n\n[Accumulated context - summaries of previous reports]\n")
		b.WriteString(accumulated)
	}

	b.WriteString("\n\n---\n[Key news that passed tier-1 screening]\n")
	for _, result := range selected {
		fmt.Fprintf(&b, "[%s] (Score: %d) %s\n", result.Article.Source, result.Score, result.Article.Title)
		if result.Label != "" || result.Reason != "" {
			fmt.Fprintf(&b, "  Label: %s | Why: %s\n", result.Label, result.Reason)
		}
		fmt.Fprintf(&b, "  Content: %s\n", textutil.Truncate(result.Article.Content, reportContentChars))
		fmt.Fprintf(&b, "  Date: %s | Link: %s\n\n",
			result.Article.PublishedAt.Format("2006-01-02 15:04 UTC"), result.Article.URL)
	}
	return b.String()
}

// contextPlan relates each cadence to the lower-cadence summaries that
// feed its accumulated context.
func contextPlan(kind domain.ReportKind) (domain.ReportKind, int, bool) {
	switch kind {
	case domain.ReportWeekly:
		return domain.ReportDaily, 7, true
	case domain.ReportMonthly:
		return domain.ReportWeekly, 4, true
	case domain.ReportQuarterly:
		return domain.ReportMonthly, 3, true
	case domain.ReportSemiAnnual:
		return domain.ReportQuarterly, 2, true
	case domain.ReportAnnual:
		return domain.ReportSemiAnnual, 2, true
	}
	return "", 0, false
}

// BuildAccumulatedContext renders recent lower-cadence summaries for the
// given kind, or an empty string when the kind has no lower cadence.
func BuildAccumulatedContext(ctx context.Context, history ports.HistoryRepository, kind domain.ReportKind) (string, error) {
	sourceKind, count, ok := contextPlan(kind)
	if !ok || history == nil {
		return "", nil
	}

	entries, err := history.Recent(ctx, sourceKind, count)
	if err != nil {
		return "", fmt.Errorf("load %s history: %w", sourceKind, err)
	}
	if len(entries) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Last %d %s report summaries]\n", len(entries), sourceKind)
	for _, entry := range entries {
		fmt.Fprintf(&b, "- %s: %s\n", entry.CreatedAt.Format("2006-01-02 15:04 UTC"), entry.Summary)
	}
	return b.String(), nil
}
