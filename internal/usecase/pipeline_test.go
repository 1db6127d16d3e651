package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
)

type fakeSource struct {
	articles []domain.Article
	err      error
}

func (f *fakeSource) Fetch(_ context.Context) ([]domain.Article, error) {
	return f.articles, f.err
}

type fakeResults struct {
	mu        sync.Mutex
	processed map[string]bool
	saved     []domain.ScreeningResult
}

func (f *fakeResults) AlreadyProcessed(_ context.Context, ids []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range ids {
		if f.processed[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeResults) SaveResult(_ context.Context, result domain.ScreeningResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, result)
	return nil
}

type fakeMailer struct {
	sent []domain.Report
	err  error
}

func (f *fakeMailer) SendReport(_ context.Context, report domain.Report) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, report)
	return nil
}

func newTestPipeline(t *testing.T, source *fakeSource, results *fakeResults, mailer *fakeMailer, history *fakeHistory) *Pipeline {
	t.Helper()

	chat := &fakeChat{reply: `{"scores": [{"id": 0, "score": 95, "label": "macro", "reason": "fed"}, {"id": 1, "score": 40, "label": "other", "reason": "minor"}, {"id": 2, "score": 60, "label": "tech", "reason": "launch"}]}`}
	screener := NewTierOneScreener(chat, "tier1", config.ScreeningConfig{BatchSize: 20, BatchConcurrency: 1}, nil)
	writer := NewReportWriter(&fakeChat{reply: "<h3>CHAPTER 1</h3>report body"}, "tier2", "summary", nil)

	return NewPipeline(PipelineDeps{
		Source:     source,
		Screener:   screener,
		Analyst:    writer,
		Summarizer: writer,
		Results:    results,
		History:    history,
		Mailer:     mailer,
		TopPercent: 5,
		MinSelect:  1,
	})
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: testArticles(3)}
	results := &fakeResults{}
	mailer := &fakeMailer{}
	history := &fakeHistory{}
	pipeline := newTestPipeline(t, source, results, mailer, history)

	now := time.Date(2025, 11, 12, 7, 0, 0, 0, time.UTC) // plain Wednesday
	if err := pipeline.Run(context.Background(), now, nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(results.saved) != 3 {
		t.Fatalf("expected 3 persisted results, got %d", len(results.saved))
	}

	var selected int
	for _, result := range results.saved {
		if result.Status == domain.StatusSelected {
			selected++
			if result.Article.ID != "article-0" {
				t.Fatalf("expected best-scored article selected, got %s", result.Article.ID)
			}
		}
	}
	if selected != 1 {
		t.Fatalf("expected 1 selected result, got %d", selected)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 delivered report, got %d", len(mailer.sent))
	}
	if mailer.sent[0].Kind != domain.ReportDaily {
		t.Fatalf("expected daily report, got %s", mailer.sent[0].Kind)
	}

	if len(history.entries[domain.ReportDaily]) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history.entries[domain.ReportDaily]))
	}
}

func TestPipelineSkipsProcessed(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: testArticles(3)}
	results := &fakeResults{processed: map[string]bool{
		"article-0": true,
		"article-1": true,
		"article-2": true,
	}}
	pipeline := newTestPipeline(t, source, results, &fakeMailer{}, &fakeHistory{})

	if err := pipeline.Run(context.Background(), time.Now(), nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results.saved) != 0 {
		t.Fatalf("expected no new results, got %d", len(results.saved))
	}
}

func TestPipelineReportsFetchError(t *testing.T) {
	t.Parallel()

	pipeline := newTestPipeline(t,
		&fakeSource{err: fmt.Errorf("feeds unreachable")},
		&fakeResults{}, &fakeMailer{}, &fakeHistory{})

	if err := pipeline.Run(context.Background(), time.Now(), nil); err == nil {
		t.Fatal("expected fetch error to surface")
	}
}

func TestPipelineForcedKind(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	pipeline := newTestPipeline(t, &fakeSource{articles: testArticles(3)}, &fakeResults{}, mailer, &fakeHistory{})

	kinds := []domain.ReportKind{domain.ReportWeekly}
	if err := pipeline.Run(context.Background(), time.Now(), kinds); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Kind != domain.ReportWeekly {
		t.Fatalf("expected forced weekly report, got %+v", mailer.sent)
	}
}
