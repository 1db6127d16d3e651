package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
	"NewsScreener/internal/ports"
	"NewsScreener/internal/textutil"
)

const (
	fallbackScore      = 50
	screeningMaxTokens = 2000
	batchSnippetChars  = 500
)

var jsonObjectExpr = regexp.MustCompile(`(?s)\{.*\}`)

const screeningSystemPrompt = `You are a global investment strategist. For each news item you rate
how important it is for investment decisions on a 0-100 scale, considering
market-wide impact, direct sector impact, novelty of the information, and
whether it suggests a concrete action.`

// TierOneScreener scores articles in batches through the cheap model.
// A batch that cannot be scored degrades to a neutral score instead of
// dropping its articles.
type TierOneScreener struct {
	chat   ports.ChatCompleter
	model  string
	cfg    config.ScreeningConfig
	logger *slog.Logger
}

var _ ports.Screener = (*TierOneScreener)(nil)

// NewTierOneScreener wires the completion client with screening settings.
func NewTierOneScreener(chat ports.ChatCompleter, model string, cfg config.ScreeningConfig, log *slog.Logger) *TierOneScreener {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 2
	}
	return &TierOneScreener{chat: chat, model: model, cfg: cfg, logger: log}
}

// Screen scores every article. Batches run concurrently, bounded by a
// weighted semaphore; result order follows the input order.
func (s *TierOneScreener) Screen(ctx context.Context, articles []domain.Article) ([]domain.ScreeningResult, error) {
	if s.chat == nil {
		return nil, fmt.Errorf("screener has no completion client")
	}
	if len(articles) == 0 {
		return nil, nil
	}

	results := make([]domain.ScreeningResult, len(articles))
	sem := semaphore.NewWeighted(int64(s.cfg.BatchConcurrency))

	var firstErr error
	for start := 0; start < len(articles); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(articles) {
			end = len(articles)
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			firstErr = err
			break
		}
		go func(start, end int) {
			defer sem.Release(1)
			s.screenBatch(ctx, articles[start:end], results[start:end])
		}(start, end)
	}

	// Draining the semaphore waits for in-flight batches.
	if err := sem.Acquire(context.Background(), int64(s.cfg.BatchConcurrency)); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (s *TierOneScreener) screenBatch(ctx context.Context, batch []domain.Article, out []domain.ScreeningResult) {
	now := time.Now().UTC()
	for i, article := range batch {
		out[i] = domain.ScreeningResult{
			Article:   article,
			Score:     fallbackScore,
			Status:    domain.StatusFetched,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	reply, err := s.chat.Complete(ctx, ports.CompletionRequest{
		Model:     s.model,
		System:    screeningSystemPrompt,
		Prompt:    buildScoringPrompt(batch),
		MaxTokens: screeningMaxTokens,
	})
	if err != nil {
		s.failBatch(out, fmt.Errorf("score batch: %w", err))
		return
	}

	scores, err := parseScores(reply)
	if err != nil {
		s.failBatch(out, fmt.Errorf("parse scores: %w", err))
		return
	}

	for _, item := range scores {
		if item.ID < 0 || item.ID >= len(out) {
			continue
		}
		out[item.ID].Score = clampScore(item.Score)
		out[item.ID].Reason = item.Reason
		out[item.ID].Label = item.Label
		out[item.ID].Status = domain.StatusScreened
	}
}

func (s *TierOneScreener) failBatch(out []domain.ScreeningResult, err error) {
	if s.logger != nil {
		s.logger.Warn("screening batch degraded to neutral score", "size", len(out), "error", err)
	}
	for i := range out {
		out[i].Status = domain.StatusFailed
		out[i].Error = err.Error()
	}
}

func buildScoringPrompt(batch []domain.Article) string {
	var b strings.Builder
	b.WriteString("Rate each news item below. Respond with JSON only, no other text, in exactly this shape:\n")
	b.WriteString(`{"scores": [{"id": 0, "score": 85, "label": "macro", "reason": "one line"}, ...]}`)
	b.WriteString("\nAllowed labels: macro, markets, tech, energy, crypto, geopolitics, other.\n\nNews items:\n")
	for i, article := range batch {
		fmt.Fprintf(&b, "[%d] %s | %s | %s\n",
			i, article.Source, article.Title, textutil.Truncate(article.Content, batchSnippetChars))
	}
	return b.String()
}

type scoreItem struct {
	ID     int    `json:"id"`
	Score  int    `json:"score"`
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// parseScores extracts the outermost JSON object from the model reply,
// tolerating code fences or prose around it.
func parseScores(reply string) ([]scoreItem, error) {
	match := jsonObjectExpr.FindString(reply)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var parsed struct {
		Scores []scoreItem `json:"scores"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal scores: %w", err)
	}
	if len(parsed.Scores) == 0 {
		return nil, fmt.Errorf("reply contains no scores")
	}
	return parsed.Scores, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// SelectTop sorts results by score descending and keeps topPercent of
// them, never fewer than minSelect (or everything when the pool is
// smaller). Selected results are marked StatusSelected.
func SelectTop(results []domain.ScreeningResult, topPercent, minSelect int) []domain.ScreeningResult {
	if len(results) == 0 {
		return nil
	}
	if topPercent <= 0 {
		topPercent = 5
	}
	if minSelect <= 0 {
		minSelect = 3
	}

	sorted := make([]domain.ScreeningResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	keep := len(sorted) * topPercent / 100
	if keep < minSelect {
		keep = minSelect
	}
	if keep > len(sorted) {
		keep = len(sorted)
	}

	selected := sorted[:keep]
	for i := range selected {
		if selected[i].Status != domain.StatusFailed {
			selected[i].Status = domain.StatusSelected
		}
	}
	return selected
}
