package source

import (
	"context"
	"fmt"
	"log/slog"

	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
	"NewsScreener/internal/ports"
)

// Aggregate implements ArticleSource over all configured feeds. A feed
// that fails to pull is logged and skipped so one dead upstream cannot
// sink the whole run.
type Aggregate struct {
	registry *Registry
	feeds    []config.FeedConfig
	limit    int
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*Aggregate)(nil)

// NewAggregate wires the source registry with config-defined feeds.
func NewAggregate(reg *Registry, feeds []config.FeedConfig, limit int, log *slog.Logger) *Aggregate {
	return &Aggregate{
		registry: reg,
		feeds:    feeds,
		limit:    limit,
		logger:   log,
	}
}

// Fetch iterates over configured feeds and executes their sources.
func (a *Aggregate) Fetch(ctx context.Context) ([]domain.Article, error) {
	if a.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	a.debug("fetch", "feeds", len(a.feeds), "limit", a.limit)

	var aggregated []domain.Article
	seen := map[string]struct{}{}
	failed := 0

	for _, feed := range a.feeds {
		strategy, err := a.registry.Resolve(feed.Source)
		if err != nil {
			failed++
			a.warn("feed has no usable source", "feed", feed.Name, "source", feed.Source, "error", err)
			continue
		}

		results, err := strategy.Pull(ctx, Request{
			FeedName: feed.Name,
			URL:      feed.URL,
			Limit:    a.limit,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			a.warn("feed pull failed", "feed", feed.Name, "error", err)
			continue
		}

		for _, article := range results {
			if article.Source == "" {
				article.Source = feed.Name
			}
			if _, ok := seen[article.ID]; ok {
				continue
			}
			seen[article.ID] = struct{}{}
			aggregated = append(aggregated, article)
		}
		a.debug("feed pulled", "feed", feed.Name, "count", len(results))
	}

	if len(aggregated) == 0 && failed == len(a.feeds) && failed > 0 {
		return nil, fmt.Errorf("all %d feeds failed", failed)
	}

	a.debug("fetch done", "total_articles", len(aggregated), "failed_feeds", failed)
	return aggregated, nil
}

func (a *Aggregate) debug(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregate) warn(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
