package source

import (
	"context"
	"fmt"
	"testing"

	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
)

type stubSource struct {
	name     string
	articles map[string][]domain.Article // feed name -> articles
	fail     map[string]bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Pull(_ context.Context, req Request) ([]domain.Article, error) {
	if s.fail[req.FeedName] {
		return nil, fmt.Errorf("feed %s is down", req.FeedName)
	}
	return s.articles[req.FeedName], nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{name: "rss"})

	if _, err := reg.Resolve("rss"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, err := reg.Resolve("atomic"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestAggregateTolerantOfFailingFeeds(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{
		name: "rss",
		articles: map[string][]domain.Article{
			"good": {{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
		},
		fail: map[string]bool{"bad": true},
	})

	agg := NewAggregate(reg, []config.FeedConfig{
		{Name: "good", URL: "https://example.org/good", Source: "rss"},
		{Name: "bad", URL: "https://example.org/bad", Source: "rss"},
	}, 15, nil)

	articles, err := agg.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles from surviving feed, got %d", len(articles))
	}
	if articles[0].Source != "good" {
		t.Fatalf("expected source fill-in, got %q", articles[0].Source)
	}
}

func TestAggregateSkipsUnresolvedFeed(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{
		name: "rss",
		articles: map[string][]domain.Article{
			"good": {{ID: "a", Title: "A"}},
		},
	})

	agg := NewAggregate(reg, []config.FeedConfig{
		{Name: "good", URL: "https://example.org/good", Source: "rss"},
		{Name: "no-source", URL: "https://example.org/other", Source: ""},
	}, 15, nil)

	articles, err := agg.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != "a" {
		t.Fatalf("expected the healthy feed to survive, got %+v", articles)
	}
}

func TestAggregateDedupsAcrossFeeds(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{
		name: "rss",
		articles: map[string][]domain.Article{
			"one": {{ID: "same", Title: "Same story"}},
			"two": {{ID: "same", Title: "Same story"}},
		},
	})

	agg := NewAggregate(reg, []config.FeedConfig{
		{Name: "one", URL: "u1", Source: "rss"},
		{Name: "two", URL: "u2", Source: "rss"},
	}, 15, nil)

	articles, err := agg.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected duplicate collapsed, got %d", len(articles))
	}
}

func TestAggregateAllFeedsFailing(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{name: "rss", fail: map[string]bool{"bad": true}})

	agg := NewAggregate(reg, []config.FeedConfig{
		{Name: "bad", URL: "u", Source: "rss"},
	}, 15, nil)

	if _, err := agg.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when every feed fails")
	}
}

func TestAggregateUnknownStrategy(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(NewRegistry(), []config.FeedConfig{
		{Name: "x", URL: "u", Source: "carrier-pigeon"},
	}, 15, nil)

	if _, err := agg.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for unregistered strategy")
	}
}
