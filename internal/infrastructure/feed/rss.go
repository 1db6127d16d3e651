package feed

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsScreener/internal/domain"
	"NewsScreener/internal/source"
	"NewsScreener/internal/textutil"
)

const (
	defaultItemLimit = 15
	userAgent        = "NewsScreener/1.0"
)

// RSSSource pulls articles from RSS/Atom feeds via gofeed.
type RSSSource struct {
	parser          *gofeed.Parser
	maxContentChars int
}

var _ source.Source = (*RSSSource)(nil)

// NewRSSSource wires an HTTP client into the gofeed parser; a nil client
// gets a tuned default transport.
func NewRSSSource(client *http.Client, maxContentChars int) *RSSSource {
	if client == nil {
		client = NewHTTPClient(20 * time.Second)
	}
	if maxContentChars <= 0 {
		maxContentChars = 3000
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &RSSSource{parser: parser, maxContentChars: maxContentChars}
}

// Name identifies the strategy inside the registry.
func (s *RSSSource) Name() string {
	return "rss"
}

// Pull parses the feed and maps up to req.Limit items into articles.
// Items without a title are dropped; content prefers the full body over
// the description and is cleaned and capped.
func (s *RSSSource) Pull(ctx context.Context, req source.Request) ([]domain.Article, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("feed %s has no url", req.FeedName)
	}

	parsed, err := s.parser.ParseURLWithContext(req.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", req.FeedName, err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultItemLimit
	}

	articles := make([]domain.Article, 0, limit)
	for _, item := range parsed.Items {
		if len(articles) >= limit {
			break
		}
		article, ok := s.mapItem(item, req.FeedName)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (s *RSSSource) mapItem(item *gofeed.Item, feedName string) (domain.Article, bool) {
	title := textutil.CleanFeedText(item.Title)
	if title == "" {
		return domain.Article{}, false
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}
	content = textutil.Truncate(textutil.CleanFeedText(content), s.maxContentChars)

	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if id == "" {
		id = feedName + "/" + title
	}

	publishedAt := time.Now().UTC()
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed.UTC()
	}

	return domain.Article{
		ID:          id,
		Title:       title,
		Content:     content,
		URL:         item.Link,
		Source:      feedName,
		PublishedAt: publishedAt,
	}, true
}

// NewHTTPClient builds an HTTP client with a bounded dialer and pooled
// transport, shared by feed pulling.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
