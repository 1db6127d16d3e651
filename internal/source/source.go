package source

import (
	"context"
	"fmt"

	"NewsScreener/internal/domain"
)

// Request carries all parameters required to pull one feed.
type Request struct {
	FeedName string
	URL      string
	Limit    int
}

// Source captures a single feed-pulling strategy (RSS today; room for
// API-backed providers later).
type Source interface {
	Name() string
	Pull(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}
