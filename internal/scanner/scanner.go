package scanner

import (
	"context"
	"fmt"

	"geoeconews/internal/domain"
)

// Request carries everything a strategy needs to scan one configured source.
type Request struct {
	SourceName string
	// URL is the listing page (HTML strategies) or feed URL (RSS strategies).
	URL string
	// Selector locates article containers on a listing page; unused by feeds.
	Selector string
	// MaxArticles bounds the number of candidates taken per source.
	MaxArticles int
}

// Scanner is a single source-scanning strategy (HTML listing, RSS feed, ...).
// Implementations return candidates with title, excerpt, URL, source and
// published time filled in; categorization and scoring happen downstream.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.NewsItem, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
