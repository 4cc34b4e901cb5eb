package parser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"geoeconews/internal/classify"
	"geoeconews/internal/config"
	"geoeconews/internal/domain"
	"geoeconews/internal/ports"
	"geoeconews/internal/scanner"
)

var errNoRegistry = errors.New("scanner registry is not configured")

// StrategySource implements NewsSource by fanning the configured sources out
// to their registered scanner strategies. Sources are fetched concurrently;
// a failing source is logged and contributes nothing.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.NewsSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchAll scans every configured source and returns fully classified and
// scored candidates. Only a missing registry is an error; per-source failures
// are isolated.
func (s *StrategySource) FetchAll(ctx context.Context) ([]domain.NewsItem, error) {
	if s.registry == nil {
		return nil, errNoRegistry
	}

	s.debug("fetch all sources", "sources", len(s.sources))

	results := make(chan []domain.NewsItem, len(s.sources))
	var wg sync.WaitGroup
	for _, site := range s.sources {
		wg.Add(1)
		go func(site config.SourceConfig) {
			defer wg.Done()
			items := s.scanSource(ctx, site)
			if len(items) > 0 {
				results <- items
			}
		}(site)
	}
	wg.Wait()
	close(results)

	now := time.Now().UTC()
	var aggregated []domain.NewsItem
	for batch := range results {
		for _, item := range batch {
			item.Category = classify.Categorize(item.Title, item.Content)
			item.ImpactScore = classify.ImpactScore(item.Title)
			item.ScrapedAt = now
			aggregated = append(aggregated, item)
		}
	}

	s.debug("fetch done", "total_candidates", len(aggregated))
	return aggregated, nil
}

// scanSource runs a single source end to end. Every failure path logs and
// returns nil so sibling sources keep going.
func (s *StrategySource) scanSource(ctx context.Context, site config.SourceConfig) []domain.NewsItem {
	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		s.warn("skip source", "source", site.Name, "error", err)
		return nil
	}

	req := scanner.Request{
		SourceName:  site.Name,
		URL:         site.URL,
		Selector:    site.Selector,
		MaxArticles: site.MaxArticles,
	}

	items, err := strategy.Scan(ctx, req)
	if err != nil {
		s.warn("source scan failed", "source", site.Name, "error", err)
		return nil
	}

	for i := range items {
		if items[i].Source == "" {
			items[i].Source = site.Name
		}
	}

	s.debug("source produced candidates", "source", site.Name, "count", len(items))
	return items
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
