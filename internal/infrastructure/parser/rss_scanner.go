package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"geoeconews/internal/domain"
	"geoeconews/internal/scanner"
)

// RSSScanner reads feed-based sources. Feeds carry their own summaries, so
// the content extractor is only consulted when an item has no description.
type RSSScanner struct {
	parser    *gofeed.Parser
	extractor *Extractor
	logger    *slog.Logger
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner builds the gofeed-backed strategy.
func NewRSSScanner(extractor *Extractor, logger *slog.Logger) *RSSScanner {
	return &RSSScanner{parser: gofeed.NewParser(), extractor: extractor, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan parses the feed and converts up to MaxArticles items into candidates.
// Items without a usable title or link are skipped.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.NewsItem, error) {
	feed, err := s.parser.ParseURLWithContext(req.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("source %s: parse feed: %w", req.SourceName, err)
	}

	max := req.MaxArticles
	if max <= 0 {
		max = defaultMaxArticles
	}

	items := make([]domain.NewsItem, 0, max)
	for _, entry := range feed.Items {
		if len(items) >= max {
			break
		}

		title := strings.TrimSpace(entry.Title)
		if utf8.RuneCountInString(title) < minTitleChars {
			continue
		}

		link := strings.TrimSpace(entry.Link)
		if link == "" {
			continue
		}

		excerpt := stripMarkup(entry.Description)
		if excerpt != "" {
			excerpt = truncateExcerpt(excerpt)
		} else if s.extractor != nil {
			excerpt = s.extractor.Excerpt(ctx, link)
		} else {
			excerpt = contentUnavailable
		}

		publishedAt := time.Now().UTC()
		if entry.PublishedParsed != nil {
			publishedAt = entry.PublishedParsed.UTC()
		}

		items = append(items, domain.NewsItem{
			Title:       title,
			Content:     excerpt,
			URL:         link,
			Source:      req.SourceName,
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}

// stripMarkup flattens a feed description to plain text. Feeds routinely ship
// HTML inside descriptions; only the text survives into the stored excerpt.
func stripMarkup(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return desc
	}
	return strings.TrimSpace(doc.Text())
}
