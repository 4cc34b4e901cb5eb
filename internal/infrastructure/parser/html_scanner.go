package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"geoeconews/internal/domain"
	"geoeconews/internal/scanner"
)

const (
	defaultMaxArticles = 10
	minTitleChars      = 10
)

// HTMLScanner crawls a listing page and extracts article candidates from the
// configured container selector.
type HTMLScanner struct {
	client    *http.Client
	extractor *Extractor
	logger    *slog.Logger
}

var _ scanner.Scanner = (*HTMLScanner)(nil)

// NewHTMLScanner wires an HTTP client for listing pages; nil defaults to a
// 15s timeout. The extractor handles the per-article content fetch.
func NewHTMLScanner(client *http.Client, extractor *Extractor, logger *slog.Logger) *HTMLScanner {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTMLScanner{client: client, extractor: extractor, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches the listing page and walks up to MaxArticles container
// elements. Containers without a usable heading or link are skipped, never
// fatal.
func (s *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.NewsItem, error) {
	doc, err := s.fetchListing(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", req.SourceName, err)
	}

	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("source %s: invalid listing url: %w", req.SourceName, err)
	}

	selector := req.Selector
	if selector == "" {
		selector = "article"
	}
	max := req.MaxArticles
	if max <= 0 {
		max = defaultMaxArticles
	}

	var items []domain.NewsItem
	doc.Find(selector).EachWithBreak(func(i int, container *goquery.Selection) bool {
		if i >= max {
			return false
		}

		item, ok := s.parseContainer(ctx, container, base, req.SourceName)
		if !ok {
			return true
		}

		items = append(items, item)
		return true
	})

	return items, nil
}

// parseContainer extracts one candidate from an article container. The
// heading is the first h1..h4 in document order; titles shorter than 10
// characters and containers without an anchor are rejected.
func (s *HTMLScanner) parseContainer(ctx context.Context, container *goquery.Selection, base *url.URL, sourceName string) (domain.NewsItem, bool) {
	title := strings.TrimSpace(container.Find("h1, h2, h3, h4").First().Text())
	if utf8.RuneCountInString(title) < minTitleChars {
		return domain.NewsItem{}, false
	}

	href, ok := container.Find("a[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return domain.NewsItem{}, false
	}

	articleURL := resolveURL(base, href)
	if articleURL == "" {
		s.warn("skip article with unresolvable link", "source", sourceName, "href", href)
		return domain.NewsItem{}, false
	}

	excerpt := contentUnavailable
	if s.extractor != nil {
		excerpt = s.extractor.Excerpt(ctx, articleURL)
	}

	return domain.NewsItem{
		Title:       title,
		Content:     excerpt,
		URL:         articleURL,
		Source:      sourceName,
		PublishedAt: time.Now().UTC(),
	}, true
}

func (s *HTMLScanner) fetchListing(ctx context.Context, listingURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "GeoecoNews/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	return doc, nil
}

// resolveURL turns a possibly relative href into an absolute URL against the
// listing page's origin.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme == "" || resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

func (s *HTMLScanner) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
