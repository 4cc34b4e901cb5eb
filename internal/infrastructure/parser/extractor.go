package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Sentinels returned instead of an error; callers store them verbatim.
	contentUnavailable = "Conteúdo não disponível"
	contentError       = "Erro ao extrair conteúdo"

	excerptMaxChars  = 500
	excerptMaxBlocks = 5
)

// contentSelectors are tried in priority order; the first one yielding any
// nodes wins and later selectors are never merged in.
var contentSelectors = []string{
	"article p",
	".content p",
	".article-content p",
	".post-content p",
	"main p",
}

// Extractor pulls a bounded plain-text excerpt out of an article page.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

// NewExtractor wires an HTTP client; a nil client gets a 10s timeout default.
func NewExtractor(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Extractor{client: client, logger: logger}
}

// Excerpt fetches the article and returns up to 500 characters assembled from
// the first matching content selector. It never fails: fetch or parse
// problems come back as the error sentinel, an empty page as the
// unavailability sentinel.
func (e *Extractor) Excerpt(ctx context.Context, articleURL string) string {
	doc, err := e.fetchDocument(ctx, articleURL)
	if err != nil {
		e.warn("extract content", "url", articleURL, "error", err)
		return contentError
	}

	for _, selector := range contentSelectors {
		paragraphs := doc.Find(selector)
		if paragraphs.Length() == 0 {
			continue
		}

		blocks := make([]string, 0, excerptMaxBlocks)
		paragraphs.EachWithBreak(func(i int, p *goquery.Selection) bool {
			if i >= excerptMaxBlocks {
				return false
			}
			blocks = append(blocks, strings.TrimSpace(p.Text()))
			return true
		})

		content := strings.TrimSpace(strings.Join(blocks, " "))
		if content == "" {
			break
		}
		return truncateExcerpt(content)
	}

	return contentUnavailable
}

func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "GeoecoNews/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// truncateExcerpt caps the excerpt at the character limit without splitting a
// multi-byte rune.
func truncateExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptMaxChars {
		return content
	}
	return string(runes[:excerptMaxChars])
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
