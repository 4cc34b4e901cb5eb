package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"geoeconews/internal/scanner"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Feed de Economia</title>
    <item>
      <title>Petróleo dispara após corte de produção</title>
      <link>https://example.com/petroleo-dispara</link>
      <description>Commodities em alta no mercado internacional.</description>
      <pubDate>Mon, 10 Aug 2026 12:30:00 GMT</pubDate>
    </item>
    <item>
      <title>curto</title>
      <link>https://example.com/curto</link>
    </item>
    <item>
      <title>Notícia sem link deve ser descartada</title>
    </item>
  </channel>
</rss>`

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	sc := NewRSSScanner(nil, nil)
	items, err := sc.Scan(context.Background(), scanner.Request{
		SourceName: "Feed Economia",
		URL:        server.URL,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item after skips, got %d", len(items))
	}

	item := items[0]
	if item.Title != "Petróleo dispara após corte de produção" {
		t.Fatalf("unexpected title: %s", item.Title)
	}
	if item.URL != "https://example.com/petroleo-dispara" {
		t.Fatalf("unexpected link: %s", item.URL)
	}
	if item.Content != "Commodities em alta no mercado internacional." {
		t.Fatalf("expected feed description as excerpt, got %q", item.Content)
	}
	if item.Source != "Feed Economia" {
		t.Fatalf("unexpected source: %s", item.Source)
	}
	if item.PublishedAt.IsZero() {
		t.Fatal("expected published time parsed from feed")
	}
}

const markupFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Feed com HTML</title>
    <item>
      <title>Inflação acelera e pressiona juros</title>
      <link>https://example.com/inflacao-acelera</link>
      <description><![CDATA[<p>O <strong>IPCA</strong> subiu acima do esperado.</p><img src="https://example.com/t.gif"/><p>Analistas revisam projeções.</p>]]></description>
    </item>
    <item>
      <title>Dólar recua com fluxo estrangeiro</title>
      <link>https://example.com/dolar-recua</link>
      <description>&lt;div&gt;Moeda fecha em queda de 1%.&lt;/div&gt;</description>
    </item>
  </channel>
</rss>`

func TestRSSScannerStripsDescriptionMarkup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(markupFeedFixture))
	}))
	defer server.Close()

	sc := NewRSSScanner(nil, nil)
	items, err := sc.Scan(context.Background(), scanner.Request{
		SourceName: "Feed HTML",
		URL:        server.URL,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if got := items[0].Content; got != "O IPCA subiu acima do esperado.Analistas revisam projeções." {
		t.Fatalf("expected tags stripped from excerpt, got %q", got)
	}
	if got := items[1].Content; got != "Moeda fecha em queda de 1%." {
		t.Fatalf("expected escaped markup stripped, got %q", got)
	}
}
