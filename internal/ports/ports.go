package ports

import (
	"context"
	"time"

	"geoeconews/internal/domain"
)

// NewsSource pulls fresh article candidates from all configured providers.
// Implementations isolate per-source failures: a broken source contributes
// nothing instead of failing the whole fetch.
type NewsSource interface {
	FetchAll(ctx context.Context) ([]domain.NewsItem, error)
}

// Store opens one transactional unit of work per pipeline phase. All
// uniqueness checks (NewsItem.URL, Alert(user,url)) run against the same
// transaction that performs the corresponding inserts.
type Store interface {
	Begin(ctx context.Context) (StoreTx, error)
}

// StoreTx is a single transaction over news and alert state. Commit or
// Rollback must be called exactly once.
type StoreTx interface {
	// ExistingURLs reports which of the given canonical URLs are already stored.
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
	InsertNews(ctx context.Context, item domain.NewsItem) error
	// UnprocessedNews returns every stored item with Processed == false.
	UnprocessedNews(ctx context.Context) ([]domain.NewsItem, error)
	AlertExists(ctx context.Context, userID int64, newsURL string) (bool, error)
	InsertAlert(ctx context.Context, alert domain.Alert) error
	MarkProcessed(ctx context.Context, newsID int64) error
	Commit() error
	Rollback() error
}

// SubscriberDirectory is read-only access to user subscription state owned
// by the web layer.
type SubscriberDirectory interface {
	// OptedIn returns subscribers whose preference flag for the category is set.
	// Plan/trial gating is applied by the caller.
	OptedIn(ctx context.Context, category domain.Category) ([]domain.Subscriber, error)
}

// Notifier dispatches a single alert message. The boolean result is the whole
// contract: true only on an explicit success from the messaging endpoint,
// false on bad configuration, invalid recipient, or any transport failure.
type Notifier interface {
	Send(ctx context.Context, phone string, item domain.NewsItem) bool
}

// Scheduler controls when pipeline cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
