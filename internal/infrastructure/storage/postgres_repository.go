package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"geoeconews/internal/domain"
	"geoeconews/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists news items and alerts. Each pipeline phase runs
// inside one transaction so uniqueness checks and inserts see the same state.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.Store = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the pipeline-owned tables if they are missing. The
// users and categories tables belong to the web layer and are not touched.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("postgres store has no database handle")
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS news_items (
		id           BIGSERIAL PRIMARY KEY,
		title        VARCHAR(300) NOT NULL,
		content      TEXT NOT NULL,
		url          VARCHAR(500) NOT NULL UNIQUE,
		category     VARCHAR(50) NOT NULL,
		source       VARCHAR(100) NOT NULL,
		published_at TIMESTAMPTZ NOT NULL,
		scraped_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		impact_score INTEGER NOT NULL DEFAULT 1,
		processed    BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE TABLE IF NOT EXISTS alerts (
		id        BIGSERIAL PRIMARY KEY,
		user_id   BIGINT NOT NULL,
		title     VARCHAR(300) NOT NULL,
		content   TEXT NOT NULL,
		category  VARCHAR(50) NOT NULL,
		news_url  VARCHAR(500) NOT NULL,
		sent_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, news_url)
	);
	CREATE INDEX IF NOT EXISTS idx_news_items_processed ON news_items (processed);
	CREATE INDEX IF NOT EXISTS idx_alerts_user ON alerts (user_id);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

// Begin opens one transactional unit of work.
func (s *PostgresStore) Begin(ctx context.Context) (ports.StoreTx, error) {
	if s.db == nil {
		return nil, errors.New("postgres store has no database handle")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx *sql.Tx
}

var _ ports.StoreTx = (*postgresTx)(nil)

// ExistingURLs returns a map with the URLs already stored.
func (t *postgresTx) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(urls) == 0 {
		return result, nil
	}

	query := `SELECT url FROM news_items WHERE url = ANY($1)`

	rows, err := t.tx.QueryContext(ctx, query, pq.StringArray(urls))
	if err != nil {
		return nil, fmt.Errorf("query existing urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[u] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// InsertNews stores a freshly scraped item.
func (t *postgresTx) InsertNews(ctx context.Context, item domain.NewsItem) error {
	query, args, err := psql.Insert("news_items").
		Columns("title", "content", "url", "category", "source", "published_at", "scraped_at", "impact_score", "processed").
		Values(item.Title, item.Content, item.URL, string(item.Category), item.Source,
			item.PublishedAt, item.ScrapedAt, item.ImpactScore, item.Processed).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert news: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert news %s: %w", item.URL, err)
	}

	return nil
}

// UnprocessedNews loads every item still waiting for fanout.
func (t *postgresTx) UnprocessedNews(ctx context.Context) ([]domain.NewsItem, error) {
	query, args, err := psql.Select("id", "title", "content", "url", "category", "source",
		"published_at", "scraped_at", "impact_score", "processed").
		From("news_items").
		Where(sq.Eq{"processed": false}).
		OrderBy("scraped_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select unprocessed: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed: %w", err)
	}
	defer rows.Close()

	var items []domain.NewsItem
	for rows.Next() {
		var item domain.NewsItem
		var category string
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.URL, &category,
			&item.Source, &item.PublishedAt, &item.ScrapedAt, &item.ImpactScore, &item.Processed); err != nil {
			return nil, fmt.Errorf("scan news item: %w", err)
		}
		item.Category = domain.Category(category)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return items, nil
}

// AlertExists checks the (user, url) idempotence key.
func (t *postgresTx) AlertExists(ctx context.Context, userID int64, newsURL string) (bool, error) {
	query, args, err := psql.Select("1").
		From("alerts").
		Where(sq.Eq{"user_id": userID, "news_url": newsURL}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build alert exists: %w", err)
	}

	var one int
	err = t.tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query alert exists: %w", err)
	}

	return true, nil
}

// InsertAlert records one notification for one user.
func (t *postgresTx) InsertAlert(ctx context.Context, alert domain.Alert) error {
	query, args, err := psql.Insert("alerts").
		Columns("user_id", "title", "content", "category", "news_url", "sent_at").
		Values(alert.UserID, alert.Title, alert.Content, string(alert.Category), alert.NewsURL, alert.SentAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert alert: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert alert user=%d url=%s: %w", alert.UserID, alert.NewsURL, err)
	}

	return nil
}

// MarkProcessed flips the one-way processed flag.
func (t *postgresTx) MarkProcessed(ctx context.Context, newsID int64) error {
	query, args, err := psql.Update("news_items").
		Set("processed", true).
		Where(sq.Eq{"id": newsID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark processed: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark processed %d: %w", newsID, err)
	}

	return nil
}

func (t *postgresTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (t *postgresTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}
