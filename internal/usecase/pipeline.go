package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"geoeconews/internal/domain"
	"geoeconews/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.NewsSource
	Store     ports.Store
	Directory ports.SubscriberDirectory
	Notifier  ports.Notifier
	Logger    *slog.Logger
}

// Pipeline implements one full cycle: scrape and persist fresh news, then fan
// alerts out to eligible subscribers.
type Pipeline struct {
	source    ports.NewsSource
	store     ports.Store
	directory ports.SubscriberDirectory
	notifier  ports.Notifier
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:    deps.Source,
		store:     deps.Store,
		directory: deps.Directory,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
	}
}

// RunCycle is the single entry point the scheduler invokes. Every failure,
// including a panic in an adapter, is logged and swallowed here so the
// scheduler always sees the run as completed and keeps future runs alive.
func (p *Pipeline) RunCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.error("pipeline cycle panicked", "panic", r)
		}
	}()

	if err := p.runCycle(ctx); err != nil {
		p.error("pipeline cycle failed", "error", err)
	}
}

func (p *Pipeline) runCycle(ctx context.Context) error {
	if err := p.scrape(ctx); err != nil {
		return fmt.Errorf("scrape phase: %w", err)
	}
	if err := p.fanout(ctx); err != nil {
		return fmt.Errorf("fanout phase: %w", err)
	}
	return nil
}

// scrape collects candidates from every source and persists the previously
// unseen ones, all inside one transaction. Any persistence error rolls the
// whole batch back.
func (p *Pipeline) scrape(ctx context.Context) error {
	if p.source == nil || p.store == nil {
		return nil
	}

	candidates, err := p.source.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}
	if len(candidates) == 0 {
		p.debug("no candidates scraped")
		return nil
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}

	existing, err := tx.ExistingURLs(ctx, urls)
	if err != nil {
		return err
	}

	inserted := 0
	for _, candidate := range candidates {
		if existing[candidate.URL] {
			continue
		}
		// Guards against the same URL appearing twice in one batch.
		existing[candidate.URL] = true

		candidate.Processed = false
		if err := tx.InsertNews(ctx, candidate); err != nil {
			return err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	p.info("scrape phase done", "candidates", len(candidates), "inserted", inserted)
	return nil
}

// fanout evaluates every unprocessed item. Items at or above the impact
// threshold are matched to eligible subscribers; everything in scope is
// marked processed exactly once, whatever the dispatch outcomes were.
func (p *Pipeline) fanout(ctx context.Context) error {
	if p.store == nil {
		return nil
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	items, err := tx.UnprocessedNews(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, item := range items {
		if item.Alertable() {
			if err := p.fanoutItem(ctx, tx, item, now); err != nil {
				return fmt.Errorf("fanout item %s: %w", item.URL, err)
			}
		}

		if err := tx.MarkProcessed(ctx, item.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	p.info("fanout phase done", "items", len(items))
	return nil
}

// fanoutItem alerts every eligible subscriber for one item. A directory
// failure means no user was evaluated, so it propagates: the run's
// transaction rolls back, the item stays unprocessed, and the next cycle
// retries it with the (user,url) checks keeping the retry idempotent.
func (p *Pipeline) fanoutItem(ctx context.Context, tx ports.StoreTx, item domain.NewsItem, now time.Time) error {
	if p.directory == nil {
		return nil
	}

	subscribers, err := p.directory.OptedIn(ctx, item.Category)
	if err != nil {
		return fmt.Errorf("load subscribers for %s: %w", item.Category, err)
	}

	for _, sub := range subscribers {
		if !sub.Eligible(now) {
			continue
		}
		p.alertSubscriber(ctx, tx, sub, item)
	}

	return nil
}

// alertSubscriber creates one alert record and dispatches the notification.
// The (user, url) existence check makes re-runs idempotent; every failure is
// logged and isolated to this subscriber.
func (p *Pipeline) alertSubscriber(ctx context.Context, tx ports.StoreTx, sub domain.Subscriber, item domain.NewsItem) {
	exists, err := tx.AlertExists(ctx, sub.ID, item.URL)
	if err != nil {
		p.warn("check alert existence", "user", sub.Email, "url", item.URL, "error", err)
		return
	}
	if exists {
		return
	}

	alert := domain.Alert{
		UserID:   sub.ID,
		Title:    item.Title,
		Content:  item.Content,
		Category: item.Category,
		NewsURL:  item.URL,
		SentAt:   time.Now().UTC(),
	}
	if err := tx.InsertAlert(ctx, alert); err != nil {
		p.warn("insert alert", "user", sub.Email, "url", item.URL, "error", err)
		return
	}

	sent := false
	if p.notifier != nil {
		sent = p.notifier.Send(ctx, sub.Phone, item)
	}
	p.info("alert dispatched", "user", sub.Email, "title", shorten(item.Title), "sent", sent)
}

// shorten trims long titles for log lines.
func shorten(title string) string {
	runes := []rune(title)
	if len(runes) <= 50 {
		return title
	}
	return string(runes[:50]) + "..."
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
