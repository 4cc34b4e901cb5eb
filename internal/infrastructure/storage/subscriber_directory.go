package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geoeconews/internal/domain"
	"geoeconews/internal/ports"
)

// categoryFlag maps each category to its preference column. Unknown
// categories fail loudly instead of matching nobody by accident.
var categoryFlag = map[domain.Category]string{
	domain.CategoryEconomy:     "c.economy",
	domain.CategoryGeopolitics: "c.geopolitics",
	domain.CategoryMarkets:     "c.markets",
}

// PostgresDirectory reads subscriber state from the web layer's users and
// categories tables. Strictly read-only.
type PostgresDirectory struct {
	db *sql.DB
}

var _ ports.SubscriberDirectory = (*PostgresDirectory)(nil)

// NewPostgresDirectory wires a sql.DB implementation.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// OptedIn returns subscribers whose preference flag for the category is set.
func (d *PostgresDirectory) OptedIn(ctx context.Context, category domain.Category) ([]domain.Subscriber, error) {
	if d.db == nil {
		return nil, errors.New("subscriber directory has no database handle")
	}

	flag, ok := categoryFlag[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	query, args, err := psql.Select("u.id", "u.name", "u.email", "u.phone", "u.plan", "u.trial_expires",
		"c.economy", "c.geopolitics", "c.markets").
		From("users u").
		Join("categories c ON c.user_id = u.id").
		Where(flag + " = TRUE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build opted-in query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []domain.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return subscribers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSubscriber reads one users+categories row. trial_expires is nullable:
// paid plans never had a trial, and a NULL scans as the zero time, which the
// eligibility check treats as an expired trial.
func scanSubscriber(row rowScanner) (domain.Subscriber, error) {
	var s domain.Subscriber
	var plan string
	var trialExpires sql.NullTime
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &plan, &trialExpires,
		&s.Economy, &s.Geopolitics, &s.Markets); err != nil {
		return domain.Subscriber{}, err
	}
	s.Plan = domain.Plan(plan)
	if trialExpires.Valid {
		s.TrialExpires = trialExpires.Time
	}
	return s, nil
}
