package storage

import (
	"errors"
	"testing"
	"time"

	"geoeconews/internal/domain"
)

// stubRow feeds scanSubscriber a fixed column tuple the way database/sql
// would, including NULLs as nil.
type stubRow struct {
	cols []any
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.cols) {
		return errors.New("column count mismatch")
	}
	for i, col := range r.cols {
		switch d := dest[i].(type) {
		case *int64:
			d2, ok := col.(int64)
			if !ok {
				return errors.New("expected int64")
			}
			*d = d2
		case *string:
			d2, ok := col.(string)
			if !ok {
				return errors.New("expected string")
			}
			*d = d2
		case *bool:
			d2, ok := col.(bool)
			if !ok {
				return errors.New("expected bool")
			}
			*d = d2
		default:
			// sql.NullTime and friends implement sql.Scanner.
			scanner, ok := dest[i].(interface{ Scan(any) error })
			if !ok {
				return errors.New("unsupported destination")
			}
			if err := scanner.Scan(col); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestScanSubscriberNullTrialExpires(t *testing.T) {
	t.Parallel()

	row := stubRow{cols: []any{
		int64(3), "Ana", "ana@example.com", "5511999999999", "pro_annual", nil,
		true, false, true,
	}}

	s, err := scanSubscriber(row)
	if err != nil {
		t.Fatalf("scanSubscriber: %v", err)
	}
	if !s.TrialExpires.IsZero() {
		t.Fatalf("expected zero trial expiry for NULL column, got %v", s.TrialExpires)
	}
	if !s.Eligible(time.Now()) {
		t.Fatal("paid subscriber with NULL trial must stay eligible")
	}
	if s.Plan != domain.PlanProAnnual {
		t.Fatalf("plan = %q, want %q", s.Plan, domain.PlanProAnnual)
	}
}

func TestScanSubscriberFreeTrial(t *testing.T) {
	t.Parallel()

	expires := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	row := stubRow{cols: []any{
		int64(9), "Bruno", "bruno@example.com", "5521988887777", "free", expires,
		true, true, false,
	}}

	s, err := scanSubscriber(row)
	if err != nil {
		t.Fatalf("scanSubscriber: %v", err)
	}
	if !s.TrialExpires.Equal(expires) {
		t.Fatalf("trial expiry = %v, want %v", s.TrialExpires, expires)
	}
	if !s.Eligible(expires.Add(-time.Hour)) {
		t.Fatal("free subscriber inside the trial window must be eligible")
	}
	if s.Eligible(expires.Add(time.Hour)) {
		t.Fatal("free subscriber past the trial window must not be eligible")
	}
}

func TestScanSubscriberFreeNullTrialExpired(t *testing.T) {
	t.Parallel()

	row := stubRow{cols: []any{
		int64(12), "Carla", "carla@example.com", "5531977776666", "free", nil,
		false, true, false,
	}}

	s, err := scanSubscriber(row)
	if err != nil {
		t.Fatalf("scanSubscriber: %v", err)
	}
	if s.Eligible(time.Now()) {
		t.Fatal("free subscriber with NULL trial expiry must count as expired")
	}
}
