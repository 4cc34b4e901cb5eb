package domain

import "time"

// Category is the closed set of news classifications.
type Category string

const (
	CategoryEconomy     Category = "economy"
	CategoryGeopolitics Category = "geopolitics"
	CategoryMarkets     Category = "markets"
)

// Categories returns all categories in declaration order. The order matters:
// classification ties resolve to the first entry.
func Categories() []Category {
	return []Category{CategoryEconomy, CategoryGeopolitics, CategoryMarkets}
}

// Valid reports whether the category is a known member of the enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryEconomy, CategoryGeopolitics, CategoryMarkets:
		return true
	}
	return false
}

// NewsItem is a discovered article. URL is the global dedup key: no two
// stored items ever share one.
type NewsItem struct {
	ID          int64
	Title       string
	Content     string
	URL         string
	Category    Category
	Source      string
	PublishedAt time.Time
	ScrapedAt   time.Time
	ImpactScore int
	Processed   bool
}

// Alertable reports whether the item clears the fixed fanout threshold.
func (n NewsItem) Alertable() bool {
	return n.ImpactScore >= MinAlertImpact
}

// MinAlertImpact is the impact score below which items are never fanned out.
const MinAlertImpact = 2

// Alert records one notification sent to one user for one article. The
// (UserID, NewsURL) pair is unique; title/content/category are denormalized
// snapshots taken at send time.
type Alert struct {
	ID       int64
	UserID   int64
	Title    string
	Content  string
	Category Category
	NewsURL  string
	SentAt   time.Time
}

// Plan identifies a subscriber's billing tier. Billing itself is managed by
// the web layer; the pipeline only reads it to gate delivery.
type Plan string

const (
	PlanFree      Plan = "free"
	PlanPro       Plan = "pro"
	PlanProAnnual Plan = "pro_annual"
)

// Subscriber is the read-only view of a user the fanout pipeline consumes:
// contact details plus the delivery-gating state owned by the web layer.
type Subscriber struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Plan         Plan
	TrialExpires time.Time

	Economy     bool
	Geopolitics bool
	Markets     bool
}

// WantsCategory resolves the per-category opt-in flag for the given category.
func (s Subscriber) WantsCategory(c Category) bool {
	switch c {
	case CategoryEconomy:
		return s.Economy
	case CategoryGeopolitics:
		return s.Geopolitics
	case CategoryMarkets:
		return s.Markets
	}
	return false
}

// Eligible reports whether the subscriber may receive alerts at the given
// instant: any paid plan, or a free plan with an unexpired trial.
func (s Subscriber) Eligible(now time.Time) bool {
	if s.Plan != PlanFree {
		return true
	}
	return s.TrialExpires.After(now)
}
