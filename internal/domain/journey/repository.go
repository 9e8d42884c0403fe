package journey

import (
	"context"
	"errors"
	"time"
)

// RuleRepository persists journey rules. At most one default row exists per
// tenant.
type RuleRepository interface {
	// GetDefault returns the tenant's default rule, or ErrRuleNotFound.
	GetDefault(ctx context.Context, tenantID string) (JourneyRule, error)

	// Create inserts a rule. Used to materialize the built-in default.
	Create(ctx context.Context, rule JourneyRule) (JourneyRule, error)
}

// EntryRepository persists computed journey entries, unique per (user, date).
type EntryRepository interface {
	// Upsert inserts or replaces the entry for (user, date).
	Upsert(ctx context.Context, entry JourneyEntry) (JourneyEntry, error)

	// GetByUserAndDate returns the entry for a day, or ErrEntryNotFound.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (JourneyEntry, error)

	// ListMonth returns the user's entries for a month in date order.
	ListMonth(ctx context.Context, userID string, year int, month time.Month) ([]JourneyEntry, error)

	// LastBefore returns the most recent entry strictly before date, or nil
	// when the user has none. Seeds the hour-bank fold.
	LastBefore(ctx context.Context, userID string, date time.Time) (*JourneyEntry, error)

	// Latest returns the most recently computed entry for the user overall,
	// or nil when the user has none.
	Latest(ctx context.Context, userID string) (*JourneyEntry, error)
}

// ResolveRule returns the tenant's default journey rule, creating the
// built-in default when none exists. Callers get a fully populated value
// object either way.
func ResolveRule(ctx context.Context, repo RuleRepository, tenantID string) (JourneyRule, error) {
	rule, err := repo.GetDefault(ctx, tenantID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, ErrRuleNotFound) {
		return JourneyRule{}, err
	}
	return repo.Create(ctx, DefaultRule(tenantID))
}
