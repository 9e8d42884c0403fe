package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"golang.org/x/sync/errgroup"
)

// recalcConcurrency bounds how many users are recomputed in parallel.
const recalcConcurrency = 8

// activityLookback selects users whose clock activity is recent enough to
// need a refresh. Two days catches entries that closed after midnight.
const activityLookback = 48 * time.Hour

type JourneyJobs struct {
	entryRepo  timeclock.ClockEntryRepository
	journeySvc journey.Service
}

func NewJourneyJobs(entryRepo timeclock.ClockEntryRepository, journeySvc journey.Service) *JourneyJobs {
	return &JourneyJobs{
		entryRepo:  entryRepo,
		journeySvc: journeySvc,
	}
}

func (j *JourneyJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recalculate_recent_journeys", 1*time.Hour, j.RecalculateRecentJourneys)
}

// RecalculateRecentJourneys recomputes yesterday and today for every user
// with recent clock activity. Days are computed per user in chronological
// order so the hour-bank balance threads correctly; users fan out in
// parallel because their balances are independent.
func (j *JourneyJobs) RecalculateRecentJourneys(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting journey recalculation job")

	users, err := j.entryRepo.ActiveUsers(ctx, time.Now().UTC().Add(-activityLookback))
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	if len(users) == 0 {
		slog.Info("Cron: No recent clock activity found")
		return nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recalcConcurrency)

	for _, user := range users {
		user := user
		g.Go(func() error {
			for _, day := range []time.Time{yesterday, today} {
				if _, err := j.journeySvc.CalculateDay(gctx, user.UserID, user.TenantID, day); err != nil {
					return fmt.Errorf("failed to recalculate journey for user %s on %s: %w",
						user.UserID, day.Format("2006-01-02"), err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Cron: Journey recalculation completed", "user_count", len(users))
	return nil
}
