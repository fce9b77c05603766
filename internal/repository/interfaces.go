package repository

import (
	"context"
	"time"

	"github.com/yourusername/courtside/internal/models"
)

// ContestRepository defines the interface for contest data access
type ContestRepository interface {
	Upsert(ctx context.Context, contest *models.Contest) error
	GetByID(ctx context.Context, id string) (*models.Contest, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Contest, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Contest, error)
	// GetLastContestDate returns the date of the team's most recent contest
	// strictly before the given date, used for days-of-rest computation.
	GetLastContestDate(ctx context.Context, team string, before time.Time) (time.Time, error)
	UpdateStatus(ctx context.Context, id string, status models.ContestStatus) error
}

// TeamSnapshotRepository defines the interface for team statistics access
type TeamSnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *models.TeamSnapshot) error
	GetLatest(ctx context.Context, teamName string) (*models.TeamSnapshot, error)
}

// AvailabilityRepository defines the interface for player availability access
type AvailabilityRepository interface {
	ReplaceForTeam(ctx context.Context, teamName string, records []*models.AvailabilityRecord) error
	GetByTeam(ctx context.Context, teamName string) ([]*models.AvailabilityRecord, error)
}

// MarketLineRepository defines the interface for betting line access
type MarketLineRepository interface {
	Insert(ctx context.Context, line *models.MarketLine) error
	GetLatest(ctx context.Context, contestID string) (*models.MarketLine, error)
}

// WatchListRepository defines the interface for the scout-phase watch list.
// The watch list is a durable work queue between the two daily batch jobs,
// keyed by (contest, date).
type WatchListRepository interface {
	// Refresh replaces the watch list for the given date and purges entries
	// from prior dates. Re-running scout for a date must not duplicate rows.
	Refresh(ctx context.Context, date time.Time, entries []*models.WatchListEntry) error
	GetByDate(ctx context.Context, date time.Time) ([]*models.WatchListEntry, error)
}

// RecommendationRepository defines the interface for recommendation persistence
type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	// DeleteForDate removes the date's recommendations so a re-run of the
	// final phase refreshes rather than duplicates them.
	DeleteForDate(ctx context.Context, date time.Time) error
	GetLatestByContestID(ctx context.Context, contestID string) (*models.Recommendation, error)
	GetDailyPick(ctx context.Context, date time.Time) (*models.Recommendation, error)
}

// OutcomeRepository defines the interface for outcome tracking and the
// aggregate queries used to judge calibration
type OutcomeRepository interface {
	// Record inserts an outcome stub for a placed recommendation. Inserting
	// twice for the same contest is a no-op.
	Record(ctx context.Context, outcome *models.OutcomeRecord) error
	// Resolve stores the realized result. Resolving an already-resolved
	// contest returns models.ErrDuplicateKey.
	Resolve(ctx context.Context, contestID string, result models.BetResult, profitLoss float64, resolvedAt time.Time) error
	GetByContestID(ctx context.Context, contestID string) (*models.OutcomeRecord, error)
	GetPending(ctx context.Context, since time.Time) ([]*models.OutcomeRecord, error)
	SeasonStats(ctx context.Context) (*models.SeasonStats, error)
	RecentForm(ctx context.Context, limit int) (*models.FormSummary, error)
	ConfidenceTierBreakdown(ctx context.Context) ([]*models.TierStats, error)
}
