package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
	"golang.org/x/sync/errgroup"
)

// DefaultRestDays is assumed when a team has no contest history to derive
// rest from
const DefaultRestDays = 2

// Signals is the read facade the scoring engine uses. Every accessor
// degrades to a documented neutral default when data is missing, so scoring
// a contest never fails on an absent signal. The exception is MarketLine,
// whose absence is a real state the engine must see (models.ErrNoMarketLine).
type Signals struct {
	repos  *repository.Repositories
	cache  *gocache.Cache
	logger *logrus.Logger
}

// NewSignals creates the signal facade with the given cache TTL
func NewSignals(repos *repository.Repositories, cacheTTL time.Duration, logger *logrus.Logger) *Signals {
	return &Signals{
		repos:  repos,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
		logger: logger,
	}
}

// TeamSnapshot returns the latest snapshot for a team, or the neutral
// league-average snapshot when none exists
func (s *Signals) TeamSnapshot(ctx context.Context, teamName string) *models.TeamSnapshot {
	key := "snapshot:" + teamName
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.TeamSnapshot)
	}

	snapshot, err := s.repos.TeamSnapshot.GetLatest(ctx, teamName)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.WithField("team", teamName).WithError(err).Warn("Snapshot read failed, using neutral")
		}
		snapshot = models.NeutralSnapshot(teamName)
	}

	s.cache.Set(key, snapshot, gocache.DefaultExpiration)
	return snapshot
}

// Availability returns the team's current availability records; missing data
// means a healthy roster
func (s *Signals) Availability(ctx context.Context, teamName string) []*models.AvailabilityRecord {
	key := "availability:" + teamName
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*models.AvailabilityRecord)
	}

	records, err := s.repos.Availability.GetByTeam(ctx, teamName)
	if err != nil {
		s.logger.WithField("team", teamName).WithError(err).Warn("Availability read failed, assuming healthy roster")
		records = nil
	}

	s.cache.Set(key, records, gocache.DefaultExpiration)
	return records
}

// MarketLine returns the latest captured line for a contest.
// models.ErrNoMarketLine signals the book has not posted one.
func (s *Signals) MarketLine(ctx context.Context, contestID string) (*models.MarketLine, error) {
	line, err := s.repos.MarketLine.GetLatest(ctx, contestID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNoMarketLine
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read market line: %w", err)
	}
	return line, nil
}

// RestDays computes full days since the team's last contest, defaulting to
// DefaultRestDays when no history exists
func (s *Signals) RestDays(ctx context.Context, teamName string, asOf time.Time) int {
	last, err := s.repos.Contest.GetLastContestDate(ctx, teamName, asOf)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.WithField("team", teamName).WithError(err).Warn("Rest lookup failed, using default")
		}
		return DefaultRestDays
	}

	days := int(asOf.Sub(last).Hours() / 24)
	if days < 0 {
		return DefaultRestDays
	}
	return days
}

// Invalidate drops all cached signals, forcing the next reads through to
// the repositories. Called between the scout and final phases so the final
// pass sees refreshed data.
func (s *Signals) Invalidate() {
	s.cache.Flush()
}

// Refresher runs all collectors for a day's slate
type Refresher struct {
	Stats   *StatsCollector
	Injury  *InjuryCollector
	Odds    *OddsCollector
	Signals *Signals
	Logger  *logrus.Logger
}

// RefreshAll re-collects every signal for the given contests. Team stats and
// the injury report refresh concurrently; odds capture runs after, per
// contest, so line reads never race the collectors. Returns the first error
// from the concurrent stage; odds failures are logged and skipped because a
// missing line is a state the engine handles.
func (r *Refresher) RefreshAll(ctx context.Context, contests []*models.Contest) error {
	teams := uniqueTeams(contests)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Stats.CollectAll(gctx, teams)
	})

	g.Go(func() error {
		_, err := r.Injury.Collect(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("signal refresh failed: %w", err)
	}

	for _, contest := range contests {
		if _, err := r.Odds.Collect(ctx, contest); err != nil {
			r.Logger.WithField("contest", contest.ID).WithError(err).Warn("Odds capture failed for contest")
		}
	}

	r.Signals.Invalidate()
	return nil
}

func uniqueTeams(contests []*models.Contest) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, c := range contests {
		for _, team := range []string{c.HomeTeam, c.AwayTeam} {
			if !seen[team] {
				seen[team] = true
				teams = append(teams, team)
			}
		}
	}
	return teams
}
