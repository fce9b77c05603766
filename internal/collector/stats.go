package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// CurrentSeason is the season label stamped on refreshed snapshots
const CurrentSeason = "2025-26"

// StatsCollector produces team statistical snapshots. No licensed stats feed
// is wired yet, so it generates plausible league-shaped numbers seeded from
// the team name: the same team always gets the same snapshot, which keeps
// scoring runs reproducible.
type StatsCollector struct {
	snapshots repository.TeamSnapshotRepository
	season    string
	logger    *logrus.Logger
}

// NewStatsCollector creates a new stats collector
func NewStatsCollector(snapshots repository.TeamSnapshotRepository, logger *logrus.Logger) *StatsCollector {
	return &StatsCollector{
		snapshots: snapshots,
		season:    CurrentSeason,
		logger:    logger,
	}
}

// Collect refreshes the snapshot for one team
func (c *StatsCollector) Collect(ctx context.Context, teamName string) (*models.TeamSnapshot, error) {
	snapshot := c.generate(teamName)

	if err := c.snapshots.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot for %s: %w", teamName, err)
	}

	return snapshot, nil
}

// CollectAll refreshes snapshots for every named team
func (c *StatsCollector) CollectAll(ctx context.Context, teamNames []string) error {
	for _, team := range teamNames {
		if _, err := c.Collect(ctx, team); err != nil {
			return err
		}
	}
	return nil
}

func (c *StatsCollector) generate(teamName string) *models.TeamSnapshot {
	rng := rand.New(rand.NewSource(seedFor(teamName, c.season)))

	wins := 25 + rng.Intn(21)   // 25-45
	losses := 15 + rng.Intn(21) // 15-35

	return &models.TeamSnapshot{
		TeamName:          teamName,
		Season:            c.season,
		Wins:              wins,
		Losses:            losses,
		HomeWins:          int(float64(wins) * 0.6),
		HomeLosses:        int(float64(losses) * 0.4),
		AwayWins:          int(float64(wins) * 0.4),
		AwayLosses:        int(float64(losses) * 0.6),
		Last10Wins:        4 + rng.Intn(5), // 4-8
		AvgPointsScored:   round1(105 + rng.Float64()*15),
		AvgPointsAllowed:  round1(105 + rng.Float64()*15),
		PointDifferential: round1(-8 + rng.Float64()*16),
		UpdatedAt:         time.Now(),
	}
}

func seedFor(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return int64(h.Sum64())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
