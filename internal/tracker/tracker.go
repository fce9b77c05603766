// Package tracker records recommendations as placed bets, resolves them
// against real-world results, and aggregates performance used to judge
// whether confidence is actually predictive.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// pendingWindow bounds how far back the pending-results listing looks
const pendingWindow = 7 * 24 * time.Hour

// winPayoutRate is the return per unit staked at standard -110 odds:
// risk 110 to win 100
var winPayoutRate = decimal.NewFromFloat(0.909)

// Tracker links recommendations to outcomes
type Tracker struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewTracker creates a new outcome tracker
func NewTracker(repos *repository.Repositories, logger *logrus.Logger) *Tracker {
	return &Tracker{repos: repos, logger: logger}
}

// RecordPlacement persists the outcome stub for an actionable recommendation.
// Safe to call repeatedly; the second and later calls are no-ops.
func (t *Tracker) RecordPlacement(ctx context.Context, rec *models.Recommendation) error {
	if !rec.IsActionable() {
		return nil
	}

	outcome := &models.OutcomeRecord{
		ID:         uuid.New(),
		ContestID:  rec.ContestID,
		Selection:  rec.Selection,
		BetType:    rec.BetType,
		Confidence: rec.Confidence,
		Odds:       models.StandardOdds,
		Stake:      decimal.NewFromFloat(rec.Stake).Round(2),
		ProfitLoss: decimal.Zero,
		PlacedAt:   time.Now(),
	}

	if err := t.repos.Outcome.Record(ctx, outcome); err != nil {
		return fmt.Errorf("failed to record placement: %w", err)
	}

	return nil
}

// Payout computes realized profit for a stake at standard odds: a win pays
// 0.909 per unit, a loss costs the stake, a push returns it
func Payout(stake decimal.Decimal, result models.BetResult) decimal.Decimal {
	switch result {
	case models.BetResultWin:
		return stake.Mul(winPayoutRate).Round(2)
	case models.BetResultLoss:
		return stake.Neg()
	default:
		return decimal.Zero
	}
}

// LogResult resolves the outcome for a contest. Resolving an
// already-resolved contest is a no-op returning the existing record.
func (t *Tracker) LogResult(ctx context.Context, contestID string, result models.BetResult) (*models.OutcomeRecord, error) {
	outcome, err := t.repos.Outcome.GetByContestID(ctx, contestID)
	if errors.Is(err, models.ErrNotFound) {
		// the final phase records placements, but allow logging a result for
		// a recommendation that was never recorded (e.g. a manual bet)
		outcome, err = t.recordFromRecommendation(ctx, contestID)
	}
	if err != nil {
		return nil, err
	}

	profit := Payout(outcome.Stake, result)
	profitFloat, _ := profit.Float64()

	err = t.repos.Outcome.Resolve(ctx, contestID, result, profitFloat, time.Now())
	if errors.Is(err, models.ErrDuplicateKey) {
		t.logger.WithField("contest", contestID).Warn("Result already logged, ignoring")
		return outcome, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve outcome: %w", err)
	}

	if err := t.repos.Contest.UpdateStatus(ctx, contestID, models.ContestStatusResolved); err != nil && !errors.Is(err, models.ErrNotFound) {
		t.logger.WithField("contest", contestID).WithError(err).Warn("Failed to advance contest status")
	}

	resolved := *outcome
	resolvedResult := result
	now := time.Now()
	resolved.Result = &resolvedResult
	resolved.ProfitLoss = profit
	resolved.ResolvedAt = &now

	t.logger.WithFields(logrus.Fields{
		"contest": contestID,
		"result":  result,
		"profit":  profit.StringFixed(2),
	}).Info("Result logged")

	return &resolved, nil
}

func (t *Tracker) recordFromRecommendation(ctx context.Context, contestID string) (*models.OutcomeRecord, error) {
	rec, err := t.repos.Recommendation.GetLatestByContestID(ctx, contestID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("no recommendation found for contest %s: %w", contestID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := t.RecordPlacement(ctx, rec); err != nil {
		return nil, err
	}

	return t.repos.Outcome.GetByContestID(ctx, contestID)
}

// Pending lists recorded bets from the last week still waiting on a result
func (t *Tracker) Pending(ctx context.Context) ([]*models.OutcomeRecord, error) {
	return t.repos.Outcome.GetPending(ctx, time.Now().Add(-pendingWindow))
}

// PerformanceReport is the aggregate view over all resolved bets
type PerformanceReport struct {
	Season *models.SeasonStats
	Form   *models.FormSummary
	Tiers  []*models.TierStats
}

// formWindow is the rolling recent-form sample size
const formWindow = 10

// Performance computes the season aggregates, recent form, and the
// confidence-tier breakdown
func (t *Tracker) Performance(ctx context.Context) (*PerformanceReport, error) {
	season, err := t.repos.Outcome.SeasonStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute season stats: %w", err)
	}

	form, err := t.repos.Outcome.RecentForm(ctx, formWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to compute recent form: %w", err)
	}

	tiers, err := t.repos.Outcome.ConfidenceTierBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute tier breakdown: %w", err)
	}

	return &PerformanceReport{Season: season, Form: form, Tiers: tiers}, nil
}
