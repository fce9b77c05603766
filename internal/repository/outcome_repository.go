package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db *database.DB
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db *database.DB) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// Record inserts the outcome stub created when a bet is placed. The contest_id
// uniqueness constraint makes a repeat insert a no-op, so re-running the final
// phase never double-books a stake.
func (r *PostgresOutcomeRepository) Record(ctx context.Context, outcome *models.OutcomeRecord) error {
	query := `
		INSERT INTO outcomes (id, contest_id, selection, bet_type, confidence, odds, stake, profit_loss, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (contest_id) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		outcome.ID, outcome.ContestID, outcome.Selection, outcome.BetType,
		outcome.Confidence, outcome.Odds, outcome.Stake, outcome.ProfitLoss,
		outcome.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

// Resolve stores the realized result for a pending outcome. A contest that is
// already resolved returns models.ErrDuplicateKey; an unknown contest returns
// models.ErrNotFound.
func (r *PostgresOutcomeRepository) Resolve(ctx context.Context, contestID string, result models.BetResult, profitLoss float64, resolvedAt time.Time) error {
	query := `
		UPDATE outcomes
		SET result = $2, profit_loss = $3, resolved_at = $4
		WHERE contest_id = $1 AND result IS NULL
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		contestID, result, decimal.NewFromFloat(profitLoss).Round(2), resolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve outcome: %w", err)
	}

	if tag.RowsAffected() == 0 {
		existing, getErr := r.GetByContestID(ctx, contestID)
		if getErr != nil {
			return models.ErrNotFound
		}
		if existing.IsResolved() {
			return models.ErrDuplicateKey
		}
		return models.ErrNotFound
	}

	return nil
}

// GetByContestID retrieves the outcome for a contest
func (r *PostgresOutcomeRepository) GetByContestID(ctx context.Context, contestID string) (*models.OutcomeRecord, error) {
	query := selectOutcome + ` WHERE contest_id = $1`

	outcome := &models.OutcomeRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, contestID).Scan(outcomeFields(outcome)...)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}

	return outcome, nil
}

// GetPending retrieves unresolved outcomes placed on or after the given time
func (r *PostgresOutcomeRepository) GetPending(ctx context.Context, since time.Time) ([]*models.OutcomeRecord, error) {
	query := selectOutcome + `
		WHERE result IS NULL AND placed_at >= $1
		ORDER BY placed_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*models.OutcomeRecord
	for rows.Next() {
		outcome := &models.OutcomeRecord{}
		if err := rows.Scan(outcomeFields(outcome)...); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, rows.Err()
}

// SeasonStats aggregates all resolved outcomes into a single performance view
func (r *PostgresOutcomeRepository) SeasonStats(ctx context.Context) (*models.SeasonStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE result = 'win'),
			COUNT(*) FILTER (WHERE result = 'loss'),
			COUNT(*) FILTER (WHERE result = 'push'),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(profit_loss), 0),
			COALESCE(AVG(confidence) FILTER (WHERE result = 'win'), 0),
			COALESCE(AVG(confidence) FILTER (WHERE result = 'loss'), 0)
		FROM outcomes
		WHERE result IS NOT NULL
	`

	stats := &models.SeasonStats{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&stats.TotalBets, &stats.Wins, &stats.Losses, &stats.Pushes,
		&stats.TotalWagered, &stats.NetProfit,
		&stats.AvgConfidenceWins, &stats.AvgConfidenceLosses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute season stats: %w", err)
	}

	return stats, nil
}

// RecentForm summarizes the most recently resolved bets
func (r *PostgresOutcomeRepository) RecentForm(ctx context.Context, limit int) (*models.FormSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE result = 'win'),
			COUNT(*) FILTER (WHERE result = 'loss'),
			COUNT(*) FILTER (WHERE result = 'push'),
			COALESCE(SUM(profit_loss), 0)
		FROM (
			SELECT result, profit_loss
			FROM outcomes
			WHERE result IS NOT NULL
			ORDER BY resolved_at DESC
			LIMIT $1
		) recent
	`

	form := &models.FormSummary{}
	err := r.db.GetPool().QueryRow(ctx, query, limit).Scan(
		&form.Wins, &form.Losses, &form.Pushes, &form.Profit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute recent form: %w", err)
	}

	return form, nil
}

// ConfidenceTierBreakdown groups resolved outcomes into confidence bands to
// show whether higher confidence actually wins more often
func (r *PostgresOutcomeRepository) ConfidenceTierBreakdown(ctx context.Context) ([]*models.TierStats, error) {
	query := `
		SELECT
			CASE
				WHEN confidence >= 8.5 THEN '8.5+'
				WHEN confidence >= 7.5 THEN '7.5-8.4'
				ELSE '7.0-7.4'
			END AS tier,
			COUNT(*),
			COUNT(*) FILTER (WHERE result = 'win'),
			COALESCE(SUM(profit_loss), 0)
		FROM outcomes
		WHERE result IS NOT NULL
		GROUP BY tier
		ORDER BY tier DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier breakdown: %w", err)
	}
	defer rows.Close()

	var tiers []*models.TierStats
	for rows.Next() {
		tier := &models.TierStats{}
		if err := rows.Scan(&tier.Tier, &tier.Count, &tier.Wins, &tier.Profit); err != nil {
			return nil, fmt.Errorf("failed to scan tier stats: %w", err)
		}
		tiers = append(tiers, tier)
	}

	return tiers, rows.Err()
}

const selectOutcome = `
	SELECT id, contest_id, selection, bet_type, confidence, odds, stake, result, profit_loss, placed_at, resolved_at
	FROM outcomes
`

func outcomeFields(o *models.OutcomeRecord) []interface{} {
	return []interface{}{
		&o.ID, &o.ContestID, &o.Selection, &o.BetType, &o.Confidence,
		&o.Odds, &o.Stake, &o.Result, &o.ProfitLoss, &o.PlacedAt, &o.ResolvedAt,
	}
}
