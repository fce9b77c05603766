package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// Create persists a new recommendation. Reasoning and concern lists are
// stored newline-joined; entries never contain newlines themselves.
func (r *PostgresRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	query := `
		INSERT INTO recommendations (
			id, contest_id, home_team, away_team, tipoff, bet_type, selection, side,
			confidence, expected_value, risk_tier, stake, max_stake,
			reasoning, concerns, reason, is_daily_pick, scout_confidence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		rec.ID, rec.ContestID, rec.HomeTeam, rec.AwayTeam, rec.Tipoff,
		rec.BetType, rec.Selection, rec.Side,
		rec.Confidence, rec.ExpectedValue, rec.RiskTier, rec.Stake, rec.MaxStake,
		strings.Join(rec.Reasoning, "\n"), strings.Join(rec.Concerns, "\n"), rec.Reason,
		rec.IsDailyPick, rec.ScoutConfidence, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	return nil
}

// DeleteForDate removes all recommendations whose contest falls on the given
// date. Run before the final phase writes fresh rows so a re-run replaces
// rather than duplicates.
func (r *PostgresRecommendationRepository) DeleteForDate(ctx context.Context, date time.Time) error {
	query := `
		DELETE FROM recommendations
		WHERE contest_id IN (SELECT id FROM contests WHERE date = $1)
	`

	if _, err := r.db.GetPool().Exec(ctx, query, date); err != nil {
		return fmt.Errorf("failed to delete recommendations for date: %w", err)
	}

	return nil
}

// GetLatestByContestID retrieves the most recent recommendation for a contest
func (r *PostgresRecommendationRepository) GetLatestByContestID(ctx context.Context, contestID string) (*models.Recommendation, error) {
	query := selectRecommendation + `
		WHERE contest_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, contestID)
}

// GetDailyPick retrieves the single flagged pick for a date, if any
func (r *PostgresRecommendationRepository) GetDailyPick(ctx context.Context, date time.Time) (*models.Recommendation, error) {
	query := selectRecommendation + `
		WHERE is_daily_pick = TRUE
		  AND contest_id IN (SELECT id FROM contests WHERE date = $1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, date)
}

const selectRecommendation = `
	SELECT id, contest_id, home_team, away_team, tipoff, bet_type, selection, side,
	       confidence, expected_value, risk_tier, stake, max_stake,
	       reasoning, concerns, reason, is_daily_pick, scout_confidence, created_at
	FROM recommendations
`

func (r *PostgresRecommendationRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Recommendation, error) {
	rec := &models.Recommendation{}
	var reasoning, concerns string

	err := r.db.GetPool().QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.ContestID, &rec.HomeTeam, &rec.AwayTeam, &rec.Tipoff,
		&rec.BetType, &rec.Selection, &rec.Side,
		&rec.Confidence, &rec.ExpectedValue, &rec.RiskTier, &rec.Stake, &rec.MaxStake,
		&reasoning, &concerns, &rec.Reason,
		&rec.IsDailyPick, &rec.ScoutConfidence, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	rec.Reasoning = splitLines(reasoning)
	rec.Concerns = splitLines(concerns)
	return rec, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
