package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresMarketLineRepository implements MarketLineRepository for PostgreSQL
type PostgresMarketLineRepository struct {
	db *database.DB
}

// NewPostgresMarketLineRepository creates a new market line repository
func NewPostgresMarketLineRepository(db *database.DB) MarketLineRepository {
	return &PostgresMarketLineRepository{db: db}
}

// Insert appends a new line capture. Lines form a time series per contest;
// older rows are kept for movement history.
func (r *PostgresMarketLineRepository) Insert(ctx context.Context, line *models.MarketLine) error {
	query := `
		INSERT INTO market_lines (contest_id, home_spread, away_spread, total, home_ml, away_ml, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		line.ContestID, line.HomeSpread, line.AwaySpread, line.Total,
		line.HomeMoneyline, line.AwayMoneyline, line.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert market line: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent line for a contest
func (r *PostgresMarketLineRepository) GetLatest(ctx context.Context, contestID string) (*models.MarketLine, error) {
	query := `
		SELECT contest_id, home_spread, away_spread, total, home_ml, away_ml, captured_at
		FROM market_lines
		WHERE contest_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`

	line := &models.MarketLine{}
	err := r.db.GetPool().QueryRow(ctx, query, contestID).Scan(
		&line.ContestID, &line.HomeSpread, &line.AwaySpread, &line.Total,
		&line.HomeMoneyline, &line.AwayMoneyline, &line.CapturedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market line: %w", err)
	}

	return line, nil
}
