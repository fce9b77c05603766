package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresTeamSnapshotRepository implements TeamSnapshotRepository for PostgreSQL
type PostgresTeamSnapshotRepository struct {
	db *database.DB
}

// NewPostgresTeamSnapshotRepository creates a new team snapshot repository
func NewPostgresTeamSnapshotRepository(db *database.DB) TeamSnapshotRepository {
	return &PostgresTeamSnapshotRepository{db: db}
}

// Upsert writes the team's latest statistical state. Snapshots are not
// versioned; the row for (team, season) is overwritten in place.
func (r *PostgresTeamSnapshotRepository) Upsert(ctx context.Context, snapshot *models.TeamSnapshot) error {
	query := `
		INSERT INTO team_snapshots (
			team_name, season, wins, losses, home_wins, home_losses,
			away_wins, away_losses, last_10_wins, avg_points_scored,
			avg_points_allowed, point_differential, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (team_name, season) DO UPDATE SET
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			home_wins = EXCLUDED.home_wins,
			home_losses = EXCLUDED.home_losses,
			away_wins = EXCLUDED.away_wins,
			away_losses = EXCLUDED.away_losses,
			last_10_wins = EXCLUDED.last_10_wins,
			avg_points_scored = EXCLUDED.avg_points_scored,
			avg_points_allowed = EXCLUDED.avg_points_allowed,
			point_differential = EXCLUDED.point_differential,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		snapshot.TeamName, snapshot.Season, snapshot.Wins, snapshot.Losses,
		snapshot.HomeWins, snapshot.HomeLosses, snapshot.AwayWins, snapshot.AwayLosses,
		snapshot.Last10Wins, snapshot.AvgPointsScored, snapshot.AvgPointsAllowed,
		snapshot.PointDifferential,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team snapshot: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recently updated snapshot for a team
func (r *PostgresTeamSnapshotRepository) GetLatest(ctx context.Context, teamName string) (*models.TeamSnapshot, error) {
	query := `
		SELECT team_name, season, wins, losses, home_wins, home_losses,
		       away_wins, away_losses, last_10_wins, avg_points_scored,
		       avg_points_allowed, point_differential, updated_at
		FROM team_snapshots
		WHERE team_name = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	snapshot := &models.TeamSnapshot{}
	err := r.db.GetPool().QueryRow(ctx, query, teamName).Scan(
		&snapshot.TeamName, &snapshot.Season, &snapshot.Wins, &snapshot.Losses,
		&snapshot.HomeWins, &snapshot.HomeLosses, &snapshot.AwayWins, &snapshot.AwayLosses,
		&snapshot.Last10Wins, &snapshot.AvgPointsScored, &snapshot.AvgPointsAllowed,
		&snapshot.PointDifferential, &snapshot.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team snapshot: %w", err)
	}

	return snapshot, nil
}
