package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresAvailabilityRepository implements AvailabilityRepository for PostgreSQL
type PostgresAvailabilityRepository struct {
	db *database.DB
}

// NewPostgresAvailabilityRepository creates a new availability repository
func NewPostgresAvailabilityRepository(db *database.DB) AvailabilityRepository {
	return &PostgresAvailabilityRepository{db: db}
}

// ReplaceForTeam swaps the team's availability records for a fresh report.
// Injury reports are point-in-time documents, so stale rows are dropped
// rather than merged.
func (r *PostgresAvailabilityRepository) ReplaceForTeam(ctx context.Context, teamName string, records []*models.AvailabilityRecord) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM availability WHERE team_name = $1`, teamName); err != nil {
			return fmt.Errorf("failed to clear availability for team: %w", err)
		}

		query := `
			INSERT INTO availability (player_name, team_name, status, impact_score, detail, reported_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		for _, rec := range records {
			_, err := tx.Exec(ctx, query,
				rec.PlayerName, rec.TeamName, rec.Status, rec.ImpactScore,
				rec.Detail, rec.ReportedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert availability record: %w", err)
			}
		}

		return nil
	})
}

// GetByTeam retrieves the current availability report for a team
func (r *PostgresAvailabilityRepository) GetByTeam(ctx context.Context, teamName string) ([]*models.AvailabilityRecord, error) {
	query := `
		SELECT player_name, team_name, status, impact_score, detail, reported_at
		FROM availability
		WHERE team_name = $1
		ORDER BY impact_score DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamName)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var records []*models.AvailabilityRecord
	for rows.Next() {
		rec := &models.AvailabilityRecord{}
		err := rows.Scan(
			&rec.PlayerName, &rec.TeamName, &rec.Status,
			&rec.ImpactScore, &rec.Detail, &rec.ReportedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
