package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresContestRepository implements ContestRepository for PostgreSQL
type PostgresContestRepository struct {
	db *database.DB
}

// NewPostgresContestRepository creates a new contest repository
func NewPostgresContestRepository(db *database.DB) ContestRepository {
	return &PostgresContestRepository{db: db}
}

// Upsert inserts a contest or refreshes its schedule fields. Status is left
// untouched on conflict so collector re-runs never regress the lifecycle.
func (r *PostgresContestRepository) Upsert(ctx context.Context, contest *models.Contest) error {
	query := `
		INSERT INTO contests (id, sport, date, tipoff, home_team, away_team, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			tipoff = EXCLUDED.tipoff,
			updated_at = NOW()
	`

	status := contest.Status
	if status == "" {
		status = models.ContestStatusScheduled
	}

	_, err := r.db.GetPool().Exec(ctx, query,
		contest.ID, contest.Sport, contest.Date, contest.Tipoff,
		contest.HomeTeam, contest.AwayTeam, status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert contest: %w", err)
	}

	return nil
}

// GetByID retrieves a contest by ID
func (r *PostgresContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	query := `
		SELECT id, sport, date, tipoff, home_team, away_team, status, created_at, updated_at
		FROM contests WHERE id = $1
	`

	contest := &models.Contest{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&contest.ID, &contest.Sport, &contest.Date, &contest.Tipoff,
		&contest.HomeTeam, &contest.AwayTeam, &contest.Status,
		&contest.CreatedAt, &contest.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	return contest, nil
}

// GetByDate retrieves all contests scheduled on a calendar date
func (r *PostgresContestRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Contest, error) {
	return r.GetByDateRange(ctx, date, date)
}

// GetByDateRange retrieves all contests within an inclusive date window
func (r *PostgresContestRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Contest, error) {
	query := `
		SELECT id, sport, date, tipoff, home_team, away_team, status, created_at, updated_at
		FROM contests
		WHERE date >= $1 AND date <= $2
		ORDER BY date, id
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query contests: %w", err)
	}
	defer rows.Close()

	var contests []*models.Contest
	for rows.Next() {
		contest := &models.Contest{}
		err := rows.Scan(
			&contest.ID, &contest.Sport, &contest.Date, &contest.Tipoff,
			&contest.HomeTeam, &contest.AwayTeam, &contest.Status,
			&contest.CreatedAt, &contest.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, contest)
	}

	return contests, rows.Err()
}

// GetLastContestDate returns the date of the team's most recent contest
// strictly before the given date.
func (r *PostgresContestRepository) GetLastContestDate(ctx context.Context, team string, before time.Time) (time.Time, error) {
	query := `
		SELECT date FROM contests
		WHERE (home_team = $1 OR away_team = $1) AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`

	var date time.Time
	err := r.db.GetPool().QueryRow(ctx, query, team, before).Scan(&date)
	if err == pgx.ErrNoRows {
		return time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last contest date: %w", err)
	}

	return date, nil
}

// UpdateStatus advances a contest's lifecycle status
func (r *PostgresContestRepository) UpdateStatus(ctx context.Context, id string, status models.ContestStatus) error {
	query := `UPDATE contests SET status = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update contest status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
