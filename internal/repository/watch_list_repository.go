package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresWatchListRepository implements WatchListRepository for PostgreSQL
type PostgresWatchListRepository struct {
	db *database.DB
}

// NewPostgresWatchListRepository creates a new watch list repository
func NewPostgresWatchListRepository(db *database.DB) WatchListRepository {
	return &PostgresWatchListRepository{db: db}
}

// Refresh replaces the watch list for the given date. Entries from earlier
// dates are purged at the same time so the table only ever holds the current
// day's queue. Safe to call repeatedly for the same date.
func (r *PostgresWatchListRepository) Refresh(ctx context.Context, date time.Time, entries []*models.WatchListEntry) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM watch_list WHERE date <= $1`, date); err != nil {
			return fmt.Errorf("failed to clear watch list: %w", err)
		}

		query := `
			INSERT INTO watch_list (contest_id, date, scout_confidence, early_lean, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`

		for _, entry := range entries {
			_, err := tx.Exec(ctx, query,
				entry.ContestID, entry.Date, entry.ScoutConfidence,
				entry.EarlyLean, entry.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert watch list entry: %w", err)
			}
		}

		return nil
	})
}

// GetByDate retrieves the watch list for a date, highest scout confidence first
func (r *PostgresWatchListRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.WatchListEntry, error) {
	query := `
		SELECT contest_id, date, scout_confidence, early_lean, created_at
		FROM watch_list
		WHERE date = $1
		ORDER BY scout_confidence DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch list: %w", err)
	}
	defer rows.Close()

	var entries []*models.WatchListEntry
	for rows.Next() {
		entry := &models.WatchListEntry{}
		err := rows.Scan(
			&entry.ContestID, &entry.Date, &entry.ScoutConfidence,
			&entry.EarlyLean, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch list entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
