package database

import (
	"context"
	"fmt"
)

// schema holds the DDL for all persisted state. Statements are idempotent so
// Bootstrap can run on every start without a separate migration step.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS contests (
		id TEXT PRIMARY KEY,
		sport TEXT NOT NULL DEFAULT 'nba',
		date DATE NOT NULL,
		tipoff TEXT NOT NULL DEFAULT 'TBD',
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contests_date ON contests(date)`,
	`CREATE INDEX IF NOT EXISTS idx_contests_teams ON contests(home_team, away_team)`,

	`CREATE TABLE IF NOT EXISTS team_snapshots (
		team_name TEXT NOT NULL,
		season TEXT NOT NULL,
		wins INT NOT NULL,
		losses INT NOT NULL,
		home_wins INT NOT NULL,
		home_losses INT NOT NULL,
		away_wins INT NOT NULL,
		away_losses INT NOT NULL,
		last_10_wins INT NOT NULL,
		avg_points_scored DOUBLE PRECISION NOT NULL,
		avg_points_allowed DOUBLE PRECISION NOT NULL,
		point_differential DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (team_name, season)
	)`,

	`CREATE TABLE IF NOT EXISTS availability (
		player_name TEXT NOT NULL,
		team_name TEXT NOT NULL,
		status TEXT NOT NULL,
		impact_score DOUBLE PRECISION NOT NULL DEFAULT 5.0,
		detail TEXT NOT NULL DEFAULT '',
		reported_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (player_name, team_name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_availability_team ON availability(team_name, status)`,

	`CREATE TABLE IF NOT EXISTS market_lines (
		id BIGSERIAL PRIMARY KEY,
		contest_id TEXT NOT NULL REFERENCES contests(id),
		home_spread DOUBLE PRECISION NOT NULL,
		away_spread DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		home_ml INT NOT NULL DEFAULT 0,
		away_ml INT NOT NULL DEFAULT 0,
		captured_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_market_lines_contest ON market_lines(contest_id, captured_at DESC)`,

	`CREATE TABLE IF NOT EXISTS watch_list (
		contest_id TEXT NOT NULL REFERENCES contests(id),
		date DATE NOT NULL,
		scout_confidence DOUBLE PRECISION NOT NULL,
		early_lean TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (contest_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS recommendations (
		id UUID PRIMARY KEY,
		contest_id TEXT NOT NULL REFERENCES contests(id),
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		tipoff TEXT NOT NULL DEFAULT '',
		bet_type TEXT NOT NULL,
		selection TEXT NOT NULL DEFAULT '',
		side TEXT NOT NULL DEFAULT '',
		confidence DOUBLE PRECISION NOT NULL,
		expected_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_tier TEXT NOT NULL DEFAULT 'high',
		stake DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_stake DOUBLE PRECISION NOT NULL DEFAULT 0,
		reasoning TEXT NOT NULL DEFAULT '',
		concerns TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		is_daily_pick BOOLEAN NOT NULL DEFAULT FALSE,
		scout_confidence DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_contest ON recommendations(contest_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_daily ON recommendations(is_daily_pick, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS outcomes (
		id UUID PRIMARY KEY,
		contest_id TEXT NOT NULL UNIQUE REFERENCES contests(id),
		selection TEXT NOT NULL DEFAULT '',
		bet_type TEXT NOT NULL DEFAULT 'spread',
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		odds INT NOT NULL DEFAULT -110,
		stake NUMERIC(12,2) NOT NULL DEFAULT 0,
		result TEXT,
		profit_loss NUMERIC(12,2) NOT NULL DEFAULT 0,
		placed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	)`,
}

// Bootstrap creates all tables and indexes if they do not yet exist
func (db *DB) Bootstrap(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
