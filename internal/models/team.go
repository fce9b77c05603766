package models

import "time"

// TeamSnapshot represents a team's most recent known statistical state.
// Snapshots are not versioned: every scoring pass reads the latest row,
// so re-scoring after new data overwrites the value that was used before.
type TeamSnapshot struct {
	TeamName          string    `db:"team_name" json:"team_name" validate:"required"`
	Season            string    `db:"season" json:"season"`
	Wins              int       `db:"wins" json:"wins" validate:"gte=0"`
	Losses            int       `db:"losses" json:"losses" validate:"gte=0"`
	HomeWins          int       `db:"home_wins" json:"home_wins"`
	HomeLosses        int       `db:"home_losses" json:"home_losses"`
	AwayWins          int       `db:"away_wins" json:"away_wins"`
	AwayLosses        int       `db:"away_losses" json:"away_losses"`
	Last10Wins        int       `db:"last_10_wins" json:"last_10_wins" validate:"gte=0,lte=10"`
	AvgPointsScored   float64   `db:"avg_points_scored" json:"avg_points_scored"`
	AvgPointsAllowed  float64   `db:"avg_points_allowed" json:"avg_points_allowed"`
	PointDifferential float64   `db:"point_differential" json:"point_differential"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// WinPct returns the season win percentage, 0.5 for a team with no games
func (t *TeamSnapshot) WinPct() float64 {
	total := t.Wins + t.Losses
	if total == 0 {
		return 0.5
	}
	return float64(t.Wins) / float64(total)
}

// Last10Pct returns the win rate over the recent-form window
func (t *TeamSnapshot) Last10Pct() float64 {
	return float64(t.Last10Wins) / 10.0
}

// NetRating derives a per-possession efficiency proxy from scoring averages
func (t *TeamSnapshot) NetRating() float64 {
	return (t.AvgPointsScored - t.AvgPointsAllowed) / 10.0
}

// HomeWinPct returns the win rate in home games, or -1 when no home games exist
func (t *TeamSnapshot) HomeWinPct() float64 {
	games := t.HomeWins + t.HomeLosses
	if games == 0 {
		return -1
	}
	return float64(t.HomeWins) / float64(games)
}

// AwayWinPct returns the win rate in road games, or -1 when no road games exist
func (t *TeamSnapshot) AwayWinPct() float64 {
	games := t.AwayWins + t.AwayLosses
	if games == 0 {
		return -1
	}
	return float64(t.AwayWins) / float64(games)
}

// NeutralSnapshot returns the league-average fallback used when no snapshot
// exists for a team. Collectors substitute this rather than failing a pass.
func NeutralSnapshot(teamName string) *TeamSnapshot {
	return &TeamSnapshot{
		TeamName:          teamName,
		Wins:              30,
		Losses:            30,
		HomeWins:          18,
		HomeLosses:        12,
		AwayWins:          12,
		AwayLosses:        18,
		Last10Wins:        5,
		AvgPointsScored:   110.0,
		AvgPointsAllowed:  110.0,
		PointDifferential: 0.0,
	}
}
