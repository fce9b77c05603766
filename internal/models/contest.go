package models

import (
	"fmt"
	"strings"
	"time"
)

// ContestStatus represents the lifecycle state of a contest
type ContestStatus string

const (
	ContestStatusScheduled   ContestStatus = "scheduled"
	ContestStatusWatchlisted ContestStatus = "watchlisted"
	ContestStatusScored      ContestStatus = "scored"
	ContestStatusRecommended ContestStatus = "recommended"
	ContestStatusResolved    ContestStatus = "resolved"
)

// Contest represents one scheduled NBA matchup
type Contest struct {
	ID        string        `db:"id" json:"id" validate:"required"`
	Sport     string        `db:"sport" json:"sport"`
	Date      time.Time     `db:"date" json:"date" validate:"required"`
	Tipoff    string        `db:"tipoff" json:"tipoff"` // scheduled local start, e.g. "7:30 PM ET"
	HomeTeam  string        `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string        `db:"away_team" json:"away_team" validate:"required"`
	Status    ContestStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// NewContestID builds the canonical contest identifier from date and teams
func NewContestID(date time.Time, awayTeam, homeTeam string) string {
	id := fmt.Sprintf("nba_%s_%s_%s", date.Format("20060102"), awayTeam, homeTeam)
	return strings.ReplaceAll(id, " ", "_")
}

// Matchup returns the conventional "Away @ Home" description
func (c *Contest) Matchup() string {
	return fmt.Sprintf("%s @ %s", c.AwayTeam, c.HomeTeam)
}

// IsResolved checks if the contest has a recorded result
func (c *Contest) IsResolved() bool {
	return c.Status == ContestStatusResolved
}
