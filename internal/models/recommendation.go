package models

import (
	"time"

	"github.com/google/uuid"
)

// BetType represents the market a recommendation targets
type BetType string

const (
	BetTypeSpread    BetType = "spread"
	BetTypeMoneyline BetType = "moneyline"
	BetTypeNone      BetType = "none"
)

// RiskTier represents the risk classification of a recommendation
type RiskTier string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// RiskTierFor classifies a confidence value
func RiskTierFor(confidence float64) RiskTier {
	switch {
	case confidence >= 8.0:
		return RiskTierLow
	case confidence >= 7.0:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

// Recommendation is one engine output per contest per phase. Immutable once
// created; a later phase supersedes it with a new row rather than mutating.
type Recommendation struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ContestID       string    `db:"contest_id" json:"contest_id" validate:"required"`
	HomeTeam        string    `db:"home_team" json:"home_team"`
	AwayTeam        string    `db:"away_team" json:"away_team"`
	Tipoff          string    `db:"tipoff" json:"tipoff"`
	BetType         BetType   `db:"bet_type" json:"bet_type" validate:"oneof=spread moneyline none"`
	Selection       string    `db:"selection" json:"selection"`
	Side            string    `db:"side" json:"side"` // team name the bet backs, empty for none
	Confidence      float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=10"`
	ExpectedValue   float64   `db:"expected_value" json:"expected_value"`
	RiskTier        RiskTier  `db:"risk_tier" json:"risk_tier"`
	Stake           float64   `db:"stake" json:"stake"`
	MaxStake        float64   `db:"max_stake" json:"max_stake"`
	Reasoning       []string  `db:"reasoning" json:"reasoning"`
	Concerns        []string  `db:"concerns" json:"concerns"`
	Reason          string    `db:"reason" json:"reason"` // populated when BetType is none
	IsDailyPick     bool      `db:"is_daily_pick" json:"is_daily_pick"`
	ScoutConfidence *float64  `db:"scout_confidence" json:"scout_confidence"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// IsActionable reports whether the engine produced a bet rather than a pass
func (r *Recommendation) IsActionable() bool {
	return r.BetType == BetTypeSpread || r.BetTypeIsMoneyline()
}

// BetTypeIsMoneyline reports whether this is a moneyline recommendation
func (r *Recommendation) BetTypeIsMoneyline() bool {
	return r.BetType == BetTypeMoneyline
}

// WatchListEntry is one contest that passed the scout-phase bar, carried to
// the same day's final phase through the watch_list table.
type WatchListEntry struct {
	ContestID       string    `db:"contest_id" json:"contest_id"`
	Date            time.Time `db:"date" json:"date"`
	ScoutConfidence float64   `db:"scout_confidence" json:"scout_confidence"`
	EarlyLean       string    `db:"early_lean" json:"early_lean"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
