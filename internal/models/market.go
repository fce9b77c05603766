package models

import "time"

// MarketLine represents the book's posted prices for a contest at a point in
// time. Multiple lines may exist per contest; scoring always uses the latest.
type MarketLine struct {
	ContestID     string    `db:"contest_id" json:"contest_id" validate:"required"`
	HomeSpread    float64   `db:"home_spread" json:"home_spread"`
	AwaySpread    float64   `db:"away_spread" json:"away_spread"`
	Total         float64   `db:"total" json:"total"`
	HomeMoneyline int       `db:"home_ml" json:"home_ml"`
	AwayMoneyline int       `db:"away_ml" json:"away_ml"`
	CapturedAt    time.Time `db:"captured_at" json:"captured_at"`
}

// HasMoneylines reports whether both moneyline prices were posted
func (m *MarketLine) HasMoneylines() bool {
	return m.HomeMoneyline != 0 && m.AwayMoneyline != 0
}

// ImpliedProbability converts American odds to the book's implied win
// probability (vig included).
func ImpliedProbability(americanOdds int) float64 {
	if americanOdds == 0 {
		return 0
	}
	if americanOdds > 0 {
		return 100.0 / (float64(americanOdds) + 100.0)
	}
	return float64(-americanOdds) / (float64(-americanOdds) + 100.0)
}
