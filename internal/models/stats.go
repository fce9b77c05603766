package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SeasonStats is the aggregate performance of all resolved recommendations.
// AvgConfidenceWins vs AvgConfidenceLosses is the primary calibration signal:
// if confidence is predictive, wins should carry the higher average.
type SeasonStats struct {
	TotalBets          int             `json:"total_bets"`
	Wins               int             `json:"wins"`
	Losses             int             `json:"losses"`
	Pushes             int             `json:"pushes"`
	TotalWagered       decimal.Decimal `json:"total_wagered"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	AvgConfidenceWins  float64         `json:"avg_confidence_wins"`
	AvgConfidenceLosses float64        `json:"avg_confidence_losses"`
}

// Record formats the season record as W-L-P
func (s *SeasonStats) Record() string {
	return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Pushes)
}

// WinRate returns the win percentage over decided bets (pushes excluded)
func (s *SeasonStats) WinRate() float64 {
	decided := s.Wins + s.Losses
	if decided == 0 {
		return 0
	}
	return float64(s.Wins) / float64(decided) * 100
}

// ROI returns net profit as a percentage of total wagered
func (s *SeasonStats) ROI() float64 {
	if s.TotalWagered.IsZero() {
		return 0
	}
	roi, _ := s.NetProfit.Div(s.TotalWagered).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

// FormSummary is the rolling record over the last N resolved bets
type FormSummary struct {
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
	Pushes int             `json:"pushes"`
	Profit decimal.Decimal `json:"profit"`
}

// Record formats the rolling record as W-L
func (f *FormSummary) Record() string {
	return fmt.Sprintf("%d-%d", f.Wins, f.Losses)
}

// TierStats is the performance of one confidence band
type TierStats struct {
	Tier   string          `json:"tier"`
	Count  int             `json:"count"`
	Wins   int             `json:"wins"`
	Profit decimal.Decimal `json:"profit"`
}

// WinRate returns the win percentage within the tier
func (t *TierStats) WinRate() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Count) * 100
}
