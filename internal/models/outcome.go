package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetResult represents the realized result of a recommendation
type BetResult string

const (
	BetResultWin  BetResult = "win"
	BetResultLoss BetResult = "loss"
	BetResultPush BetResult = "push"
)

// ParseBetResult validates a user-supplied result string
func ParseBetResult(s string) (BetResult, error) {
	switch BetResult(s) {
	case BetResultWin, BetResultLoss, BetResultPush:
		return BetResult(s), nil
	default:
		return "", ErrInvalidResult
	}
}

// StandardOdds is the laid price assumed for spread bets: risk 110 to win 100
const StandardOdds = -110

// OutcomeRecord links one recommendation to its real-world result. Exactly
// one record may exist per contest; a duplicate insert is a no-op.
type OutcomeRecord struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ContestID  string          `db:"contest_id" json:"contest_id" validate:"required"`
	Selection  string          `db:"selection" json:"selection"`
	BetType    BetType         `db:"bet_type" json:"bet_type"`
	Confidence float64         `db:"confidence" json:"confidence"`
	Odds       int             `db:"odds" json:"odds"`
	Stake      decimal.Decimal `db:"stake" json:"stake"`
	Result     *BetResult      `db:"result" json:"result"`
	ProfitLoss decimal.Decimal `db:"profit_loss" json:"profit_loss"`
	PlacedAt   time.Time       `db:"placed_at" json:"placed_at"`
	ResolvedAt *time.Time      `db:"resolved_at" json:"resolved_at"`
}

// IsResolved reports whether a result has been recorded
func (o *OutcomeRecord) IsResolved() bool {
	return o.Result != nil && o.ResolvedAt != nil
}
