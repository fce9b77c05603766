package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/models"
)

// edgeTier pairs a confidence floor with the edge required to act at that
// level of conviction
type edgeTier struct {
	ConfidenceFloor float64
	RequiredEdge    float64
}

// edgeTiers is evaluated top-down; higher conviction needs less disagreement
// with the market to justify a bet. Boundaries are inclusive.
var edgeTiers = []edgeTier{
	{8.5, 2.0},
	{7.0, 3.0},
	{0.0, 4.0},
}

// RequiredEdge returns the minimum edge magnitude for a confidence value
func RequiredEdge(confidence float64) float64 {
	for _, tier := range edgeTiers {
		if confidence >= tier.ConfidenceFloor {
			return tier.RequiredEdge
		}
	}
	return edgeTiers[len(edgeTiers)-1].RequiredEdge
}

// maxReasons bounds the reasoning list on a recommendation
const maxReasons = 4

// reasonThreshold is the factor magnitude below which a factor is not worth
// mentioning
const reasonThreshold = 2.0

// spreadEVMultiplier converts edge points to an expected-value percentage
const spreadEVMultiplier = 3.0

// Engine turns a scoring result into a recommendation or an explicit pass.
// Thresholds come from configuration at construction time so tests can vary
// them per run.
type Engine struct {
	cfg    config.EngineConfig
	logger *logrus.Logger
}

// NewEngine creates a new recommendation engine
func NewEngine(cfg config.EngineConfig, logger *logrus.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// Recommend applies the confidence floor, the tiered edge gate, and the
// moneyline fallback. A pass is a first-class output, never an error.
func (e *Engine) Recommend(contest *models.Contest, result *models.ScoringResult) *models.Recommendation {
	rec := &models.Recommendation{
		ID:         uuid.New(),
		ContestID:  contest.ID,
		HomeTeam:   contest.HomeTeam,
		AwayTeam:   contest.AwayTeam,
		Tipoff:     contest.Tipoff,
		BetType:    models.BetTypeNone,
		Confidence: result.Confidence,
		MaxStake:   e.cfg.MaxBetAmount,
		CreatedAt:  time.Now(),
	}

	if !result.HasLine {
		rec.Reason = "No betting lines available"
		return rec
	}

	if result.Confidence < e.cfg.MinConfidence {
		rec.Reason = fmt.Sprintf("Confidence %.1f below threshold %.1f", result.Confidence, e.cfg.MinConfidence)
		return rec
	}

	if e.spreadQualifies(result) {
		e.fillSpreadBet(rec, result)
	} else if result.HasMoneylines() {
		if !e.fillMoneylineBet(rec, result) {
			rec.Reason = "No clear betting edge"
			return rec
		}
	} else {
		rec.Reason = "No betting lines available"
		return rec
	}

	rec.Stake = e.stake(result.Edge)
	rec.RiskTier = models.RiskTierFor(result.Confidence)
	rec.Reasoning = buildReasoning(result.Factors)
	rec.Concerns = []string{"Monitor injury reports before placing bet"}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"contest":    contest.ID,
			"bet_type":   rec.BetType,
			"selection":  rec.Selection,
			"confidence": rec.Confidence,
			"stake":      rec.Stake,
		}).Info("Recommendation generated")
	}

	return rec
}

// spreadQualifies applies the tiered edge gate. A zero edge never qualifies:
// agreeing with the book is not a bet.
func (e *Engine) spreadQualifies(result *models.ScoringResult) bool {
	if result.Edge == 0 {
		return false
	}
	return math.Abs(result.Edge) >= RequiredEdge(result.Confidence)
}

func (e *Engine) fillSpreadBet(rec *models.Recommendation, result *models.ScoringResult) {
	rec.BetType = models.BetTypeSpread
	rec.ExpectedValue = round1(math.Abs(result.Edge) * spreadEVMultiplier)

	if result.ModelFavorsHome() {
		rec.Side = result.HomeTeam
		rec.Selection = fmt.Sprintf("%s %+.1f", result.HomeTeam, result.BookSpread)
	} else {
		rec.Side = result.AwayTeam
		rec.Selection = fmt.Sprintf("%s %+.1f", result.AwayTeam, -result.BookSpread)
	}
}

// fillMoneylineBet compares the model's implied home win probability against
// the book's. Only the home side is considered; the fallback exists to catch
// home value the spread gate missed, not to chase road dogs.
func (e *Engine) fillMoneylineBet(rec *models.Recommendation, result *models.ScoringResult) bool {
	bookProb := models.ImpliedProbability(result.HomeMoneyline)
	modelProb := clamp(0.5-result.ModelSpread/20, 0.05, 0.95)

	gap := modelProb - bookProb
	if gap <= e.cfg.MoneylineProbFloor {
		return false
	}

	rec.BetType = models.BetTypeMoneyline
	rec.Side = result.HomeTeam
	rec.Selection = fmt.Sprintf("%s ML (%+d)", result.HomeTeam, result.HomeMoneyline)
	rec.ExpectedValue = round1(gap * 100)
	return true
}

// stake sizes the bet as a capped fraction of the maximum: the edge scaled
// into a Kelly-style percentage, floored at the minimum bet. Deliberately an
// approximation, not a true Kelly calculation.
func (e *Engine) stake(edge float64) float64 {
	pct := (math.Abs(edge) / 10) * e.cfg.KellyFraction
	amount := round2(e.cfg.MaxBetAmount * pct)
	return clamp(amount, e.cfg.MinBetAmount, e.cfg.MaxBetAmount)
}

// buildReasoning keeps the explanations of factors that moved the needle
func buildReasoning(factors []models.FactorScore) []string {
	var reasons []string
	for _, f := range factors {
		if math.Abs(f.Score) >= reasonThreshold {
			reasons = append(reasons, f.Explanation)
		}
		if len(reasons) == maxReasons {
			break
		}
	}
	return reasons
}
