package analyzer

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
)

// spreadScale converts an adjusted-power gap into a realistic point spread
const spreadScale = 0.5

// defaultHomeCourt is assumed when a team has no home/away split yet
const defaultHomeCourt = 3.0

// availabilityDivisor turns summed impact points into a bounded factor
const availabilityDivisor = 5.0

// ScoringInput carries everything one composite pass needs. Collectors fill
// it; the scorer itself performs no I/O.
type ScoringInput struct {
	Contest          *models.Contest
	HomeSnapshot     *models.TeamSnapshot
	AwaySnapshot     *models.TeamSnapshot
	HomeAvailability []*models.AvailabilityRecord
	AwayAvailability []*models.AvailabilityRecord
	HomeRestDays     int
	AwayRestDays     int
	Line             *models.MarketLine // nil when the book has not posted
}

// Scorer combines both teams' power ratings with situational adjustments
// into a model spread and an edge against the market
type Scorer struct {
	logger *logrus.Logger
}

// NewScorer creates a new composite scorer
func NewScorer(logger *logrus.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Score runs one full composite pass. Spreads use bookmaker convention
// throughout: negative means the home side is favored.
func (s *Scorer) Score(input ScoringInput) *models.ScoringResult {
	home := input.Contest.HomeTeam
	away := input.Contest.AwayTeam

	homePower := PowerRating(input.HomeSnapshot)
	awayPower := PowerRating(input.AwaySnapshot)

	form := formFactor(home, away, input.HomeSnapshot, input.AwaySnapshot)
	homeCourt := homeCourtFactor(input.HomeSnapshot)
	availability := availabilityFactor(home, away, input.HomeAvailability, input.AwayAvailability)
	rest := restFactor(home, away, input.HomeRestDays, input.AwayRestDays)

	// Form and home court lift the home side; an availability gap hurts the
	// side missing more value; a rest edge swings both directions.
	homeAdjust := form.Score*0.5 + homeCourt.Score - availability.Score + rest.Score
	awayAdjust := -form.Score*0.5 + availability.Score - rest.Score

	homeAdjusted := clamp(homePower+homeAdjust, PowerFloor, PowerCeiling)
	awayAdjusted := clamp(awayPower+awayAdjust, PowerFloor, PowerCeiling)

	modelSpread := round1(-(homeAdjusted - awayAdjusted) * spreadScale)

	result := &models.ScoringResult{
		ContestID:    input.Contest.ID,
		HomeTeam:     home,
		AwayTeam:     away,
		HomePower:    round1(homePower),
		AwayPower:    round1(awayPower),
		HomeAdjusted: round1(homeAdjusted),
		AwayAdjusted: round1(awayAdjusted),
		Factors: []models.FactorScore{
			powerFactor(home, away, homePower, awayPower),
			form,
			homeCourt,
			availability,
			rest,
		},
		ModelSpread: modelSpread,
		PowerGap:    round1(math.Abs(homeAdjusted - awayAdjusted)),
	}

	if input.Line != nil {
		result.HasLine = true
		result.BookSpread = input.Line.HomeSpread
		result.HomeMoneyline = input.Line.HomeMoneyline
		result.AwayMoneyline = input.Line.AwayMoneyline
	}
	// Without a posted line the model spread itself stands in as the edge:
	// the engine will still refuse to bet, but the scout phase can rank the
	// contest by how lopsided the model thinks it is.
	result.Edge = round1(modelSpread - result.BookSpread)

	result.Confidence = confidence(result.Edge, result.PowerGap)
	result.Interpretation = models.InterpretConfidence(result.Confidence)
	if modelSpread < 0 {
		result.PredictedWinner = home
	} else {
		result.PredictedWinner = away
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"contest":      input.Contest.ID,
			"model_spread": result.ModelSpread,
			"book_spread":  result.BookSpread,
			"edge":         result.Edge,
			"confidence":   result.Confidence,
		}).Debug("Contest scored")
	}

	return result
}

// confidence grows with edge magnitude; a wide power gap adds conviction and
// a near coin-flip removes it. Clamped to [0,10].
func confidence(edge, powerGap float64) float64 {
	var gapAdjust float64
	switch {
	case powerGap > 15:
		gapAdjust = 1.5
	case powerGap < 5:
		gapAdjust = -1.0
	}

	return round1(clamp(5.0+math.Abs(edge)*0.8+gapAdjust, 0, 10))
}

func powerFactor(home, away string, homePower, awayPower float64) models.FactorScore {
	return models.FactorScore{
		Name:        "team_quality",
		Score:       round2(homePower - awayPower),
		Explanation: fmt.Sprintf("Power ratings: %s %.0f, %s %.0f", home, homePower, away, awayPower),
	}
}

// formFactor compares last-10 win rates, bounded to ±10
func formFactor(home, away string, homeSnap, awaySnap *models.TeamSnapshot) models.FactorScore {
	homeL10 := homeSnap.Last10Pct()
	awayL10 := awaySnap.Last10Pct()

	score := clamp((homeL10-awayL10)*20, -10, 10)

	return models.FactorScore{
		Name:        "recent_form",
		Score:       round2(score),
		Explanation: fmt.Sprintf("Recent form: %s %.0f%%, %s %.0f%%", home, homeL10*100, away, awayL10*100),
	}
}

// homeCourtFactor derives the home side's venue edge from its home-vs-away
// win-rate gap, bounded to [0,10]
func homeCourtFactor(homeSnap *models.TeamSnapshot) models.FactorScore {
	homePct := homeSnap.HomeWinPct()
	awayPct := homeSnap.AwayWinPct()

	value := defaultHomeCourt
	if homePct >= 0 && awayPct >= 0 {
		value = (homePct - awayPct) * 20
	}
	score := clamp(value, 0, 10)

	return models.FactorScore{
		Name:        "home_court",
		Score:       round2(score),
		Explanation: fmt.Sprintf("Home court advantage: +%.1f points", score),
	}
}

// availabilityFactor compares summed impact of confirmed absences. Positive
// means the home side is missing more value.
func availabilityFactor(home, away string, homeRecords, awayRecords []*models.AvailabilityRecord) models.FactorScore {
	homeLoss := models.TotalAvailabilityLoss(homeRecords)
	awayLoss := models.TotalAvailabilityLoss(awayRecords)

	score := clamp((homeLoss-awayLoss)/availabilityDivisor, -10, 10)

	return models.FactorScore{
		Name:        "availability",
		Score:       round2(score),
		Explanation: fmt.Sprintf("Injury gap: %+.1f pts (%s -%s)", score, home, away),
	}
}

// restFactor compares days of rest, bounded to ±5. One day of rest is a
// back-to-back and counts as a penalty, not a positive.
func restFactor(home, away string, homeRest, awayRest int) models.FactorScore {
	homeDays := adjustedRest(homeRest)
	awayDays := adjustedRest(awayRest)

	score := clamp(float64(homeDays-awayDays)*1.5, -5, 5)

	return models.FactorScore{
		Name:        "rest",
		Score:       round2(score),
		Explanation: fmt.Sprintf("Rest: %s %dd, %s %dd", home, homeDays, away, awayDays),
	}
}

func adjustedRest(days int) int {
	if days == 1 {
		return days - 2
	}
	return days
}
