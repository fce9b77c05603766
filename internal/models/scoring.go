package models

// FactorScore is one signed sub-score contributing to the composite, with a
// human-readable explanation carried into recommendation reasoning.
type FactorScore struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// ScoringResult is the full output of one composite scoring pass for a
// contest. It is not persisted standalone; the fields that matter downstream
// are embedded into the resulting Recommendation.
type ScoringResult struct {
	ContestID string `json:"contest_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`

	HomePower    float64 `json:"home_power"`
	AwayPower    float64 `json:"away_power"`
	HomeAdjusted float64 `json:"home_adjusted"`
	AwayAdjusted float64 `json:"away_adjusted"`

	Factors []FactorScore `json:"factors"`

	// Spreads use bookmaker convention: negative means the home side is
	// favored by that many points.
	ModelSpread float64 `json:"model_spread"`
	BookSpread  float64 `json:"book_spread"`
	HasLine     bool    `json:"has_line"`

	// Edge = ModelSpread - BookSpread. Negative means the model favors the
	// home side more than the book does; positive favors the away side.
	Edge float64 `json:"edge"`

	PowerGap        float64 `json:"power_gap"` // |HomeAdjusted - AwayAdjusted|
	Confidence      float64 `json:"confidence"`
	Interpretation  string  `json:"interpretation"`
	PredictedWinner string  `json:"predicted_winner"`

	HomeMoneyline int `json:"home_ml"`
	AwayMoneyline int `json:"away_ml"`
}

// ModelFavorsHome reports whether the model disagrees with the book toward
// the home side.
func (s *ScoringResult) ModelFavorsHome() bool {
	return s.Edge < 0
}

// HasMoneylines reports whether the captured line included both moneyline
// prices, enabling the moneyline fallback.
func (s *ScoringResult) HasMoneylines() bool {
	return s.HomeMoneyline != 0 && s.AwayMoneyline != 0
}

// InterpretConfidence maps a confidence value onto the reporting scale
func InterpretConfidence(confidence float64) string {
	switch {
	case confidence >= 8.5:
		return "Very Strong"
	case confidence >= 7.0:
		return "Strong"
	case confidence >= 6.0:
		return "Good"
	case confidence >= 5.0:
		return "Slight Edge"
	default:
		return "Pass"
	}
}
