package models

import "time"

// AvailabilityStatus represents a player's game availability
type AvailabilityStatus string

const (
	AvailabilityHealthy      AvailabilityStatus = "healthy"
	AvailabilityQuestionable AvailabilityStatus = "questionable"
	AvailabilityDoubtful     AvailabilityStatus = "doubtful"
	AvailabilityOut          AvailabilityStatus = "out"
	AvailabilitySuspended    AvailabilityStatus = "suspended"
)

// DefaultImpactScore is assumed for players without a computed impact weight
const DefaultImpactScore = 5.0

// AvailabilityRecord represents one player's availability for the owning team
type AvailabilityRecord struct {
	PlayerName  string             `db:"player_name" json:"player_name" validate:"required"`
	TeamName    string             `db:"team_name" json:"team_name" validate:"required"`
	Status      AvailabilityStatus `db:"status" json:"status" validate:"oneof=healthy questionable doubtful out suspended"`
	ImpactScore float64            `db:"impact_score" json:"impact_score" validate:"gte=0,lte=10"`
	Detail      string             `db:"detail" json:"detail"`
	ReportedAt  time.Time          `db:"reported_at" json:"reported_at"`
}

// CountsAsLoss reports whether the player's production is unavailable tonight.
// Questionable and doubtful players are treated as playing; only confirmed
// absences move the availability-loss score.
func (a *AvailabilityRecord) CountsAsLoss() bool {
	return a.Status == AvailabilityOut || a.Status == AvailabilitySuspended
}

// Impact returns the player's impact weight, falling back to the default
func (a *AvailabilityRecord) Impact() float64 {
	if a.ImpactScore <= 0 {
		return DefaultImpactScore
	}
	return a.ImpactScore
}

// TotalAvailabilityLoss sums the impact of all confirmed absences
func TotalAvailabilityLoss(records []*AvailabilityRecord) float64 {
	var total float64
	for _, r := range records {
		if r.CountsAsLoss() {
			total += r.Impact()
		}
	}
	return total
}
