// Package analyzer implements the scoring pipeline: power ratings, the
// composite situational model, and the confidence-gated recommendation
// engine.
package analyzer

import (
	"math"

	"github.com/yourusername/courtside/internal/models"
)

// Power ratings live on a 0-100 scale but are clamped to [20,80] so extreme
// small-sample records cannot run away with the composite.
const (
	PowerFloor   = 20.0
	PowerCeiling = 80.0
)

// PowerRating converts a team's statistical snapshot into a bounded strength
// value: a .500 team with zero differential rates exactly 50. Recomputed on
// every scoring pass so it always reflects the freshest snapshot.
func PowerRating(s *models.TeamSnapshot) float64 {
	base := 50 + (s.WinPct()-0.5)*40
	pointDiff := s.PointDifferential * 2
	momentum := (s.Last10Pct() - s.WinPct()) * 15
	net := s.NetRating() * 1.5

	return clamp(base+pointDiff+momentum+net, PowerFloor, PowerCeiling)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
