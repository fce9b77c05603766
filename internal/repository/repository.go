package repository

import (
	"fmt"

	"github.com/yourusername/courtside/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Contest        ContestRepository
	TeamSnapshot   TeamSnapshotRepository
	Availability   AvailabilityRepository
	MarketLine     MarketLineRepository
	WatchList      WatchListRepository
	Recommendation RecommendationRepository
	Outcome        OutcomeRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Contest:        NewPostgresContestRepository(db),
		TeamSnapshot:   NewPostgresTeamSnapshotRepository(db),
		Availability:   NewPostgresAvailabilityRepository(db),
		MarketLine:     NewPostgresMarketLineRepository(db),
		WatchList:      NewPostgresWatchListRepository(db),
		Recommendation: NewPostgresRecommendationRepository(db),
		Outcome:        NewPostgresOutcomeRepository(db),
	}, nil
}
