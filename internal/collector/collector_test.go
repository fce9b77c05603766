package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

// MockContestRepository is a mock implementation of ContestRepository
type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) Upsert(ctx context.Context, contest *models.Contest) error {
	args := m.Called(ctx, contest)
	return args.Error(0)
}

func (m *MockContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contest), args.Error(1)
}

func (m *MockContestRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Contest, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contest), args.Error(1)
}

func (m *MockContestRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Contest, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contest), args.Error(1)
}

func (m *MockContestRepository) GetLastContestDate(ctx context.Context, team string, before time.Time) (time.Time, error) {
	args := m.Called(ctx, team, before)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockContestRepository) UpdateStatus(ctx context.Context, id string, status models.ContestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockAvailabilityRepository is a mock implementation of AvailabilityRepository
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) ReplaceForTeam(ctx context.Context, teamName string, records []*models.AvailabilityRecord) error {
	args := m.Called(ctx, teamName, records)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetByTeam(ctx context.Context, teamName string) ([]*models.AvailabilityRecord, error) {
	args := m.Called(ctx, teamName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AvailabilityRecord), args.Error(1)
}

// MockMarketLineRepository is a mock implementation of MarketLineRepository
type MockMarketLineRepository struct {
	mock.Mock
}

func (m *MockMarketLineRepository) Insert(ctx context.Context, line *models.MarketLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockMarketLineRepository) GetLatest(ctx context.Context, contestID string) (*models.MarketLine, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketLine), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 100
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

const scoreboardFixture = `{
	"events": [
		{
			"date": "2026-01-15T00:00Z",
			"status": {"type": {"shortDetail": "7:30 PM ET"}},
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "team": {"shortDisplayName": "Celtics"}},
					{"homeAway": "away", "team": {"shortDisplayName": "Lakers"}}
				]
			}]
		},
		{
			"date": "2026-01-15T00:00Z",
			"status": {"type": {"shortDetail": ""}},
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "team": {"shortDisplayName": "Nuggets"}}
				]
			}]
		}
	]
}`

func TestScheduleCollectorParsesScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "dates=")
		w.Write([]byte(scoreboardFixture))
	}))
	defer server.Close()

	repo := new(MockContestRepository)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	collector := NewScheduleCollector(testHTTPClient(), repo, server.URL, 1, testLogger())

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	contests, err := collector.Collect(context.Background(), date)
	require.NoError(t, err)

	// the one-sided event is dropped
	require.Len(t, contests, 1)
	assert.Equal(t, "nba_20260115_Lakers_Celtics", contests[0].ID)
	assert.Equal(t, "Celtics", contests[0].HomeTeam)
	assert.Equal(t, "Lakers", contests[0].AwayTeam)
	assert.Equal(t, "7:30 PM ET", contests[0].Tipoff)
	assert.Equal(t, models.ContestStatusScheduled, contests[0].Status)
	repo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestScheduleCollectorDegradesOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := new(MockContestRepository)
	collector := NewScheduleCollector(testHTTPClient(), repo, server.URL, 2, testLogger())

	contests, err := collector.Collect(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, contests)
	repo.AssertNumberOfCalls(t, "Upsert", 0)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		comment string
		want    models.AvailabilityStatus
	}{
		{"out", "Out", "", models.AvailabilityOut},
		{"day to day", "Day-To-Day", "", models.AvailabilityQuestionable},
		{"doubtful", "Doubtful", "", models.AvailabilityDoubtful},
		{"probable", "Probable", "", models.AvailabilityHealthy},
		{"suspended status", "Suspended", "", models.AvailabilitySuspended},
		{"suspension in comment", "Questionable", "facing a one-game suspension", models.AvailabilitySuspended},
		{"unknown", "something else", "", models.AvailabilityQuestionable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeStatus(tt.status, tt.comment))
		})
	}
}

func TestImpactScore(t *testing.T) {
	// star center out: 10.0 base, full severity, 1.2 position multiplier, capped at 10
	assert.Equal(t, 10.0, impactScore("Nikola Jokic", models.AvailabilityOut, "C", ""))

	// unlisted player questionable: 3.0 * 0.5
	assert.Equal(t, 1.5, impactScore("Bench Player", models.AvailabilityQuestionable, "", ""))

	// severe injury keyword forces full severity
	assert.Equal(t, 3.0, impactScore("Bench Player", models.AvailabilityQuestionable, "", "season-ending ACL tear"))

	// floor at 1
	assert.Equal(t, 1.0, impactScore("Bench Player", models.AvailabilityHealthy, "SG", ""))
}

func TestInjuryCollectorGroupsRecordsByTeam(t *testing.T) {
	fixture := `{
		"injuries": [
			{
				"displayName": "Boston Celtics",
				"injuries": [
					{
						"status": "Out",
						"shortComment": "knee soreness",
						"athlete": {"fullName": "Jayson Tatum", "position": {"abbreviation": "SF"}}
					},
					{
						"status": "Questionable",
						"athlete": {"fullName": "", "displayName": ""}
					}
				]
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer server.Close()

	repo := new(MockAvailabilityRepository)
	repo.On("ReplaceForTeam", mock.Anything, "Celtics", mock.MatchedBy(func(records []*models.AvailabilityRecord) bool {
		return len(records) == 1 &&
			records[0].PlayerName == "Jayson Tatum" &&
			records[0].Status == models.AvailabilityOut
	})).Return(nil)

	collector := NewInjuryCollector(testHTTPClient(), repo, testLogger())
	collector.baseURL = server.URL

	count, err := collector.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
}

func TestStatsCollectorIsDeterministic(t *testing.T) {
	collector := NewStatsCollector(nil, testLogger())

	a := collector.generate("Celtics")
	b := collector.generate("Celtics")
	other := collector.generate("Lakers")

	assert.Equal(t, a.Wins, b.Wins)
	assert.Equal(t, a.AvgPointsScored, b.AvgPointsScored)
	assert.NotEqual(t, a, other)

	assert.GreaterOrEqual(t, a.Wins, 25)
	assert.LessOrEqual(t, a.Wins, 45)
	assert.GreaterOrEqual(t, a.Last10Wins, 4)
	assert.LessOrEqual(t, a.Last10Wins, 8)
	assert.GreaterOrEqual(t, a.AvgPointsScored, 105.0)
	assert.LessOrEqual(t, a.AvgPointsScored, 120.0)
}

func TestSyntheticLineIsRepeatable(t *testing.T) {
	collector := NewOddsCollector(nil, nil, "", testLogger())
	contest := &models.Contest{ID: "nba_20260115_Lakers_Celtics"}

	a := collector.syntheticLine(contest)
	b := collector.syntheticLine(contest)

	assert.Equal(t, a.HomeSpread, b.HomeSpread)
	assert.Equal(t, a.Total, b.Total)
	assert.Equal(t, -a.HomeSpread, a.AwaySpread)

	// half-point increments
	assert.Equal(t, a.HomeSpread*2, float64(int(a.HomeSpread*2)))
	assert.GreaterOrEqual(t, a.HomeSpread, -10.0)
	assert.LessOrEqual(t, a.HomeSpread, 10.0)
	assert.GreaterOrEqual(t, a.Total, 210.0)
	assert.LessOrEqual(t, a.Total, 230.0)
}

func TestOddsCollectorPersistsLine(t *testing.T) {
	repo := new(MockMarketLineRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	collector := NewOddsCollector(nil, repo, "", testLogger())
	line, err := collector.Collect(context.Background(), &models.Contest{ID: "nba_20260115_Lakers_Celtics"})
	require.NoError(t, err)
	assert.Equal(t, "nba_20260115_Lakers_Celtics", line.ContestID)
	repo.AssertExpectations(t)
}
