package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/analyzer"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/notify"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/tracker"
)

// MockScheduleSource is a mock implementation of ScheduleSource
type MockScheduleSource struct {
	mock.Mock
}

func (m *MockScheduleSource) Collect(ctx context.Context, from time.Time) ([]*models.Contest, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contest), args.Error(1)
}

// MockSignalRefresher is a mock implementation of SignalRefresher
type MockSignalRefresher struct {
	mock.Mock
}

func (m *MockSignalRefresher) RefreshAll(ctx context.Context, contests []*models.Contest) error {
	args := m.Called(ctx, contests)
	return args.Error(0)
}

// MockSignalReader is a mock implementation of SignalReader
type MockSignalReader struct {
	mock.Mock
}

func (m *MockSignalReader) TeamSnapshot(ctx context.Context, teamName string) *models.TeamSnapshot {
	args := m.Called(ctx, teamName)
	return args.Get(0).(*models.TeamSnapshot)
}

func (m *MockSignalReader) Availability(ctx context.Context, teamName string) []*models.AvailabilityRecord {
	args := m.Called(ctx, teamName)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.AvailabilityRecord)
}

func (m *MockSignalReader) MarketLine(ctx context.Context, contestID string) (*models.MarketLine, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketLine), args.Error(1)
}

func (m *MockSignalReader) RestDays(ctx context.Context, teamName string, asOf time.Time) int {
	args := m.Called(ctx, teamName, asOf)
	return args.Int(0)
}

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ScoutReport(ctx context.Context, summary *notify.ScoutSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockNotifier) FinalReport(ctx context.Context, summary *notify.FinalSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// MockContestRepository is a mock implementation of repository.ContestRepository
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

// MockWatchListRepository is a mock implementation of repository.WatchListRepository
type MockWatchListRepository struct {
	mock.Mock
}

func (m *MockWatchListRepository) Refresh(ctx context.Context, date time.Time, entries []*models.WatchListEntry) error {
	args := m.Called(ctx, date, entries)
	return args.Error(0)
}

func (m *MockWatchListRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.WatchListEntry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WatchListEntry), args.Error(1)
}

// MockRecommendationRepository is a mock implementation of repository.RecommendationRepository
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecommendationRepository) DeleteForDate(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *MockRecommendationRepository) GetLatestByContestID(ctx context.Context, contestID string) (*models.Recommendation, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) GetDailyPick(ctx context.Context, date time.Time) (*models.Recommendation, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

// MockOutcomeRepository is a mock implementation of repository.OutcomeRepository
type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) Record(ctx context.Context, outcome *models.OutcomeRecord) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockOutcomeRepository) Resolve(ctx context.Context, contestID string, result models.BetResult, profitLoss float64, resolvedAt time.Time) error {
	args := m.Called(ctx, contestID, result, profitLoss, resolvedAt)
	return args.Error(0)
}

func (m *MockOutcomeRepository) GetByContestID(ctx context.Context, contestID string) (*models.OutcomeRecord, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OutcomeRecord), args.Error(1)
}

func (m *MockOutcomeRepository) GetPending(ctx context.Context, since time.Time) ([]*models.OutcomeRecord, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OutcomeRecord), args.Error(1)
}

func (m *MockOutcomeRepository) SeasonStats(ctx context.Context) (*models.SeasonStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SeasonStats), args.Error(1)
}

func (m *MockOutcomeRepository) RecentForm(ctx context.Context, limit int) (*models.FormSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSummary), args.Error(1)
}

func (m *MockOutcomeRepository) ConfidenceTierBreakdown(ctx context.Context) ([]*models.TierStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TierStats), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		MinConfidence:      7.0,
		ScoutConfidence:    6.5,
		MaxBetAmount:       10.0,
		MinBetAmount:       5.0,
		KellyFraction:      0.25,
		MoneylineProbFloor: 0.05,
		MaxAlternatives:    3,
		DailyBetLimit:      1,
	}
}

var testDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func testContest(id, away, home string) *models.Contest {
	return &models.Contest{
		ID:       id,
		Sport:    "nba",
		Date:     testDate,
		Tipoff:   "7:30 PM ET",
		HomeTeam: home,
		AwayTeam: away,
		Status:   models.ContestStatusScheduled,
	}
}

// fixture harness wiring mocks into a pipeline with the real scorer, engine,
// and tracker
type harness struct {
	pipeline *Pipeline
	schedule *MockScheduleSource
	refresh  *MockSignalRefresher
	signals  *MockSignalReader
	notifier *MockNotifier
	contests *MockContestRepository
	watch    *MockWatchListRepository
	recs     *MockRecommendationRepository
	outcomes *MockOutcomeRepository
}

func newHarness() *harness {
	h := &harness{
		schedule: new(MockScheduleSource),
		refresh:  new(MockSignalRefresher),
		signals:  new(MockSignalReader),
		notifier: new(MockNotifier),
		contests: new(MockContestRepository),
		watch:    new(MockWatchListRepository),
		recs:     new(MockRecommendationRepository),
		outcomes: new(MockOutcomeRepository),
	}

	logger := testLogger()
	repos := &repository.Repositories{
		Contest:        h.contests,
		WatchList:      h.watch,
		Recommendation: h.recs,
		Outcome:        h.outcomes,
	}

	h.pipeline = New(Options{
		Engine:    testEngineConfig(),
		Repos:     repos,
		Schedule:  h.schedule,
		Refresher: h.refresh,
		Signals:   h.signals,
		Scorer:    analyzer.NewScorer(nil),
		RecEngine: analyzer.NewEngine(testEngineConfig(), nil),
		Tracker:   tracker.NewTracker(repos, logger),
		Notifier:  h.notifier,
		Logger:    logger,
	})
	return h
}

// neutralSignals wires league-average snapshots, a healthy roster, and equal
// rest for every team, so the outcome is driven entirely by the line
func (h *harness) neutralSignals(teams ...string) {
	for _, team := range teams {
		h.signals.On("TeamSnapshot", mock.Anything, team).Return(models.NeutralSnapshot(team))
		h.signals.On("Availability", mock.Anything, team).Return(nil)
		h.signals.On("RestDays", mock.Anything, team, mock.Anything).Return(2)
	}
}

func (h *harness) lineFor(contestID string, homeSpread float64) {
	h.signals.On("MarketLine", mock.Anything, contestID).Return(&models.MarketLine{
		ContestID:  contestID,
		HomeSpread: homeSpread,
		Total:      221.5,
		CapturedAt: time.Now(),
	}, nil)
}

// Neutral snapshots give modelSpread -2.0 for every matchup. A home line of
// +4.0 yields edge -6.0 and confidence 8.8; a home line of -2.0 yields zero
// edge and confidence 4.0, below the scout bar.
func TestScoutRefreshesWatchList(t *testing.T) {
	h := newHarness()
	strong := testContest("nba_20260115_Lakers_Celtics", "Lakers", "Celtics")
	weak := testContest("nba_20260115_Heat_Knicks", "Heat", "Knicks")

	h.schedule.On("Collect", mock.Anything, testDate).Return([]*models.Contest{strong, weak}, nil)
	h.contests.On("GetByDate", mock.Anything, testDate).Return([]*models.Contest{strong, weak}, nil)
	h.refresh.On("RefreshAll", mock.Anything, mock.Anything).Return(nil)
	h.neutralSignals("Celtics", "Lakers", "Knicks", "Heat")
	h.lineFor(strong.ID, 4.0)
	h.lineFor(weak.ID, -2.0)

	h.watch.On("Refresh", mock.Anything, testDate, mock.MatchedBy(func(entries []*models.WatchListEntry) bool {
		return len(entries) == 1 &&
			entries[0].ContestID == strong.ID &&
			entries[0].ScoutConfidence == 8.8 &&
			entries[0].EarlyLean == "Celtics"
	})).Return(nil)
	h.contests.On("UpdateStatus", mock.Anything, strong.ID, models.ContestStatusWatchlisted).Return(nil)
	h.notifier.On("ScoutReport", mock.Anything, mock.Anything).Return(nil)

	summary, err := h.pipeline.Scout(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalContests)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, strong.ID, summary.Items[0].Contest.ID)
	assert.Equal(t, 8.8, summary.Items[0].Confidence)
	h.watch.AssertExpectations(t)
	h.contests.AssertExpectations(t)
	h.notifier.AssertExpectations(t)
}

func TestScoutEmptySlateStillPurgesWatchList(t *testing.T) {
	h := newHarness()

	h.schedule.On("Collect", mock.Anything, testDate).Return(nil, nil)
	h.contests.On("GetByDate", mock.Anything, testDate).Return([]*models.Contest{}, nil)
	h.watch.On("Refresh", mock.Anything, testDate, mock.MatchedBy(func(entries []*models.WatchListEntry) bool {
		return len(entries) == 0
	})).Return(nil)
	h.notifier.On("ScoutReport", mock.Anything, mock.MatchedBy(func(summary *notify.ScoutSummary) bool {
		return summary.TotalContests == 0 && len(summary.Items) == 0
	})).Return(nil)

	summary, err := h.pipeline.Scout(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalContests)
	h.watch.AssertExpectations(t)
}

func TestScoutSurvivesScheduleFailure(t *testing.T) {
	h := newHarness()
	contest := testContest("nba_20260115_Lakers_Celtics", "Lakers", "Celtics")

	h.schedule.On("Collect", mock.Anything, testDate).Return(nil, assert.AnError)
	h.contests.On("GetByDate", mock.Anything, testDate).Return([]*models.Contest{contest}, nil)
	h.refresh.On("RefreshAll", mock.Anything, mock.Anything).Return(nil)
	h.neutralSignals("Celtics", "Lakers")
	h.lineFor(contest.ID, 4.0)
	h.watch.On("Refresh", mock.Anything, testDate, mock.Anything).Return(nil)
	h.contests.On("UpdateStatus", mock.Anything, contest.ID, models.ContestStatusWatchlisted).Return(nil)
	h.notifier.On("ScoutReport", mock.Anything, mock.Anything).Return(nil)

	summary, err := h.pipeline.Scout(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalContests)
	assert.Len(t, summary.Items, 1)
}

// Both watch-listed contests qualify in final; the higher confidence becomes
// the daily pick and the other remains an alternative. Home line +4.0 gives
// confidence 8.8, +2.0 gives 7.2.
func TestFinalSelectsDailyPick(t *testing.T) {
	h := newHarness()
	pick := testContest("nba_20260115_Lakers_Celtics", "Lakers", "Celtics")
	alt := testContest("nba_20260115_Heat_Knicks", "Heat", "Knicks")

	h.watch.On("GetByDate", mock.Anything, testDate).Return([]*models.WatchListEntry{
		{ContestID: pick.ID, Date: testDate, ScoutConfidence: 8.8, EarlyLean: "Celtics"},
		{ContestID: alt.ID, Date: testDate, ScoutConfidence: 7.2, EarlyLean: "Knicks"},
	}, nil)
	h.contests.On("GetByID", mock.Anything, pick.ID).Return(pick, nil)
	h.contests.On("GetByID", mock.Anything, alt.ID).Return(alt, nil)
	h.refresh.On("RefreshAll", mock.Anything, mock.Anything).Return(nil)
	h.neutralSignals("Celtics", "Lakers", "Knicks", "Heat")
	h.lineFor(pick.ID, 4.0)
	h.lineFor(alt.ID, 2.0)

	h.recs.On("DeleteForDate", mock.Anything, testDate).Return(nil)
	h.recs.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
	h.contests.On("UpdateStatus", mock.Anything, pick.ID, models.ContestStatusRecommended).Return(nil)
	h.contests.On("UpdateStatus", mock.Anything, alt.ID, models.ContestStatusRecommended).Return(nil)
	h.outcomes.On("Record", mock.Anything, mock.MatchedBy(func(outcome *models.OutcomeRecord) bool {
		return outcome.ContestID == pick.ID && outcome.Stake.Equal(decimal.NewFromFloat(5.0))
	})).Return(nil).Once()
	h.outcomes.On("SeasonStats", mock.Anything).Return(&models.SeasonStats{Wins: 5, Losses: 3}, nil)
	h.outcomes.On("RecentForm", mock.Anything, 10).Return(&models.FormSummary{Wins: 4, Losses: 1}, nil)
	h.outcomes.On("ConfidenceTierBreakdown", mock.Anything).Return([]*models.TierStats{}, nil)
	h.notifier.On("FinalReport", mock.Anything, mock.Anything).Return(nil)

	summary, err := h.pipeline.Final(context.Background(), testDate)
	require.NoError(t, err)

	require.NotNil(t, summary.DailyPick)
	assert.Equal(t, pick.ID, summary.DailyPick.ContestID)
	assert.True(t, summary.DailyPick.IsDailyPick)
	assert.Equal(t, "Celtics +4.0", summary.DailyPick.Selection)
	require.NotNil(t, summary.DailyPick.ScoutConfidence)
	assert.Equal(t, 8.8, *summary.DailyPick.ScoutConfidence)

	require.Len(t, summary.Alternatives, 1)
	assert.Equal(t, alt.ID, summary.Alternatives[0].ContestID)
	assert.False(t, summary.Alternatives[0].IsDailyPick)

	assert.Equal(t, "5-3-0", summary.SeasonRecord)
	assert.Equal(t, "4-1", summary.RecentForm)
	h.recs.AssertExpectations(t)
	h.outcomes.AssertExpectations(t)
}

// A home line of +0.5 yields edge -2.5 and confidence 6.0, below the final
// floor of 7.0: the recommendation persists as a pass and no bet is placed.
func TestFinalNoQualifyingBets(t *testing.T) {
	h := newHarness()
	contest := testContest("nba_20260115_Lakers_Celtics", "Lakers", "Celtics")

	h.watch.On("GetByDate", mock.Anything, testDate).Return([]*models.WatchListEntry{
		{ContestID: contest.ID, Date: testDate, ScoutConfidence: 6.6},
	}, nil)
	h.contests.On("GetByID", mock.Anything, contest.ID).Return(contest, nil)
	h.refresh.On("RefreshAll", mock.Anything, mock.Anything).Return(nil)
	h.neutralSignals("Celtics", "Lakers")
	h.lineFor(contest.ID, 0.5)

	h.recs.On("DeleteForDate", mock.Anything, testDate).Return(nil)
	h.recs.On("Create", mock.Anything, mock.MatchedBy(func(rec *models.Recommendation) bool {
		return rec.BetType == models.BetTypeNone && rec.Reason == "Confidence 6.0 below threshold 7.0"
	})).Return(nil).Once()
	h.contests.On("UpdateStatus", mock.Anything, contest.ID, models.ContestStatusScored).Return(nil)
	h.outcomes.On("SeasonStats", mock.Anything).Return(&models.SeasonStats{}, nil)
	h.outcomes.On("RecentForm", mock.Anything, 10).Return(&models.FormSummary{}, nil)
	h.outcomes.On("ConfidenceTierBreakdown", mock.Anything).Return([]*models.TierStats{}, nil)
	h.notifier.On("FinalReport", mock.Anything, mock.Anything).Return(nil)

	summary, err := h.pipeline.Final(context.Background(), testDate)
	require.NoError(t, err)

	assert.Nil(t, summary.DailyPick)
	assert.Empty(t, summary.Alternatives)
	assert.Equal(t, "0-0-0", summary.SeasonRecord)
	h.outcomes.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	h.recs.AssertExpectations(t)
	h.outcomes.AssertExpectations(t)
}

func TestFinalEmptyWatchList(t *testing.T) {
	h := newHarness()

	h.watch.On("GetByDate", mock.Anything, testDate).Return([]*models.WatchListEntry{}, nil)
	h.notifier.On("FinalReport", mock.Anything, mock.MatchedBy(func(summary *notify.FinalSummary) bool {
		return summary.DailyPick == nil && len(summary.Alternatives) == 0
	})).Return(nil)

	summary, err := h.pipeline.Final(context.Background(), testDate)
	require.NoError(t, err)
	assert.Nil(t, summary.DailyPick)
	// nothing watch-listed means nothing is scored or persisted
	h.recs.AssertNotCalled(t, "DeleteForDate", mock.Anything, mock.Anything)
	h.signals.AssertNotCalled(t, "MarketLine", mock.Anything, mock.Anything)
}

// Notification delivery failures never fail the phase: the watch list and
// recommendations are already persisted by the time the report goes out.
func TestNotifyFailureDoesNotFailPhase(t *testing.T) {
	h := newHarness()

	h.watch.On("GetByDate", mock.Anything, testDate).Return([]*models.WatchListEntry{}, nil)
	h.notifier.On("FinalReport", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := h.pipeline.Final(context.Background(), testDate)
	assert.NoError(t, err)
}

func TestRunExecutesBothPhases(t *testing.T) {
	h := newHarness()

	h.schedule.On("Collect", mock.Anything, testDate).Return(nil, nil)
	h.contests.On("GetByDate", mock.Anything, testDate).Return([]*models.Contest{}, nil)
	h.watch.On("Refresh", mock.Anything, testDate, mock.Anything).Return(nil)
	h.watch.On("GetByDate", mock.Anything, testDate).Return([]*models.WatchListEntry{}, nil)
	h.notifier.On("ScoutReport", mock.Anything, mock.Anything).Return(nil)
	h.notifier.On("FinalReport", mock.Anything, mock.Anything).Return(nil)

	summary, err := h.pipeline.Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Nil(t, summary.DailyPick)
	h.notifier.AssertExpectations(t)
}
