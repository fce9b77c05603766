package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testContest() *models.Contest {
	return &models.Contest{
		ID:       "nba_20260115_Lakers_Celtics",
		HomeTeam: "Celtics",
		AwayTeam: "Lakers",
		Tipoff:   "7:30 PM ET",
	}
}

func TestBuildScoutMessage(t *testing.T) {
	msg := buildScoutMessage(&ScoutSummary{
		TotalContests: 8,
		Items: []ScoutItem{
			{Contest: testContest(), Confidence: 7.2, EarlyLean: "Celtics"},
		},
	})

	assert.Contains(t, msg, "SCOUT REPORT")
	assert.Contains(t, msg, "Analyzed 8 NBA games | 1 worth watching")
	assert.Contains(t, msg, "Lakers @ Celtics")
	assert.Contains(t, msg, "Early confidence: 7.2/10")
	assert.Contains(t, msg, "Early lean: Celtics")
}

func TestBuildScoutMessageEmptyWatchList(t *testing.T) {
	msg := buildScoutMessage(&ScoutSummary{TotalContests: 5})
	assert.Contains(t, msg, "No games met the watch threshold today")
}

func TestBuildFinalMessage(t *testing.T) {
	msg := buildFinalMessage(&FinalSummary{
		DailyPick: &models.Recommendation{
			HomeTeam:      "Celtics",
			AwayTeam:      "Lakers",
			Tipoff:        "7:30 PM ET",
			Selection:     "Celtics -3.0",
			Confidence:    9.0,
			ExpectedValue: 15.0,
			Stake:         5.0,
			RiskTier:      models.RiskTierLow,
			Reasoning:     []string{"Power ratings: Celtics 62, Lakers 54"},
		},
		Alternatives: []*models.Recommendation{{}, {}},
		SeasonRecord: "12-7-1",
		RecentForm:   "6-4",
		PaperTrading: true,
	})

	assert.Contains(t, msg, "DAILY PICK")
	assert.Contains(t, msg, "BET: Celtics -3.0")
	assert.Contains(t, msg, "Confidence: 9.0/10")
	assert.Contains(t, msg, "Expected Value: +15.0%")
	assert.Contains(t, msg, "Recommended Bet: $5.00")
	assert.Contains(t, msg, "Risk: low")
	assert.Contains(t, msg, "Power ratings")
	assert.Contains(t, msg, "Season: 12-7-1 | Recent: 6-4")
	assert.Contains(t, msg, "Also considered 2 other games")
	assert.Contains(t, msg, "Paper trading mode")
}

func TestBuildFinalMessageNoPick(t *testing.T) {
	msg := buildFinalMessage(&FinalSummary{Date: time.Now()})
	assert.Contains(t, msg, "No Qualifying Bets")
	assert.Contains(t, msg, "Better to pass than force a bet")
}

func TestSlackNotifierPostsPayload(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, "#bets", testLogger())
	err := notifier.ScoutReport(context.Background(), &ScoutSummary{TotalContests: 3})
	require.NoError(t, err)

	assert.Equal(t, "#bets", received["channel"])
	assert.Contains(t, received["text"], "SCOUT REPORT")
}

func TestSlackNotifierSurfacesDeliveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, "", testLogger())
	err := notifier.FinalReport(context.Background(), &FinalSummary{})
	assert.Error(t, err)
}
