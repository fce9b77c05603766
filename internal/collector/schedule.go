package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// ScheduleCollector pulls upcoming contests from the public scoreboard API
// and persists them. A fetch or parse failure for one day degrades to "no
// data for that day" rather than failing the whole pass.
type ScheduleCollector struct {
	httpClient *RateLimitedHTTPClient
	contests   repository.ContestRepository
	baseURL    string
	daysAhead  int
	logger     *logrus.Logger
}

// NewScheduleCollector creates a new schedule collector
func NewScheduleCollector(httpClient *RateLimitedHTTPClient, contests repository.ContestRepository, baseURL string, daysAhead int, logger *logrus.Logger) *ScheduleCollector {
	return &ScheduleCollector{
		httpClient: httpClient,
		contests:   contests,
		baseURL:    baseURL,
		daysAhead:  daysAhead,
		logger:     logger,
	}
}

// scoreboardResponse mirrors the scoreboard API payload shape
type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	Date         string                  `json:"date"`
	Status       scoreboardStatus        `json:"status"`
	Competitions []scoreboardCompetition `json:"competitions"`
}

type scoreboardStatus struct {
	Type struct {
		ShortDetail string `json:"shortDetail"`
	} `json:"type"`
}

type scoreboardCompetition struct {
	Competitors []scoreboardCompetitor `json:"competitors"`
}

type scoreboardCompetitor struct {
	HomeAway string `json:"homeAway"`
	Team     struct {
		ShortDisplayName string `json:"shortDisplayName"`
	} `json:"team"`
}

// Collect fetches the schedule for today plus daysAhead-1 further days,
// upserting each contest. Returns the contests found across all days.
func (c *ScheduleCollector) Collect(ctx context.Context, from time.Time) ([]*models.Contest, error) {
	var collected []*models.Contest

	for offset := 0; offset < c.daysAhead; offset++ {
		date := from.AddDate(0, 0, offset)

		contests, err := c.collectDay(ctx, date)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"date":  date.Format("2006-01-02"),
				"error": err,
			}).Warn("Schedule fetch failed for date, continuing")
			continue
		}

		for _, contest := range contests {
			if err := c.contests.Upsert(ctx, contest); err != nil {
				return collected, fmt.Errorf("failed to save contest %s: %w", contest.ID, err)
			}
			collected = append(collected, contest)
		}
	}

	return collected, nil
}

func (c *ScheduleCollector) collectDay(ctx context.Context, date time.Time) ([]*models.Contest, error) {
	url := fmt.Sprintf("%s?dates=%s", c.baseURL, date.Format("20060102"))

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var scoreboard scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&scoreboard); err != nil {
		return nil, fmt.Errorf("failed to parse scoreboard: %w", err)
	}

	var contests []*models.Contest
	for _, event := range scoreboard.Events {
		contest := c.parseEvent(&event, date)
		if contest == nil {
			continue
		}
		contests = append(contests, contest)
	}

	return contests, nil
}

// parseEvent extracts a contest from one scoreboard event. Events missing a
// home or away side are skipped.
func (c *ScheduleCollector) parseEvent(event *scoreboardEvent, date time.Time) *models.Contest {
	if len(event.Competitions) == 0 {
		return nil
	}

	var home, away string
	for _, competitor := range event.Competitions[0].Competitors {
		switch competitor.HomeAway {
		case "home":
			home = competitor.Team.ShortDisplayName
		case "away":
			away = competitor.Team.ShortDisplayName
		}
	}
	if home == "" || away == "" {
		return nil
	}

	tipoff := event.Status.Type.ShortDetail
	if tipoff == "" {
		tipoff = "TBD"
	}

	now := time.Now()
	return &models.Contest{
		ID:        models.NewContestID(date, away, home),
		Sport:     "nba",
		Date:      date,
		Tipoff:    tipoff,
		HomeTeam:  home,
		AwayTeam:  away,
		Status:    models.ContestStatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
