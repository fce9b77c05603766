// Package pipeline orchestrates the two daily batch phases. Scout runs in
// the morning: collect the slate, score every contest, and carry the
// promising ones to the watch list. Final runs before tipoff: re-pull fresh
// signals for watch-listed contests only, re-score them, and pick at most
// one bet for the day.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/analyzer"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/notify"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/tracker"
)

// ScheduleSource fetches the upcoming slate and persists it
type ScheduleSource interface {
	Collect(ctx context.Context, from time.Time) ([]*models.Contest, error)
}

// SignalRefresher re-collects every scoring signal for a set of contests
type SignalRefresher interface {
	RefreshAll(ctx context.Context, contests []*models.Contest) error
}

// SignalReader is the read side of the signal store. Implementations degrade
// to neutral defaults for missing data; only MarketLine surfaces absence.
type SignalReader interface {
	TeamSnapshot(ctx context.Context, teamName string) *models.TeamSnapshot
	Availability(ctx context.Context, teamName string) []*models.AvailabilityRecord
	MarketLine(ctx context.Context, contestID string) (*models.MarketLine, error)
	RestDays(ctx context.Context, teamName string, asOf time.Time) int
}

// Options bundles the pipeline's collaborators
type Options struct {
	Engine    config.EngineConfig
	Features  config.FeaturesConfig
	Repos     *repository.Repositories
	Schedule  ScheduleSource
	Refresher SignalRefresher
	Signals   SignalReader
	Scorer    *analyzer.Scorer
	RecEngine *analyzer.Engine
	Tracker   *tracker.Tracker
	Notifier  notify.Notifier
	Logger    *logrus.Logger
}

// Pipeline runs the scout and final phases
type Pipeline struct {
	cfg       config.EngineConfig
	features  config.FeaturesConfig
	repos     *repository.Repositories
	schedule  ScheduleSource
	refresher SignalRefresher
	signals   SignalReader
	scorer    *analyzer.Scorer
	engine    *analyzer.Engine
	tracker   *tracker.Tracker
	notifier  notify.Notifier
	logger    *logrus.Logger
}

// New creates a pipeline from its collaborators
func New(opts Options) *Pipeline {
	return &Pipeline{
		cfg:       opts.Engine,
		features:  opts.Features,
		repos:     opts.Repos,
		schedule:  opts.Schedule,
		refresher: opts.Refresher,
		signals:   opts.Signals,
		scorer:    opts.Scorer,
		engine:    opts.RecEngine,
		tracker:   opts.Tracker,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}
}

// Scout screens the full slate for the given date and refreshes the watch
// list with every contest whose preliminary confidence clears the scout bar.
// Re-running scout for the same date replaces the list rather than growing
// it. One bad contest never aborts the batch.
func (p *Pipeline) Scout(ctx context.Context, date time.Time) (*notify.ScoutSummary, error) {
	start := time.Now()
	summary, err := p.scout(ctx, date)
	metrics.RecordPhase("scout", time.Since(start).Seconds(), err != nil)
	return summary, err
}

func (p *Pipeline) scout(ctx context.Context, date time.Time) (*notify.ScoutSummary, error) {
	if _, err := p.schedule.Collect(ctx, date); err != nil {
		// previously collected contests may still be on file
		metrics.RecordCollectorError("schedule")
		p.logger.WithError(err).Warn("Schedule collection failed, scoring stored slate")
	}

	contests, err := p.repos.Contest.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load slate: %w", err)
	}

	summary := &notify.ScoutSummary{
		Date:          date,
		TotalContests: len(contests),
	}

	if len(contests) == 0 {
		// purge stale entries so final never acts on an old list
		if err := p.repos.WatchList.Refresh(ctx, date, nil); err != nil {
			return nil, fmt.Errorf("failed to refresh watch list: %w", err)
		}
		metrics.SetWatchListSize(0)
		p.notify(ctx, func(ctx context.Context) error {
			return p.notifier.ScoutReport(ctx, summary)
		})
		return summary, nil
	}

	if err := p.refresher.RefreshAll(ctx, contests); err != nil {
		metrics.RecordCollectorError("refresh")
		p.logger.WithError(err).Warn("Signal refresh incomplete, scoring with stored signals")
	}

	var entries []*models.WatchListEntry
	for _, contest := range contests {
		result := p.scoreContest(ctx, contest)

		if result.Confidence < p.cfg.ScoutConfidence {
			continue
		}

		entries = append(entries, &models.WatchListEntry{
			ContestID:       contest.ID,
			Date:            date,
			ScoutConfidence: result.Confidence,
			EarlyLean:       result.PredictedWinner,
		})
		summary.Items = append(summary.Items, notify.ScoutItem{
			Contest:    contest,
			Confidence: result.Confidence,
			EarlyLean:  result.PredictedWinner,
		})
	}

	sort.SliceStable(summary.Items, func(i, j int) bool {
		return summary.Items[i].Confidence > summary.Items[j].Confidence
	})

	if err := p.repos.WatchList.Refresh(ctx, date, entries); err != nil {
		return nil, fmt.Errorf("failed to refresh watch list: %w", err)
	}
	metrics.SetWatchListSize(len(entries))

	for _, entry := range entries {
		if err := p.repos.Contest.UpdateStatus(ctx, entry.ContestID, models.ContestStatusWatchlisted); err != nil {
			p.logger.WithField("contest", entry.ContestID).WithError(err).Warn("Status update failed")
		}
	}

	p.logger.WithFields(logrus.Fields{
		"date":         date.Format("2006-01-02"),
		"contests":     len(contests),
		"watch_listed": len(entries),
	}).Info("Scout phase complete")

	p.notify(ctx, func(ctx context.Context) error {
		return p.notifier.ScoutReport(ctx, summary)
	})
	return summary, nil
}

// Final re-scores the day's watch list with fresh signals and selects the
// daily pick. Contests that were never watch-listed are not reconsidered.
// Re-running final for the same date replaces its recommendations.
func (p *Pipeline) Final(ctx context.Context, date time.Time) (*notify.FinalSummary, error) {
	start := time.Now()
	summary, err := p.final(ctx, date)
	metrics.RecordPhase("final", time.Since(start).Seconds(), err != nil)
	return summary, err
}

func (p *Pipeline) final(ctx context.Context, date time.Time) (*notify.FinalSummary, error) {
	entries, err := p.repos.WatchList.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch list: %w", err)
	}

	summary := &notify.FinalSummary{
		Date:         date,
		PaperTrading: p.features.PaperTradingEnabled,
	}

	if len(entries) == 0 {
		p.logger.WithField("date", date.Format("2006-01-02")).Info("No watch list for date, nothing to finalize")
		p.notify(ctx, func(ctx context.Context) error {
			return p.notifier.FinalReport(ctx, summary)
		})
		return summary, nil
	}

	contests, scoutConfidence := p.loadWatchedContests(ctx, entries)

	if err := p.refresher.RefreshAll(ctx, contests); err != nil {
		metrics.RecordCollectorError("refresh")
		p.logger.WithError(err).Warn("Signal refresh incomplete, finalizing with stored signals")
	}

	var recs []*models.Recommendation
	for _, contest := range contests {
		result := p.scoreContest(ctx, contest)
		rec := p.engine.Recommend(contest, result)
		if sc, ok := scoutConfidence[contest.ID]; ok {
			rec.ScoutConfidence = &sc
		}
		metrics.RecordRecommendation(string(rec.BetType))
		recs = append(recs, rec)
	}

	actionable := p.selectDailyPicks(recs)

	if err := p.persistRecommendations(ctx, date, recs); err != nil {
		return nil, err
	}

	for _, rec := range recs {
		status := models.ContestStatusScored
		if rec.IsActionable() {
			status = models.ContestStatusRecommended
		}
		if err := p.repos.Contest.UpdateStatus(ctx, rec.ContestID, status); err != nil {
			p.logger.WithField("contest", rec.ContestID).WithError(err).Warn("Status update failed")
		}
	}

	for _, rec := range actionable {
		if !rec.IsDailyPick {
			continue
		}
		if err := p.tracker.RecordPlacement(ctx, rec); err != nil {
			p.logger.WithField("contest", rec.ContestID).WithError(err).Error("Failed to record placement")
		}
	}

	summary.DailyPick = dailyPick(actionable)
	summary.Alternatives = alternatives(actionable, p.cfg.MaxAlternatives)
	p.fillPerformance(ctx, summary)

	p.logger.WithFields(logrus.Fields{
		"date":       date.Format("2006-01-02"),
		"watched":    len(entries),
		"actionable": len(actionable),
		"daily_pick": summary.DailyPick != nil,
	}).Info("Final phase complete")

	p.notify(ctx, func(ctx context.Context) error {
		return p.notifier.FinalReport(ctx, summary)
	})
	return summary, nil
}

// Run executes scout followed by final, the full daily cycle in one shot
func (p *Pipeline) Run(ctx context.Context, date time.Time) (*notify.FinalSummary, error) {
	if _, err := p.Scout(ctx, date); err != nil {
		return nil, fmt.Errorf("scout phase failed: %w", err)
	}
	return p.Final(ctx, date)
}

// scoreContest assembles the scoring input from current signals. A missing
// market line is expected before the book posts; any other read failure
// degrades to scoring without a line.
func (p *Pipeline) scoreContest(ctx context.Context, contest *models.Contest) *models.ScoringResult {
	line, err := p.signals.MarketLine(ctx, contest.ID)
	if err != nil && !errors.Is(err, models.ErrNoMarketLine) {
		p.logger.WithField("contest", contest.ID).WithError(err).Warn("Line read failed, scoring without line")
		line = nil
	}

	input := analyzer.ScoringInput{
		Contest:          contest,
		HomeSnapshot:     p.signals.TeamSnapshot(ctx, contest.HomeTeam),
		AwaySnapshot:     p.signals.TeamSnapshot(ctx, contest.AwayTeam),
		HomeAvailability: p.signals.Availability(ctx, contest.HomeTeam),
		AwayAvailability: p.signals.Availability(ctx, contest.AwayTeam),
		HomeRestDays:     p.signals.RestDays(ctx, contest.HomeTeam, contest.Date),
		AwayRestDays:     p.signals.RestDays(ctx, contest.AwayTeam, contest.Date),
		Line:             line,
	}

	metrics.RecordContestScored()
	return p.scorer.Score(input)
}

// loadWatchedContests resolves watch list entries to contests, dropping any
// whose contest row has gone missing
func (p *Pipeline) loadWatchedContests(ctx context.Context, entries []*models.WatchListEntry) ([]*models.Contest, map[string]float64) {
	contests := make([]*models.Contest, 0, len(entries))
	scoutConfidence := make(map[string]float64, len(entries))

	for _, entry := range entries {
		contest, err := p.repos.Contest.GetByID(ctx, entry.ContestID)
		if err != nil {
			p.logger.WithField("contest", entry.ContestID).WithError(err).Warn("Watch-listed contest missing, skipping")
			continue
		}
		contests = append(contests, contest)
		scoutConfidence[contest.ID] = entry.ScoutConfidence
	}

	return contests, scoutConfidence
}

// selectDailyPicks ranks actionable recommendations by confidence and marks
// the top ones as daily picks, up to the daily bet limit. Returns the
// actionable set in rank order.
func (p *Pipeline) selectDailyPicks(recs []*models.Recommendation) []*models.Recommendation {
	var actionable []*models.Recommendation
	for _, rec := range recs {
		if rec.IsActionable() {
			actionable = append(actionable, rec)
		}
	}

	sort.SliceStable(actionable, func(i, j int) bool {
		if actionable[i].Confidence != actionable[j].Confidence {
			return actionable[i].Confidence > actionable[j].Confidence
		}
		return actionable[i].ExpectedValue > actionable[j].ExpectedValue
	})

	for i, rec := range actionable {
		if i >= p.cfg.DailyBetLimit {
			break
		}
		rec.IsDailyPick = true
		metrics.RecordDailyPick(rec.Confidence)
	}

	return actionable
}

// persistRecommendations replaces the date's recommendations atomically
// enough for a daily batch: delete the old set, then insert the new one
func (p *Pipeline) persistRecommendations(ctx context.Context, date time.Time, recs []*models.Recommendation) error {
	if err := p.repos.Recommendation.DeleteForDate(ctx, date); err != nil {
		return fmt.Errorf("failed to clear prior recommendations: %w", err)
	}

	for _, rec := range recs {
		if err := p.repos.Recommendation.Create(ctx, rec); err != nil {
			return fmt.Errorf("failed to store recommendation for %s: %w", rec.ContestID, err)
		}
	}
	return nil
}

func (p *Pipeline) fillPerformance(ctx context.Context, summary *notify.FinalSummary) {
	report, err := p.tracker.Performance(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Performance lookup failed, report omits record")
		return
	}
	summary.SeasonRecord = report.Season.Record()
	summary.RecentForm = report.Form.Record()
}

// notify delivers a report. Delivery failures are logged, never propagated:
// by this point the phase's state is already persisted and a lost Slack
// message must not look like a failed run.
func (p *Pipeline) notify(ctx context.Context, send func(ctx context.Context) error) {
	if err := send(ctx); err != nil {
		metrics.RecordNotifyError()
		p.logger.WithError(err).Error("Report delivery failed")
	}
}

func dailyPick(actionable []*models.Recommendation) *models.Recommendation {
	for _, rec := range actionable {
		if rec.IsDailyPick {
			return rec
		}
	}
	return nil
}

func alternatives(actionable []*models.Recommendation, limit int) []*models.Recommendation {
	var alts []*models.Recommendation
	for _, rec := range actionable {
		if rec.IsDailyPick {
			continue
		}
		alts = append(alts, rec)
		if len(alts) == limit {
			break
		}
	}
	return alts
}
