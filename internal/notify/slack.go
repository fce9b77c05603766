// Package notify delivers scout and final reports to a Slack webhook.
// Delivery is best-effort: a failed post never rolls back the persisted
// recommendations behind it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
)

// ScoutItem is one watch-listed contest in the scout report
type ScoutItem struct {
	Contest    *models.Contest
	Confidence float64
	EarlyLean  string
}

// ScoutSummary is the morning report: how many contests were screened and
// which ones are worth watching
type ScoutSummary struct {
	Date          time.Time
	TotalContests int
	Items         []ScoutItem
}

// FinalSummary is the afternoon report: the day's pick with its reasoning,
// plus the alternatives that also qualified
type FinalSummary struct {
	Date         time.Time
	DailyPick    *models.Recommendation
	Alternatives []*models.Recommendation
	SeasonRecord string
	RecentForm   string
	PaperTrading bool
}

// Notifier delivers phase reports
type Notifier interface {
	ScoutReport(ctx context.Context, summary *ScoutSummary) error
	FinalReport(ctx context.Context, summary *FinalSummary) error
}

// SlackNotifier posts markdown-formatted reports to an incoming webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
	logger     *logrus.Logger
}

// NewSlackNotifier creates a webhook notifier
func NewSlackNotifier(webhookURL, channel string, logger *logrus.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// ScoutReport posts the morning watch list summary
func (n *SlackNotifier) ScoutReport(ctx context.Context, summary *ScoutSummary) error {
	return n.post(ctx, buildScoutMessage(summary))
}

// FinalReport posts the daily pick, or the explicit no-qualifying-bet notice
func (n *SlackNotifier) FinalReport(ctx context.Context, summary *FinalSummary) error {
	return n.post(ctx, buildFinalMessage(summary))
}

func (n *SlackNotifier) post(ctx context.Context, text string) error {
	payload := map[string]string{"text": text}
	if n.channel != "" {
		payload["channel"] = n.channel
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Slack report delivered")
	return nil
}

// scoutItemLimit bounds how many watch-listed contests the report names
const scoutItemLimit = 3

func buildScoutMessage(summary *ScoutSummary) string {
	var b strings.Builder

	b.WriteString("*SCOUT REPORT*\n\n")
	fmt.Fprintf(&b, "Analyzed %d NBA games | %d worth watching\n\n", summary.TotalContests, len(summary.Items))

	if len(summary.Items) == 0 {
		b.WriteString("_No games met the watch threshold today_\n")
		return b.String()
	}

	for i, item := range summary.Items {
		if i == scoutItemLimit {
			break
		}
		fmt.Fprintf(&b, "%d. *%s* (%s)\n", i+1, item.Contest.Matchup(), item.Contest.Tipoff)
		fmt.Fprintf(&b, "   Early confidence: %.1f/10\n", item.Confidence)
		if item.EarlyLean != "" {
			fmt.Fprintf(&b, "   Early lean: %s\n", item.EarlyLean)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// finalReasonLimit bounds the reasoning bullets in the final report
const finalReasonLimit = 3

func buildFinalMessage(summary *FinalSummary) string {
	if summary.DailyPick == nil {
		return "*FINAL MODE: No Qualifying Bets*\n\n" +
			"Analyzed watch list but no games met confidence threshold.\n" +
			"Better to pass than force a bet."
	}

	pick := summary.DailyPick
	var b strings.Builder

	b.WriteString("*DAILY PICK*\n\n")
	fmt.Fprintf(&b, "*%s @ %s* | %s\n\n", pick.AwayTeam, pick.HomeTeam, pick.Tipoff)
	fmt.Fprintf(&b, "*BET: %s*\n", pick.Selection)
	fmt.Fprintf(&b, "Confidence: %.1f/10\n", pick.Confidence)
	fmt.Fprintf(&b, "Expected Value: +%.1f%%\n", pick.ExpectedValue)
	fmt.Fprintf(&b, "Recommended Bet: $%.2f\n", pick.Stake)
	fmt.Fprintf(&b, "Risk: %s\n\n", pick.RiskTier)

	if len(pick.Reasoning) > 0 {
		b.WriteString("*Why This Bet:*\n")
		for i, reason := range pick.Reasoning {
			if i == finalReasonLimit {
				break
			}
			fmt.Fprintf(&b, "- %s\n", reason)
		}
	}

	if summary.SeasonRecord != "" {
		fmt.Fprintf(&b, "\nSeason: %s | Recent: %s\n", summary.SeasonRecord, summary.RecentForm)
	}

	if len(summary.Alternatives) > 0 {
		fmt.Fprintf(&b, "\n_Also considered %d other games_\n", len(summary.Alternatives))
	}

	if summary.PaperTrading {
		b.WriteString("\nPaper trading mode - review before placing\n")
	}

	return b.String()
}

// NoopNotifier is used when notifications are disabled
type NoopNotifier struct{}

// ScoutReport is a no-op
func (NoopNotifier) ScoutReport(context.Context, *ScoutSummary) error { return nil }

// FinalReport is a no-op
func (NoopNotifier) FinalReport(context.Context, *FinalSummary) error { return nil }

// FromConfig returns a Slack notifier when enabled, a no-op otherwise
func FromConfig(enabled bool, webhookURL, channel string, logger *logrus.Logger) Notifier {
	if !enabled || webhookURL == "" {
		return NoopNotifier{}
	}
	return NewSlackNotifier(webhookURL, channel, logger)
}
