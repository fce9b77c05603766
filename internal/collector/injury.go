package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// DefaultInjuryURL is the public injury report endpoint
const DefaultInjuryURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/injuries"

// teamNameMap normalizes full franchise names to the short names used as
// keys everywhere else in the system
var teamNameMap = map[string]string{
	"Atlanta Hawks":          "Hawks",
	"Boston Celtics":         "Celtics",
	"Brooklyn Nets":          "Nets",
	"Charlotte Hornets":      "Hornets",
	"Chicago Bulls":          "Bulls",
	"Cleveland Cavaliers":    "Cavaliers",
	"Dallas Mavericks":       "Mavericks",
	"Denver Nuggets":         "Nuggets",
	"Detroit Pistons":        "Pistons",
	"Golden State Warriors":  "Warriors",
	"Houston Rockets":        "Rockets",
	"Indiana Pacers":         "Pacers",
	"Los Angeles Clippers":   "Clippers",
	"Los Angeles Lakers":     "Lakers",
	"LA Clippers":            "Clippers",
	"LA Lakers":              "Lakers",
	"Memphis Grizzlies":      "Grizzlies",
	"Miami Heat":             "Heat",
	"Milwaukee Bucks":        "Bucks",
	"Minnesota Timberwolves": "Timberwolves",
	"New Orleans Pelicans":   "Pelicans",
	"New York Knicks":        "Knicks",
	"Oklahoma City Thunder":  "Thunder",
	"Orlando Magic":          "Magic",
	"Philadelphia 76ers":     "76ers",
	"Phoenix Suns":           "Suns",
	"Portland Trail Blazers": "Trail Blazers",
	"Sacramento Kings":       "Kings",
	"San Antonio Spurs":      "Spurs",
	"Toronto Raptors":        "Raptors",
	"Utah Jazz":              "Jazz",
	"Washington Wizards":     "Wizards",
}

// suspensionKeywords in a report comment reclassify the absence as a
// suspension regardless of the listed status
var suspensionKeywords = []string{"suspend", "suspension", "fight", "discipline", "brawl", "ejected", "ineligible"}

// severeInjuryKeywords force full severity regardless of listed status
var severeInjuryKeywords = []string{"achilles", "acl", "mcl", "ligament", "fracture", "out for season", "ruptured"}

// starPlayerWeights rates the league's highest-impact players on a 0-10
// scale. Unlisted players default to 3.
var starPlayerWeights = map[string]float64{
	"Nikola Jokic": 10.0, "Giannis Antetokounmpo": 9.5, "Luka Doncic": 9.5,
	"Shai Gilgeous-Alexander": 9.5, "Jayson Tatum": 9.0, "Joel Embiid": 9.0,
	"Stephen Curry": 8.5, "Kevin Durant": 8.5, "LeBron James": 8.5,
	"Damian Lillard": 8.0, "Donovan Mitchell": 8.0, "Anthony Edwards": 8.0,
	"Domantas Sabonis": 7.5, "De'Aaron Fox": 7.5, "Jaylen Brown": 7.5,
	"Jalen Brunson": 7.5, "Zion Williamson": 7.5, "Bam Adebayo": 7.5,
	"Anthony Davis": 7.5, "Victor Wembanyama": 7.5,
	"Tyrese Haliburton": 7.0, "Pascal Siakam": 7.0, "Kyrie Irving": 7.0,
	"Bradley Beal": 6.5, "Karl-Anthony Towns": 6.5, "Paul George": 6.5,
	"Jimmy Butler": 6.5, "LaMelo Ball": 6.5, "Trae Young": 6.5,
	"Cade Cunningham": 6.5,
	"Julius Randle": 6.0, "Darius Garland": 6.0, "Chet Holmgren": 6.0,
	"Alperen Sengun": 6.0,
	"Rudy Gobert": 5.5,
}

// positionImpact scales impact by how hard the position is to cover
var positionImpact = map[string]float64{
	"C": 1.2, "PG": 1.1, "SF": 1.0, "PF": 1.0, "SG": 0.9,
}

// InjuryCollector pulls the league injury report and converts each entry
// into an availability record with a computed impact weight
type InjuryCollector struct {
	httpClient   *RateLimitedHTTPClient
	availability repository.AvailabilityRepository
	baseURL      string
	logger       *logrus.Logger
}

// NewInjuryCollector creates a new injury collector
func NewInjuryCollector(httpClient *RateLimitedHTTPClient, availability repository.AvailabilityRepository, logger *logrus.Logger) *InjuryCollector {
	return &InjuryCollector{
		httpClient:   httpClient,
		availability: availability,
		baseURL:      DefaultInjuryURL,
		logger:       logger,
	}
}

type injuryResponse struct {
	Injuries []teamInjuries `json:"injuries"`
}

type teamInjuries struct {
	DisplayName string        `json:"displayName"`
	Injuries    []injuryEntry `json:"injuries"`
}

type injuryEntry struct {
	Status       string `json:"status"`
	ShortComment string `json:"shortComment"`
	LongComment  string `json:"longComment"`
	Athlete      struct {
		FullName    string `json:"fullName"`
		DisplayName string `json:"displayName"`
		Position    struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
	} `json:"athlete"`
}

// Collect fetches the current injury report and replaces each affected
// team's availability records
func (c *InjuryCollector) Collect(ctx context.Context) (int, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch injury report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var report injuryResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return 0, fmt.Errorf("failed to parse injury report: %w", err)
	}

	total := 0
	now := time.Now()
	for _, team := range report.Injuries {
		teamName := normalizeTeamName(team.DisplayName)

		var records []*models.AvailabilityRecord
		for _, entry := range team.Injuries {
			record := c.parseEntry(&entry, teamName, now)
			if record == nil {
				continue
			}
			records = append(records, record)
		}

		if err := c.availability.ReplaceForTeam(ctx, teamName, records); err != nil {
			return total, fmt.Errorf("failed to save availability for %s: %w", teamName, err)
		}
		total += len(records)
	}

	c.logger.WithField("records", total).Info("Injury report collected")
	return total, nil
}

func (c *InjuryCollector) parseEntry(entry *injuryEntry, teamName string, now time.Time) *models.AvailabilityRecord {
	name := entry.Athlete.FullName
	if name == "" {
		name = entry.Athlete.DisplayName
	}
	if name == "" {
		return nil
	}

	comment := entry.LongComment
	if comment == "" {
		comment = entry.ShortComment
	}

	status := normalizeStatus(entry.Status, comment)
	position := entry.Athlete.Position.Abbreviation

	return &models.AvailabilityRecord{
		PlayerName:  name,
		TeamName:    teamName,
		Status:      status,
		ImpactScore: impactScore(name, status, position, comment),
		Detail:      comment,
		ReportedAt:  now,
	}
}

func normalizeTeamName(displayName string) string {
	if short, ok := teamNameMap[displayName]; ok {
		return short
	}
	return displayName
}

// normalizeStatus maps the feed's free-form status to a known value.
// A suspension mentioned in the comment overrides the listed status.
func normalizeStatus(status, comment string) models.AvailabilityStatus {
	status = strings.ToLower(strings.TrimSpace(status))
	commentLower := strings.ToLower(comment)

	for _, kw := range suspensionKeywords {
		if strings.Contains(commentLower, kw) {
			return models.AvailabilitySuspended
		}
	}

	switch {
	case strings.Contains(status, "suspended"), strings.Contains(status, "ineligible"):
		return models.AvailabilitySuspended
	case strings.Contains(status, "out"):
		return models.AvailabilityOut
	case strings.Contains(status, "doubtful"):
		return models.AvailabilityDoubtful
	case strings.Contains(status, "probable"):
		return models.AvailabilityHealthy
	default:
		return models.AvailabilityQuestionable
	}
}

// impactScore weighs star rating, absence certainty, and position scarcity
// into a 1-10 score
func impactScore(playerName string, status models.AvailabilityStatus, position, comment string) float64 {
	base, ok := starPlayerWeights[playerName]
	if !ok {
		base = 3.0
	}

	var severity float64
	switch status {
	case models.AvailabilityOut, models.AvailabilitySuspended:
		severity = 1.0
	case models.AvailabilityDoubtful:
		severity = 0.75
	case models.AvailabilityQuestionable:
		severity = 0.5
	default:
		severity = 0.25
	}

	commentLower := strings.ToLower(comment)
	for _, kw := range severeInjuryKeywords {
		if strings.Contains(commentLower, kw) {
			severity = 1.0
			break
		}
	}

	mult, ok := positionImpact[position]
	if !ok {
		mult = 1.0
	}

	score := math.Round(base*severity*mult*10) / 10
	return math.Min(10, math.Max(1, score))
}
