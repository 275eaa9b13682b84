package football_nfl

import (
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// NFLModule implements SportModule for NFL football
type NFLModule struct{}

// New creates a new NFL sport module
func New() *NFLModule {
	return &NFLModule{}
}

func (m *NFLModule) GetSportKey() string {
	return "americanfootball_nfl"
}

func (m *NFLModule) GetESPNSportPath() string {
	return "football/nfl"
}

// DefaultPollingConfig is the cadence used when none is configured
func (m *NFLModule) DefaultPollingConfig() contracts.PollingConfig {
	return contracts.PollingConfig{
		Interval:     20 * time.Second,
		FetchTimeout: 10 * time.Second,
	}
}

func (m *NFLModule) ParseEvents(scoreboard map[string]interface{}) []models.ScoreboardEvent {
	return ParseEvents(scoreboard)
}

func (m *NFLModule) GameState(summary map[string]interface{}) string {
	return GameState(summary)
}

func (m *NFLModule) StatValue(summary map[string]interface{}, leg models.Leg) (float64, int, bool) {
	return StatValue(summary, leg)
}

func (m *NFLModule) LivePlayers(summary map[string]interface{}) []models.LivePlayer {
	return Players(summary)
}

func (m *NFLModule) GetTeamAbbreviation(nameOrAbbr string) string {
	return GetTeamAbbreviation(nameOrAbbr)
}

func (m *NFLModule) GetTeamName(abbr string) string {
	return GetTeamName(abbr)
}

var _ contracts.SportModule = (*NFLModule)(nil)
