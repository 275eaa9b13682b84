package contracts

import (
	"context"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// SportModule holds the sport-specific knowledge of the feed payloads
type SportModule interface {
	// Identification
	GetSportKey() string      // "americanfootball_nfl"
	GetESPNSportPath() string // "football/nfl"

	// Scoreboard parsing
	ParseEvents(scoreboard map[string]interface{}) []models.ScoreboardEvent

	// Summary parsing
	GameState(summary map[string]interface{}) string
	StatValue(summary map[string]interface{}, leg models.Leg) (value float64, matches int, ok bool)
	LivePlayers(summary map[string]interface{}) []models.LivePlayer

	// Team normalization for the add-flow
	GetTeamAbbreviation(nameOrAbbr string) string
	GetTeamName(abbr string) string

	// Cadence used when the deployment does not override it
	DefaultPollingConfig() PollingConfig
}

// Feed fetches decoded upstream documents
type Feed interface {
	FetchScoreboard(ctx context.Context) (map[string]interface{}, error)
	FetchGameSummary(ctx context.Context, eventID string) (map[string]interface{}, error)
}

// SnapshotSink receives every applied snapshot
type SnapshotSink interface {
	Name() string
	PublishSnapshot(ctx context.Context, snapshot models.Snapshot) error
}

// PollingConfig defines the reconciliation cadence
type PollingConfig struct {
	Interval     time.Duration // between ticks
	FetchTimeout time.Duration // bound on every upstream call
}
