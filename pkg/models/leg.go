package models

// LegType identifies the market a leg tracks
type LegType string

const (
	LegTypePlayer LegType = "player"
	LegTypeSpread LegType = "spread"
	LegTypeTotal  LegType = "total"
	LegTypeWinner LegType = "winner"
)

// Valid reports whether t is a known leg type
func (t LegType) Valid() bool {
	switch t {
	case LegTypePlayer, LegTypeSpread, LegTypeTotal, LegTypeWinner:
		return true
	}
	return false
}

// LegStatus is the display state of a leg
type LegStatus string

const (
	StatusUnavailable LegStatus = "unavailable"
	StatusLive        LegStatus = "live"
	StatusHit         LegStatus = "hit"
	StatusMiss        LegStatus = "miss"
)

// Valid reports whether s is a known leg status
func (s LegStatus) Valid() bool {
	switch s {
	case StatusUnavailable, StatusLive, StatusHit, StatusMiss:
		return true
	}
	return false
}

// Direction is the side of the line a leg takes
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Leg is a single tracked prop, spread, total or moneyline bet
type Leg struct {
	ID        string    `json:"id"`
	Type      LegType   `json:"type"`
	Player    string    `json:"player"`              // Athlete name, or team name for team legs
	PlayerID  string    `json:"player_id,omitempty"` // Upstream athlete id when known
	Team      string    `json:"team"`                // "KC", used to resolve the live event
	StatType  string    `json:"stat_type"`           // "Passing Yards", "Spread"
	Prop      string    `json:"prop"`
	Line      *float64  `json:"line,omitempty"`      // nil for winner legs
	Direction Direction `json:"direction,omitempty"` // empty for winner legs
	Result    float64   `json:"result"`
	Status    LegStatus `json:"status"`
	EventID   string    `json:"event_id,omitempty"`
}

// Market returns the statistic name used for stat lookups
func (l Leg) Market() string {
	if l.StatType != "" {
		return l.StatType
	}
	return l.Prop
}

// LineValue returns the line or 0 when the leg has none
func (l Leg) LineValue() float64 {
	if l.Line == nil {
		return 0
	}
	return *l.Line
}

// NewLeg is the add-flow input for a leg
type NewLeg struct {
	Type      LegType   `json:"type"`
	Player    string    `json:"player"`
	PlayerID  string    `json:"player_id,omitempty"`
	Team      string    `json:"team"`
	StatType  string    `json:"stat_type"`
	Prop      string    `json:"prop"`
	Line      *float64  `json:"line,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}
