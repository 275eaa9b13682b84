package models

// ScoreboardEvent is one game on the scoreboard
type ScoreboardEvent struct {
	ID    string   `json:"id"`
	Teams []string `json:"teams"` // Competitor abbreviations as sent upstream
	State string   `json:"state"` // "pre", "in", "post"
}

// EventRef is what a team abbreviation resolves to
type EventRef struct {
	ID    string `json:"id"`
	State string `json:"state"`
}
