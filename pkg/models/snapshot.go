package models

import "time"

// Snapshot is the leg set after an applied reconciliation tick
type Snapshot struct {
	Legs      []Leg     `json:"legs"`
	UpdatedAt time.Time `json:"updated_at"`
	LiveCount int       `json:"live_count"`
}

// NewSnapshot builds a snapshot and counts live legs
func NewSnapshot(legs []Leg, updatedAt time.Time) Snapshot {
	live := 0
	for _, leg := range legs {
		if leg.Status == StatusLive {
			live++
		}
	}
	return Snapshot{
		Legs:      legs,
		UpdatedAt: updatedAt,
		LiveCount: live,
	}
}
