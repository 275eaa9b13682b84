package models

// StatField is a normalized boxscore field
type StatField string

const (
	FieldYards       StatField = "yds"
	FieldTouchdowns  StatField = "td"
	FieldInts        StatField = "int"
	FieldCompletions StatField = "cmp"
	FieldAttempts    StatField = "att"
	FieldReceptions  StatField = "rec"
	FieldTargets     StatField = "tar"
	FieldLongest     StatField = "lng"
	FieldTotal       StatField = "tot"
	FieldGoalsMade   StatField = "fgm"
	FieldExtraPoints StatField = "xpm"
)

// NormalizedStats maps normalized fields to values for one athlete.
// A missing key means the boxscore had no column for that field.
type NormalizedStats map[StatField]float64

// LivePlayer is an athlete seen in a live game summary
type LivePlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}
