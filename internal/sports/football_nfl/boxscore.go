package football_nfl

import (
	"strings"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// Target identifies the athlete and stat group to extract
type Target struct {
	PlayerID   string
	PlayerName string
	Category   string // empty searches every group
}

// Extraction is the normalized stat line of the matched athlete
type Extraction struct {
	Category string
	Stats    models.NormalizedStats
	Matches  int // > 1 means several athletes matched and the last one won
}

// Extract finds the target athlete in summary.boxscore.players and normalizes
// their stat row. When more than one row matches, the last one encountered wins.
func Extract(summary map[string]interface{}, target Target) (Extraction, bool) {
	if summary == nil {
		return Extraction{}, false
	}

	boxscore := extractMap(summary, "boxscore")
	teams := extractArray(boxscore, "players")

	var found Extraction
	matches := 0

	for _, teamInterface := range teams {
		teamData, ok := teamInterface.(map[string]interface{})
		if !ok {
			continue
		}

		for _, groupInterface := range extractArray(teamData, "statistics") {
			statGroup, ok := groupInterface.(map[string]interface{})
			if !ok {
				continue
			}

			cat := strings.ToLower(firstNonEmpty(extractString(statGroup, "type"), extractString(statGroup, "name")))
			if target.Category != "" && !strings.Contains(cat, target.Category) {
				continue
			}

			labels := extractArray(statGroup, "labels")

			for _, athleteInterface := range extractArray(statGroup, "athletes") {
				athleteData, ok := athleteInterface.(map[string]interface{})
				if !ok {
					continue
				}
				if !matchesAthlete(extractMap(athleteData, "athlete"), target) {
					continue
				}

				stats := extractArray(athleteData, "stats")
				mapped := models.NormalizedStats{}
				for idx, labelInterface := range labels {
					label, _ := labelInterface.(string)
					var raw interface{}
					if idx < len(stats) {
						raw = stats[idx]
					}
					NormalizeLabel(label, raw, mapped)
				}

				matches++
				found = Extraction{
					Category: strings.ToLower(extractString(statGroup, "type")),
					Stats:    mapped,
				}
			}
		}
	}

	if matches == 0 {
		return Extraction{}, false
	}

	found.Matches = matches
	return found, true
}

// matchesAthlete compares by upstream id first, then by case-insensitive display name
func matchesAthlete(athlete map[string]interface{}, target Target) bool {
	athID := stringify(athlete["id"])
	if target.PlayerID != "" && athID != "" && athID == target.PlayerID {
		return true
	}

	name := firstNonEmpty(extractString(athlete, "displayName"), extractString(athlete, "shortName"))
	return target.PlayerName != "" && name != "" && strings.EqualFold(name, target.PlayerName)
}

// StatValue reads the leg's statistic for its athlete out of a summary.
// matches is the number of athlete rows that matched the leg.
func StatValue(summary map[string]interface{}, leg models.Leg) (value float64, matches int, ok bool) {
	market := leg.Market()
	category, _ := CategoryFor(market)

	extraction, ok := Extract(summary, Target{
		PlayerID:   leg.PlayerID,
		PlayerName: leg.Player,
		Category:   category,
	})
	if !ok {
		return 0, 0, false
	}

	field, ok := FieldFor(market)
	if !ok {
		return 0, extraction.Matches, false
	}

	value, ok = extraction.Stats[field]
	return value, extraction.Matches, ok
}

// Players lists every athlete with a display name across all stat groups.
// The same athlete appears once per group they recorded stats in.
func Players(summary map[string]interface{}) []models.LivePlayer {
	var out []models.LivePlayer

	teams := extractArray(extractMap(summary, "boxscore"), "players")
	for _, teamInterface := range teams {
		teamData, ok := teamInterface.(map[string]interface{})
		if !ok {
			continue
		}

		team := extractMap(teamData, "team")
		teamAbbr := firstNonEmpty(
			extractString(team, "abbreviation"),
			extractString(team, "shortDisplayName"),
			extractString(team, "name"),
			"NFL",
		)

		for _, groupInterface := range extractArray(teamData, "statistics") {
			statGroup, ok := groupInterface.(map[string]interface{})
			if !ok {
				continue
			}

			for _, athleteInterface := range extractArray(statGroup, "athletes") {
				athleteData, ok := athleteInterface.(map[string]interface{})
				if !ok {
					continue
				}
				athlete := extractMap(athleteData, "athlete")
				name := extractString(athlete, "displayName")
				if name == "" {
					continue
				}

				out = append(out, models.LivePlayer{
					ID:   firstNonEmpty(stringify(athlete["id"]), stringify(athlete["uid"]), stringify(athlete["guid"]), name),
					Name: name,
					Team: teamAbbr,
				})
			}
		}
	}

	return out
}
