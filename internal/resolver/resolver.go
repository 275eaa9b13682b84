package resolver

import (
	"strings"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// IndexByTeam maps upper-cased competitor abbreviations to their event.
// A team listed in several events resolves to the last one.
func IndexByTeam(events []models.ScoreboardEvent) map[string]models.EventRef {
	index := make(map[string]models.EventRef)
	for _, event := range events {
		for _, abbr := range event.Teams {
			if abbr == "" {
				continue
			}
			index[strings.ToUpper(abbr)] = models.EventRef{ID: event.ID, State: event.State}
		}
	}
	return index
}

// Resolve returns the event for a leg that has not been resolved yet.
// Legs that already carry an event id are never re-resolved.
func Resolve(leg models.Leg, index map[string]models.EventRef) (string, bool) {
	if leg.EventID != "" {
		return "", false
	}

	ref, ok := index[strings.ToUpper(leg.Team)]
	if !ok || ref.ID == "" {
		return "", false
	}
	return ref.ID, true
}

// ReferencedEvents returns the distinct event ids carried by legs, in first-seen order
func ReferencedEvents(legs []models.Leg) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, leg := range legs {
		if leg.EventID == "" || seen[leg.EventID] {
			continue
		}
		seen[leg.EventID] = true
		ids = append(ids, leg.EventID)
	}
	return ids
}
