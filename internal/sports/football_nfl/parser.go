package football_nfl

import (
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// Game states reported in status.type.state
const (
	StatePre  = "pre"
	StateIn   = "in"
	StatePost = "post"
)

// ParseEvents reads the scoreboard's events list. Events without an id are skipped.
func ParseEvents(scoreboard map[string]interface{}) []models.ScoreboardEvent {
	rawEvents := extractArray(scoreboard, "events")
	events := make([]models.ScoreboardEvent, 0, len(rawEvents))

	for _, eventInterface := range rawEvents {
		event, ok := eventInterface.(map[string]interface{})
		if !ok {
			continue
		}

		id := stringify(event["id"])
		if id == "" {
			continue
		}

		parsed := models.ScoreboardEvent{
			ID:    id,
			State: extractString(extractMap(extractMap(event, "status"), "type"), "state"),
		}

		competitions := extractArray(event, "competitions")
		if len(competitions) > 0 {
			comp, _ := competitions[0].(map[string]interface{})
			for _, compInterface := range extractArray(comp, "competitors") {
				competitor, ok := compInterface.(map[string]interface{})
				if !ok {
					continue
				}
				if abbr := extractString(extractMap(competitor, "team"), "abbreviation"); abbr != "" {
					parsed.Teams = append(parsed.Teams, abbr)
				}
			}
		}

		events = append(events, parsed)
	}

	return events
}

// GameState returns header.competitions[0].status.type.state, "pre" when absent
func GameState(summary map[string]interface{}) string {
	competitions := extractArray(extractMap(summary, "header"), "competitions")
	if len(competitions) == 0 {
		return StatePre
	}

	comp, _ := competitions[0].(map[string]interface{})
	state := extractString(extractMap(extractMap(comp, "status"), "type"), "state")
	if state == "" {
		return StatePre
	}
	return state
}

// toNumber coerces a raw stat cell. Missing or unparsable values are 0.
func toNumber(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// stringify renders an id that may arrive as a string or a JSON number
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

// rawString returns the cell as text for compound values like "24/35"
func rawString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// extractString safely extracts a string from a map
func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// extractMap safely extracts a map from a map
func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

// extractArray safely extracts an array from a map
func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
