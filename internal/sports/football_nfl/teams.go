package football_nfl

import "strings"

// NFL team abbreviation mappings
var nflTeamAbbreviations = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LAR",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

// Lower-cased full name -> abbreviation
var nflNameLookup = map[string]string{}

// Reverse mapping for lookups
var nflAbbreviationToName = map[string]string{}

func init() {
	for name, abbr := range nflTeamAbbreviations {
		nflNameLookup[strings.ToLower(name)] = abbr
		nflAbbreviationToName[abbr] = name
	}
}

// GetTeamAbbreviation returns the abbreviation for a full team name.
// Abbreviations and unknown names are returned unchanged.
func GetTeamAbbreviation(nameOrAbbr string) string {
	trimmed := strings.TrimSpace(nameOrAbbr)
	if abbr, ok := nflNameLookup[strings.ToLower(trimmed)]; ok {
		return abbr
	}
	return trimmed
}

// GetTeamName returns the full name for an abbreviation
func GetTeamName(abbr string) string {
	if name, ok := nflAbbreviationToName[strings.ToUpper(abbr)]; ok {
		return name
	}
	return abbr
}
