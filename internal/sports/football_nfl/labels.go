package football_nfl

import (
	"strings"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// Boxscore stat group categories
const (
	CategoryPassing   = "passing"
	CategoryRushing   = "rushing"
	CategoryReceiving = "receiving"
	CategoryDefense   = "defense"
	CategoryKicking   = "kicking"
)

type categoryRule struct {
	needles  []string
	category string
}

// Checked in order against the lower-cased prop name.
// "Sacks Recorded" hits "rec" before "sack" and searches receiving.
var categoryRules = []categoryRule{
	{[]string{"pass"}, CategoryPassing},
	{[]string{"rush"}, CategoryRushing},
	{[]string{"rec"}, CategoryReceiving},
	{[]string{"tackle", "sack"}, CategoryDefense},
	{[]string{"field goal", "extra point"}, CategoryKicking},
}

type fieldRule struct {
	needles []string
	field   models.StatField
}

// Checked in order against the lower-cased prop name
var fieldRules = []fieldRule{
	{[]string{"passing yards"}, models.FieldYards},
	{[]string{"passing tds"}, models.FieldTouchdowns},
	{[]string{"interceptions"}, models.FieldInts},
	{[]string{"completions"}, models.FieldCompletions},
	{[]string{"passing attempts"}, models.FieldAttempts},
	{[]string{"rushing yards"}, models.FieldYards},
	{[]string{"rushing tds"}, models.FieldTouchdowns},
	{[]string{"rushing attempts", "carries"}, models.FieldAttempts},
	{[]string{"receiving yards"}, models.FieldYards},
	{[]string{"receiving tds"}, models.FieldTouchdowns},
	{[]string{"receptions"}, models.FieldReceptions},
	{[]string{"targets"}, models.FieldTargets},
	{[]string{"longest pass"}, models.FieldLongest},
	{[]string{"longest rush"}, models.FieldLongest},
	{[]string{"longest reception"}, models.FieldLongest},
	{[]string{"sacks recorded"}, models.FieldTotal},
	{[]string{"tackles", "assists"}, models.FieldTotal},
	{[]string{"field goals"}, models.FieldGoalsMade},
	{[]string{"extra points"}, models.FieldExtraPoints},
}

type labelKind int

const (
	labelPlain    labelKind = iota // single number
	labelRatio                     // "24/35" into two fields
	labelMadeOnly                  // "3-4", makes only
)

type labelRule struct {
	needles []string
	kind    labelKind
	fields  []models.StatField
}

// Checked in order against the lower-cased boxscore label
var labelRules = []labelRule{
	{[]string{"cmp/att", "c/att"}, labelRatio, []models.StatField{models.FieldCompletions, models.FieldAttempts}},
	{[]string{"fgm"}, labelMadeOnly, []models.StatField{models.FieldGoalsMade}},
	{[]string{"xp"}, labelMadeOnly, []models.StatField{models.FieldExtraPoints}},
	{[]string{"yds"}, labelPlain, []models.StatField{models.FieldYards}},
	{[]string{"td"}, labelPlain, []models.StatField{models.FieldTouchdowns}},
	{[]string{"int"}, labelPlain, []models.StatField{models.FieldInts}},
	{[]string{"att"}, labelPlain, []models.StatField{models.FieldAttempts}},
	{[]string{"rec"}, labelPlain, []models.StatField{models.FieldReceptions}},
	{[]string{"tar"}, labelPlain, []models.StatField{models.FieldTargets}},
	{[]string{"lng"}, labelPlain, []models.StatField{models.FieldLongest}},
	{[]string{"tot"}, labelPlain, []models.StatField{models.FieldTotal}},
}

// CategoryFor returns the stat group to search for a prop name.
// ok is false when every group should be searched.
func CategoryFor(prop string) (string, bool) {
	st := strings.ToLower(prop)
	for _, rule := range categoryRules {
		if containsAny(st, rule.needles) {
			return rule.category, true
		}
	}
	return "", false
}

// FieldFor returns the normalized field a prop name reads back out
func FieldFor(prop string) (models.StatField, bool) {
	st := strings.ToLower(prop)
	for _, rule := range fieldRules {
		if containsAny(st, rule.needles) {
			return rule.field, true
		}
	}
	return "", false
}

// NormalizeLabel writes the fields a label/value pair maps to into stats.
// Unknown labels are ignored.
func NormalizeLabel(label string, raw interface{}, stats models.NormalizedStats) {
	lower := strings.ToLower(label)

	for _, rule := range labelRules {
		if !containsAny(lower, rule.needles) {
			continue
		}

		switch rule.kind {
		case labelRatio:
			parts := strings.Split(rawString(raw), "/")
			for i, field := range rule.fields {
				if i < len(parts) {
					stats[field] = toNumber(parts[i])
				} else {
					stats[field] = 0
				}
			}
		case labelMadeOnly:
			first := strings.Split(rawString(raw), "-")[0]
			stats[rule.fields[0]] = toNumber(first)
		default:
			stats[rule.fields[0]] = toNumber(raw)
		}
		return
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
