package settle

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
)

// Progress is the result as a percentage of the line, clamped to [0, 100]
func Progress(leg models.Leg) int {
	line := leg.LineValue()
	if line == 0 || leg.Result == 0 {
		return 0
	}

	pct := math.Floor(leg.Result/line*100 + 0.5)
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// Grade settles a player leg against its line. A push grades as a miss.
func Grade(leg models.Leg) (models.LegStatus, error) {
	if leg.Type != models.LegTypePlayer {
		return "", fmt.Errorf("%w: %s legs have no stat to grade", models.ErrNotGradeable, leg.Type)
	}
	if leg.Line == nil {
		return "", fmt.Errorf("%w: leg has no line", models.ErrNotGradeable)
	}

	line := *leg.Line

	switch leg.Direction {
	case models.DirectionOver:
		if leg.Result > line {
			return models.StatusHit, nil
		}
		return models.StatusMiss, nil
	case models.DirectionUnder:
		if leg.Result < line {
			return models.StatusHit, nil
		}
		return models.StatusMiss, nil
	default:
		return "", fmt.Errorf("%w: leg has no direction", models.ErrNotGradeable)
	}
}
