package legs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/google/uuid"
)

const (
	defaultPlayerTeam  = "NFL"
	defaultTotalMarket = "Game Total"
)

// TeamNormalizer maps team names and feed abbreviations both ways
type TeamNormalizer interface {
	GetTeamAbbreviation(nameOrAbbr string) string
	GetTeamName(abbr string) string
}

// Store is the ordered, mutex-guarded set of tracked legs
type Store struct {
	mu    sync.RWMutex
	legs  []models.Leg
	teams TeamNormalizer
	newID func() string
}

// NewStore creates an empty store
func NewStore(teams TeamNormalizer) *Store {
	return &Store{
		teams: teams,
		newID: func() string { return uuid.New().String() },
	}
}

// Add validates input and appends a new unavailable leg
func (s *Store) Add(input models.NewLeg) (models.Leg, error) {
	leg, err := s.build(input)
	if err != nil {
		return models.Leg{}, err
	}

	s.mu.Lock()
	s.legs = append(s.legs, leg)
	s.mu.Unlock()

	return leg, nil
}

func (s *Store) build(input models.NewLeg) (models.Leg, error) {
	if input.Type == "" {
		input.Type = models.LegTypePlayer
	}
	if !input.Type.Valid() {
		return models.Leg{}, fmt.Errorf("%w: unknown type %q", models.ErrInvalidLeg, input.Type)
	}

	direction := input.Direction
	if direction == "" {
		direction = models.DirectionOver
	}
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return models.Leg{}, fmt.Errorf("%w: unknown direction %q", models.ErrInvalidLeg, input.Direction)
	}

	leg := models.Leg{
		ID:        s.newID(),
		Type:      input.Type,
		Line:      input.Line,
		Direction: direction,
		Status:    models.StatusUnavailable,
	}

	if input.Type == models.LegTypePlayer {
		player := strings.TrimSpace(input.Player)
		prop := strings.TrimSpace(firstNonEmpty(input.Prop, input.StatType))
		if player == "" || prop == "" {
			return models.Leg{}, fmt.Errorf("%w: player legs need a player and a prop", models.ErrInvalidLeg)
		}

		leg.Player = player
		leg.PlayerID = strings.TrimSpace(input.PlayerID)
		leg.Team = s.teamAbbreviation(firstNonEmpty(strings.TrimSpace(input.Team), defaultPlayerTeam))
		leg.Prop = prop
		leg.StatType = firstNonEmpty(strings.TrimSpace(input.StatType), prop)
		return leg, nil
	}

	team := strings.TrimSpace(input.Team)
	if team == "" {
		return models.Leg{}, fmt.Errorf("%w: %s legs need a team", models.ErrInvalidLeg, input.Type)
	}
	if input.Type != models.LegTypeWinner && (input.Line == nil || *input.Line == 0) {
		return models.Leg{}, fmt.Errorf("%w: %s legs need a line", models.ErrInvalidLeg, input.Type)
	}

	leg.Team = s.teamAbbreviation(team)
	leg.Player = firstNonEmpty(strings.TrimSpace(input.Player), s.teams.GetTeamName(leg.Team), team)

	switch input.Type {
	case models.LegTypeSpread:
		leg.Prop = "Spread"
	case models.LegTypeTotal:
		leg.Prop = firstNonEmpty(strings.TrimSpace(input.Prop), defaultTotalMarket)
	case models.LegTypeWinner:
		leg.Prop = "Winner"
		leg.Line = nil
		leg.Direction = ""
	}
	leg.StatType = leg.Prop

	return leg, nil
}

// teamAbbreviation normalizes a full name or abbreviation to the upper-case
// feed abbreviation so both leg kinds resolve the same way
func (s *Store) teamAbbreviation(team string) string {
	return strings.ToUpper(s.teams.GetTeamAbbreviation(team))
}

// Remove deletes a leg by id
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, leg := range s.legs {
		if leg.ID == id {
			s.legs = append(s.legs[:i], s.legs[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every leg
func (s *Store) Clear() {
	s.mu.Lock()
	s.legs = nil
	s.mu.Unlock()
}

// UpdateStatus overrides a leg's status. The next tick re-evaluates it.
func (s *Store) UpdateStatus(id string, status models.LegStatus) (models.Leg, error) {
	if !status.Valid() {
		return models.Leg{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.legs {
		if s.legs[i].ID == id {
			s.legs[i].Status = status
			return s.legs[i], nil
		}
	}
	return models.Leg{}, fmt.Errorf("%w: %s", models.ErrLegNotFound, id)
}

// Get returns a leg by id
func (s *Store) Get(id string) (models.Leg, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, leg := range s.legs {
		if leg.ID == id {
			return leg, true
		}
	}
	return models.Leg{}, false
}

// List returns a copy of the legs in insertion order
func (s *Store) List() []models.Leg {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Leg, len(s.legs))
	copy(out, s.legs)
	return out
}

// Len returns the number of tracked legs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.legs)
}

// Apply merges reconciled legs into the store by id and returns the
// resulting list. Legs added since the tick started are left untouched
// and legs removed since then are not brought back.
func (s *Store) Apply(updated []models.Leg) []models.Leg {
	byID := make(map[string]models.Leg, len(updated))
	for _, leg := range updated {
		byID[leg.ID] = leg
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.legs {
		next, ok := byID[s.legs[i].ID]
		if !ok {
			continue
		}
		if s.legs[i].EventID == "" {
			s.legs[i].EventID = next.EventID
		}
		s.legs[i].Result = next.Result
		s.legs[i].Status = next.Status
	}

	out := make([]models.Leg, len(s.legs))
	copy(out, s.legs)
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
