package legs

import (
	"fmt"
	"testing"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/sports/football_nfl"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func newTestStore() *Store {
	s := NewStore(football_nfl.New())
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("leg-%d", n)
	}
	return s
}

func TestAdd_PlayerLeg(t *testing.T) {
	s := newTestStore()

	leg, err := s.Add(models.NewLeg{
		Type:     models.LegTypePlayer,
		Player:   "  Patrick Mahomes ",
		PlayerID: "3139477",
		Team:     "kc",
		Prop:     "Passing Yards",
		Line:     ptr(275.5),
	})

	require.NoError(t, err)
	assert.Equal(t, "leg-1", leg.ID)
	assert.Equal(t, "Patrick Mahomes", leg.Player)
	assert.Equal(t, "KC", leg.Team)
	assert.Equal(t, "Passing Yards", leg.StatType)
	assert.Equal(t, models.DirectionOver, leg.Direction)
	assert.Equal(t, models.StatusUnavailable, leg.Status)
	assert.Zero(t, leg.Result)
	assert.Empty(t, leg.EventID)
}

func TestAdd_PlayerLegDefaultsTeam(t *testing.T) {
	s := newTestStore()

	leg, err := s.Add(models.NewLeg{Player: "Josh Allen", Prop: "Rushing Yards"})

	require.NoError(t, err)
	assert.Equal(t, models.LegTypePlayer, leg.Type)
	assert.Equal(t, "NFL", leg.Team)
}

func TestAdd_PlayerLegNormalizesTeamName(t *testing.T) {
	s := newTestStore()

	leg, err := s.Add(models.NewLeg{Player: "Travis Kelce", Team: "Kansas City Chiefs", Prop: "Receiving Yards"})
	require.NoError(t, err)
	assert.Equal(t, "KC", leg.Team)

	leg, err = s.Add(models.NewLeg{Player: "Josh Allen", Team: " buffalo bills ", Prop: "Rushing Yards"})
	require.NoError(t, err)
	assert.Equal(t, "BUF", leg.Team)
}

func TestAdd_TeamLegNamesTeamByAbbreviation(t *testing.T) {
	s := newTestStore()

	leg, err := s.Add(models.NewLeg{Type: models.LegTypeSpread, Team: "buf", Line: ptr(-1.5)})
	require.NoError(t, err)
	assert.Equal(t, "BUF", leg.Team)
	assert.Equal(t, "Buffalo Bills", leg.Player)

	leg, err = s.Add(models.NewLeg{Type: models.LegTypeWinner, Team: "BUF", Player: "Bills ML"})
	require.NoError(t, err)
	assert.Equal(t, "Bills ML", leg.Player, "an explicit label is kept")
}

func TestAdd_TeamLegs(t *testing.T) {
	s := newTestStore()

	spread, err := s.Add(models.NewLeg{Type: models.LegTypeSpread, Team: "Kansas City Chiefs", Line: ptr(-3.5), Direction: models.DirectionUnder})
	require.NoError(t, err)
	assert.Equal(t, "KC", spread.Team)
	assert.Equal(t, "Kansas City Chiefs", spread.Player)
	assert.Equal(t, "Spread", spread.Prop)
	assert.Equal(t, models.DirectionUnder, spread.Direction)

	total, err := s.Add(models.NewLeg{Type: models.LegTypeTotal, Team: "BUF", Line: ptr(47.5)})
	require.NoError(t, err)
	assert.Equal(t, "Game Total", total.Prop)
	assert.Equal(t, "BUF", total.Team)

	winner, err := s.Add(models.NewLeg{Type: models.LegTypeWinner, Team: "Philadelphia Eagles", Line: ptr(1), Direction: models.DirectionOver})
	require.NoError(t, err)
	assert.Equal(t, "PHI", winner.Team)
	assert.Equal(t, "Winner", winner.Prop)
	assert.Nil(t, winner.Line)
	assert.Empty(t, winner.Direction)
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input models.NewLeg
	}{
		{"player without name", models.NewLeg{Type: models.LegTypePlayer, Prop: "Passing Yards"}},
		{"player without prop", models.NewLeg{Type: models.LegTypePlayer, Player: "Josh Allen"}},
		{"spread without team", models.NewLeg{Type: models.LegTypeSpread, Line: ptr(3)}},
		{"spread without line", models.NewLeg{Type: models.LegTypeSpread, Team: "KC"}},
		{"total with zero line", models.NewLeg{Type: models.LegTypeTotal, Team: "KC", Line: ptr(0)}},
		{"winner without team", models.NewLeg{Type: models.LegTypeWinner}},
		{"unknown type", models.NewLeg{Type: "parlay", Team: "KC"}},
		{"unknown direction", models.NewLeg{Player: "Josh Allen", Prop: "Rushing Yards", Direction: "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			_, err := s.Add(tt.input)
			assert.ErrorIs(t, err, models.ErrInvalidLeg)
			assert.Zero(t, s.Len())
		})
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := newTestStore()
	for _, name := range []string{"A", "B", "C"} {
		_, err := s.Add(models.NewLeg{Player: name, Prop: "Receptions"})
		require.NoError(t, err)
	}

	assert.True(t, s.Remove("leg-2"))
	assert.False(t, s.Remove("leg-2"))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "leg-1", list[0].ID)
	assert.Equal(t, "leg-3", list[1].ID)

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestUpdateStatus(t *testing.T) {
	s := newTestStore()
	leg, err := s.Add(models.NewLeg{Player: "A", Prop: "Receptions"})
	require.NoError(t, err)

	updated, err := s.UpdateStatus(leg.ID, models.StatusHit)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHit, updated.Status)

	_, err = s.UpdateStatus(leg.ID, "won")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	_, err = s.UpdateStatus("missing", models.StatusMiss)
	assert.ErrorIs(t, err, models.ErrLegNotFound)
}

func TestList_ReturnsCopy(t *testing.T) {
	s := newTestStore()
	_, err := s.Add(models.NewLeg{Player: "A", Prop: "Receptions"})
	require.NoError(t, err)

	list := s.List()
	list[0].Result = 99

	got, ok := s.Get("leg-1")
	require.True(t, ok)
	assert.Zero(t, got.Result)
}

func TestApply_MergesEngineFields(t *testing.T) {
	s := newTestStore()
	_, _ = s.Add(models.NewLeg{Player: "A", Prop: "Receptions"})
	_, _ = s.Add(models.NewLeg{Player: "B", Prop: "Receptions"})

	tickInput := s.List()

	// mid-tick: one removed, one added
	s.Remove("leg-2")
	_, _ = s.Add(models.NewLeg{Player: "C", Prop: "Receptions"})

	tickInput[0].EventID = "E1"
	tickInput[0].Result = 4
	tickInput[0].Status = models.StatusLive
	tickInput[0].Player = "renamed by engine"
	tickInput[1].Result = 7

	out := s.Apply(tickInput)

	require.Len(t, out, 2)
	assert.Equal(t, "leg-1", out[0].ID)
	assert.Equal(t, "E1", out[0].EventID)
	assert.Equal(t, float64(4), out[0].Result)
	assert.Equal(t, models.StatusLive, out[0].Status)
	assert.Equal(t, "A", out[0].Player)

	assert.Equal(t, "leg-3", out[1].ID)
	assert.Zero(t, out[1].Result)
	assert.Equal(t, models.StatusUnavailable, out[1].Status)
}

func TestApply_KeepsExistingEventID(t *testing.T) {
	s := newTestStore()
	_, _ = s.Add(models.NewLeg{Player: "A", Prop: "Receptions"})
	s.Apply([]models.Leg{{ID: "leg-1", EventID: "E1"}})

	out := s.Apply([]models.Leg{{ID: "leg-1", EventID: "E9", Status: models.StatusLive}})

	assert.Equal(t, "E1", out[0].EventID)
	assert.Equal(t, models.StatusLive, out[0].Status)
}
