package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/legs"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/reconcile"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/sports/football_nfl"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var tickTime = time.Date(2026, 10, 11, 18, 0, 0, 0, time.UTC)

// liveEngine marks every leg live with a fixed result
type liveEngine struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	started chan struct{}
	summary map[string]map[string]interface{}

	roster    []models.LivePlayer
	rosterErr error
}

func (e *liveEngine) Reconcile(ctx context.Context, in []models.Leg) reconcile.Result {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.started != nil {
		e.started <- struct{}{}
	}
	if e.block != nil {
		<-e.block
	}

	out := make([]models.Leg, len(in))
	for i, leg := range in {
		leg.Status = models.StatusLive
		leg.Result = 42
		leg.EventID = "E1"
		out[i] = leg
	}
	return reconcile.Result{Legs: out, Timestamp: tickTime, Summaries: e.summary}
}

func (e *liveEngine) Roster(ctx context.Context, maxEvents int) ([]models.LivePlayer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roster, e.rosterErr
}

// cancelAwareEngine demotes every leg when its context has ended, the way a
// cut-off feed does
type cancelAwareEngine struct {
	liveEngine
}

func (e *cancelAwareEngine) Reconcile(ctx context.Context, in []models.Leg) reconcile.Result {
	result := e.liveEngine.Reconcile(ctx, in)
	if ctx.Err() != nil {
		for i := range result.Legs {
			result.Legs[i].Status = models.StatusUnavailable
		}
	}
	return result
}

func (e *liveEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []models.Snapshot
	err       error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) PublishSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func newTestPoller(t *testing.T, engine Reconciler, sinks ...*recordingSink) (*Poller, *legs.Store) {
	t.Helper()
	module := football_nfl.New()
	store := legs.NewStore(module)
	_, err := store.Add(models.NewLeg{Player: "Patrick Mahomes", Team: "KC", Prop: "Passing Yards"})
	require.NoError(t, err)

	p := New(engine, store, module, 20*time.Second, zap.NewNop())
	for _, sink := range sinks {
		p.sinks = append(p.sinks, sink)
	}
	return p, store
}

func TestTick_AppliesAndPublishes(t *testing.T) {
	failing := &recordingSink{err: errors.New("redis down")}
	ok := &recordingSink{}
	p, store := newTestPoller(t, &liveEngine{}, failing, ok)

	snapshot, err := p.Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.LiveCount)
	assert.Equal(t, tickTime, snapshot.UpdatedAt)
	assert.Equal(t, tickTime, p.LastUpdate())

	leg := store.List()[0]
	assert.Equal(t, models.StatusLive, leg.Status)
	assert.Equal(t, float64(42), leg.Result)
	assert.Equal(t, "E1", leg.EventID)

	assert.Equal(t, 1, failing.count(), "a failing sink does not stop the fan-out")
	assert.Equal(t, 1, ok.count())
}

func TestTick_SingleFlight(t *testing.T) {
	engine := &liveEngine{block: make(chan struct{}), started: make(chan struct{}, 1)}
	p, _ := newTestPoller(t, engine)

	done := make(chan error, 1)
	go func() {
		_, err := p.Tick(context.Background())
		done <- err
	}()
	<-engine.started

	_, err := p.Trigger(context.Background())
	assert.ErrorIs(t, err, ErrTickInFlight)

	close(engine.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, engine.callCount())
}

func TestTick_DiscardedAfterStop(t *testing.T) {
	engine := &liveEngine{block: make(chan struct{}), started: make(chan struct{}, 1)}
	sink := &recordingSink{}
	p, store := newTestPoller(t, engine, sink)

	done := make(chan error, 1)
	go func() {
		_, err := p.Tick(context.Background())
		done <- err
	}()
	<-engine.started

	p.Stop()
	close(engine.block)

	assert.ErrorIs(t, <-done, ErrStaleTick)
	assert.Equal(t, models.StatusUnavailable, store.List()[0].Status)
	assert.Zero(t, sink.count())
	assert.True(t, p.LastUpdate().IsZero())
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	engine := &liveEngine{}
	sink := &recordingSink{}
	p, _ := newTestPoller(t, engine, sink)

	require.NoError(t, p.Start(context.Background()))
	assert.Error(t, p.Start(context.Background()), "double start")

	assert.Eventually(t, func() bool { return sink.count() >= 1 }, time.Second, 10*time.Millisecond)
	p.Stop()
	p.Stop()
}

func TestNew_ClampsInterval(t *testing.T) {
	p := New(&liveEngine{}, legs.NewStore(football_nfl.New()), football_nfl.New(), 10*time.Millisecond, zap.NewNop())
	assert.Equal(t, time.Second, p.interval)
}

func TestPlayersFromSummaries(t *testing.T) {
	summary := map[string]interface{}{
		"boxscore": map[string]interface{}{
			"players": []interface{}{
				map[string]interface{}{
					"team": map[string]interface{}{"abbreviation": "KC"},
					"statistics": []interface{}{
						map[string]interface{}{"athletes": []interface{}{
							map[string]interface{}{"athlete": map[string]interface{}{"id": "1", "displayName": "Patrick Mahomes"}},
						}},
						map[string]interface{}{"athletes": []interface{}{
							map[string]interface{}{"athlete": map[string]interface{}{"id": "1", "displayName": "Patrick Mahomes"}},
							map[string]interface{}{"athlete": map[string]interface{}{"id": "2", "displayName": "Isiah Pacheco"}},
						}},
					},
				},
			},
		},
	}
	p, _ := newTestPoller(t, &liveEngine{summary: map[string]map[string]interface{}{"E1": summary}})

	_, err := p.Tick(context.Background())
	require.NoError(t, err)

	assert.Len(t, p.Players("", 0), 2)
	found := p.Players("pach", 10)
	require.Len(t, found, 1)
	assert.Equal(t, "Isiah Pacheco", found[0].Name)
	assert.Len(t, p.Players("kc", 1), 1)
}

func TestFilterPlayers(t *testing.T) {
	players := []models.LivePlayer{
		{ID: "1", Name: "Josh Allen", Team: "BUF"},
		{ID: "9", Name: "Josh Allen", Team: "BUF"},
		{ID: "2", Name: "Josh Allen", Team: "JAX"},
		{ID: "3", Name: "Stefon Diggs", Team: "HOU"},
	}

	assert.Len(t, FilterPlayers(players, "josh", 0), 2)
	assert.Len(t, FilterPlayers(players, "HOU", 0), 1)
	assert.Empty(t, FilterPlayers(players, "mahomes", 0))
	assert.NotNil(t, FilterPlayers(nil, "x", 0))
}

func TestTrigger_OutlivesCallerContext(t *testing.T) {
	sink := &recordingSink{}
	p, store := newTestPoller(t, &cancelAwareEngine{}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = p.Trigger(ctx)

	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	leg := store.List()[0]
	assert.Equal(t, models.StatusLive, leg.Status, "a hung-up caller does not demote legs")
	assert.Equal(t, float64(42), leg.Result)
	assert.Equal(t, 1, sink.snapshots[0].LiveCount)
}

func TestTrigger_CallerStopsWaiting(t *testing.T) {
	engine := &liveEngine{block: make(chan struct{}), started: make(chan struct{}, 1)}
	sink := &recordingSink{}
	p, store := newTestPoller(t, engine, sink)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Trigger(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	<-engine.started

	close(engine.block)
	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, models.StatusLive, store.List()[0].Status)
}

func TestRefreshRoster_WithoutTrackedLegs(t *testing.T) {
	module := football_nfl.New()
	engine := &liveEngine{roster: []models.LivePlayer{
		{ID: "123", Name: "Patrick Mahomes", Team: "KC"},
		{ID: "123", Name: "Patrick Mahomes", Team: "KC"},
		{ID: "17", Name: "Josh Allen", Team: "BUF"},
	}}
	p := New(engine, legs.NewStore(module), module, 20*time.Second, zap.NewNop())

	require.NoError(t, p.RefreshRoster(context.Background()))

	assert.Len(t, p.Players("", 0), 2)
	found := p.Players("mahomes", 10)
	require.Len(t, found, 1)
	assert.Equal(t, "KC", found[0].Team)

	engine.mu.Lock()
	engine.roster, engine.rosterErr = nil, models.ErrFeedUnavailable
	engine.mu.Unlock()

	assert.ErrorIs(t, p.RefreshRoster(context.Background()), models.ErrFeedUnavailable)
	assert.Len(t, p.Players("", 0), 2, "a failed refresh keeps the previous roster")
}

func TestPlayers_MergesRosterAndTickSummaries(t *testing.T) {
	summary := map[string]interface{}{
		"boxscore": map[string]interface{}{
			"players": []interface{}{
				map[string]interface{}{
					"team": map[string]interface{}{"abbreviation": "KC"},
					"statistics": []interface{}{
						map[string]interface{}{"athletes": []interface{}{
							map[string]interface{}{"athlete": map[string]interface{}{"id": "1", "displayName": "Patrick Mahomes"}},
						}},
					},
				},
			},
		},
	}
	engine := &liveEngine{
		summary: map[string]map[string]interface{}{"E1": summary},
		roster:  []models.LivePlayer{{ID: "1", Name: "Patrick Mahomes", Team: "KC"}, {ID: "17", Name: "Josh Allen", Team: "BUF"}},
	}
	p, _ := newTestPoller(t, engine)

	require.NoError(t, p.RefreshRoster(context.Background()))
	_, err := p.Tick(context.Background())
	require.NoError(t, err)

	assert.Len(t, p.Players("", 0), 2)
}
