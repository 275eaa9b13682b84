package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/resolver"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"go.uber.org/zap"
)

// Result is the outcome of one reconciliation tick
type Result struct {
	Legs      []models.Leg
	Timestamp time.Time
	Summaries map[string]map[string]interface{} // summaries fetched this tick, by event id
	Err       error                             // ErrFeedUnavailable or ErrPartialFeed; the legs are valid either way
}

// Engine reconciles tracked legs against the live feed
type Engine struct {
	module       contracts.SportModule
	feed         contracts.Feed
	fetchTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFetchTimeout bounds every summary fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) { e.fetchTimeout = d }
}

// NewEngine creates a new reconciliation engine
func NewEngine(module contracts.SportModule, feed contracts.Feed, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		module:       module,
		feed:         feed,
		fetchTimeout: 10 * time.Second,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile produces the next leg set. It never drops, adds or reorders legs,
// and a failed read never overwrites a leg's last known result.
func (e *Engine) Reconcile(ctx context.Context, legs []models.Leg) Result {
	next := make([]models.Leg, len(legs))
	copy(next, legs)

	if len(next) == 0 {
		return Result{Legs: next, Timestamp: e.now()}
	}

	scoreboard, err := e.feed.FetchScoreboard(ctx)
	if err != nil {
		e.logger.Warn("scoreboard fetch failed, marking legs unavailable", zap.Error(err))
		markUnavailable(next)
		return Result{
			Legs:      next,
			Timestamp: e.now(),
			Err:       fmt.Errorf("%w: %v", models.ErrFeedUnavailable, err),
		}
	}

	events := e.module.ParseEvents(scoreboard)
	if len(events) == 0 {
		e.logger.Info("scoreboard has no events, marking legs unavailable")
		markUnavailable(next)
		return Result{Legs: next, Timestamp: e.now()}
	}

	index := resolver.IndexByTeam(events)
	for i := range next {
		if eventID, ok := resolver.Resolve(next[i], index); ok {
			next[i].EventID = eventID
			e.logger.Debug("resolved leg", zap.String("leg_id", next[i].ID), zap.String("event_id", eventID))
		}
	}

	eventIDs := resolver.ReferencedEvents(next)
	summaries, failed := e.fetchSummaries(ctx, eventIDs)

	for i := range next {
		leg := &next[i]

		summary, ok := summaries[leg.EventID]
		if leg.EventID == "" || !ok {
			leg.Status = models.StatusUnavailable
			continue
		}

		if e.module.GameState(summary) == "in" {
			leg.Status = models.StatusLive
		} else {
			leg.Status = models.StatusUnavailable
		}

		value, matches, ok := e.module.StatValue(summary, *leg)
		if matches > 1 {
			e.logger.Warn("ambiguous athlete match, using last row",
				zap.String("leg_id", leg.ID),
				zap.String("player", leg.Player),
				zap.String("event_id", leg.EventID),
				zap.Int("matches", matches),
			)
		}
		if ok {
			leg.Result = value
		}
	}

	result := Result{Legs: next, Timestamp: e.now(), Summaries: summaries}
	if failed > 0 {
		result.Err = fmt.Errorf("%w: %d of %d summaries", models.ErrPartialFeed, failed, len(eventIDs))
	}
	return result
}

// Roster lists the players of the first maxEvents scoreboard events, in
// scoreboard order. It needs no tracked legs.
func (e *Engine) Roster(ctx context.Context, maxEvents int) ([]models.LivePlayer, error) {
	scoreboard, err := e.feed.FetchScoreboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFeedUnavailable, err)
	}

	seen := make(map[string]bool)
	var eventIDs []string
	for _, event := range e.module.ParseEvents(scoreboard) {
		if maxEvents > 0 && len(eventIDs) == maxEvents {
			break
		}
		if event.ID == "" || seen[event.ID] {
			continue
		}
		seen[event.ID] = true
		eventIDs = append(eventIDs, event.ID)
	}

	summaries, failed := e.fetchSummaries(ctx, eventIDs)

	players := []models.LivePlayer{}
	for _, id := range eventIDs {
		if summary, ok := summaries[id]; ok {
			players = append(players, e.module.LivePlayers(summary)...)
		}
	}

	if failed > 0 {
		return players, fmt.Errorf("%w: %d of %d summaries", models.ErrPartialFeed, failed, len(eventIDs))
	}
	return players, nil
}

// fetchSummaries fetches every event concurrently. A failed fetch only
// leaves its event out of the returned map.
func (e *Engine) fetchSummaries(ctx context.Context, eventIDs []string) (map[string]map[string]interface{}, int) {
	summaries := make(map[string]map[string]interface{}, len(eventIDs))
	failed := 0

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, eventID := range eventIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
			defer cancel()

			summary, err := e.feed.FetchGameSummary(fetchCtx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil || summary == nil {
				failed++
				e.logger.Warn("summary fetch failed", zap.String("event_id", id), zap.Error(err))
				return
			}
			summaries[id] = summary
		}(eventID)
	}

	wg.Wait()
	return summaries, failed
}

func markUnavailable(legs []models.Leg) {
	for i := range legs {
		legs[i].Status = models.StatusUnavailable
	}
}
