package poller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/legs"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/reconcile"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrTickInFlight is returned when a tick is requested while another is running
	ErrTickInFlight = errors.New("tick already in flight")
	// ErrStaleTick is returned when the poller was stopped while the tick ran
	ErrStaleTick = errors.New("tick discarded after stop")
)

const (
	minInterval     = time.Second
	sinkTimeout     = 5 * time.Second
	maxTickDuration = time.Minute

	rosterInterval = 60 * time.Second
	rosterEvents   = 8 // scoreboard events summarized per roster refresh
)

// Reconciler produces the next leg set for a tick and the live roster
type Reconciler interface {
	Reconcile(ctx context.Context, legs []models.Leg) reconcile.Result
	Roster(ctx context.Context, maxEvents int) ([]models.LivePlayer, error)
}

// Poller drives reconciliation ticks on a fixed cadence
type Poller struct {
	engine   Reconciler
	store    *legs.Store
	module   contracts.SportModule
	sinks    []contracts.SnapshotSink
	interval time.Duration
	logger   *zap.Logger

	inFlight sync.Mutex

	mu            sync.RWMutex
	generation    uint64
	snapshot      models.Snapshot
	tickPlayers   []models.LivePlayer // from summaries of tracked events
	rosterPlayers []models.LivePlayer // from the scoreboard roster refresh
	cron          *cron.Cron
	runCtx        context.Context
	cancel        context.CancelFunc
}

// New creates a poller. Intervals below one second are raised to one second.
func New(engine Reconciler, store *legs.Store, module contracts.SportModule, interval time.Duration, logger *zap.Logger, sinks ...contracts.SnapshotSink) *Poller {
	if interval < minInterval {
		interval = minInterval
	}
	return &Poller{
		engine:   engine,
		store:    store,
		module:   module,
		sinks:    sinks,
		interval: interval,
		logger:   logger.With(zap.String("sport", module.GetSportKey())),
		snapshot: models.NewSnapshot(nil, time.Time{}),
	}
}

// Start schedules ticks every interval and roster refreshes every minute,
// and runs one of each immediately
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return errors.New("poller already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithLogger(newCronLogger(p.logger)), cron.WithChain(cron.Recover(newCronLogger(p.logger))))

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.scheduledTick(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("scheduling ticks: %w", err)
	}
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", rosterInterval), func() { p.scheduledRoster(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("scheduling roster refresh: %w", err)
	}

	p.cron = c
	p.runCtx = runCtx
	p.cancel = cancel
	c.Start()

	p.logger.Info("poller started", zap.Duration("interval", p.interval), zap.Duration("roster_interval", rosterInterval))
	go p.scheduledTick(runCtx)
	go p.scheduledRoster(runCtx)
	return nil
}

// Stop halts the schedule. A tick still running when Stop returns is discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	c, cancel := p.cron, p.cancel
	p.cron, p.runCtx, p.cancel = nil, nil, nil
	p.generation++
	p.mu.Unlock()

	if c == nil {
		return
	}

	cancel()
	<-c.Stop().Done()
	p.logger.Info("poller stopped")
}

// Trigger runs a tick now, outside the schedule. The tick runs on the
// poller's context, so ctx only bounds how long the caller waits for it.
// When ctx ends first the tick keeps running and ctx.Err() is returned.
func (p *Poller) Trigger(ctx context.Context) (models.Snapshot, error) {
	p.mu.RLock()
	base := p.runCtx
	p.mu.RUnlock()
	if base == nil {
		base = context.WithoutCancel(ctx)
	}

	type outcome struct {
		snapshot models.Snapshot
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		tickCtx, cancel := context.WithTimeout(base, maxTickDuration)
		defer cancel()
		snapshot, err := p.Tick(tickCtx)
		done <- outcome{snapshot, err}
	}()

	select {
	case out := <-done:
		return out.snapshot, out.err
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	}
}

// Tick runs one reconciliation and applies it to the store. Only one tick
// runs at a time; an overlapping call returns ErrTickInFlight.
func (p *Poller) Tick(ctx context.Context) (models.Snapshot, error) {
	if !p.inFlight.TryLock() {
		return models.Snapshot{}, ErrTickInFlight
	}
	defer p.inFlight.Unlock()

	p.mu.RLock()
	generation := p.generation
	p.mu.RUnlock()

	start := time.Now()
	result := p.engine.Reconcile(ctx, p.store.List())

	if result.Err != nil {
		p.logger.Warn("tick completed with feed errors", zap.Error(result.Err))
	}

	p.mu.Lock()
	if generation != p.generation {
		p.mu.Unlock()
		p.logger.Info("discarding tick that outlived stop")
		return models.Snapshot{}, ErrStaleTick
	}
	snapshot := models.NewSnapshot(p.store.Apply(result.Legs), result.Timestamp)
	p.snapshot = snapshot
	if len(result.Summaries) > 0 {
		p.tickPlayers = p.collectPlayers(result.Summaries)
	}
	p.mu.Unlock()

	p.logger.Debug("tick applied",
		zap.Int("legs", len(snapshot.Legs)),
		zap.Int("live", snapshot.LiveCount),
		zap.Duration("took", time.Since(start)),
	)

	p.publish(ctx, snapshot)
	return snapshot, nil
}

func (p *Poller) scheduledTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.Tick(ctx); err != nil && !errors.Is(err, ErrStaleTick) {
		p.logger.Debug("scheduled tick skipped", zap.Error(err))
	}
}

// RefreshRoster rebuilds the live roster from the first scoreboard events,
// independent of the tracked legs. The previous roster is kept when nothing
// could be fetched.
func (p *Poller) RefreshRoster(ctx context.Context) error {
	players, err := p.engine.Roster(ctx, rosterEvents)
	if err != nil && len(players) == 0 {
		return err
	}

	p.mu.Lock()
	p.rosterPlayers = dedupePlayers(players)
	p.mu.Unlock()

	p.logger.Debug("roster refreshed", zap.Int("players", len(players)))
	return err
}

func (p *Poller) scheduledRoster(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.RefreshRoster(ctx); err != nil {
		p.logger.Warn("roster refresh failed", zap.Error(err))
	}
}

// publish fans the snapshot out to every sink. Sink failures are only logged.
func (p *Poller) publish(ctx context.Context, snapshot models.Snapshot) {
	for _, sink := range p.sinks {
		sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		if err := sink.PublishSnapshot(sinkCtx, snapshot); err != nil {
			p.logger.Warn("snapshot sink failed", zap.String("sink", sink.Name()), zap.Error(err))
		}
		cancel()
	}
}

func (p *Poller) collectPlayers(summaries map[string]map[string]interface{}) []models.LivePlayer {
	var all []models.LivePlayer
	for _, summary := range summaries {
		all = append(all, p.module.LivePlayers(summary)...)
	}
	return dedupePlayers(all)
}

// Snapshot returns the last applied snapshot
func (p *Poller) Snapshot() models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// LastUpdate returns when the last tick completed
func (p *Poller) LastUpdate() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.UpdatedAt
}

// Players returns live players whose name or team contains query, at most limit.
// An empty query returns every known player.
func (p *Poller) Players(query string, limit int) []models.LivePlayer {
	p.mu.RLock()
	players := make([]models.LivePlayer, 0, len(p.rosterPlayers)+len(p.tickPlayers))
	players = append(players, p.rosterPlayers...)
	players = append(players, p.tickPlayers...)
	p.mu.RUnlock()

	return FilterPlayers(players, query, limit)
}

// FilterPlayers matches query case-insensitively against name or team
func FilterPlayers(players []models.LivePlayer, query string, limit int) []models.LivePlayer {
	q := strings.ToLower(strings.TrimSpace(query))

	out := []models.LivePlayer{}
	for _, player := range dedupePlayers(players) {
		if q != "" && !strings.Contains(strings.ToLower(player.Name), q) && !strings.Contains(strings.ToLower(player.Team), q) {
			continue
		}
		out = append(out, player)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func dedupePlayers(players []models.LivePlayer) []models.LivePlayer {
	seen := make(map[string]bool, len(players))
	out := make([]models.LivePlayer, 0, len(players))
	for _, player := range players {
		key := player.Name + "-" + player.Team
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, player)
	}
	return out
}
