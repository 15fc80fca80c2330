// internal/session/session.go
//
// Session orchestration around the pure engine.
// Responsibilities:
//   - Create sessions (ulid ids), normal or daily-seeded.
//   - Serialize intents per session and run them through Engine.Dispatch.
//   - Resolve the transient setup phase right away (Engine.Advance).
//   - On entry to results, start exactly one background grading call and
//     feed its verdict back through ProcessGradingResult.
//   - Record each processed verdict in the ledger (best effort).
//   - Fan state snapshots out to subscribers (websocket stream).
//
// Notes:
//   - While a verdict is outstanding every intent except ShowHome is
//     refused with ErrGradingInFlight.
//   - A verdict that arrives after the player left that results phase is
//     dropped; gen tells the two results entries apart.
//   - Close cancels outstanding calls and drops their verdicts, so a
//     restart leaves the session in results and records nothing.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/ScarletRegal/ui-deckbuilder/internal/daily"
	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
	"github.com/ScarletRegal/ui-deckbuilder/internal/grader"
	"github.com/ScarletRegal/ui-deckbuilder/internal/ledger"
	"github.com/ScarletRegal/ui-deckbuilder/internal/store"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrGradingInFlight is returned while a verdict is outstanding.
	ErrGradingInFlight = errors.New("grading in progress")
	// ErrReservedAction is returned when a client sends an intent only the
	// server may issue (grading results).
	ErrReservedAction = errors.New("action is reserved")
)

// Mode selects how a session's random source is seeded.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// Recorder persists processed verdicts.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) error
}

// Config holds the Manager's dependencies.
type Config struct {
	Catalog   game.Catalog
	Store     store.Store
	Grader    grader.Grader
	Ledger    Recorder // optional
	Rules     game.Rules
	DailySalt string
	Logger    zerolog.Logger
	// Now and NewID default to time.Now and ulid.Make.
	Now   func() time.Time
	NewID func() string
	// CardIDs overrides card instance ids (tests).
	CardIDs func() string
}

// Manager owns every live session.
type Manager struct {
	cfg    Config
	shared *game.Engine

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	live map[string]*live
}

type live struct {
	mu      sync.Mutex
	engine  *game.Engine
	grading bool
	gen     int
	subs    map[chan game.State]struct{}
}

// NewManager builds a Manager. Close must be called to stop grading work.
func NewManager(cfg Config) *Manager {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return ulid.Make().String() }
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		live:   make(map[string]*live),
	}
	m.shared = game.New(cfg.Catalog, m.engineOpts()...)
	return m
}

func (m *Manager) engineOpts(extra ...game.Option) []game.Option {
	opts := []game.Option{
		game.WithRules(m.cfg.Rules),
		game.WithLogger(m.cfg.Logger.With().Str("component", "engine").Logger()),
	}
	if m.cfg.CardIDs != nil {
		opts = append(opts, game.WithIDs(m.cfg.CardIDs))
	}
	return append(opts, extra...)
}

// Close cancels outstanding grading calls and waits for them to finish.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

// Wait blocks until no grading call is outstanding.
func (m *Manager) Wait() { m.wg.Wait() }

// Create starts a new session at the home screen.
func (m *Manager) Create(ctx context.Context, mode Mode) (store.Record, error) {
	now := m.cfg.Now()
	engine := m.shared
	rec := store.Record{ID: m.cfg.NewID(), CreatedAt: now, UpdatedAt: now}

	if mode == ModeDaily {
		engine = game.New(m.cfg.Catalog, m.engineOpts(game.WithRand(daily.Rand(now, m.cfg.DailySalt)))...)
		rec.DailyDate = daily.DateKey(now)
	}
	rec.State = engine.NewState()

	if err := m.cfg.Store.Save(ctx, rec); err != nil {
		return store.Record{}, err
	}

	m.mu.Lock()
	m.live[rec.ID] = &live{engine: engine, subs: make(map[chan game.State]struct{})}
	m.mu.Unlock()

	m.cfg.Logger.Info().Str("session", rec.ID).Str("mode", string(mode)).Msg("session created")
	return rec, nil
}

// Get returns a session's current record.
func (m *Manager) Get(ctx context.Context, id string) (store.Record, error) {
	if m.session(id) == nil {
		return store.Record{}, ErrNotFound
	}
	rec, err := m.cfg.Store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Record{}, ErrNotFound
	}
	return rec, err
}

// Dispatch applies a client intent and returns the resulting state.
func (m *Manager) Dispatch(ctx context.Context, id string, a game.Action) (game.State, error) {
	if a.Type == game.ActionProcessGrading {
		return game.State{}, ErrReservedAction
	}
	l := m.session(id)
	if l == nil {
		return game.State{}, ErrNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.grading && a.Type != game.ActionShowHome {
		return game.State{}, ErrGradingInFlight
	}

	rec, err := m.cfg.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return game.State{}, ErrNotFound
		}
		return game.State{}, err
	}

	before := rec.State.Phase
	s := l.engine.Advance(l.engine.Dispatch(rec.State, a))
	if a.Type == game.ActionShowHome {
		// Leaving results abandons any outstanding verdict.
		l.grading = false
	}

	rec.State = s
	rec.UpdatedAt = m.cfg.Now()
	if err := m.cfg.Store.Save(ctx, rec); err != nil {
		return game.State{}, err
	}
	l.publish(s)

	if s.Phase == game.PhaseResults && before != game.PhaseResults {
		m.startGrading(id, l, rec)
	}
	return s, nil
}

// startGrading launches the one grading call for this results entry.
// l.mu must be held.
func (m *Manager) startGrading(id string, l *live, rec store.Record) {
	if l.grading {
		m.cfg.Logger.Warn().Str("session", id).Msg("grading already in flight")
		return
	}
	if rec.State.CurrentEncounter == nil {
		return
	}
	l.grading = true
	l.gen++
	gen := l.gen
	enc := *rec.State.CurrentEncounter
	canvas := rec.State.Player.Canvas

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		v := m.cfg.Grader.Grade(m.ctx, enc, canvas)
		m.applyVerdict(id, l, gen, rec.DailyDate, v)
	}()
}

func (m *Manager) applyVerdict(id string, l *live, gen int, dailyDate string, v game.Verdict) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := m.cfg.Logger.With().Str("session", id).Logger()
	if m.ctx.Err() != nil {
		// Shutting down: the call was cut short, not graded.
		log.Info().Msg("verdict dropped on shutdown")
		return
	}
	if !l.grading || l.gen != gen {
		log.Info().Msg("stale verdict dropped")
		return
	}
	l.grading = false

	ctx := m.ctx
	rec, err := m.cfg.Store.Get(ctx, id)
	if err != nil || rec.State.Phase != game.PhaseResults {
		log.Info().Msg("session left results before verdict")
		return
	}

	enc := rec.State.CurrentEncounter
	rec.State = l.engine.Dispatch(rec.State, game.Action{Type: game.ActionProcessGrading, Verdict: &v})
	rec.UpdatedAt = m.cfg.Now()
	if err := m.cfg.Store.Save(ctx, rec); err != nil {
		log.Error().Err(err).Msg("save graded session")
		return
	}
	l.publish(rec.State)
	log.Info().Bool("pass", v.Pass).Str("encounter", enc.ID).Msg("verdict processed")

	if m.cfg.Ledger != nil {
		err := m.cfg.Ledger.Record(context.WithoutCancel(ctx), ledger.Entry{
			SessionID:      id,
			DailyDate:      dailyDate,
			EncounterID:    enc.ID,
			EncounterIndex: rec.State.EncounterIndex,
			Pass:           v.Pass,
			Feedback:       v.Feedback,
			CreatedAt:      rec.UpdatedAt,
		})
		if err != nil {
			log.Warn().Err(err).Msg("ledger record")
		}
	}
}

// Subscribe returns a channel receiving the state after every change. Slow
// readers only see the latest state. Call cancel to unsubscribe.
func (m *Manager) Subscribe(id string) (<-chan game.State, func(), error) {
	l := m.session(id)
	if l == nil {
		return nil, nil, ErrNotFound
	}
	ch := make(chan game.State, 1)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
		})
	}
	return ch, cancel, nil
}

// Sweep drops sessions idle for longer than ttl and returns how many.
func (m *Manager) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	ids, err := m.cfg.Store.Expired(ctx, m.cfg.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := m.cfg.Store.Delete(ctx, id); err != nil {
			return 0, err
		}
		m.mu.Lock()
		delete(m.live, id)
		m.mu.Unlock()
	}
	return len(ids), nil
}

func (m *Manager) session(id string) *live {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[id]
}

// publish delivers s to every subscriber, replacing any unread state.
// l.mu must be held.
func (l *live) publish(s game.State) {
	for ch := range l.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
