// internal/game/engine.go
//
// Turn/phase state machine for a single design deck run.
// Responsibilities:
//   - Build the initial state (starter deck, default canvas).
//   - Encounter setup: deck reconciliation, canvas reset, opening hand.
//   - Turn flow: play card (focus gating), end turn (countdown → results).
//   - Grading transition (pass → reward, fail → runOver) and reward pick.
//   - Tutorial scripting keyed off State.TurnIndex().
//
// Notes:
//   - Every transition takes a State by value and returns a new State.
//     Slices are never appended to or written in place; changed piles are
//     rebuilt with slices.Concat / slices.Clone.
//   - Illegal intents (wrong phase, not enough focus, unknown card) return
//     the input state unchanged and log at debug level. Nothing here errors.

package game

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Rand is the random source used for shuffles and random picks.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Rules are the tunable numbers of the game.
type Rules struct {
	HandSize           int
	StartingFocus      int
	RewardOffers       int
	IconSize           int
	DefaultTextColor   string
	DefaultFillColor   string
	DefaultStrokeColor string
}

// DefaultRules returns the stock rule set.
func DefaultRules() Rules {
	return Rules{
		HandSize:           5,
		StartingFocus:      3,
		RewardOffers:       3,
		IconSize:           24,
		DefaultTextColor:   "#333333",
		DefaultFillColor:   "#CCCCCC",
		DefaultStrokeColor: "#111111",
	}
}

// winEncounter is the terminal pseudo-encounter entered when the campaign
// runs out of encounters.
var winEncounter = Encounter{ID: "win", Prompt: "You Win!", DefaultText: "Game Complete"}

// Engine applies intents to states. It holds only read-only dependencies
// and can be shared between sessions as long as its Rand is safe to share.
type Engine struct {
	catalog Catalog
	rules   Rules
	rng     Rand
	newID   func() string
	log     zerolog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRules overrides the default rules.
func WithRules(r Rules) Option { return func(e *Engine) { e.rules = r } }

// WithRand sets the random source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithIDs sets the card instance id generator.
func WithIDs(f func() string) Option { return func(e *Engine) { e.newID = f } }

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// New constructs an engine over a catalog.
func New(c Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: c,
		rules:   DefaultRules(),
		rng:     globalRand{},
		newID:   uuid.NewString,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() Rules { return e.rules }

// Catalog returns the content catalog the engine reads.
func (e *Engine) Catalog() Catalog { return e.catalog }

// ----------------------------- setup ----------------------------------------

// NewState returns a fresh run at the home screen.
func (e *Engine) NewState() State {
	return State{
		Phase: PhaseHome,
		Player: Player{
			ID:       "player",
			Focus:    e.rules.StartingFocus,
			MaxFocus: e.rules.StartingFocus,
			Deck:     e.starterDeck(),
			Canvas:   e.defaultCanvas(),
		},
	}
}

// ShowHome abandons the current run and returns to the home screen.
func (e *Engine) ShowHome(State) State { return e.NewState() }

// ShowTutorialChoice moves from home to the tutorial prompt.
func (e *Engine) ShowTutorialChoice(s State) State {
	if s.Phase != PhaseHome {
		e.reject(s, "show tutorial choice")
		return s
	}
	s.Phase = PhaseTutorialChoice
	return s
}

// DismissTutorial hides the tutorial overlay.
func (e *Engine) DismissTutorial(s State) State {
	s.TutorialMessage = ""
	return s
}

// ShowTutorialHint re-shows the scripted message for the current turn.
func (e *Engine) ShowTutorialHint(s State) State {
	if !s.InTutorial() {
		return s
	}
	if step, ok := e.catalog.Tutorial().Steps[s.TurnIndex()]; ok {
		s.TutorialMessage = step.Message
	}
	return s
}

// StartEncounter loads the encounter at index and deals the opening hand.
// An index past the end of the catalog is the win condition.
func (e *Engine) StartEncounter(s State, index int) State {
	switch s.Phase {
	case PhaseHome, PhaseTutorialChoice, PhaseSetup, PhaseRunOver:
	default:
		e.reject(s, "start encounter")
		return s
	}
	if index < 0 {
		e.reject(s, "start encounter: negative index")
		return s
	}

	enc, ok := e.catalog.Encounter(index)
	if !ok {
		win := winEncounter
		s.CurrentEncounter = &win
		s.Phase = PhaseRunOver
		s.TutorialMessage = ""
		s.RewardCards = nil
		return s
	}

	p := s.Player
	var deck []Card
	switch {
	case index == 0:
		deck = e.starterDeck()
	case s.InTutorial():
		// Scripted tutorial deals are not the player's cards; only the deck
		// (starter plus unlock reward) carries over. Keyed on leaving the
		// tutorial rather than on index 1, so a retry of index 1 from runOver
		// reconciles and keeps its discards.
		deck = slices.Clone(p.Deck)
	default:
		deck = reconcileDeck(p)
	}
	e.Shuffle(deck)

	p.Deck = deck
	p.Hand, p.Discard, p.Exhausted = nil, nil, nil
	p.Canvas = e.defaultCanvas()

	s.Player = p
	s.CurrentEncounter = &enc
	s.EncounterIndex = index
	s.TurnsRemaining = enc.MaxTurns
	s.MaxTurns = enc.MaxTurns
	s.Phase = PhasePlayerTurn
	s.TutorialMessage = ""
	s.RewardCards = nil

	return e.startTurn(s, 0)
}

// Advance resolves the transient setup phase by starting the encounter at
// EncounterIndex. Past the last encounter that is the win state.
func (e *Engine) Advance(s State) State {
	if s.Phase != PhaseSetup {
		return s
	}
	if _, ok := e.catalog.Encounter(s.EncounterIndex); !ok {
		e.log.Info().Int("encounterIndex", s.EncounterIndex).Msg("campaign complete")
	}
	return e.StartEncounter(s, s.EncounterIndex)
}

// ------------------------------ turns ---------------------------------------

// PlayCard plays the hand card with the given instance id: pay its focus,
// resolve its effects in order, then move it to discard or exhausted.
func (e *Engine) PlayCard(s State, cardID string) State {
	if s.Phase != PhasePlayerTurn {
		e.reject(s, "play card")
		return s
	}
	i := slices.IndexFunc(s.Player.Hand, func(c Card) bool { return c.ID == cardID })
	if i < 0 {
		e.reject(s, "play card: not in hand")
		return s
	}
	card := s.Player.Hand[i]
	if card.FocusCost > s.Player.Focus {
		e.log.Debug().Str("card", card.Name).Int("cost", card.FocusCost).Int("focus", s.Player.Focus).Msg("not enough focus")
		return s
	}

	s.Player.Focus -= card.FocusCost
	for _, eff := range card.Effects {
		s = e.Apply(s, eff)
	}

	p := s.Player
	p.Hand = slices.DeleteFunc(slices.Clone(p.Hand), func(c Card) bool { return c.ID == card.ID })
	if card.Exhausts {
		p.Exhausted = slices.Concat(p.Exhausted, []Card{card})
	} else {
		p.Discard = slices.Concat(p.Discard, []Card{card})
	}
	s.Player = p
	return s
}

// EndTurn counts a turn down. The last turn clears the hand and moves to
// results; otherwise the next turn is dealt.
func (e *Engine) EndTurn(s State) State {
	if s.Phase != PhasePlayerTurn {
		e.reject(s, "end turn")
		return s
	}
	s.TurnsRemaining--
	if s.TurnsRemaining <= 0 {
		p := s.Player
		p.Discard = slices.Concat(p.Discard, p.Hand)
		p.Hand = nil
		s.Player = p
		s.Phase = PhaseResults
		s.TutorialMessage = ""
		return s
	}
	return e.startTurn(s, s.TurnIndex())
}

// startTurn resets focus, discards the hand and deals the turn's cards:
// the tutorial script when it has a step for turnIndex, a normal draw
// otherwise.
func (e *Engine) startTurn(s State, turnIndex int) State {
	p := EndOfTurnReset(s.Player)

	if s.InTutorial() {
		if step, ok := e.catalog.Tutorial().Steps[turnIndex]; ok {
			dealt := make([]Card, 0, len(step.Cards))
			for _, id := range step.Cards {
				if tpl, ok := e.catalog.Card(id); ok {
					dealt = append(dealt, e.instance(tpl))
				}
			}
			p.Hand = dealt
			s.Player = p
			s.TutorialMessage = step.Message
			return s
		}
	}

	s.Player = e.Draw(p, e.rules.HandSize)
	return s
}

// ------------------------------ helpers -------------------------------------

// instance stamps a template with a fresh id.
func (e *Engine) instance(tpl Card) Card {
	tpl.ID = e.newID()
	tpl.Temporary = false
	return tpl
}

// starterDeck instantiates the catalog's starter deck. Missing ids are
// rejected when the catalog loads, so they are skipped here.
func (e *Engine) starterDeck() []Card {
	ids := e.catalog.StarterDeck()
	deck := make([]Card, 0, len(ids))
	for _, id := range ids {
		if tpl, ok := e.catalog.Card(id); ok {
			deck = append(deck, e.instance(tpl))
		}
	}
	return deck
}

func (e *Engine) defaultCanvas() Canvas {
	c := e.catalog.DefaultCanvas()
	c.Colors = slices.Clone(c.Colors)
	c.TextStyles = slices.Clone(c.TextStyles)
	return c
}

func (e *Engine) reject(s State, what string) {
	e.log.Debug().Str("phase", string(s.Phase)).Msg("ignored: " + what)
}
