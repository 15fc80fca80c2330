package game_test

import (
	"encoding/json"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScarletRegal/ui-deckbuilder/internal/catalog"
	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

// firstRand always picks index 0, which makes shuffles and random picks
// reproducible.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func card(id string, cost int, effects ...game.Effect) game.Card {
	return game.Card{ID: id, TemplateID: id, Name: "Card " + id, FocusCost: cost, Category: game.CategorySkill, Effects: effects}
}

func testContent() catalog.Content {
	burn := card("burn", 0, game.ModifyProperty{Property: game.PropPadding, Amount: 4})
	burn.Exhausts = true
	heading := game.TextStyle{Name: "Heading", FontSize: 32, FontWeight: 700}

	return catalog.Content{
		Cards: []game.Card{
			card("focus", 0, game.ModifyFocus{Amount: 1}),
			card("fill", 1, game.SetCanvasProp{Property: game.PropFillType, Value: string(game.FillSolid)}),
			card("color", 0, game.SetActiveColorFromPalette{Index: 1}),
			card("paint", 0, game.ApplyColorTo{Target: game.TargetFill}),
			burn,
			card("draw", 1, game.DrawCards{Amount: 2}),
			card("swatch", 0, game.GeneratePaletteCard{Amount: 2}),
			card("mystery", 0, game.UnknownEffect{Type: "TELEPORT"}),
			card("heading", 1, game.SetCanvasProp{Property: game.PropActiveTextStyle, Style: &heading}, game.AddEncounterText{}),
			card("pricey", 5, game.ModifyFocus{Amount: 1}),
			card("label", 0, game.AddText{Text: "Click me", StyleName: "Label"}),
			card("unlock", 1, game.AddEncounterIcon{}),
		},
		Palettes: []game.Palette{
			{ID: "p1", Name: "Mono", Colors: []string{"#111111", "#222222"}, Cards: []string{"color"}},
		},
		Encounters: []game.Encounter{
			{ID: "tutorial", Prompt: "Tutorial", DefaultText: "Submit", MaxTurns: 2, Tutorial: true},
			{ID: "e1", Prompt: "Primary Button", DefaultText: "Buy", DefaultIcon: "cart", MaxTurns: 2},
			{ID: "e2", Prompt: "Secondary Button", DefaultText: "Cancel", MaxTurns: 2},
		},
		StarterDeck: []string{
			"focus", "focus", "fill", "fill", "color", "color", "color",
			"paint", "paint", "paint", "burn", "draw", "draw",
		},
		Tutorial: game.Tutorial{
			Steps: map[int]game.TutorialStep{
				0: {Cards: []string{"color", "paint"}, Message: "Pick a color, then paint."},
				1: {Cards: []string{"fill"}, Message: "Fill the shape."},
			},
			UnlockCardID: "unlock",
			Feedback:     "Nice work.",
		},
		DefaultCanvas: game.Canvas{
			WidthMode:       game.DimensionFixed,
			HeightMode:      game.DimensionFixed,
			Padding:         16,
			Layout:          game.LayoutRow,
			Shape:           game.ShapeSquare,
			FillType:        game.FillNone,
			ActivePaletteID: "p1",
			PaletteName:     "Mono",
			Colors:          []string{"#111111", "#222222"},
			FontFamily:      "Inter",
			TextStyles:      []game.TextStyle{{Name: "Body", FontSize: 16, FontWeight: 400}},
		},
	}
}

func newEngine(t *testing.T) *game.Engine {
	t.Helper()
	cat, err := catalog.New(testContent())
	require.NoError(t, err)
	n := 0
	return game.New(cat,
		game.WithRand(firstRand{}),
		game.WithIDs(func() string { n++; return fmt.Sprintf("i%d", n) }),
	)
}

// withHand replaces the hand with fresh instances of the given templates.
func withHand(t *testing.T, e *game.Engine, s game.State, ids ...string) game.State {
	t.Helper()
	var hand []game.Card
	for i, id := range ids {
		tpl, ok := e.Catalog().Card(id)
		require.True(t, ok, id)
		tpl.ID = fmt.Sprintf("h%d-%s", i, id)
		hand = append(hand, tpl)
	}
	s.Player.Hand = hand
	return s
}

func started(t *testing.T, e *game.Engine) game.State {
	t.Helper()
	s := e.StartEncounter(e.NewState(), 1)
	require.Equal(t, game.PhasePlayerTurn, s.Phase)
	return s
}

func toResults(t *testing.T, e *game.Engine, s game.State) game.State {
	t.Helper()
	for s.Phase == game.PhasePlayerTurn {
		s = e.Dispatch(s, game.Action{Type: game.ActionEndTurn})
	}
	require.Equal(t, game.PhaseResults, s.Phase)
	return s
}

func snapshot(t *testing.T, s game.State) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

// ---------------------------------------------------------------------------

func TestNewStateIsHome(t *testing.T) {
	e := newEngine(t)
	s := e.NewState()
	assert.Equal(t, game.PhaseHome, s.Phase)
	assert.Len(t, s.Player.Deck, 13)
	assert.Equal(t, 3, s.Player.Focus)
	assert.Equal(t, "p1", s.Player.Canvas.ActivePaletteID)
	assert.Nil(t, s.CurrentEncounter)
}

func TestStarterEncounterDealsOpeningHand(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)

	assert.Len(t, s.Player.Hand, 5)
	assert.Len(t, s.Player.Deck, 8)
	assert.Empty(t, s.Player.Discard)
	assert.Equal(t, 3, s.Player.Focus)
	assert.Equal(t, 2, s.TurnsRemaining)
	assert.Equal(t, 0, s.TurnIndex())
	assert.Equal(t, "e1", s.CurrentEncounter.ID)
	assert.Equal(t, 13, s.Player.PermanentCount())
}

func TestPlayCardPaysAndDiscards(t *testing.T) {
	e := newEngine(t)
	s := withHand(t, e, started(t, e), "fill", "focus")

	s = e.PlayCard(s, "h0-fill")
	assert.Equal(t, 2, s.Player.Focus)
	assert.Equal(t, game.FillSolid, s.Player.Canvas.FillType)
	assert.Equal(t, "#CCCCCC", s.Player.Canvas.BackgroundColor)
	require.Len(t, s.Player.Discard, 1)
	assert.Equal(t, "h0-fill", s.Player.Discard[0].ID)

	s = e.PlayCard(s, "h1-focus")
	assert.Equal(t, 3, s.Player.Focus)
	assert.Empty(t, s.Player.Hand)
}

func TestPlayCardNeedsFocus(t *testing.T) {
	e := newEngine(t)
	s := withHand(t, e, started(t, e), "pricey")
	before := snapshot(t, s)

	after := e.PlayCard(s, "h0-pricey")
	assert.Equal(t, before, snapshot(t, after))

	after = e.PlayCard(s, "not-in-hand")
	assert.Equal(t, before, snapshot(t, after))
}

func TestExhaustingCardLeavesRotation(t *testing.T) {
	e := newEngine(t)
	s := withHand(t, e, started(t, e), "burn")

	s = e.PlayCard(s, "h0-burn")
	assert.Empty(t, s.Player.Discard)
	require.Len(t, s.Player.Exhausted, 1)
	assert.Equal(t, 20, s.Player.Canvas.Padding)
}

func TestCardConservationAcrossTurns(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)
	for s.Phase == game.PhasePlayerTurn {
		for _, c := range slices.Clone(s.Player.Hand) {
			s = e.PlayCard(s, c.ID)
		}
		assert.Equal(t, 13, s.Player.PermanentCount())
		s = e.EndTurn(s)
	}
	assert.Equal(t, game.PhaseResults, s.Phase)
	assert.Empty(t, s.Player.Hand)
	assert.Equal(t, 13, s.Player.PermanentCount())
}

func TestDrawReshufflesDiscard(t *testing.T) {
	e := newEngine(t)
	p := game.Player{
		Deck:    []game.Card{{ID: "d1"}},
		Discard: []game.Card{{ID: "x1"}, {ID: "x2"}, {ID: "x3"}},
	}

	p = e.Draw(p, 3)
	assert.Len(t, p.Hand, 3)
	assert.Equal(t, "d1", p.Hand[0].ID)
	assert.Len(t, p.Deck, 1)
	assert.Empty(t, p.Discard)

	p = e.Draw(p, 5)
	assert.Len(t, p.Hand, 4)
	assert.Empty(t, p.Deck)
}

func TestEndOfTurnReset(t *testing.T) {
	p := game.Player{Focus: 0, MaxFocus: 3, Hand: []game.Card{{ID: "a"}}, Discard: []game.Card{{ID: "b"}}}
	p = game.EndOfTurnReset(p)
	assert.Equal(t, 3, p.Focus)
	assert.Empty(t, p.Hand)
	assert.Len(t, p.Discard, 2)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	e := newEngine(t)
	s := withHand(t, e, started(t, e), "color", "paint", "heading", "draw", "swatch")
	before := snapshot(t, s)

	next := s
	for _, c := range s.Player.Hand {
		next = e.PlayCard(next, c.ID)
	}
	next = e.EndTurn(next)
	setup := s
	setup.Phase = game.PhaseSetup
	_ = e.StartEncounter(setup, 2)

	assert.NotEqual(t, before, snapshot(t, next))
	assert.Equal(t, before, snapshot(t, s))
}

func TestUnknownEffectIsIgnored(t *testing.T) {
	e := newEngine(t)
	s := withHand(t, e, started(t, e), "mystery")
	canvas := s.Player.Canvas

	s = e.PlayCard(s, "h0-mystery")
	assert.Equal(t, canvas, s.Player.Canvas)
	assert.Len(t, s.Player.Discard, 1)
}

func TestPaletteCardsAreTemporary(t *testing.T) {
	e := newEngine(t)
	s := withHand(t, e, started(t, e), "swatch")
	perm := s.Player.PermanentCount()

	s = e.PlayCard(s, "h0-swatch")
	require.Len(t, s.Player.Hand, 2)
	for _, c := range s.Player.Hand {
		assert.True(t, c.Temporary)
		assert.Equal(t, "color", c.TemplateID)
	}
	assert.Equal(t, perm, s.Player.PermanentCount())

	// Temporary cards do not survive into the next encounter.
	s.Phase = game.PhaseSetup
	s = e.StartEncounter(s, 2)
	for _, pile := range [][]game.Card{s.Player.Deck, s.Player.Hand} {
		for _, c := range pile {
			assert.False(t, c.Temporary)
		}
	}
	assert.Len(t, s.Player.Hand, 5)
	assert.Len(t, s.Player.Deck, perm-5)
}

func TestTutorialScript(t *testing.T) {
	e := newEngine(t)
	s := e.Dispatch(e.NewState(), game.Action{Type: game.ActionShowTutorialChoice})
	require.Equal(t, game.PhaseTutorialChoice, s.Phase)

	s = e.Dispatch(s, game.Action{Type: game.ActionStartEncounter, EncounterIndex: 0})
	require.True(t, s.InTutorial())
	assert.Equal(t, "Pick a color, then paint.", s.TutorialMessage)
	require.Len(t, s.Player.Hand, 2)
	assert.Equal(t, "color", s.Player.Hand[0].TemplateID)
	assert.Equal(t, "paint", s.Player.Hand[1].TemplateID)

	s = e.Dispatch(s, game.Action{Type: game.ActionDismissTutorial})
	assert.Empty(t, s.TutorialMessage)
	s = e.Dispatch(s, game.Action{Type: game.ActionShowTutorialHint})
	assert.Equal(t, "Pick a color, then paint.", s.TutorialMessage)

	s = e.Dispatch(s, game.Action{Type: game.ActionEndTurn})
	assert.Equal(t, 1, s.TurnIndex())
	assert.Equal(t, "Fill the shape.", s.TutorialMessage)
	require.Len(t, s.Player.Hand, 1)
	assert.Equal(t, "fill", s.Player.Hand[0].TemplateID)

	s = toResults(t, e, s)
	s = e.Dispatch(s, game.Action{Type: game.ActionProcessGrading, Verdict: &game.Verdict{Pass: true, Feedback: "Nice work."}})
	require.Equal(t, game.PhaseReward, s.Phase)
	require.Len(t, s.RewardCards, 1)
	assert.Equal(t, "unlock", s.RewardCards[0].TemplateID)
}

func TestFailVerdictEndsRun(t *testing.T) {
	e := newEngine(t)
	s := toResults(t, e, started(t, e))

	s = e.Dispatch(s, game.Action{Type: game.ActionProcessGrading, Verdict: &game.Verdict{Pass: false, Feedback: "No text."}})
	assert.Equal(t, game.PhaseRunOver, s.Phase)
	assert.Equal(t, "No text.", s.CurrentEncounter.Feedback)
	assert.Empty(t, s.RewardCards)

	// Retrying the encounter is allowed from runOver.
	s = e.Dispatch(s, game.Action{Type: game.ActionStartEncounter, EncounterIndex: 1})
	assert.Equal(t, game.PhasePlayerTurn, s.Phase)
	assert.Empty(t, s.CurrentEncounter.Feedback)
}

func TestPassOffersUnownedCards(t *testing.T) {
	e := newEngine(t)
	s := toResults(t, e, started(t, e))
	owned := map[string]bool{}
	for _, c := range s.Player.Deck {
		owned[c.Name] = true
	}

	s = e.ProcessGradingResult(s, game.Verdict{Pass: true, Feedback: "Good."})
	require.Equal(t, game.PhaseReward, s.Phase)
	require.Len(t, s.RewardCards, 3)
	names := map[string]bool{}
	for _, c := range s.RewardCards {
		assert.False(t, owned[c.Name], c.Name)
		assert.False(t, names[c.Name], "offered twice: %s", c.Name)
		names[c.Name] = true
	}
}

func TestDiscardedCardsDoNotBlockOffers(t *testing.T) {
	e := newEngine(t)
	s := toResults(t, e, started(t, e))
	s.Player.Deck = nil
	s.Player.Discard = e.Catalog().Cards()

	s = e.ProcessGradingResult(s, game.Verdict{Pass: true})
	require.Equal(t, game.PhaseReward, s.Phase)
	assert.Len(t, s.RewardCards, 3)

	// Every catalog name in the draw pile leaves nothing to offer.
	s = toResults(t, e, started(t, e))
	s.Player.Deck = e.Catalog().Cards()
	s = e.ProcessGradingResult(s, game.Verdict{Pass: true})
	assert.Empty(t, s.RewardCards)
}

func TestSelectRewardsAdvancesCampaign(t *testing.T) {
	e := newEngine(t)
	s := e.ProcessGradingResult(toResults(t, e, started(t, e)), game.Verdict{Pass: true})
	pick := s.RewardCards[0]

	s = e.Dispatch(s, game.Action{Type: game.ActionSelectRewards, CardIDs: []string{pick.ID, "bogus"}})
	assert.Equal(t, game.PhaseSetup, s.Phase)
	assert.Equal(t, 2, s.EncounterIndex)
	assert.Empty(t, s.RewardCards)
	assert.Equal(t, 14, s.Player.PermanentCount())

	s = e.Advance(s)
	assert.Equal(t, game.PhasePlayerTurn, s.Phase)
	assert.Equal(t, "e2", s.CurrentEncounter.ID)
	assert.Equal(t, 14, s.Player.PermanentCount())
}

func TestAdvancePastCampaignIsWin(t *testing.T) {
	e := newEngine(t)
	s := e.NewState()
	s.Phase = game.PhaseSetup
	s.EncounterIndex = 3

	s = e.Advance(s)
	assert.Equal(t, game.PhaseRunOver, s.Phase)
	require.NotNil(t, s.CurrentEncounter)
	assert.Equal(t, "win", s.CurrentEncounter.ID)
}

func TestStartEncounterPastCampaignIsWin(t *testing.T) {
	e := newEngine(t)
	s := e.StartEncounter(e.NewState(), 99)
	assert.Equal(t, game.PhaseRunOver, s.Phase)
	require.NotNil(t, s.CurrentEncounter)
	assert.Equal(t, "win", s.CurrentEncounter.ID)
}

func TestDispatchLocks(t *testing.T) {
	e := newEngine(t)
	results := toResults(t, e, started(t, e))
	before := snapshot(t, results)

	for _, a := range []game.Action{
		{Type: game.ActionEndTurn},
		{Type: game.ActionStartEncounter, EncounterIndex: 2},
		{Type: game.ActionSelectRewards},
		{Type: game.ActionShowTutorialChoice},
		{Type: game.ActionProcessGrading}, // nil verdict
	} {
		assert.Equal(t, before, snapshot(t, e.Dispatch(results, a)), a.Type)
	}

	over := e.Dispatch(results, game.Action{Type: game.ActionProcessGrading, Verdict: &game.Verdict{}})
	require.Equal(t, game.PhaseRunOver, over.Phase)
	locked := snapshot(t, over)
	for _, a := range []game.Action{
		{Type: game.ActionEndTurn},
		{Type: game.ActionPlayCard, CardID: "i1"},
		{Type: game.ActionDismissTutorial},
	} {
		assert.Equal(t, locked, snapshot(t, e.Dispatch(over, a)), a.Type)
	}
	assert.Equal(t, game.PhaseHome, e.Dispatch(over, game.Action{Type: game.ActionShowHome}).Phase)
}

func TestStarterScenarioWithoutTutorial(t *testing.T) {
	content := testContent()
	content.Encounters[0].Tutorial = false
	content.Encounters[0].MaxTurns = 5
	cat, err := catalog.New(content)
	require.NoError(t, err)
	e := game.New(cat, game.WithRand(firstRand{}))

	s := e.StartEncounter(e.NewState(), 0)
	assert.Equal(t, game.PhasePlayerTurn, s.Phase)
	assert.Len(t, s.Player.Hand, 5)
	assert.Len(t, s.Player.Deck, 8)
	assert.Empty(t, s.Player.Discard)
	assert.Empty(t, s.Player.Exhausted)
	assert.Empty(t, s.TutorialMessage)
}

func TestTurnCountdown(t *testing.T) {
	content := testContent()
	content.Encounters[1].MaxTurns = 5
	cat, err := catalog.New(content)
	require.NoError(t, err)
	e := game.New(cat, game.WithRand(firstRand{}))

	s := e.StartEncounter(e.NewState(), 1)
	require.Equal(t, 5, s.TurnsRemaining)
	for i := 1; i <= 4; i++ {
		s = e.EndTurn(s)
		require.Equal(t, game.PhasePlayerTurn, s.Phase, "after end-turn %d", i)
		assert.Equal(t, 5-i, s.TurnsRemaining)
		assert.Equal(t, i, s.TurnIndex())
	}
	s = e.EndTurn(s)
	assert.Equal(t, game.PhaseResults, s.Phase)
	assert.Equal(t, 0, s.TurnsRemaining)
	assert.Empty(t, s.Player.Hand)
}

func TestEmptyRewardChoiceStillAdvances(t *testing.T) {
	e := newEngine(t)
	s := e.ProcessGradingResult(toResults(t, e, started(t, e)), game.Verdict{Pass: true})
	deck := len(s.Player.Deck)

	s = e.SelectRewards(s, nil)
	assert.Equal(t, game.PhaseSetup, s.Phase)
	assert.Equal(t, 2, s.EncounterIndex)
	assert.Len(t, s.Player.Deck, deck)
}

func TestDeckAfterTutorialKeepsOnlyDeckPile(t *testing.T) {
	e := newEngine(t)
	s := e.StartEncounter(e.Dispatch(e.NewState(), game.Action{Type: game.ActionShowTutorialChoice}), 0)
	s = toResults(t, e, s)
	s = e.ProcessGradingResult(s, game.Verdict{Pass: true})
	s = e.SelectRewards(s, []string{s.RewardCards[0].ID})

	s = e.Advance(s)
	require.Equal(t, "e1", s.CurrentEncounter.ID)
	assert.Equal(t, 14, s.Player.PermanentCount())
}
