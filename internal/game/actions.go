// internal/game/actions.go
//
// Player intents as data, and the reducer that routes them.

package game

// ActionType identifies an intent sent to Engine.Dispatch.
type ActionType string

const (
	ActionShowHome           ActionType = "show_home"
	ActionShowTutorialChoice ActionType = "show_tutorial_choice"
	ActionDismissTutorial    ActionType = "dismiss_tutorial"
	ActionShowTutorialHint   ActionType = "show_tutorial_hint"
	ActionStartEncounter     ActionType = "start_encounter"
	ActionPlayCard           ActionType = "play_card"
	ActionEndTurn            ActionType = "end_turn"
	ActionProcessGrading     ActionType = "process_grading"
	ActionSelectRewards      ActionType = "select_rewards"
)

// Action is one player intent.
type Action struct {
	Type ActionType `json:"type"`
	// Params depend on Type:
	// start_encounter: EncounterIndex
	// play_card: CardID
	// select_rewards: CardIDs
	// process_grading: Verdict
	EncounterIndex int      `json:"encounterIndex,omitempty"`
	CardID         string   `json:"cardId,omitempty"`
	CardIDs        []string `json:"cardIds,omitempty"`
	Verdict        *Verdict `json:"verdict,omitempty"`
}

// allowedIn lists the only actions accepted in locked phases. Phases not
// listed accept every action and leave gating to the transition itself.
var allowedIn = map[Phase]map[ActionType]bool{
	PhaseRunOver: {ActionShowHome: true, ActionStartEncounter: true},
	PhaseResults: {ActionShowHome: true, ActionProcessGrading: true},
}

// Dispatch applies an action and returns the next state. It is total: an
// action that is not legal now returns s unchanged.
func (e *Engine) Dispatch(s State, a Action) State {
	if allowed, locked := allowedIn[s.Phase]; locked && !allowed[a.Type] {
		e.reject(s, string(a.Type))
		return s
	}

	switch a.Type {
	case ActionShowHome:
		return e.ShowHome(s)
	case ActionShowTutorialChoice:
		return e.ShowTutorialChoice(s)
	case ActionDismissTutorial:
		return e.DismissTutorial(s)
	case ActionShowTutorialHint:
		return e.ShowTutorialHint(s)
	case ActionStartEncounter:
		return e.StartEncounter(s, a.EncounterIndex)
	case ActionPlayCard:
		return e.PlayCard(s, a.CardID)
	case ActionEndTurn:
		return e.EndTurn(s)
	case ActionProcessGrading:
		if a.Verdict == nil {
			e.reject(s, "process grading: no verdict")
			return s
		}
		return e.ProcessGradingResult(s, *a.Verdict)
	case ActionSelectRewards:
		return e.SelectRewards(s, a.CardIDs)
	default:
		e.reject(s, "unknown action "+string(a.Type))
		return s
	}
}
