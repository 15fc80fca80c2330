// internal/game/grading.go
//
// Grading result processing and reward selection.

package game

import "slices"

// ProcessGradingResult stores the verdict feedback on the current encounter
// and moves to reward (pass) or runOver (fail).
func (e *Engine) ProcessGradingResult(s State, v Verdict) State {
	if s.Phase != PhaseResults {
		e.reject(s, "process grading result")
		return s
	}

	if s.CurrentEncounter != nil {
		enc := *s.CurrentEncounter
		enc.Feedback = v.Feedback
		s.CurrentEncounter = &enc
	}

	if !v.Pass {
		s.Phase = PhaseRunOver
		s.RewardCards = nil
		return s
	}

	s.Phase = PhaseReward
	s.RewardCards = e.rewardOffer(s)
	return s
}

// rewardOffer picks the cards offered after a pass. Passing the tutorial
// offers only the unlock card; otherwise up to RewardOffers catalog cards
// whose name is not in the draw pile, in random order. Hand, discard and
// exhausted cards do not block an offer.
func (e *Engine) rewardOffer(s State) []Card {
	if s.InTutorial() {
		if tpl, ok := e.catalog.Card(e.catalog.Tutorial().UnlockCardID); ok {
			return []Card{e.instance(tpl)}
		}
	}

	owned := make(map[string]bool)
	for _, c := range s.Player.Deck {
		if !c.Temporary {
			owned[c.Name] = true
		}
	}

	pool := slices.DeleteFunc(e.catalog.Cards(), func(c Card) bool { return owned[c.Name] })
	e.Shuffle(pool)
	if len(pool) > e.rules.RewardOffers {
		pool = pool[:e.rules.RewardOffers]
	}

	offer := make([]Card, 0, len(pool))
	for _, tpl := range pool {
		offer = append(offer, e.instance(tpl))
	}
	return offer
}

// SelectRewards adds the chosen offered cards to the deck, advances the
// encounter index and moves to setup. Ids not in the offer are ignored, so
// an empty choice just advances.
func (e *Engine) SelectRewards(s State, cardIDs []string) State {
	if s.Phase != PhaseReward {
		e.reject(s, "select rewards")
		return s
	}

	var chosen []Card
	for _, c := range s.RewardCards {
		if slices.Contains(cardIDs, c.ID) {
			chosen = append(chosen, c)
		}
	}

	s.Player.Deck = slices.Concat(s.Player.Deck, chosen)
	s.RewardCards = nil
	s.EncounterIndex++
	s.Phase = PhaseSetup
	return s
}
