// internal/game/lifecycle.go
//
// Card lifecycle: shuffle, draw with reshuffle, end-of-turn reset and deck
// reconciliation between encounters.

package game

import "slices"

// Shuffle permutes cards in place with Fisher-Yates. Callers pass a slice
// they own.
func (e *Engine) Shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Draw moves up to n cards from the top of the deck to the hand. An empty
// deck is refilled from a shuffled discard; when both are empty drawing
// stops early.
func (e *Engine) Draw(p Player, n int) Player {
	deck := slices.Clone(p.Deck)
	hand := slices.Clone(p.Hand)
	discard := p.Discard

	for drawn := 0; drawn < n; drawn++ {
		if len(deck) == 0 {
			if len(discard) == 0 {
				break
			}
			deck = slices.Clone(discard)
			e.Shuffle(deck)
			discard = nil
		}
		top := deck[len(deck)-1]
		deck = deck[:len(deck)-1]
		hand = append(hand, top)
	}

	p.Deck, p.Hand, p.Discard = deck, hand, discard
	return p
}

// EndOfTurnReset restores focus and moves the whole hand to discard.
func EndOfTurnReset(p Player) Player {
	p.Focus = p.MaxFocus
	p.Discard = slices.Concat(p.Discard, p.Hand)
	p.Hand = nil
	return p
}

// reconcileDeck pools every pile into a new deck, dropping temporary
// (palette-generated) instances. The result is unshuffled.
func reconcileDeck(p Player) []Card {
	all := slices.Concat(p.Deck, p.Hand, p.Discard, p.Exhausted)
	return slices.DeleteFunc(all, func(c Card) bool { return c.Temporary })
}

// PermanentCount is the number of non-temporary instances across all piles.
func (p Player) PermanentCount() int {
	n := 0
	for _, pile := range [][]Card{p.Deck, p.Hand, p.Discard, p.Exhausted} {
		for _, c := range pile {
			if !c.Temporary {
				n++
			}
		}
	}
	return n
}
