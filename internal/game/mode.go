package game

import (
	"math/rand"
	"sort"
)

// Mode describes a room configuration: player limits and card composition.
type Mode struct {
	ID          string
	Description string
	MaxPlayers  int
	// HandSize is the number of random cards dealt on top of the Defuse
	// every player starts with.
	HandSize int
	// Defuses is the total number of Defuse cards in the game. One is
	// dealt to each player; the rest are shuffled back into the deck.
	Defuses int
	// Composition holds the count of every non-kitten, non-defuse kind.
	Composition map[Kind]int
	// FutureWindow is the number of top cards See/Alter the Future acts on.
	FutureWindow int
	// AttackTurns is the number of turns an Attack forces onto the next
	// player.
	AttackTurns int
}

// PlayerDeck builds the pre-shuffled pool the opening hands are dealt
// from: the mode's composition without kittens or defuses.
func (m *Mode) PlayerDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0)
	for _, kind := range m.kindsSorted() {
		for i := 0; i < m.Composition[kind]; i++ {
			cards = append(cards, NewCard(kind))
		}
	}
	deck := NewDeck(cards, rng)
	deck.Shuffle()
	return deck
}

// MissingCards returns the cards withheld from the player deck: one
// kitten fewer than the number of players, plus the defuses left over
// after each player received theirs.
func (m *Mode) MissingCards(players int) []Card {
	cards := make([]Card, 0, players)
	for i := 0; i < players-1; i++ {
		cards = append(cards, NewCard(KindExplodingKitten))
	}
	for i := 0; i < m.Defuses-players; i++ {
		cards = append(cards, NewCard(KindDefuse))
	}
	return cards
}

// RequestableKinds lists the kinds a request combo may name, in a stable
// order for prompt rendering.
func (m *Mode) RequestableKinds() []Kind {
	kinds := m.kindsSorted()
	return append(kinds, KindDefuse)
}

func (m *Mode) kindsSorted() []Kind {
	kinds := make([]Kind, 0, len(m.Composition))
	for k := range m.Composition {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

var modes = map[string]*Mode{
	"standard": {
		ID:          "standard",
		Description: "Standard (2-5 players)",
		MaxPlayers:  5,
		HandSize:    6,
		Defuses:     6,
		Composition: map[Kind]int{
			KindAttack:         4,
			KindSkip:           4,
			KindSeeFuture:      5,
			KindAlterFuture:    4,
			KindShuffle:        4,
			KindDrawBottom:     4,
			KindFavor:          4,
			KindTacocat:        4,
			KindCattermelon:    4,
			KindHairyPotatoCat: 4,
			KindBeardCat:       4,
			KindRainbowCat:     4,
			KindFeralCat:       4,
		},
		FutureWindow: 3,
		AttackTurns:  2,
	},
	"party": {
		ID:          "party",
		Description: "Party (2-10 players)",
		MaxPlayers:  10,
		HandSize:    6,
		Defuses:     12,
		Composition: map[Kind]int{
			KindAttack:         7,
			KindSkip:           8,
			KindSeeFuture:      8,
			KindAlterFuture:    6,
			KindShuffle:        6,
			KindDrawBottom:     6,
			KindFavor:          6,
			KindTacocat:        6,
			KindCattermelon:    6,
			KindHairyPotatoCat: 6,
			KindBeardCat:       6,
			KindRainbowCat:     6,
			KindFeralCat:       6,
		},
		FutureWindow: 3,
		AttackTurns:  2,
	},
}

// ModeByID looks up a mode by its identifier.
func ModeByID(id string) (*Mode, bool) {
	m, ok := modes[id]
	return m, ok
}

// ModeIDs lists the registered mode identifiers in a stable order.
func ModeIDs() []string {
	ids := make([]string, 0, len(modes))
	for id := range modes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
