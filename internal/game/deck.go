package game

import "math/rand"

// Deck is an ordered sequence of cards. The top is the end of the slice
// (index len-1), the bottom is index 0, matching the reinsertion protocol
// where position 0 means the bottom of the deck.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck wraps the given cards in a deck. The randomness source is
// injected so shuffles are reproducible under test.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	return &Deck{cards: cards, rng: rng}
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// DrawTop removes and returns the top card.
func (d *Deck) DrawTop() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	idx := len(d.cards) - 1
	card := d.cards[idx]
	d.cards = d.cards[:idx]
	return card, nil
}

// DrawBottom removes and returns the bottom card.
func (d *Deck) DrawBottom() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// InsertAt inserts a card at the given position counted from the bottom.
// The position is clamped to [0, Len].
func (d *Deck) InsertAt(position int, card Card) {
	if position < 0 {
		position = 0
	}
	if position > len(d.cards) {
		position = len(d.cards)
	}
	d.cards = append(d.cards, Card{})
	copy(d.cards[position+1:], d.cards[position:])
	d.cards[position] = card
}

// Shuffle permutes the deck uniformly.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// PeekTop returns up to n cards from the top without removing them,
// topmost first.
func (d *Deck) PeekTop(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.cards[len(d.cards)-1-i])
	}
	return out
}

// SetTop rewrites the top len(cards) slots of the deck, topmost first.
func (d *Deck) SetTop(cards []Card) {
	for i, c := range cards {
		d.cards[len(d.cards)-1-i] = c
	}
}

// OnlyKittens reports whether every remaining card is an Exploding Kitten.
// An empty deck counts as kittens-only so reinsertion can skip its prompt.
func (d *Deck) OnlyKittens() bool {
	for _, c := range d.cards {
		if c.Kind != KindExplodingKitten {
			return false
		}
	}
	return true
}

// RemoveFirst removes the first card of the given kind, scanning from the
// bottom. It reports whether one was found.
func (d *Deck) RemoveFirst(kind Kind) (Card, bool) {
	for i, c := range d.cards {
		if c.Kind == kind {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}
