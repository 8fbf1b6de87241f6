package game

import "math/rand"

// Player is a per-room participant. The hand is a multiset; its order
// only matters for display grouping and blind steals by position.
type Player struct {
	ID    string
	Host  bool
	Alive bool
	hand  []Card
}

// NewPlayer creates a live player with an empty hand.
func NewPlayer(id string, host bool) *Player {
	return &Player{ID: id, Host: host, Alive: true, hand: make([]Card, 0, 8)}
}

// Hand returns a copy of the player's cards.
func (p *Player) Hand() []Card {
	out := make([]Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// HandSize returns the number of cards held.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// HasKind reports whether the player holds at least one card of the kind.
func (p *Player) HasKind(kind Kind) bool {
	for _, c := range p.hand {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// CountKind returns how many cards of the kind the player holds.
func (p *Player) CountKind(kind Kind) int {
	n := 0
	for _, c := range p.hand {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// AddRandomPosition inserts a card at a uniformly random position so hand
// order leaks nothing to observers of blind steals.
func (p *Player) AddRandomPosition(card Card, rng *rand.Rand) {
	pos := rng.Intn(len(p.hand) + 1)
	p.hand = append(p.hand, Card{})
	copy(p.hand[pos+1:], p.hand[pos:])
	p.hand[pos] = card
}

// RemoveFirst removes the first card of the given kind and reports
// whether one was found.
func (p *Player) RemoveFirst(kind Kind) (Card, bool) {
	for i, c := range p.hand {
		if c.Kind == kind {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// RemoveAt removes the card at the given hand position.
func (p *Player) RemoveAt(index int) (Card, bool) {
	if index < 0 || index >= len(p.hand) {
		return Card{}, false
	}
	card := p.hand[index]
	p.hand = append(p.hand[:index], p.hand[index+1:]...)
	return card, true
}

// RandomCard removes a uniformly random card from the hand. Used when a
// card must be surrendered on behalf of a player who disconnected.
func (p *Player) RandomCard(rng *rand.Rand) (Card, bool) {
	if len(p.hand) == 0 {
		return Card{}, false
	}
	return p.RemoveAt(rng.Intn(len(p.hand)))
}

// ClearHand discards every card the player holds.
func (p *Player) ClearHand() []Card {
	out := p.hand
	p.hand = nil
	return out
}
