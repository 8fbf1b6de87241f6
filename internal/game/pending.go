package game

// CatAction is the effect a cat combo was committed to.
type CatAction string

const (
	// CatSteal takes one card blind by position, consuming two copies.
	CatSteal CatAction = "steal"
	// CatRequest names a specific kind, consuming three copies.
	CatRequest CatAction = "request"
)

// Resolution is the room's single in-flight card. It is created fresh for
// every play and discarded on completion or cancellation; no state is
// reused across logically distinct cards.
type Resolution struct {
	// Card is the played (or drawn, for kittens) card held outside any
	// hand or deck while resolving.
	Card Card
	// Actor is the player whose turn produced the resolution.
	Actor string
	// Awaiting is the player whose input advances the resolution next.
	// It may differ from Actor (Favor giver, reinsertion prompts).
	Awaiting string
	// TargetID is the chosen other player, once selected.
	TargetID string

	// Picks accumulates the Alter the Future ordering, topmost first. A
	// restart discards it entirely; no partial state survives.
	Picks []Card
	// Window is the deck prefix Alter the Future operates on, topmost
	// first, captured when the card was played.
	Window []Card

	// Action, Matched and Wild describe a committed cat combo: the chosen
	// effect and how many true matches vs feral wildcards were consumed.
	Action  CatAction
	Matched int
	Wild    int

	// irreversible marks resolutions that already produced an effect
	// (burned defuse, consumed combo copies) and can no longer be
	// cancelled.
	irreversible bool
}

func newResolution(card Card, actor string) *Resolution {
	return &Resolution{Card: card, Actor: actor, Awaiting: actor}
}

// Cancellable reports whether the acting player may still take the card
// back.
func (r *Resolution) Cancellable() bool {
	return !r.irreversible
}

// remainingWindow returns the window cards not yet picked, topmost first.
// Duplicated kinds are matched off one pick per window slot.
func (r *Resolution) remainingWindow() []Card {
	used := make([]bool, len(r.Window))
	for _, pick := range r.Picks {
		for i, c := range r.Window {
			if !used[i] && c == pick {
				used[i] = true
				break
			}
		}
	}
	out := make([]Card, 0, len(r.Window))
	for i, c := range r.Window {
		if !used[i] {
			out = append(out, c)
		}
	}
	return out
}
