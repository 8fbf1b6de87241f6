package game

import "fmt"

// Kind identifies one of the closed set of card kinds.
type Kind int

const (
	KindExplodingKitten Kind = iota
	KindDefuse
	KindAttack
	KindSkip
	KindSeeFuture
	KindAlterFuture
	KindShuffle
	KindDrawBottom
	KindFavor
	KindTacocat
	KindCattermelon
	KindHairyPotatoCat
	KindBeardCat
	KindRainbowCat
	KindFeralCat
)

var kindNames = map[Kind]string{
	KindExplodingKitten: "EXPLODING_KITTEN",
	KindDefuse:          "DEFUSE",
	KindAttack:          "ATTACK",
	KindSkip:            "SKIP",
	KindSeeFuture:       "SEE_FUTURE",
	KindAlterFuture:     "ALTER_FUTURE",
	KindShuffle:         "SHUFFLE",
	KindDrawBottom:      "DRAW_BOTTOM",
	KindFavor:           "FAVOR",
	KindTacocat:         "TACOCAT",
	KindCattermelon:     "CATTERMELON",
	KindHairyPotatoCat:  "HAIRY_POTATO_CAT",
	KindBeardCat:        "BEARD_CAT",
	KindRainbowCat:      "RAINBOW_CAT",
	KindFeralCat:        "FERAL_CAT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

var kindDescriptions = map[Kind]string{
	KindExplodingKitten: "Exploding Kitten",
	KindDefuse:          "Defuse",
	KindAttack:          "Attack",
	KindSkip:            "Skip",
	KindSeeFuture:       "See the Future",
	KindAlterFuture:     "Alter the Future",
	KindShuffle:         "Shuffle",
	KindDrawBottom:      "Draw From the Bottom",
	KindFavor:           "Favor",
	KindTacocat:         "Tacocat",
	KindCattermelon:     "Cattermelon",
	KindHairyPotatoCat:  "Hairy Potato Cat",
	KindBeardCat:        "Beard Cat",
	KindRainbowCat:      "Rainbow Cat",
	KindFeralCat:        "Feral Cat",
}

// ParseKind resolves a wire name back to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsCat reports whether the kind is a neutral cat card, feral included.
func (k Kind) IsCat() bool {
	switch k {
	case KindTacocat, KindCattermelon, KindHairyPotatoCat, KindBeardCat, KindRainbowCat, KindFeralCat:
		return true
	default:
		return false
	}
}

// IsWild reports whether the kind substitutes for any cat kind in a combo.
func (k Kind) IsWild() bool {
	return k == KindFeralCat
}

// Card is an immutable kind plus its display description. Transient
// resolution data never lives on the card; it belongs to the room's
// pending resolution.
type Card struct {
	Kind        Kind
	Description string
}

// NewCard builds a card of the given kind.
func NewCard(kind Kind) Card {
	return Card{Kind: kind, Description: kindDescriptions[kind]}
}
