package game

import (
	"math/rand"
	"testing"
)

func TestModeByID(t *testing.T) {
	for _, id := range []string{"standard", "party"} {
		m, ok := ModeByID(id)
		if !ok {
			t.Fatalf("Expected mode %q to exist", id)
		}
		if m.ID != id {
			t.Errorf("Expected ID %q, got %q", id, m.ID)
		}
		if m.MaxPlayers < 2 {
			t.Errorf("Mode %q allows fewer than 2 players", id)
		}
	}
	if _, ok := ModeByID("speed-chess"); ok {
		t.Error("Expected unknown mode to be rejected")
	}
}

func TestMode_PlayerDeck(t *testing.T) {
	m, _ := ModeByID("standard")
	deck := m.PlayerDeck(rand.New(rand.NewSource(7)))

	want := 0
	for _, n := range m.Composition {
		want += n
	}
	if deck.Len() != want {
		t.Errorf("Expected %d cards in player deck, got %d", want, deck.Len())
	}

	// The deal pool never contains kittens or defuses.
	for _, c := range deck.cards {
		if c.Kind == KindExplodingKitten || c.Kind == KindDefuse {
			t.Fatalf("Player deck contains %v", c.Kind)
		}
	}
}

func TestMode_MissingCards(t *testing.T) {
	m, _ := ModeByID("standard")

	for players := 2; players <= m.MaxPlayers; players++ {
		missing := m.MissingCards(players)
		kittens, defuses := 0, 0
		for _, c := range missing {
			switch c.Kind {
			case KindExplodingKitten:
				kittens++
			case KindDefuse:
				defuses++
			default:
				t.Fatalf("Unexpected kind %v in missing cards", c.Kind)
			}
		}
		// One kitten fewer than players keeps exactly one survivor.
		if kittens != players-1 {
			t.Errorf("%d players: expected %d kittens, got %d", players, players-1, kittens)
		}
		if defuses != m.Defuses-players {
			t.Errorf("%d players: expected %d defuses, got %d", players, m.Defuses-players, defuses)
		}
	}
}

func TestMode_RequestableKinds(t *testing.T) {
	m, _ := ModeByID("standard")
	kinds := m.RequestableKinds()

	if len(kinds) != len(m.Composition)+1 {
		t.Fatalf("Expected %d requestable kinds, got %d", len(m.Composition)+1, len(kinds))
	}
	hasDefuse := false
	for _, k := range kinds {
		if k == KindExplodingKitten {
			t.Error("Kittens must not be requestable")
		}
		if k == KindDefuse {
			hasDefuse = true
		}
	}
	if !hasDefuse {
		t.Error("Defuse should be requestable")
	}
}

func TestModeIDs(t *testing.T) {
	ids := ModeIDs()
	if len(ids) != len(modes) {
		t.Fatalf("Expected %d ids, got %d", len(modes), len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("Expected sorted ids, got %v", ids)
		}
	}
}
