package game

import (
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/zap"
)

// noticeRecorder implements Notifier and captures every dispatched notice
// so tests can assert on what players were told.
type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) Send(playerID string, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) SendMany(playerIDs []string, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// last returns the most recent notice of the given kind.
func (r *noticeRecorder) last(kind NoticeKind) (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.notices) - 1; i >= 0; i-- {
		if r.notices[i].Kind == kind {
			return r.notices[i], true
		}
	}
	return Notice{}, false
}

func (r *noticeRecorder) count(kind NoticeKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.notices {
		if notice.Kind == kind {
			n++
		}
	}
	return n
}

func (r *noticeRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}

// testRoom wraps a session with deterministic randomness and direct
// access to rig decks and hands.
type testRoom struct {
	t       *testing.T
	sess    *Session
	rec     *noticeRecorder
	players []string
}

func newTestRoom(t *testing.T, players ...string) *testRoom {
	t.Helper()
	mode, ok := ModeByID("standard")
	if !ok {
		t.Fatal("standard mode not registered")
	}
	rec := &noticeRecorder{}
	sess := NewSession(123456, mode, rec, rand.New(rand.NewSource(42)), zap.NewNop())
	for i, id := range players {
		if err := sess.Join(id, i == 0); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	return &testRoom{t: t, sess: sess, rec: rec, players: players}
}

func newStartedRoom(t *testing.T, players ...string) *testRoom {
	t.Helper()
	r := newTestRoom(t, players...)
	started, err := r.sess.Start(players[0])
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !started {
		t.Fatal("start: not enough players")
	}
	return r
}

// setHand replaces a player's hand with the given kinds.
func (r *testRoom) setHand(playerID string, kinds ...Kind) {
	r.t.Helper()
	p := r.sess.playerLocked(playerID)
	if p == nil {
		r.t.Fatalf("unknown player %s", playerID)
	}
	p.hand = nil
	for _, k := range kinds {
		p.hand = append(p.hand, NewCard(k))
	}
}

// stackDeck replaces the deck with the given kinds, bottom first (the
// last kind listed is the top of the deck).
func (r *testRoom) stackDeck(kinds ...Kind) {
	cards := make([]Card, 0, len(kinds))
	for _, k := range kinds {
		cards = append(cards, NewCard(k))
	}
	r.sess.deck = NewDeck(cards, r.sess.rng)
}

func (r *testRoom) hand(playerID string) []Card {
	return r.sess.playerLocked(playerID).Hand()
}

func (r *testRoom) countKind(playerID string, kind Kind) int {
	return r.sess.playerLocked(playerID).CountKind(kind)
}

// cardsInPlay totals every card the room still accounts for: deck,
// hands, discard pile and the pending card, if any.
func (r *testRoom) cardsInPlay() int {
	s := r.sess
	total := len(s.discard)
	if s.deck != nil {
		total += s.deck.Len()
	}
	for _, p := range s.players {
		total += p.HandSize()
	}
	if s.pending != nil {
		total++
	}
	return total
}
