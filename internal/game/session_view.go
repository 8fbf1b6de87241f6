package game

// PlayerView captures one seat for external use.
type PlayerView struct {
	ID       string `json:"id"`
	Host     bool   `json:"host"`
	Alive    bool   `json:"alive"`
	HandSize int    `json:"hand_size"`
}

// PendingView summarizes the in-flight resolution without leaking hidden
// information.
type PendingView struct {
	Kind     Kind      `json:"kind"`
	Actor    string    `json:"actor"`
	Awaiting string    `json:"awaiting"`
	Target   string    `json:"target,omitempty"`
	Action   CatAction `json:"action,omitempty"`
}

// Snapshot captures a consistent view of a room for the transport layer.
type Snapshot struct {
	Code          int          `json:"code"`
	ModeID        string       `json:"mode"`
	Running       bool         `json:"running"`
	Finished      bool         `json:"finished"`
	Players       []PlayerView `json:"players"`
	DeckSize      int          `json:"deck_size"`
	CurrentPlayer string       `json:"current_player,omitempty"`
	Turns         int          `json:"turns"`
	Pending       *PendingView `json:"pending,omitempty"`
}

// Snapshot returns a consistent copy of the room state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Code:     s.code,
		ModeID:   s.mode.ID,
		Running:  s.running,
		Finished: s.finished,
		Turns:    s.turns,
	}
	for _, p := range s.players {
		snap.Players = append(snap.Players, PlayerView{
			ID:       p.ID,
			Host:     p.Host,
			Alive:    p.Alive,
			HandSize: p.HandSize(),
		})
	}
	if s.deck != nil {
		snap.DeckSize = s.deck.Len()
	}
	if cur := s.currentPlayerLocked(); s.running && cur != nil {
		snap.CurrentPlayer = cur.ID
	}
	if s.pending != nil {
		snap.Pending = &PendingView{
			Kind:     s.pending.Card.Kind,
			Actor:    s.pending.Actor,
			Awaiting: s.pending.Awaiting,
			Target:   s.pending.TargetID,
			Action:   s.pending.Action,
		}
	}
	return snap
}

// HandOf returns the player's cards for private display, or nil for an
// unknown player.
func (s *Session) HandOf(playerID string) []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.playerLocked(playerID)
	if p == nil {
		return nil
	}
	return p.Hand()
}

// Running reports whether the game has started and not yet finished.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
