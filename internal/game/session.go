package game

import (
	"math/rand"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Result summarizes a finished game for the stats repository.
type Result struct {
	Code         int
	ModeID       string
	WinnerID     string
	Participants []string
}

// Session is one game room: a mode, an ordered seat list, a deck, the
// turn cursor and at most one pending card resolution. Every action is
// serialized by the session mutex; actions commit state fully before any
// notice is dispatched, and a rejected action has zero side effects.
type Session struct {
	mu       sync.Mutex
	log      *zap.Logger
	rng      *rand.Rand
	notifier Notifier

	code     int
	mode     *Mode
	players  []*Player
	deck     *Deck
	discard  []Card
	current  int
	turns    int
	pending  *Resolution
	running  bool
	finished bool

	// kittensGone counts kittens permanently removed from play: failed
	// defuses plus the one pulled from the deck when a player leaves.
	kittensGone int

	onDestroy  func(code int, playerIDs []string)
	onFinished func(Result)
}

// NewSession creates an empty room in the given mode.
func NewSession(code int, mode *Mode, notifier Notifier, rng *rand.Rand, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		code:     code,
		mode:     mode,
		notifier: notifier,
		rng:      rng,
		log:      logger.With(zap.Int("room_code", code)),
	}
}

// SetDestroyHook registers the callback invoked when the room ends. It
// receives the seat list so the registry can release player bindings
// without re-entering the session.
func (s *Session) SetDestroyHook(fn func(code int, playerIDs []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDestroy = fn
}

// SetFinishHook registers the callback invoked with the game result when
// a winner is decided.
func (s *Session) SetFinishHook(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinished = fn
}

// Code returns the room code.
func (s *Session) Code() int {
	return s.code
}

// Join seats a player. It fails once the game is running, when the room
// is full, or when the player is already seated here.
func (s *Session) Join(playerID string, host bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.finished {
		return ErrGameRunning
	}
	if len(s.players) >= s.mode.MaxPlayers {
		return ErrRoomFull
	}
	if s.playerLocked(playerID) != nil {
		return ErrAlreadySeated
	}

	notice := newNotice(NoticePlayerJoined, s.playerIDsLocked()...)
	notice.Actor = playerID
	notice.Players = len(s.players) + 1
	notice.MaxPlayers = s.mode.MaxPlayers

	s.players = append(s.players, NewPlayer(playerID, host))
	s.log.Info("player joined room",
		zap.String("player_id", playerID),
		zap.Int("players", len(s.players)),
	)
	s.dispatch(notice)
	return nil
}

// Start deals and begins the game. Only the host may start; with fewer
// than two players it returns false without error so the caller can
// re-prompt.
func (s *Session) Start(playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false, ErrGameRunning
	}
	p := s.playerLocked(playerID)
	if p == nil || !p.Host {
		return false, ErrNotYourTurn
	}
	if len(s.players) < 2 {
		return false, nil
	}

	s.running = true

	// Opening hands come from a pre-shuffled pool without kittens or
	// extra defuses, so nobody can explode on the deal.
	playerDeck := s.mode.PlayerDeck(s.rng)
	for _, pl := range s.players {
		pl.AddRandomPosition(NewCard(KindDefuse), s.rng)
		for i := 0; i < s.mode.HandSize; i++ {
			card, err := playerDeck.DrawTop()
			if err != nil {
				panic("game: player deck exhausted during deal")
			}
			pl.AddRandomPosition(card, s.rng)
		}
	}

	rest := append(playerDeck.cards, s.mode.MissingCards(len(s.players))...)
	s.deck = NewDeck(rest, s.rng)
	s.deck.Shuffle()
	s.current = 0
	s.turns = 1

	s.log.Info("game started",
		zap.String("mode", s.mode.ID),
		zap.Int("players", len(s.players)),
		zap.Int("deck_size", s.deck.Len()),
	)

	started := newNotice(NoticeGameStarted, s.playerIDsLocked()...)
	started.Players = len(s.players)
	started.MaxPlayers = s.mode.MaxPlayers
	s.dispatch(started)
	for _, pl := range s.players {
		s.dispatch(s.handNoticeLocked(pl))
	}
	s.dispatch(s.turnNoticeLocked())
	return true, nil
}

// Draw takes a card from the requested end of the deck into the current
// player's hand. Drawing a kitten enters the kitten resolution protocol
// instead of ending the turn as an ordinary draw would.
func (s *Session) Draw(playerID string, fromTop bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireTurnLocked(playerID); err != nil {
		return err
	}
	s.drawLocked(s.players[s.current], fromTop)
	return nil
}

func (s *Session) drawLocked(p *Player, fromTop bool) {
	var card Card
	var err error
	if fromTop {
		card, err = s.deck.DrawTop()
	} else {
		card, err = s.deck.DrawBottom()
	}
	if err != nil {
		// Deck sizing rules make this unreachable while the game runs.
		panic("game: drew from an empty deck")
	}

	if card.Kind == KindExplodingKitten {
		s.resolveDrawnKittenLocked(p, card)
		return
	}

	p.AddRandomPosition(card, s.rng)

	private := newNotice(NoticeCardDrawn, p.ID)
	private.Card = &card
	public := newNotice(NoticeCardDrawn, s.playerIDsLocked()...)
	public.Actor = p.ID
	public.HandSize = p.HandSize()
	public.DeckSize = s.deck.Len()
	s.dispatch(private, public)

	s.advanceTurnLocked(1)
}

// resolveDrawnKittenLocked handles a drawn Exploding Kitten: a held
// Defuse is auto-consumed and the drawer chooses a reinsertion position;
// without one the drawer explodes.
func (s *Session) resolveDrawnKittenLocked(p *Player, kitten Card) {
	drawn := newNotice(NoticeKittenDrawn, s.playerIDsLocked()...)
	drawn.Actor = p.ID
	s.dispatch(drawn)

	defuse, ok := p.RemoveFirst(KindDefuse)
	if !ok {
		s.explodeLocked(p)
		return
	}
	s.discard = append(s.discard, defuse)

	if s.deck.OnlyKittens() {
		// Every position is equivalent; skip the prompt.
		s.deck.InsertAt(0, kitten)
		s.advanceTurnLocked(1)
		return
	}

	res := newResolution(kitten, p.ID)
	res.irreversible = true // the defuse is already burned
	s.pending = res

	prompt := newNotice(NoticeChoosePosition, p.ID)
	prompt.DeckSize = s.deck.Len()
	prompt.Choices = positionChoices(s.deck.Len())
	s.dispatch(prompt)
}

func (s *Session) explodeLocked(p *Player) {
	s.discard = append(s.discard, p.ClearHand()...)
	p.Alive = false
	s.kittensGone++

	s.log.Info("player exploded", zap.String("player_id", p.ID))
	notice := newNotice(NoticeExploded, s.playerIDsLocked()...)
	notice.Actor = p.ID
	s.dispatch(notice)

	if !s.checkEndLocked() {
		s.advanceTurnLocked(1)
	}
}

// PlaceKitten reinserts the pending kitten at the chosen deck position
// (0 = bottom) and ends the turn.
func (s *Session) PlaceKitten(playerID string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || res.Card.Kind != KindExplodingKitten {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID {
		return ErrNotYourTurn
	}
	if position < 0 || position > s.deck.Len() {
		return ErrBadPosition
	}

	s.deck.InsertAt(position, res.Card)
	s.pending = nil
	s.advanceTurnLocked(1)
	return nil
}

// PlayCard plays a card of the given kind from the current player's
// hand. Multi-step kinds open a pending resolution; the rest resolve
// synchronously.
func (s *Session) PlayCard(playerID string, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireTurnLocked(playerID); err != nil {
		return err
	}
	p := s.players[s.current]

	if kind == KindExplodingKitten || kind == KindDefuse {
		return ErrCardNotPlayable
	}
	if kind.IsCat() {
		return s.playCatLocked(p, kind)
	}
	if !p.HasKind(kind) {
		return ErrCardNotHeld
	}

	switch kind {
	case KindSkip:
		card, _ := p.RemoveFirst(kind)
		s.discard = append(s.discard, card)
		s.notifyPlayedLocked(p, card)
		s.advanceTurnLocked(1)

	case KindShuffle:
		card, _ := p.RemoveFirst(kind)
		s.discard = append(s.discard, card)
		s.deck.Shuffle()
		s.notifyPlayedLocked(p, card)
		s.advanceTurnLocked(1)

	case KindDrawBottom:
		card, _ := p.RemoveFirst(kind)
		s.discard = append(s.discard, card)
		s.notifyPlayedLocked(p, card)
		s.drawLocked(p, false)

	case KindAttack:
		card, _ := p.RemoveFirst(kind)
		s.discard = append(s.discard, card)
		s.notifyPlayedLocked(p, card)
		s.advanceTurnLocked(s.mode.AttackTurns)

	case KindSeeFuture:
		card, _ := p.RemoveFirst(kind)
		s.discard = append(s.discard, card)
		s.notifyPlayedLocked(p, card)
		seen := newNotice(NoticeFutureSeen, p.ID)
		seen.Cards = s.deck.PeekTop(s.mode.FutureWindow)
		s.dispatch(seen)

	case KindAlterFuture:
		card, _ := p.RemoveFirst(kind)
		res := newResolution(card, p.ID)
		res.Window = s.deck.PeekTop(s.mode.FutureWindow)
		s.pending = res
		s.notifyPlayedLocked(p, card)
		s.promptAlterLocked()

	case KindFavor:
		eligible := s.eligibleTargetsLocked(p.ID)
		if len(eligible) == 0 {
			return ErrTargetNotFound
		}
		card, _ := p.RemoveFirst(kind)
		s.pending = newResolution(card, p.ID)
		s.notifyPlayedLocked(p, card)
		if len(eligible) == 1 {
			s.bindFavorTargetLocked(eligible[0])
		} else {
			s.promptTargetLocked(p.ID, eligible)
		}

	default:
		return ErrCardNotPlayable
	}
	return nil
}

// playCatLocked opens a cat-combo resolution: the played copy moves into
// the pending slot and the acting player chooses steal or request (or
// cancels). Further copies are consumed only once the action is chosen.
func (s *Session) playCatLocked(p *Player, kind Kind) error {
	total := p.CountKind(kind)
	if !kind.IsWild() {
		total += p.CountKind(KindFeralCat)
	}
	if total < 2 {
		return ErrNotEnoughCopies
	}

	card, _ := p.RemoveFirst(kind)
	s.pending = newResolution(card, p.ID)

	prompt := newNotice(NoticeChooseCatAction, p.ID)
	prompt.Card = &card
	prompt.Choices = []Choice{
		{Label: "Cancel", Token: "cancel"},
		{Label: "Use 2: steal a card", Token: string(CatSteal)},
	}
	if total >= 3 {
		prompt.Choices = append(prompt.Choices, Choice{Label: "Use 3: request a card", Token: string(CatRequest)})
	}
	s.dispatch(prompt)
	return nil
}

// ChooseCatAction commits a cat combo to steal or request, consuming the
// extra copies. Matching-kind copies are consumed before feral wildcards.
func (s *Session) ChooseCatAction(playerID string, action CatAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || !res.Card.Kind.IsCat() || res.Action != "" {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID {
		return ErrNotYourTurn
	}

	var need int
	switch action {
	case CatSteal:
		need = 1
	case CatRequest:
		need = 2
	default:
		return ErrWrongPendingCard
	}

	p := s.playerLocked(playerID)
	available := p.CountKind(res.Card.Kind)
	if !res.Card.Kind.IsWild() {
		available += p.CountKind(KindFeralCat)
	}
	if available < need {
		return ErrNotEnoughCopies
	}
	eligible := s.eligibleTargetsLocked(p.ID)
	if len(eligible) == 0 {
		return ErrTargetNotFound
	}

	res.Matched = 1 // the played copy
	for i := 0; i < need; i++ {
		if card, ok := p.RemoveFirst(res.Card.Kind); ok {
			res.Matched++
			s.discard = append(s.discard, card)
			continue
		}
		card, _ := p.RemoveFirst(KindFeralCat)
		res.Wild++
		s.discard = append(s.discard, card)
	}
	res.Action = action
	res.irreversible = true

	played := newNotice(NoticeCatPlayed, s.playerIDsLocked()...)
	played.Actor = p.ID
	played.Card = &res.Card
	played.Matched = res.Matched
	played.Wild = res.Wild
	s.dispatch(played)

	if len(eligible) == 1 {
		s.bindCatTargetLocked(eligible[0])
	} else {
		s.promptTargetLocked(p.ID, eligible)
	}
	return nil
}

// ChooseTarget picks the other player a Favor or committed cat combo
// acts on.
func (s *Session) ChooseTarget(playerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || res.TargetID != "" {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID {
		return ErrNotYourTurn
	}

	target := s.playerLocked(targetID)
	if target == nil || !target.Alive || target.HandSize() == 0 || targetID == res.Actor {
		return ErrTargetNotFound
	}

	switch {
	case res.Card.Kind == KindFavor:
		s.bindFavorTargetLocked(target)
	case res.Card.Kind.IsCat() && res.Action != "":
		s.bindCatTargetLocked(target)
	default:
		return ErrWrongPendingCard
	}
	return nil
}

func (s *Session) bindFavorTargetLocked(target *Player) {
	res := s.pending
	res.TargetID = target.ID

	asked := newNotice(NoticeFavorAsked, s.playerIDsLocked()...)
	asked.Actor = res.Actor
	asked.Target = target.ID
	s.dispatch(asked)

	if target.HandSize() == 1 {
		card, _ := target.RemoveAt(0)
		s.completeFavorLocked(card)
		return
	}

	res.Awaiting = target.ID
	prompt := newNotice(NoticeChooseFavorCard, target.ID)
	prompt.Actor = res.Actor
	prompt.Choices = kindChoices(target.Hand())
	s.dispatch(prompt)
}

// GiveFavorCard surrenders a card of the given kind from the Favor
// target to the acting player.
func (s *Session) GiveFavorCard(playerID string, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || res.Card.Kind != KindFavor || res.TargetID == "" {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID || res.TargetID != playerID {
		return ErrNotYourTurn
	}

	target := s.playerLocked(playerID)
	card, ok := target.RemoveFirst(kind)
	if !ok {
		return ErrCardNotHeld
	}
	s.completeFavorLocked(card)
	return nil
}

func (s *Session) completeFavorLocked(card Card) {
	res := s.pending
	actor := s.playerLocked(res.Actor)
	actor.AddRandomPosition(card, s.rng)
	s.discard = append(s.discard, res.Card)
	s.pending = nil

	received := newNotice(NoticeCardReceived, res.Actor)
	received.Card = &card
	received.Target = res.TargetID
	given := newNotice(NoticeCardStolen, res.TargetID)
	given.Card = &card
	given.Actor = res.Actor
	s.dispatch(received, given)
}

func (s *Session) bindCatTargetLocked(target *Player) {
	res := s.pending
	res.TargetID = target.ID

	if res.Action == CatRequest {
		prompt := newNotice(NoticeChooseRequest, res.Actor)
		prompt.Target = target.ID
		prompt.Choices = requestChoices(s.mode)
		s.dispatch(prompt)
		return
	}

	if target.HandSize() == 1 {
		s.completeStealLocked(target, 0)
		return
	}
	// Blind pick: positions only, kinds never shown.
	prompt := newNotice(NoticeChooseSteal, res.Actor)
	prompt.Target = target.ID
	prompt.Choices = stealChoices(target.HandSize())
	s.dispatch(prompt)
}

// ChooseCardToSteal takes the target's card at the given hand position,
// chosen blind.
func (s *Session) ChooseCardToSteal(playerID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || !res.Card.Kind.IsCat() || res.Action != CatSteal || res.TargetID == "" {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID {
		return ErrNotYourTurn
	}
	target := s.playerLocked(res.TargetID)
	if target == nil {
		return ErrTargetNotFound
	}
	if index < 0 || index >= target.HandSize() {
		return ErrBadPosition
	}
	s.completeStealLocked(target, index)
	return nil
}

func (s *Session) completeStealLocked(target *Player, index int) {
	res := s.pending
	card, _ := target.RemoveAt(index)
	actor := s.playerLocked(res.Actor)
	actor.AddRandomPosition(card, s.rng)
	s.discard = append(s.discard, res.Card)
	s.pending = nil

	got := newNotice(NoticeCardReceived, res.Actor)
	got.Card = &card
	got.Target = target.ID
	lost := newNotice(NoticeCardStolen, target.ID)
	lost.Card = &card
	lost.Actor = res.Actor
	public := newNotice(NoticeCardStolen, s.playerIDsLocked()...)
	public.Actor = res.Actor
	public.Target = target.ID
	s.dispatch(got, lost, public)
}

// RequestKind names the kind a request combo demands. A target without
// the kind completes the resolution with an explicit empty-handed
// outcome; that is a valid end of the protocol, not an error.
func (s *Session) RequestKind(playerID string, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || !res.Card.Kind.IsCat() || res.Action != CatRequest || res.TargetID == "" {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID {
		return ErrNotYourTurn
	}
	target := s.playerLocked(res.TargetID)
	if target == nil {
		return ErrTargetNotFound
	}

	requested := NewCard(kind)
	card, ok := target.RemoveFirst(kind)
	if !ok {
		s.discard = append(s.discard, res.Card)
		s.pending = nil
		nothing := newNotice(NoticeNothingToTake, s.playerIDsLocked()...)
		nothing.Actor = res.Actor
		nothing.Target = target.ID
		nothing.Card = &requested
		s.dispatch(nothing)
		return nil
	}

	actor := s.playerLocked(res.Actor)
	actor.AddRandomPosition(card, s.rng)
	s.discard = append(s.discard, res.Card)
	s.pending = nil

	public := newNotice(NoticeCardStolen, s.playerIDsLocked()...)
	public.Actor = res.Actor
	public.Target = target.ID
	public.Card = &card
	s.dispatch(public)
	return nil
}

// AlterOp selects an Alter the Future protocol step.
type AlterOp int

const (
	// AlterPick keeps the pick-th remaining window card as the next one.
	AlterPick AlterOp = iota
	// AlterRestart discards accumulated picks and starts over.
	AlterRestart
	// AlterConfirm commits the picked order to the deck.
	AlterConfirm
)

// AlterFutureStep advances the Alter the Future resolution. No partial
// state survives a restart, and the deck is rewritten only on confirm.
func (s *Session) AlterFutureStep(playerID string, op AlterOp, pick int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil || res.Card.Kind != KindAlterFuture {
		return ErrWrongPendingCard
	}
	if res.Awaiting != playerID {
		return ErrNotYourTurn
	}

	switch op {
	case AlterRestart:
		res.Picks = nil
		s.promptAlterLocked()

	case AlterPick:
		remaining := res.remainingWindow()
		if len(remaining) == 0 || pick < 0 || pick >= len(remaining) {
			return ErrBadPosition
		}
		res.Picks = append(res.Picks, remaining[pick])
		s.promptAlterLocked()

	case AlterConfirm:
		if len(res.Picks) != len(res.Window) {
			return ErrBadPosition
		}
		s.deck.SetTop(res.Picks)
		s.discard = append(s.discard, res.Card)
		s.pending = nil
		done := newNotice(NoticeCardPlayed, s.playerIDsLocked()...)
		done.Actor = playerID
		done.Card = &res.Card
		s.dispatch(done)

	default:
		return ErrBadPosition
	}
	return nil
}

// promptAlterLocked asks for the next pick, auto-filling the final slot
// once only one card remains, then asks for confirmation.
func (s *Session) promptAlterLocked() {
	res := s.pending
	remaining := res.remainingWindow()
	if len(remaining) == 1 {
		res.Picks = append(res.Picks, remaining[0])
		remaining = nil
	}

	if len(remaining) == 0 {
		confirm := newNotice(NoticeAlterConfirm, res.Actor)
		confirm.Cards = append([]Card(nil), res.Picks...)
		confirm.Choices = []Choice{
			{Label: "Start over", Token: "restart"},
			{Label: "Confirm", Token: "confirm"},
		}
		s.dispatch(confirm)
		return
	}

	prompt := newNotice(NoticeAlterPrompt, res.Actor)
	prompt.Cards = remaining
	choices := make([]Choice, 0, len(remaining)+1)
	for i, c := range remaining {
		choices = append(choices, Choice{Label: c.Description, Token: strconv.Itoa(i)})
	}
	prompt.Choices = append(choices, Choice{Label: "Start over", Token: "restart"})
	s.dispatch(prompt)
}

// CancelPending lets the acting player take back a pending card that has
// not yet produced an irreversible effect.
func (s *Session) CancelPending(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoActiveGame
	}
	res := s.pending
	if res == nil {
		return ErrWrongPendingCard
	}
	if res.Actor != playerID {
		return ErrNotYourTurn
	}
	if !res.Cancellable() {
		return ErrWrongPendingCard
	}

	actor := s.playerLocked(playerID)
	actor.AddRandomPosition(res.Card, s.rng)
	s.pending = nil

	cancelled := newNotice(NoticeCancelled, playerID)
	cancelled.Card = &res.Card
	s.dispatch(cancelled)
	return nil
}

// Exit removes a player from the room. The room is destroyed when it
// empties or when the host leaves before the game starts. Mid-resolution
// departures are resolved so no protocol can deadlock on a player who is
// gone.
func (s *Session) Exit(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	p := s.players[idx]
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	s.log.Info("player left room", zap.String("player_id", playerID))

	if len(s.players) == 0 {
		s.destroyLocked()
		return true
	}
	if p.Host && !s.running {
		s.destroyLocked()
		return true
	}

	wasCurrent := s.running && idx == s.current
	if s.running && idx < s.current {
		s.current--
	}

	// Keep the kitten/player ratio: one kitten leaves with the player.
	// A dead player's kitten already left the game when they exploded.
	if s.running && p.Alive && s.deck != nil {
		if _, ok := s.deck.RemoveFirst(KindExplodingKitten); ok {
			s.kittensGone++
		}
	}

	if s.pending != nil {
		res := s.pending
		switch {
		case res.Actor == playerID:
			s.discard = append(s.discard, res.Card)
			s.pending = nil
		case res.TargetID == playerID && res.Card.Kind == KindFavor:
			// Auto-surrender a random card so the Favor cannot deadlock.
			if card, ok := p.RandomCard(s.rng); ok {
				s.completeFavorLocked(card)
			} else {
				s.discard = append(s.discard, res.Card)
				s.pending = nil
			}
		case res.TargetID == playerID:
			s.discard = append(s.discard, res.Card)
			s.pending = nil
			nothing := newNotice(NoticeNothingToTake, s.playerIDsLocked()...)
			nothing.Actor = res.Actor
			nothing.Target = playerID
			s.dispatch(nothing)
		}
	}

	s.discard = append(s.discard, p.ClearHand()...)

	left := newNotice(NoticePlayerLeft, s.playerIDsLocked()...)
	left.Actor = playerID
	left.Players = len(s.players)
	left.MaxPlayers = s.mode.MaxPlayers
	s.dispatch(left)

	if s.running {
		if s.checkEndLocked() {
			return true
		}
		if wasCurrent {
			s.current = idx - 1
			s.turns = 0
			s.advanceTurnLocked(1)
		}
	}
	return true
}

// advanceTurnLocked moves the turn cursor per the turn engine rules:
// Attack stacking is additive, dead players are skipped, and the same
// player continues while turns are still owed.
func (s *Session) advanceTurnLocked(extra int) {
	if !s.running {
		return
	}
	s.turns--
	cur := s.currentPlayerLocked()
	if cur == nil || !cur.Alive || s.turns < 0 {
		s.turns = 0
	}
	if s.turns == 0 || extra > 1 {
		for {
			s.current++
			if s.current >= len(s.players) {
				s.current = 0
			}
			if s.players[s.current].Alive {
				break
			}
		}
		s.turns += extra
	}
	s.dispatch(s.turnNoticeLocked())
}

func (s *Session) checkEndLocked() bool {
	alive := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	if len(alive) >= 2 {
		return false
	}

	winner := ""
	if len(alive) == 1 {
		winner = alive[0].ID
	}
	s.running = false
	s.finished = true
	s.log.Info("game over", zap.String("winner", winner))

	over := newNotice(NoticeGameOver, s.playerIDsLocked()...)
	over.Winner = winner
	s.dispatch(over)

	if s.onFinished != nil {
		s.onFinished(Result{
			Code:         s.code,
			ModeID:       s.mode.ID,
			WinnerID:     winner,
			Participants: s.playerIDsLocked(),
		})
	}
	if s.onDestroy != nil {
		s.onDestroy(s.code, s.playerIDsLocked())
	}
	return true
}

func (s *Session) destroyLocked() {
	s.running = false
	s.finished = true
	ids := s.playerIDsLocked()
	if len(ids) > 0 {
		over := newNotice(NoticeGameOver, ids...)
		s.dispatch(over)
	}
	if s.onDestroy != nil {
		s.onDestroy(s.code, ids)
	}
}

func (s *Session) requireTurnLocked(playerID string) error {
	if !s.running {
		return ErrNoActiveGame
	}
	if s.pending != nil {
		return ErrResolutionPending
	}
	if s.players[s.current].ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) playerLocked(playerID string) *Player {
	for _, p := range s.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (s *Session) currentPlayerLocked() *Player {
	if s.current < 0 || s.current >= len(s.players) {
		return nil
	}
	return s.players[s.current]
}

func (s *Session) playerIDsLocked() []string {
	ids := make([]string, 0, len(s.players))
	for _, p := range s.players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *Session) eligibleTargetsLocked(actorID string) []*Player {
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		if p.ID != actorID && p.Alive && p.HandSize() > 0 {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) promptTargetLocked(actorID string, eligible []*Player) {
	prompt := newNotice(NoticeChooseTarget, actorID)
	for _, p := range eligible {
		prompt.Choices = append(prompt.Choices, Choice{Label: p.ID, Token: p.ID})
	}
	s.dispatch(prompt)
}

func (s *Session) notifyPlayedLocked(p *Player, card Card) {
	notice := newNotice(NoticeCardPlayed, s.playerIDsLocked()...)
	notice.Actor = p.ID
	notice.Card = &card
	s.dispatch(notice)
}

func (s *Session) handNoticeLocked(p *Player) Notice {
	notice := newNotice(NoticeHand, p.ID)
	notice.Cards = p.Hand()
	notice.HandSize = p.HandSize()
	return notice
}

func (s *Session) turnNoticeLocked() Notice {
	cur := s.currentPlayerLocked()
	notice := newNotice(NoticeTurn, s.playerIDsLocked()...)
	notice.Actor = cur.ID
	notice.Turns = s.turns
	notice.HandSize = cur.HandSize()
	notice.DeckSize = s.deck.Len()
	for _, p := range s.players {
		if p.Alive {
			notice.Alive++
		}
	}
	return notice
}

// dispatch delivers notices after the state transition committed.
// Delivery is fire-and-forget; the notifier must never block or fail the
// action.
func (s *Session) dispatch(notices ...Notice) {
	if s.notifier == nil {
		return
	}
	for _, n := range notices {
		switch len(n.Recipients) {
		case 0:
		case 1:
			s.notifier.Send(n.Recipients[0], n)
		default:
			s.notifier.SendMany(n.Recipients, n)
		}
	}
}

func positionChoices(max int) []Choice {
	choices := make([]Choice, 0, max+1)
	for i := 0; i <= max; i++ {
		label := strconv.Itoa(i)
		switch i {
		case 0:
			label = "Bottom"
		case max:
			label = "Top"
		}
		choices = append(choices, Choice{Label: label, Token: strconv.Itoa(i)})
	}
	return choices
}

// stealChoices numbers a target's hand slots 1..n for display; the
// tokens stay zero-based hand indexes.
func stealChoices(n int) []Choice {
	choices := make([]Choice, 0, n)
	for i := 0; i < n; i++ {
		choices = append(choices, Choice{Label: strconv.Itoa(i + 1), Token: strconv.Itoa(i)})
	}
	return choices
}

func kindChoices(cards []Card) []Choice {
	seen := make(map[Kind]bool, len(cards))
	choices := make([]Choice, 0, len(cards))
	for _, c := range cards {
		if seen[c.Kind] {
			continue
		}
		seen[c.Kind] = true
		choices = append(choices, Choice{Label: c.Description, Token: c.Kind.String()})
	}
	return choices
}

func requestChoices(mode *Mode) []Choice {
	kinds := mode.RequestableKinds()
	choices := make([]Choice, 0, len(kinds))
	for _, k := range kinds {
		choices = append(choices, Choice{Label: kindDescriptions[k], Token: k.String()})
	}
	return choices
}
