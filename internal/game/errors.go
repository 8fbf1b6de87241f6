package game

import "errors"

// Expected business outcomes. These happen during normal play (stale
// button presses, out-of-turn input) and callers re-prompt instead of
// treating them as bugs. Invariant violations panic instead.
var (
	// ErrNoActiveGame is returned when the room is not running.
	ErrNoActiveGame = errors.New("no active game")
	// ErrGameRunning is returned when an action requires a room that has
	// not started yet.
	ErrGameRunning = errors.New("game already running")
	// ErrNotYourTurn is returned when a player acts out of turn, or a
	// resolution continuation arrives from the wrong player.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrRoomFull is returned when a join would exceed the mode's limit.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomNotFound is returned for unknown room codes.
	ErrRoomNotFound = errors.New("room not found")
	// ErrAlreadySeated is returned when a player tries to join while bound
	// to another room.
	ErrAlreadySeated = errors.New("player already seated in a room")
	// ErrNotEnoughPlayers is returned when starting with fewer than two
	// players.
	ErrNotEnoughPlayers = errors.New("not enough players")
	// ErrCardNotHeld is returned when the acting player does not hold the
	// card the action names.
	ErrCardNotHeld = errors.New("card not held")
	// ErrCardNotPlayable is returned for kinds that cannot be played from
	// the hand on their own (Defuse, Exploding Kitten).
	ErrCardNotPlayable = errors.New("card not playable")
	// ErrNotEnoughCopies is returned when a cat combo lacks matching or
	// wild copies.
	ErrNotEnoughCopies = errors.New("not enough matching cards")
	// ErrWrongPendingCard is returned when a continuation does not match
	// the pending resolution.
	ErrWrongPendingCard = errors.New("pending resolution mismatch")
	// ErrResolutionPending is returned when a new card is played while
	// another is still being resolved.
	ErrResolutionPending = errors.New("another card is still resolving")
	// ErrTargetNotFound is returned when the chosen target is missing,
	// dead, or has no cards.
	ErrTargetNotFound = errors.New("target player not found")
	// ErrBadPosition is returned for selection indexes outside the valid
	// range.
	ErrBadPosition = errors.New("position out of range")
	// ErrUnknownMode is returned for unrecognized mode identifiers.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrEmptyDeck is returned by deck draws when no cards remain. Deck
	// sizing guarantees the engine never sees it during normal play.
	ErrEmptyDeck = errors.New("deck is empty")
)
