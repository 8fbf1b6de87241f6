package game

import "github.com/google/uuid"

// NoticeKind is the semantic payload type of a notification. The
// transport collaborator decides how each kind is rendered; the engine
// only commits state and describes what happened.
type NoticeKind string

const (
	NoticePlayerJoined    NoticeKind = "player_joined"
	NoticePlayerLeft      NoticeKind = "player_left"
	NoticeGameStarted     NoticeKind = "game_started"
	NoticeGameOver        NoticeKind = "game_over"
	NoticeHand            NoticeKind = "hand"
	NoticeTurn            NoticeKind = "turn"
	NoticeCardDrawn       NoticeKind = "card_drawn"
	NoticeCardPlayed      NoticeKind = "card_played"
	NoticeKittenDrawn     NoticeKind = "kitten_drawn"
	NoticeExploded        NoticeKind = "exploded"
	NoticeChoosePosition  NoticeKind = "choose_position"
	NoticeFutureSeen      NoticeKind = "future_seen"
	NoticeAlterPrompt     NoticeKind = "alter_prompt"
	NoticeAlterConfirm    NoticeKind = "alter_confirm"
	NoticeChooseTarget    NoticeKind = "choose_target"
	NoticeFavorAsked      NoticeKind = "favor_asked"
	NoticeChooseFavorCard NoticeKind = "choose_favor_card"
	NoticeCatPlayed       NoticeKind = "cat_played"
	NoticeChooseCatAction NoticeKind = "choose_cat_action"
	NoticeChooseSteal     NoticeKind = "choose_steal"
	NoticeChooseRequest   NoticeKind = "choose_request"
	NoticeCardStolen      NoticeKind = "card_stolen"
	NoticeCardReceived    NoticeKind = "card_received"
	NoticeNothingToTake   NoticeKind = "nothing_to_take"
	NoticeCancelled       NoticeKind = "cancelled"
	NoticeRejected        NoticeKind = "rejected"
)

// Choice is one selectable option offered to a player.
type Choice struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Notice is a notification described as data. Notices are built after
// state transitions commit and are dispatched fire-and-forget; delivery
// failure never rolls back game state.
type Notice struct {
	ID         string     `json:"id"`
	Kind       NoticeKind `json:"kind"`
	Recipients []string   `json:"-"`
	Actor      string     `json:"actor,omitempty"`
	Target     string     `json:"target,omitempty"`
	Card       *Card      `json:"card,omitempty"`
	Cards      []Card     `json:"cards,omitempty"`
	Choices    []Choice   `json:"choices,omitempty"`
	Turns      int        `json:"turns,omitempty"`
	DeckSize   int        `json:"deck_size,omitempty"`
	HandSize   int        `json:"hand_size,omitempty"`
	Alive      int        `json:"alive,omitempty"`
	Matched    int        `json:"matched,omitempty"`
	Wild       int        `json:"wild,omitempty"`
	Winner     string     `json:"winner,omitempty"`
	Room       int        `json:"room,omitempty"`
	Players    int        `json:"players,omitempty"`
	MaxPlayers int        `json:"max_players,omitempty"`
}

func newNotice(kind NoticeKind, recipients ...string) Notice {
	return Notice{ID: uuid.New().String(), Kind: kind, Recipients: recipients}
}

// Notifier delivers notices to players. Implementations must not block
// the caller and must swallow delivery failures; the engine never waits
// on confirmation.
type Notifier interface {
	Send(playerID string, notice Notice)
	SendMany(playerIDs []string, notice Notice)
}
