package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kittenfree/kitten-server-go/internal/game"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Command is the inbound envelope from a client.
type Command struct {
	Action   string `json:"action"`
	Mode     string `json:"mode,omitempty"`
	Code     int    `json:"code,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Target   string `json:"target,omitempty"`
	Position int    `json:"position,omitempty"`
	Op       string `json:"op,omitempty"`
	Bottom   bool   `json:"bottom,omitempty"`
}

// Client is one connected player.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID string
	send     chan []byte
	closed   chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		playerID: playerID,
		send:     make(chan []byte, sendBuffer),
		closed:   make(chan struct{}),
	}
}

// enqueue queues an outbound message, dropping it when the client's
// buffer is full. Delivery is best-effort by design.
func (c *Client) enqueue(data []byte) {
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.closed:
	default:
		c.hub.log.Debug("dropping message for slow client",
			zap.String("player_id", c.playerID),
		)
	}
}

func (c *Client) close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("websocket read error",
					zap.String("player_id", c.playerID),
					zap.Error(err),
				)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.sendError("", "malformed command")
			continue
		}
		c.handle(cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// handle dispatches one command into the engine. Business outcomes come
// back as error envelopes for the client to re-prompt on; they are never
// fatal to the connection.
func (c *Client) handle(cmd Command) {
	registry := c.hub.registry
	if registry == nil {
		c.sendError(cmd.Action, "server not ready")
		return
	}

	switch cmd.Action {
	case "host":
		sess, err := registry.Host(c.playerID, cmd.Mode)
		if err != nil {
			c.sendError(cmd.Action, err.Error())
			return
		}
		c.sendMessage(serverMessage{Type: "hosted", Room: sess.Code()})
		return

	case "join":
		sess, err := registry.Join(c.playerID, cmd.Code)
		if err != nil {
			c.sendError(cmd.Action, err.Error())
			return
		}
		c.sendMessage(serverMessage{Type: "joined", Room: sess.Code()})
		return

	case "exit":
		if !registry.Exit(c.playerID) {
			c.sendError(cmd.Action, "not in a room")
		}
		return
	}

	sess, ok := registry.SessionFor(c.playerID)
	if !ok {
		c.sendError(cmd.Action, game.ErrRoomNotFound.Error())
		return
	}

	var err error
	switch cmd.Action {
	case "start":
		var started bool
		started, err = sess.Start(c.playerID)
		if err == nil && !started {
			err = game.ErrNotEnoughPlayers
		}
	case "draw":
		err = sess.Draw(c.playerID, !cmd.Bottom)
	case "play":
		kind, ok := game.ParseKind(cmd.Kind)
		if !ok {
			c.sendError(cmd.Action, "unknown card kind")
			return
		}
		err = sess.PlayCard(c.playerID, kind)
	case "target":
		err = sess.ChooseTarget(c.playerID, cmd.Target)
	case "cat_action":
		err = sess.ChooseCatAction(c.playerID, game.CatAction(cmd.Op))
	case "steal":
		err = sess.ChooseCardToSteal(c.playerID, cmd.Position)
	case "request":
		kind, ok := game.ParseKind(cmd.Kind)
		if !ok {
			c.sendError(cmd.Action, "unknown card kind")
			return
		}
		err = sess.RequestKind(c.playerID, kind)
	case "give":
		kind, ok := game.ParseKind(cmd.Kind)
		if !ok {
			c.sendError(cmd.Action, "unknown card kind")
			return
		}
		err = sess.GiveFavorCard(c.playerID, kind)
	case "place":
		err = sess.PlaceKitten(c.playerID, cmd.Position)
	case "alter":
		err = sess.AlterFutureStep(c.playerID, parseAlterOp(cmd.Op), cmd.Position)
	case "cancel":
		err = sess.CancelPending(c.playerID)
	case "state":
		snap := sess.Snapshot()
		c.sendMessage(serverMessage{Type: "state", Snapshot: &snap})
		return
	case "hand":
		notice := game.Notice{Kind: game.NoticeHand, Cards: sess.HandOf(c.playerID)}
		c.sendMessage(serverMessage{Type: "notice", Notice: &notice})
		return
	default:
		c.sendError(cmd.Action, "unknown action")
		return
	}

	if err != nil {
		if isBusinessError(err) {
			c.sendError(cmd.Action, err.Error())
			return
		}
		c.hub.log.Error("action failed",
			zap.String("player_id", c.playerID),
			zap.String("action", cmd.Action),
			zap.Error(err),
		)
		c.sendError(cmd.Action, "internal error")
	}
}

func parseAlterOp(op string) game.AlterOp {
	switch op {
	case "restart":
		return game.AlterRestart
	case "confirm":
		return game.AlterConfirm
	default:
		return game.AlterPick
	}
}

// isBusinessError reports whether the error is an expected outcome the
// client should simply re-prompt on.
func isBusinessError(err error) bool {
	for _, e := range []error{
		game.ErrNoActiveGame,
		game.ErrGameRunning,
		game.ErrNotYourTurn,
		game.ErrRoomFull,
		game.ErrRoomNotFound,
		game.ErrAlreadySeated,
		game.ErrNotEnoughPlayers,
		game.ErrCardNotHeld,
		game.ErrCardNotPlayable,
		game.ErrNotEnoughCopies,
		game.ErrWrongPendingCard,
		game.ErrResolutionPending,
		game.ErrTargetNotFound,
		game.ErrBadPosition,
		game.ErrUnknownMode,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func (c *Client) sendError(action, msg string) {
	c.sendMessage(serverMessage{Type: "error", Action: action, Error: msg})
}

func (c *Client) sendMessage(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Warn("failed to marshal message", zap.Error(err))
		return
	}
	c.enqueue(data)
}
