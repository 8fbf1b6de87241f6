// Package notify provides Notifier implementations for the engine's
// outbound port.
package notify

import (
	"github.com/kittenfree/kitten-server-go/internal/game"
	"go.uber.org/zap"
)

// LogNotifier writes notices to the log instead of a transport. It is
// used headless and as the fallback before a transport attaches.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{log: logger}
}

// Send logs a notice addressed to one player.
func (n *LogNotifier) Send(playerID string, notice game.Notice) {
	n.log.Debug("notice",
		zap.String("player_id", playerID),
		zap.String("kind", string(notice.Kind)),
		zap.String("actor", notice.Actor),
	)
}

// SendMany logs a notice addressed to several players.
func (n *LogNotifier) SendMany(playerIDs []string, notice game.Notice) {
	n.log.Debug("notice",
		zap.Strings("player_ids", playerIDs),
		zap.String("kind", string(notice.Kind)),
		zap.String("actor", notice.Actor),
	)
}
