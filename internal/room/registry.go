// Package room tracks live game rooms and which room every player sits
// in. The registry is the only place room codes are minted.
package room

import (
	"math/rand"
	"sync"

	"github.com/kittenfree/kitten-server-go/internal/game"
	"github.com/kittenfree/kitten-server-go/internal/notify"
	"go.uber.org/zap"
)

const (
	codeMin     = 100000
	codeSpan    = 900000
	maxAttempts = 64
)

// Registry creates rooms with unique codes, looks them up and destroys
// them. It also owns the player-to-room directory, so a player can be
// seated in at most one room at a time.
type Registry struct {
	mu       sync.Mutex
	log      *zap.Logger
	rng      *rand.Rand
	notifier game.Notifier
	finish   func(game.Result)

	rooms map[int]*game.Session
	seats map[string]int
}

// NewRegistry creates an empty registry. The notifier is handed to every
// session it creates; a nil notifier falls back to logging notices, for
// headless runs.
func NewRegistry(notifier game.Notifier, rng *rand.Rand, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	return &Registry{
		log:      logger,
		rng:      rng,
		notifier: notifier,
		rooms:    make(map[int]*game.Session),
		seats:    make(map[string]int),
	}
}

// SetFinishHook registers a callback receiving the result of every
// finished game, e.g. for the match repository.
func (r *Registry) SetFinishHook(fn func(game.Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finish = fn
}

// Host creates a room in the given mode and seats the hosting player.
// Code generation retries on collision under the registry lock, so two
// concurrent hosts can never claim the same code.
func (r *Registry) Host(playerID, modeID string) (*game.Session, error) {
	mode, ok := game.ModeByID(modeID)
	if !ok {
		return nil, game.ErrUnknownMode
	}

	r.mu.Lock()
	if _, seated := r.seats[playerID]; seated {
		r.mu.Unlock()
		return nil, game.ErrAlreadySeated
	}

	code := 0
	for i := 0; ; i++ {
		candidate := codeMin + r.rng.Intn(codeSpan)
		if _, taken := r.rooms[candidate]; !taken {
			code = candidate
			break
		}
		if i >= maxAttempts {
			// 900k codes; this cannot happen before the map is saturated.
			panic("room: code space exhausted")
		}
	}

	// Each session gets its own randomness source; *rand.Rand is not
	// safe for use from concurrently acting rooms.
	sessRNG := rand.New(rand.NewSource(r.rng.Int63()))
	sess := game.NewSession(code, mode, r.notifier, sessRNG, r.log)
	sess.SetDestroyHook(r.release)
	if r.finish != nil {
		sess.SetFinishHook(r.finish)
	}
	r.rooms[code] = sess
	r.seats[playerID] = code
	r.mu.Unlock()

	if err := sess.Join(playerID, true); err != nil {
		// A fresh empty room rejects no host; treat it as fatal.
		panic("room: host rejected by fresh room: " + err.Error())
	}
	r.log.Info("room created",
		zap.Int("room_code", code),
		zap.String("mode", modeID),
		zap.String("host", playerID),
	)
	return sess, nil
}

// Join seats a player in an existing room. The seat is reserved under
// the registry lock before the session is asked, so two concurrent Join
// calls for the same player cannot both pass the seated check.
func (r *Registry) Join(playerID string, code int) (*game.Session, error) {
	r.mu.Lock()
	if _, seated := r.seats[playerID]; seated {
		r.mu.Unlock()
		return nil, game.ErrAlreadySeated
	}
	sess, ok := r.rooms[code]
	if !ok {
		r.mu.Unlock()
		return nil, game.ErrRoomNotFound
	}
	r.seats[playerID] = code
	r.mu.Unlock()

	if err := sess.Join(playerID, false); err != nil {
		r.mu.Lock()
		if r.seats[playerID] == code {
			delete(r.seats, playerID)
		}
		r.mu.Unlock()
		return nil, err
	}
	return sess, nil
}

// Lookup returns the room with the given code.
func (r *Registry) Lookup(code int) (*game.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.rooms[code]
	return sess, ok
}

// SessionFor returns the room the player is seated in.
func (r *Registry) SessionFor(playerID string) (*game.Session, bool) {
	r.mu.Lock()
	code, seated := r.seats[playerID]
	if !seated {
		r.mu.Unlock()
		return nil, false
	}
	sess, ok := r.rooms[code]
	r.mu.Unlock()
	return sess, ok
}

// Exit removes the player from their current room, if any.
func (r *Registry) Exit(playerID string) bool {
	sess, ok := r.SessionFor(playerID)
	if !ok {
		return false
	}
	left := sess.Exit(playerID)

	r.mu.Lock()
	delete(r.seats, playerID)
	r.mu.Unlock()
	return left
}

// Destroy removes a room and releases all its player bindings.
func (r *Registry) Destroy(code int) {
	if _, ok := r.Lookup(code); !ok {
		return
	}
	r.release(code, nil)
}

// release is installed as every session's destroy hook. It runs while
// the session holds its own lock, so it must only touch registry state.
func (r *Registry) release(code int, playerIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range playerIDs {
		if r.seats[id] == code {
			delete(r.seats, id)
		}
	}
	if playerIDs == nil {
		for id, c := range r.seats {
			if c == code {
				delete(r.seats, id)
			}
		}
	}
	delete(r.rooms, code)
	r.log.Info("room destroyed", zap.Int("room_code", code))
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
