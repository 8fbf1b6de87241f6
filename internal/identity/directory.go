// Package identity maps opaque player identifiers to display names. The
// engine never needs names; the transport resolves them when rendering
// notices.
package identity

import "sync"

// Directory is an in-memory player name directory.
type Directory struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{names: make(map[string]string)}
}

// Register stores or refreshes a player's display name. Blank names are
// ignored so a reconnect without a name keeps the old one.
func (d *Directory) Register(playerID, name string) {
	if name == "" {
		return
	}
	d.mu.Lock()
	d.names[playerID] = name
	d.mu.Unlock()
}

// DisplayName resolves a player's display name, falling back to a
// truncated id for players who never registered one.
func (d *Directory) DisplayName(playerID string) string {
	d.mu.RLock()
	name, ok := d.names[playerID]
	d.mu.RUnlock()
	if ok {
		return name
	}
	if len(playerID) > 8 {
		return "player-" + playerID[:8]
	}
	return "player-" + playerID
}

// Forget drops a player's name.
func (d *Directory) Forget(playerID string) {
	d.mu.Lock()
	delete(d.names, playerID)
	d.mu.Unlock()
}
