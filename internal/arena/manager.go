package arena

import (
	"log"
	"sync"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// Manager owns the two in-memory tables of the service: live match actors
// keyed by matchID, and player connections keyed by userID. It is the only
// place a matchID or userID resolves to anything, so every lookup and every
// outbound frame funnels through here.
type Manager struct {
	mu     sync.RWMutex
	actors map[string]*MatchActor
	byUser map[string]string
	conns  map[string]*PlayerConn
}

func NewManager() *Manager {
	return &Manager{
		actors: make(map[string]*MatchActor),
		byUser: make(map[string]string),
		conns:  make(map[string]*PlayerConn),
	}
}

// RegisterConn records a player's connection. A reconnect replaces the old
// connection; the stale one is closed so its read loop unwinds.
func (mgr *Manager) RegisterConn(userID string, pc *PlayerConn) {
	mgr.mu.Lock()
	old := mgr.conns[userID]
	mgr.conns[userID] = pc
	mgr.mu.Unlock()

	if old != nil && old != pc {
		old.Close()
	}
}

// UnregisterConn drops a connection mapping, but only if it still points at
// pc. A reconnect that already replaced the entry is left alone.
func (mgr *Manager) UnregisterConn(userID string, pc *PlayerConn) {
	mgr.mu.Lock()
	if mgr.conns[userID] == pc {
		delete(mgr.conns, userID)
	}
	mgr.mu.Unlock()
}

// SendToUser delivers an event to a connected player. Disconnected players
// are skipped silently; match progression never blocks on delivery.
func (mgr *Manager) SendToUser(userID string, event model.Event) {
	mgr.mu.RLock()
	pc := mgr.conns[userID]
	mgr.mu.RUnlock()

	if pc == nil {
		return
	}
	if err := pc.SendJSON(event); err != nil {
		log.Printf("[Manager] Error sending %s to %s: %v", event.Type, userID, err)
	}
}

// AddMatch registers a live actor and indexes both participants.
func (mgr *Manager) AddMatch(actor *MatchActor) {
	m := actor.Snapshot()
	mgr.mu.Lock()
	mgr.actors[m.MatchID] = actor
	mgr.byUser[m.Player1.UserID] = m.MatchID
	mgr.byUser[m.Player2.UserID] = m.MatchID
	mgr.mu.Unlock()
}

// RemoveMatch drops a finished actor and its participant index entries.
// Only entries still pointing at this match are cleared, so a player who
// already started a new match keeps their fresh mapping. The actor itself
// is never touched here; taking its lock under the manager lock would
// invert the order actors use when broadcasting.
func (mgr *Manager) RemoveMatch(matchID string) {
	mgr.mu.Lock()
	if _, ok := mgr.actors[matchID]; ok {
		delete(mgr.actors, matchID)
		for uid, mid := range mgr.byUser {
			if mid == matchID {
				delete(mgr.byUser, uid)
			}
		}
	}
	mgr.mu.Unlock()
}

// GetActor returns the live actor for a matchID, or nil.
func (mgr *Manager) GetActor(matchID string) *MatchActor {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.actors[matchID]
}

// ActorForUser returns the live actor a player belongs to, or nil.
func (mgr *Manager) ActorForUser(userID string) *MatchActor {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	matchID, ok := mgr.byUser[userID]
	if !ok {
		return nil
	}
	return mgr.actors[matchID]
}

// Actors returns a snapshot of all live actors for sweep routines.
func (mgr *Manager) Actors() []*MatchActor {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	out := make([]*MatchActor, 0, len(mgr.actors))
	for _, a := range mgr.actors {
		out = append(out, a)
	}
	return out
}

// ActiveMatchCount reports the number of live actors.
func (mgr *Manager) ActiveMatchCount() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.actors)
}
