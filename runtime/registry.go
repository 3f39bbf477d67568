package runtime

import (
	"sync"

	"live-hub/contract"
	"live-hub/domain"

	"github.com/samber/lo"
)

// Registry owns room membership and the session directory.
//
// It performs a two-level bookkeeping:
//  1. sessions maps a connection id to its delivery sink.
//  2. rooms maps a room id to its kind and member set.
//
// A connection in several rooms still has exactly one sink; the room
// invariant is that a member set never references a connection id
// absent from sessions. RemoveEverywhere enforces it on disconnect.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnectionID]contract.EventSink
	rooms    map[domain.RoomID]*domain.Room
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ConnectionID]contract.EventSink),
		rooms:    make(map[domain.RoomID]*domain.Room),
	}
}

// Register records the delivery sink of a freshly authenticated connection.
func (r *Registry) Register(connID domain.ConnectionID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = sink
}

// Unregister drops the session entry. Room membership is expected to
// have been cleaned up through RemoveEverywhere beforehand.
func (r *Registry) Unregister(connID domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connID)
}

// Join adds the connection to the room, creating it lazily, and returns
// the member count after the mutation. Joining twice is idempotent.
func (r *Registry) Join(roomID domain.RoomID, kind domain.RoomKind, connID domain.ConnectionID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = domain.NewRoom(roomID, kind)
		r.rooms[roomID] = room
	}
	room.Add(connID)
	return room.Count()
}

// Leave removes the connection if present and returns the resulting count.
// Leaving an unknown room is a no-op, not an error: clients racing a
// failed join are expected to send stale leaves.
//
// An emptied video room is deleted; an emptied live room is kept, since
// the broadcast is still running and may accrue new viewers.
func (r *Registry) Leave(roomID domain.RoomID, connID domain.ConnectionID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	room.Remove(connID)

	count := room.Count()
	if count == 0 && room.Kind == domain.RoomVideo {
		delete(r.rooms, roomID)
	}
	return count
}

// Start creates the room explicitly, independent of any join.
// Starting an already known room keeps its current members.
func (r *Registry) Start(roomID domain.RoomID, kind domain.RoomKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; ok {
		return
	}
	r.rooms[roomID] = domain.NewRoom(roomID, kind)
}

// End erases the room outright; all members are implicitly considered left.
func (r *Registry) End(roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
}

// RemoveEverywhere sweeps every room on disconnect and returns the live
// rooms whose membership changed, with their post-removal counts, so
// presence can be re-announced. The sweep runs under one lock: a
// concurrent reader never observes a half-disconnected connection.
func (r *Registry) RemoveEverywhere(connID domain.ConnectionID) []contract.RoomChange {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []contract.RoomChange
	for id, room := range r.rooms {
		if !room.Remove(connID) {
			continue
		}
		changed = append(changed, contract.RoomChange{
			Room:  id,
			Kind:  room.Kind,
			Count: room.Count(),
		})
		if room.Count() == 0 && room.Kind == domain.RoomVideo {
			delete(r.rooms, id)
		}
	}
	return changed
}

func (r *Registry) MemberCount(roomID domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	return room.Count()
}

func (r *Registry) SinkFor(connID domain.ConnectionID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[connID]
	return sink, ok
}

// SinksForRoom resolves the current members of a room into their sinks.
// Returns nil if the room doesn't exist or has no connected members.
func (r *Registry) SinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	var sinks []contract.EventSink
	for _, member := range room.Members() {
		if sink, exists := r.sessions[member]; exists {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

// AllSinks returns every connected session, for global fan-out.
func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}

// RoomInfo is a read-only view of one room, for stats and health gauges.
type RoomInfo struct {
	ID      domain.RoomID   `json:"id"`
	Kind    domain.RoomKind `json:"kind"`
	Members int             `json:"members"`
}

// Snapshot returns a point-in-time view of all rooms and the number of
// connected sessions.
func (r *Registry) Snapshot() ([]RoomInfo, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := lo.MapToSlice(r.rooms, func(id domain.RoomID, room *domain.Room) RoomInfo {
		return RoomInfo{ID: id, Kind: room.Kind, Members: room.Count()}
	})
	return infos, len(r.sessions)
}
