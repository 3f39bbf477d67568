package domain

type RoomID string

type RoomKind string

const (
	// RoomLive is a broadcast room with viewer presence semantics.
	RoomLive RoomKind = "live"
	// RoomVideo is a silent peer grouping, no presence announcements.
	RoomVideo RoomKind = "video"
)

// Room is a named grouping of connections sharing broadcast fan-out.
// Membership is a set: joining twice has no additional effect.
type Room struct {
	ID      RoomID
	Kind    RoomKind
	members map[ConnectionID]struct{}
}

func NewRoom(id RoomID, kind RoomKind) *Room {
	return &Room{
		ID:      id,
		Kind:    kind,
		members: make(map[ConnectionID]struct{}),
	}
}

func (r *Room) Add(id ConnectionID) {
	r.members[id] = struct{}{}
}

// Remove reports whether the connection was actually a member.
func (r *Room) Remove(id ConnectionID) bool {
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	return true
}

func (r *Room) Has(id ConnectionID) bool {
	_, ok := r.members[id]
	return ok
}

func (r *Room) Count() int {
	return len(r.members)
}

func (r *Room) Members() []ConnectionID {
	out := make([]ConnectionID, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}
