package runtime

import (
	"live-hub/contract"
	"live-hub/domain"
	"live-hub/domain/event"
)

// Tracker derives viewer-count announcements from registry state.
//
// It is a pure read: the count always reflects the registry strictly
// after the triggering mutation, because the router is the only writer
// and asks the tracker synchronously after each mutation. Only live
// rooms have presence; video rooms are silent groupings.
type Tracker struct {
	registry contract.IRegistry
}

func NewTracker(registry contract.IRegistry) *Tracker {
	return &Tracker{registry: registry}
}

// Update builds the announcement for the current membership of a live room.
func (t *Tracker) Update(roomID domain.RoomID) event.ViewersUpdated {
	return event.ViewersUpdated{
		LiveID: roomID,
		Count:  t.registry.MemberCount(roomID),
	}
}
