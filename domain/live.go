package domain

import "time"

// LiveDescriptor announces a new broadcast to every connected client.
type LiveDescriptor struct {
	LiveID    RoomID    `json:"liveId"`
	Host      string    `json:"host"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"startedAt"`
}

// Comment is relayed as-is to room members, the core does not store it.
type Comment struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}
