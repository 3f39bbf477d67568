// Package wire defines the JSON envelope exchanged over the socket.
// Both the server transport and the Go client speak this format.
package wire

import (
	"encoding/json"
	"time"

	"live-hub/domain/event"
)

// Envelope frames every message: a name discriminator and a payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event names.
const (
	EventJoinLiveRoom   = "joinLiveRoom"
	EventLeaveLiveRoom  = "leaveLiveRoom"
	EventStartLive      = "startLive"
	EventEndLive        = "endLive"
	EventJoinVideoRoom  = "joinVideoRoom"
	EventLeaveVideoRoom = "leaveVideoRoom"
	EventLikeVideo      = "likeVideo"
	EventCommentVideo   = "commentVideo"
	EventJoin           = "join"
)

type LiveRoomPayload struct {
	LiveID string `json:"liveId" validate:"required"`
}

type StartLivePayload struct {
	LiveID string `json:"liveId" validate:"required"`
	Host   string `json:"host" validate:"required"`
	Title  string `json:"title"`
}

type VideoRoomPayload struct {
	VideoID string `json:"videoId" validate:"required"`
}

type LikePayload struct {
	VideoID string `json:"videoId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

type CommentPayload struct {
	VideoID string      `json:"videoId" validate:"required"`
	Comment CommentBody `json:"comment" validate:"required"`
}

type CommentBody struct {
	ID      string    `json:"id"`
	Author  string    `json:"author" validate:"required"`
	Content string    `json:"content" validate:"required"`
	At      time.Time `json:"at"`
}

type JoinPayload struct {
	UserID string `json:"userId" validate:"required"`
}

// Encode wraps an outbound event into its envelope.
func Encode(evt event.Event) (Envelope, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: evt.Name(), Payload: payload}, nil
}
