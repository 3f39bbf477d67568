// Package event defines the outbound events fanned out to connected clients.
// Event names are the wire-level discriminator, payloads marshal to JSON.
package event

import "live-hub/domain"

type Event interface {
	Name() string
}

// ViewersUpdated carries the member count of a live room,
// emitted after every membership mutation of that room.
type ViewersUpdated struct {
	LiveID domain.RoomID `json:"liveId"`
	Count  int           `json:"count"`
}

func (ViewersUpdated) Name() string { return "updateViewers" }

// NewLive announces a freshly started broadcast to all connections.
type NewLive struct {
	Descriptor domain.LiveDescriptor `json:"descriptor"`
}

func (NewLive) Name() string { return "newLive" }

type LiveEnded struct {
	LiveID domain.RoomID `json:"liveId"`
}

func (LiveEnded) Name() string { return "liveEnded" }

type VideoLiked struct {
	VideoID domain.RoomID `json:"videoId"`
	UserID  string        `json:"userId"`
}

func (VideoLiked) Name() string { return "likeVideo" }

type CommentAdded struct {
	VideoID domain.RoomID  `json:"videoId"`
	Comment domain.Comment `json:"comment"`
}

func (CommentAdded) Name() string { return "commentAdded" }

// FeedItem is a post relayed from the platform API to all clients.
// The core does not interpret the body beyond id and owner.
type FeedItem struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

type NewPost struct {
	Item FeedItem `json:"item"`
}

func (NewPost) Name() string { return "newPost" }

type PostDeleted struct {
	ID string `json:"id"`
}

func (PostDeleted) Name() string { return "deletePost" }

type PostUpdated struct {
	Item FeedItem `json:"item"`
}

func (PostUpdated) Name() string { return "updatePost" }
