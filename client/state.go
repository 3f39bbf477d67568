// Package client implements the reconciling feed client: a two-state
// machine (offline/online) that queues feed events while the transport
// is down and replays them in order once it is back.
package client

// Item is one feed entry as the platform API serves it.
type Item struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// State is the local feed projection: the global list, the entries
// owned by the local principal, and the last load error if any.
type State struct {
	Feed []Item
	Mine []Item
	Err  string
}

// Kind tags a feed event.
type Kind string

const (
	KindNewItem    Kind = "newItem"
	KindDeleteItem Kind = "deleteItem"
	KindUpdateItem Kind = "updateItem"
)

// FeedEvent is one state-changing event, queued while offline.
type FeedEvent struct {
	Kind Kind
	Item Item
	// ID is set for deletions, where no full item travels.
	ID string
}
