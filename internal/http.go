// Package internal exposes the operator-facing HTTP surface of the hub:
// a registry snapshot for inspection and the publish endpoint the
// platform API uses to relay feed events.
package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"live-hub/domain/event"
	"live-hub/runtime"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Stats is the JSON shape served by the stats endpoint.
type Stats struct {
	Rooms       []runtime.RoomInfo `json:"rooms"`
	Connections int                `json:"connections"`
}

func StatsHandler(registry *runtime.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, connections := registry.Snapshot()
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Stats{Rooms: rooms, Connections: connections})
	}
}

type publishRequest struct {
	Event string          `json:"event" validate:"required,oneof=newPost updatePost deletePost"`
	Item  *event.FeedItem `json:"item,omitempty"`
	ID    string          `json:"id,omitempty"`
}

// PublishHandler accepts feed events from the platform API and relays
// them globally. The core never stores the items it relays.
func PublishHandler(log *slog.Logger, router *runtime.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req publishRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		switch req.Event {
		case "newPost":
			if req.Item == nil {
				http.Error(w, "item is required", http.StatusBadRequest)
				return
			}
			router.Publish(event.NewPost{Item: *req.Item})
		case "updatePost":
			if req.Item == nil {
				http.Error(w, "item is required", http.StatusBadRequest)
				return
			}
			router.Publish(event.PostUpdated{Item: *req.Item})
		case "deletePost":
			if req.ID == "" {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}
			router.Publish(event.PostDeleted{ID: req.ID})
		}

		log.Debug("Feed event relayed", "event", req.Event)
		w.WriteHeader(http.StatusAccepted)
	}
}
