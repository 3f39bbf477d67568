package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"live-hub/infrastructure/wire"

	"github.com/gorilla/websocket"
)

// Socket owns the transport side of the reconciler: it dials the hub
// with the bearer credential, announces the principal's identity, flips
// the reconciler online, and feeds decoded feed events into it until
// the connection drops.
//
// The lifecycle is explicit: Dial and Close, no process-wide singleton.
type Socket struct {
	log     *slog.Logger
	rawURL  string
	token   string
	rec     *Reconciler
	conn    *websocket.Conn
	handler func(wire.Envelope)
}

func NewSocket(log *slog.Logger, rawURL, token string, rec *Reconciler) *Socket {
	return &Socket{log: log, rawURL: rawURL, token: token, rec: rec}
}

// OnEvent registers an optional observer invoked for every inbound
// envelope, feed-related or not. Used by the tail client.
func (s *Socket) OnEvent(fn func(wire.Envelope)) {
	s.handler = fn
}

// Dial connects, identifies, transitions the reconciler online (which
// flushes its queue), and starts the read loop.
func (s *Socket) Dial(ctx context.Context) error {
	u, err := url.Parse(s.rawURL)
	if err != nil {
		return fmt.Errorf("invalid socket url: %w", err)
	}
	q := u.Query()
	q.Set("token", s.token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", s.rawURL, err)
	}
	s.conn = conn

	// Identity first, queued events after: the hub must know who this
	// session is before any replayed action reaches it.
	if err := s.Send(wire.EventJoin, wire.JoinPayload{UserID: s.rec.Principal()}); err != nil {
		_ = conn.Close()
		return err
	}
	s.rec.SetOnline()

	go s.readLoop()
	return nil
}

// Send emits one named event to the hub.
func (s *Socket) Send(name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return s.conn.WriteJSON(wire.Envelope{Event: name, Payload: raw})
}

func (s *Socket) readLoop() {
	defer s.rec.SetOffline()

	for {
		var env wire.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Socket closed unexpectedly", "error", err)
			}
			return
		}

		if s.handler != nil {
			s.handler(env)
		}
		if evt, ok := toFeedEvent(env); ok {
			s.rec.Apply(evt)
		}
	}
}

func (s *Socket) Close() error {
	if s.conn == nil {
		return nil
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}

// toFeedEvent maps the hub's feed events onto reconciler events.
// Anything else (viewer counts, likes, comments) is not feed state and
// is left to the observer.
func toFeedEvent(env wire.Envelope) (FeedEvent, bool) {
	switch env.Event {
	case "newPost", "updatePost":
		var p struct {
			Item Item `json:"item"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return FeedEvent{}, false
		}
		kind := KindNewItem
		if env.Event == "updatePost" {
			kind = KindUpdateItem
		}
		return FeedEvent{Kind: kind, Item: p.Item}, true

	case "deletePost":
		var p struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return FeedEvent{}, false
		}
		return FeedEvent{Kind: KindDeleteItem, ID: p.ID}, true
	}
	return FeedEvent{}, false
}
