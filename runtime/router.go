// Package runtime handles event routing, room membership, and presence.
// It orchestrates fan-out without containing transport or UI logic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"live-hub/contract"
	"live-hub/domain"
	"live-hub/domain/event"
	"live-hub/moderation"
)

// publishCommand wraps an event relayed by the platform API for global
// broadcast. It does not originate from a connection.
type publishCommand struct {
	evt event.Event
}

func (publishCommand) From() domain.ConnectionID { return "" }

// Router maps inbound commands to registry mutations and fans the
// resulting events out to the relevant sinks.
//
// A single goroutine drains the command channel, so each command is
// processed to completion before the next one: registry mutations and
// their presence announcements are atomic with respect to other
// commands. The cost is that a slow handler delays everyone, which is
// acceptable at the expected room-count scale.
type Router struct {
	log         *slog.Logger
	registry    contract.IRegistry
	presence    *Tracker
	masker      *moderation.Masker
	commands    chan domain.Command
	sinkTimeout time.Duration
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, presence *Tracker,
	masker *moderation.Masker, bufferSize int, sinkTimeout time.Duration) *Router {
	return &Router{
		log:         log,
		registry:    registry,
		presence:    presence,
		masker:      masker,
		commands:    make(chan domain.Command, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Dispatch enqueues a command for processing. It never blocks the
// transport goroutines: when the channel is full the command is dropped
// and logged, matching the best-effort nature of the fan-out.
func (r *Router) Dispatch(cmd domain.Command) {
	select {
	case r.commands <- cmd:
	default:
		r.log.Warn(fmt.Sprintf("Command channel full, dropping %T from %s", cmd, cmd.From()))
	}
}

// Publish relays an externally produced feed event to every connected
// client. This is the entry point for the platform API: the core relays
// posts, it does not store them.
func (r *Router) Publish(evt event.Event) {
	r.Dispatch(publishCommand{evt: evt})
}

func (r *Router) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Context done, stopping router")
			return nil
		case cmd, ok := <-r.commands:
			if !ok {
				return nil
			}
			r.handle(ctx, cmd)
		}
	}
}

// handle processes one command with panic isolation: a failure in one
// handler must not terminate the router or affect other connections.
func (r *Router) handle(ctx context.Context, cmd domain.Command) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Command handler panicked",
				"command", fmt.Sprintf("%T", cmd),
				"connection_id", cmd.From(),
				"panic", rec)
		}
	}()

	switch c := cmd.(type) {
	case domain.JoinLiveCommand:
		r.registry.Join(c.Live, domain.RoomLive, c.Conn)
		r.toRoom(ctx, c.Live, r.presence.Update(c.Live))

	case domain.LeaveLiveCommand:
		r.registry.Leave(c.Live, c.Conn)
		r.toRoom(ctx, c.Live, r.presence.Update(c.Live))

	case domain.StartLiveCommand:
		r.registry.Start(c.Descriptor.LiveID, domain.RoomLive)
		r.global(ctx, event.NewLive{Descriptor: c.Descriptor})
		r.log.Info("Live started", "live_id", c.Descriptor.LiveID, "host", c.Descriptor.Host)

	case domain.EndLiveCommand:
		// Members are notified before the registry entry is erased,
		// otherwise the room lookup would already be empty.
		r.toRoom(ctx, c.Live, event.LiveEnded{LiveID: c.Live})
		r.registry.End(c.Live)
		r.log.Info("Live ended", "live_id", c.Live)

	case domain.JoinVideoCommand:
		r.registry.Join(c.Video, domain.RoomVideo, c.Conn)

	case domain.LeaveVideoCommand:
		r.registry.Leave(c.Video, c.Conn)

	case domain.LikeVideoCommand:
		// Membership of the sender is deliberately not required, the
		// fan-out follows loosely-coupled broadcast semantics.
		r.toRoom(ctx, c.Video, event.VideoLiked{VideoID: c.Video, UserID: c.UserID})

	case domain.CommentVideoCommand:
		comment := c.Comment
		comment.Content = r.masker.Mask(comment.Content)
		r.toRoom(ctx, c.Video, event.CommentAdded{VideoID: c.Video, Comment: comment})

	case domain.IdentifyCommand:
		r.log.Info("Client identified", "connection_id", c.Conn, "user_id", c.UserID)

	case domain.DisconnectCommand:
		for _, change := range r.registry.RemoveEverywhere(c.Conn) {
			if change.Kind != domain.RoomLive {
				continue
			}
			r.toRoom(ctx, change.Room, event.ViewersUpdated{LiveID: change.Room, Count: change.Count})
		}
		r.registry.Unregister(c.Conn)
		r.log.Info("Connection cleaned up", "connection_id", c.Conn)

	case publishCommand:
		r.global(ctx, c.evt)

	default:
		r.log.Debug(fmt.Sprintf("Unhandled command type %T", cmd))
	}
}

func (r *Router) toRoom(ctx context.Context, roomID domain.RoomID, evt event.Event) {
	r.deliver(ctx, r.registry.SinksForRoom(roomID), evt)
}

func (r *Router) global(ctx context.Context, evt event.Event) {
	r.deliver(ctx, r.registry.AllSinks(), evt)
}

// deliver pushes one event to each sink sequentially, bounding every
// delivery with the sink timeout. Sequential delivery keeps the
// per-connection event order identical to the processing order.
func (r *Router) deliver(ctx context.Context, sinks []contract.EventSink, evt event.Event) {
	for _, s := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, r.sinkTimeout)
		if err := s.Consume(sinkCtx, evt); err != nil {
			r.log.Debug("Sink delivery failed", "event", evt.Name(), "error", err)
		}
		cancel()
	}
}
