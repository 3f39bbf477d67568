package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"live-hub/domain"
	"live-hub/infrastructure/wire"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var errUnknownEvent = fmt.Errorf("unknown event")

// decodeCommand maps an inbound envelope to a router command.
// Payloads are validated before the command is built: a malformed event
// is dropped by the read pump, it never reaches the router.
func decodeCommand(connID domain.ConnectionID, env wire.Envelope) (domain.Command, error) {
	switch env.Event {
	case wire.EventJoinLiveRoom:
		p, err := decodePayload[wire.LiveRoomPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.JoinLiveCommand{Conn: connID, Live: domain.RoomID(p.LiveID)}, nil

	case wire.EventLeaveLiveRoom:
		p, err := decodePayload[wire.LiveRoomPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.LeaveLiveCommand{Conn: connID, Live: domain.RoomID(p.LiveID)}, nil

	case wire.EventStartLive:
		p, err := decodePayload[wire.StartLivePayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.StartLiveCommand{
			Conn: connID,
			Descriptor: domain.LiveDescriptor{
				LiveID:    domain.RoomID(p.LiveID),
				Host:      p.Host,
				Title:     p.Title,
				StartedAt: time.Now().UTC(),
			},
		}, nil

	case wire.EventEndLive:
		p, err := decodePayload[wire.LiveRoomPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.EndLiveCommand{Conn: connID, Live: domain.RoomID(p.LiveID)}, nil

	case wire.EventJoinVideoRoom:
		p, err := decodePayload[wire.VideoRoomPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.JoinVideoCommand{Conn: connID, Video: domain.RoomID(p.VideoID)}, nil

	case wire.EventLeaveVideoRoom:
		p, err := decodePayload[wire.VideoRoomPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.LeaveVideoCommand{Conn: connID, Video: domain.RoomID(p.VideoID)}, nil

	case wire.EventLikeVideo:
		p, err := decodePayload[wire.LikePayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.LikeVideoCommand{Conn: connID, Video: domain.RoomID(p.VideoID), UserID: p.UserID}, nil

	case wire.EventCommentVideo:
		p, err := decodePayload[wire.CommentPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		at := p.Comment.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		return domain.CommentVideoCommand{
			Conn:  connID,
			Video: domain.RoomID(p.VideoID),
			Comment: domain.Comment{
				ID:      p.Comment.ID,
				Author:  p.Comment.Author,
				Content: p.Comment.Content,
				At:      at,
			},
		}, nil

	case wire.EventJoin:
		p, err := decodePayload[wire.JoinPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return domain.IdentifyCommand{Conn: connID, UserID: p.UserID}, nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
	}
}

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, err
	}
	if err := validate.Struct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}
