package ws

import (
	"encoding/json"
	"testing"

	"live-hub/domain"
	"live-hub/infrastructure/wire"

	"github.com/stretchr/testify/require"
)

func envelope(event, payload string) wire.Envelope {
	return wire.Envelope{Event: event, Payload: json.RawMessage(payload)}
}

func TestDecodeCommand(t *testing.T) {
	req := require.New(t)
	conn := domain.ConnectionID("conn-1")

	tests := []struct {
		name    string
		env     wire.Envelope
		want    domain.Command
		wantErr bool
	}{
		{
			name: "join live room",
			env:  envelope("joinLiveRoom", `{"liveId":"42"}`),
			want: domain.JoinLiveCommand{Conn: conn, Live: "42"},
		},
		{
			name: "leave live room",
			env:  envelope("leaveLiveRoom", `{"liveId":"42"}`),
			want: domain.LeaveLiveCommand{Conn: conn, Live: "42"},
		},
		{
			name: "join video room",
			env:  envelope("joinVideoRoom", `{"videoId":"v7"}`),
			want: domain.JoinVideoCommand{Conn: conn, Video: "v7"},
		},
		{
			name: "like video",
			env:  envelope("likeVideo", `{"videoId":"v7","userId":"user-1"}`),
			want: domain.LikeVideoCommand{Conn: conn, Video: "v7", UserID: "user-1"},
		},
		{
			name: "identity announcement",
			env:  envelope("join", `{"userId":"user-1"}`),
			want: domain.IdentifyCommand{Conn: conn, UserID: "user-1"},
		},
		{
			name:    "missing required field",
			env:     envelope("joinLiveRoom", `{}`),
			wantErr: true,
		},
		{
			name:    "malformed payload",
			env:     envelope("joinLiveRoom", `{"liveId":`),
			wantErr: true,
		},
		{
			name:    "like without user",
			env:     envelope("likeVideo", `{"videoId":"v7"}`),
			wantErr: true,
		},
		{
			name:    "unknown event",
			env:     envelope("teleport", `{}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := decodeCommand(conn, tt.env)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, cmd)
		})
	}
}

func TestDecodeCommand_StartLive(t *testing.T) {
	req := require.New(t)
	conn := domain.ConnectionID("conn-1")

	cmd, err := decodeCommand(conn, envelope("startLive", `{"liveId":"42","host":"user-1","title":"demo"}`))
	req.NoError(err)

	start, ok := cmd.(domain.StartLiveCommand)
	req.True(ok)
	req.Equal(domain.RoomID("42"), start.Descriptor.LiveID)
	req.Equal("user-1", start.Descriptor.Host)
	req.False(start.Descriptor.StartedAt.IsZero())
}

func TestDecodeCommand_CommentDefaultsTimestamp(t *testing.T) {
	req := require.New(t)
	conn := domain.ConnectionID("conn-1")

	cmd, err := decodeCommand(conn, envelope("commentVideo",
		`{"videoId":"v7","comment":{"id":"c1","author":"user-1","content":"nice"}}`))
	req.NoError(err)

	comment, ok := cmd.(domain.CommentVideoCommand)
	req.True(ok)
	req.Equal("nice", comment.Comment.Content)
	req.False(comment.Comment.At.IsZero())
}
