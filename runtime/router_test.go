package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"live-hub/domain"
	"live-hub/domain/event"
	"live-hub/moderation"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// collectSink records every event it consumes. The router processes
// commands sequentially, so no locking is needed in tests.
type collectSink struct {
	events []event.Event
}

func (s *collectSink) Consume(ctx context.Context, e event.Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *collectSink) counts() []int {
	var out []int
	for _, e := range s.events {
		if v, ok := e.(event.ViewersUpdated); ok {
			out = append(out, v.Count)
		}
	}
	return out
}

type panicSink struct{}

func (panicSink) Consume(ctx context.Context, e event.Event) error {
	panic("sink exploded")
}

func newTestRouter(t *testing.T) (*Router, *Registry) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	masker, err := moderation.NewMasker([]string{"badword"}, '*')
	require.NoError(t, err)
	return NewRouter(log, registry, NewTracker(registry), masker, 16, time.Second), registry
}

func register(registry *Registry) (domain.ConnectionID, *collectSink) {
	conn := connID()
	sink := &collectSink{}
	registry.Register(conn, sink)
	return conn, sink
}

func TestRouter_LiveRoomViewerCounts(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	conn1, sink1 := register(registry)
	conn2, _ := register(registry)
	conn3, _ := register(registry)

	// When three distinct connections join the same live room
	router.handle(ctx, domain.JoinLiveCommand{Conn: conn1, Live: "live-42"})
	router.handle(ctx, domain.JoinLiveCommand{Conn: conn2, Live: "live-42"})
	router.handle(ctx, domain.JoinLiveCommand{Conn: conn3, Live: "live-42"})

	// Then the first viewer observed every count in order
	req.Equal([]int{1, 2, 3}, sink1.counts())

	// When one of them disconnects
	router.handle(ctx, domain.DisconnectCommand{Conn: conn2})

	// Then the next announced count reflects the removal
	req.Equal([]int{1, 2, 3, 2}, sink1.counts())
	req.Equal(2, registry.MemberCount("live-42"))
}

func TestRouter_JoinTwiceAnnouncesOne(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	conn, sink := register(registry)

	router.handle(ctx, domain.JoinLiveCommand{Conn: conn, Live: "live-1"})
	router.handle(ctx, domain.JoinLiveCommand{Conn: conn, Live: "live-1"})

	// Membership is a set: the count stays at one
	req.Equal([]int{1, 1}, sink.counts())
}

func TestRouter_StartLiveIsGlobal(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	host, hostSink := register(registry)
	_, bystanderSink := register(registry)

	descriptor := domain.LiveDescriptor{LiveID: "live-9", Host: "user-9", Title: "launch"}
	router.handle(ctx, domain.StartLiveCommand{Conn: host, Descriptor: descriptor})

	// Every connection learns about the new live, members or not
	req.Len(hostSink.events, 1)
	req.Len(bystanderSink.events, 1)
	announced, ok := bystanderSink.events[0].(event.NewLive)
	req.True(ok)
	req.Equal(domain.RoomID("live-9"), announced.Descriptor.LiveID)

	// And the room exists with no members yet
	req.Equal(0, registry.MemberCount("live-9"))
	rooms, _ := registry.Snapshot()
	req.Len(rooms, 1)
}

func TestRouter_EndLiveNotifiesThenErases(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	viewer, viewerSink := register(registry)
	router.handle(ctx, domain.JoinLiveCommand{Conn: viewer, Live: "live-1"})

	router.handle(ctx, domain.EndLiveCommand{Conn: viewer, Live: "live-1"})

	// The member was notified before the registry entry disappeared
	last := viewerSink.events[len(viewerSink.events)-1]
	ended, ok := last.(event.LiveEnded)
	req.True(ok)
	req.Equal(domain.RoomID("live-1"), ended.LiveID)
	rooms, _ := registry.Snapshot()
	req.Empty(rooms)
}

func TestRouter_VideoJoinIsSilent(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	conn, sink := register(registry)

	router.handle(ctx, domain.JoinVideoCommand{Conn: conn, Video: "video-1"})
	router.handle(ctx, domain.LeaveVideoCommand{Conn: conn, Video: "video-1"})

	req.Empty(sink.events)
}

func TestRouter_LikeWithoutMembership(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	member, memberSink := register(registry)
	outsider, outsiderSink := register(registry)
	router.handle(ctx, domain.JoinVideoCommand{Conn: member, Video: "video-1"})

	// A sender that never joined the room can still trigger fan-out
	router.handle(ctx, domain.LikeVideoCommand{Conn: outsider, Video: "video-1", UserID: "user-5"})

	req.Len(memberSink.events, 1)
	liked, ok := memberSink.events[0].(event.VideoLiked)
	req.True(ok)
	req.Equal("user-5", liked.UserID)
	// The outsider is not a member, so it receives nothing
	req.Empty(outsiderSink.events)
}

func TestRouter_CommentIsMasked(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	member, memberSink := register(registry)
	router.handle(ctx, domain.JoinVideoCommand{Conn: member, Video: "video-1"})

	router.handle(ctx, domain.CommentVideoCommand{
		Conn:    member,
		Video:   "video-1",
		Comment: domain.Comment{ID: "c1", Author: "user-5", Content: "what a badword stream"},
	})

	req.Len(memberSink.events, 1)
	added, ok := memberSink.events[0].(event.CommentAdded)
	req.True(ok)
	req.Equal("what a ******* stream", added.Comment.Content)
}

func TestRouter_PublishReachesEveryone(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	_, sink1 := register(registry)
	_, sink2 := register(registry)

	router.handle(ctx, publishCommand{evt: event.NewPost{Item: event.FeedItem{ID: "p1", Owner: "user-1"}}})

	req.Len(sink1.events, 1)
	req.Len(sink2.events, 1)
}

func TestRouter_PanickingSinkDoesNotKillHandling(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)
	ctx := context.Background()

	bad := connID()
	registry.Register(bad, panicSink{})
	router.handle(ctx, domain.JoinLiveCommand{Conn: bad, Live: "live-1"})

	// A failure in one handler must not affect the next command
	good, goodSink := register(registry)
	router.handle(ctx, domain.JoinLiveCommand{Conn: good, Live: "live-2"})

	req.Equal([]int{1}, goodSink.counts())
}

func TestRouter_RunProcessesDispatchedCommands(t *testing.T) {
	req := require.New(t)
	router, registry := newTestRouter(t)

	conn, _ := register(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = router.Run(ctx)
		close(done)
	}()

	router.Dispatch(domain.JoinLiveCommand{Conn: conn, Live: "live-1"})

	req.Eventually(func() bool {
		return registry.MemberCount("live-1") == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Router did not stop on context cancellation")
	}
}
