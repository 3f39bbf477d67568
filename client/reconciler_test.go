package client

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	feed    []Item
	mine    []Item
	failing bool
}

func (f fakeFetcher) FeedItems(ctx context.Context) ([]Item, error) {
	if f.failing {
		return nil, fmt.Errorf("api unreachable")
	}
	return f.feed, nil
}

func (f fakeFetcher) UserItems(ctx context.Context, userID string) ([]Item, error) {
	if f.failing {
		return nil, fmt.Errorf("api unreachable")
	}
	return f.mine, nil
}

func newReconciler() *Reconciler {
	return NewReconciler(logs.GetLoggerFromLevel(slog.LevelDebug), "me")
}

func TestReconciler_StartsOffline(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()

	req.False(rec.Online())

	// Events received while offline are queued, not applied
	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "a", Owner: "me"}})
	req.Empty(rec.State().Feed)
}

func TestReconciler_FlushPreservesOrder(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()

	// Given three events queued while offline
	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "a", Owner: "other"}})
	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "b", Owner: "other"}})
	rec.Apply(FeedEvent{Kind: KindUpdateItem, Item: Item{ID: "a", Owner: "other", Title: "edited"}})

	// When the transport comes back
	rec.SetOnline()

	// Then the final state equals applying the same sequence online
	online := newReconciler()
	online.SetOnline()
	online.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "a", Owner: "other"}})
	online.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "b", Owner: "other"}})
	online.Apply(FeedEvent{Kind: KindUpdateItem, Item: Item{ID: "a", Owner: "other", Title: "edited"}})

	req.Equal(online.State(), rec.State())
	req.Equal("edited", rec.State().Feed[1].Title)
}

func TestReconciler_FlushHappensOnce(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()

	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "a", Owner: "other"}})
	rec.SetOnline()
	req.Len(rec.State().Feed, 1)

	// A second transition must not replay the queue
	rec.SetOffline()
	rec.SetOnline()
	req.Len(rec.State().Feed, 1)
}

func TestReducer_OwnershipSplitsLists(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()
	rec.SetOnline()

	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "mine-1", Owner: "me"}})
	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "theirs-1", Owner: "other"}})

	state := rec.State()
	// Newest first in the feed
	req.Equal([]string{"theirs-1", "mine-1"}, ids(state.Feed))
	// Only owned items in the mine list
	req.Equal([]string{"mine-1"}, ids(state.Mine))
}

func TestReconciler_DeleteAfterNewLeavesNothing(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()

	// Given a creation and its deletion both queued offline
	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "a", Owner: "me"}})
	rec.Apply(FeedEvent{Kind: KindDeleteItem, ID: "a"})

	rec.SetOnline()

	state := rec.State()
	req.Empty(state.Feed)
	req.Empty(state.Mine)
}

func TestReducer_UpdateAbsentIdIsNoOp(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()
	rec.SetOnline()

	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "a", Owner: "other"}})
	rec.Apply(FeedEvent{Kind: KindUpdateItem, Item: Item{ID: "ghost", Title: "nope"}})

	req.Equal([]string{"a"}, ids(rec.State().Feed))
}

func TestReducer_UnknownKindIsIgnored(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()
	rec.SetOnline()

	rec.Apply(FeedEvent{Kind: Kind("mystery"), Item: Item{ID: "a"}})

	req.Empty(rec.State().Feed)
}

func TestReconciler_LoadFailureKeepsQueue(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()

	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "queued", Owner: "me"}})

	// When the bulk fetch fails
	err := rec.Load(context.Background(), fakeFetcher{failing: true})
	req.Error(err)

	// Then the error is surfaced but the queue survives
	req.Equal("api unreachable", rec.State().Err)
	rec.SetOnline()
	req.Equal([]string{"queued"}, ids(rec.State().Feed))
}

func TestReconciler_LoadThenDrain(t *testing.T) {
	req := require.New(t)
	rec := newReconciler()

	rec.Apply(FeedEvent{Kind: KindNewItem, Item: Item{ID: "live-event", Owner: "other"}})
	rec.SetOnline()

	// SetOnline drained the queue before the snapshot arrived; a later
	// load replaces the lists wholesale
	err := rec.Load(context.Background(), fakeFetcher{
		feed: []Item{{ID: "old", Owner: "other"}},
		mine: []Item{},
	})
	req.NoError(err)
	req.Equal([]string{"old"}, ids(rec.State().Feed))
	req.Empty(rec.State().Err)
}

func ids(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
