package client

import (
	"context"
	"log/slog"
	"sync"
)

// Fetcher is the bulk-load collaborator: the platform API endpoints
// serving the full feed and the principal's own items.
type Fetcher interface {
	FeedItems(ctx context.Context) ([]Item, error)
	UserItems(ctx context.Context, userID string) ([]Item, error)
}

// Reconciler owns the local feed state across connectivity loss.
//
// It starts offline. While offline, incoming events accumulate in an
// ordered queue instead of being applied. When the transport comes
// back, the queue is drained in FIFO order through the reducer exactly
// once, then discarded. The queue is independent of bulk-load success:
// a failed fetch sets an error on the state but keeps queued events for
// the next successful load or reconnect.
type Reconciler struct {
	mu        sync.Mutex
	log       *slog.Logger
	principal string
	online    bool
	queue     []FeedEvent
	state     State
}

func NewReconciler(log *slog.Logger, principal string) *Reconciler {
	return &Reconciler{log: log, principal: principal}
}

func (r *Reconciler) Principal() string { return r.principal }

// Apply routes one event: straight through the reducer when online,
// into the queue otherwise.
func (r *Reconciler) Apply(e FeedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.online {
		r.queue = append(r.queue, e)
		return
	}
	r.state = reduce(r.state, r.principal, e)
}

// SetOnline transitions to online and flushes the queue in enqueue
// order. Flushed events are discarded, never replayed.
func (r *Reconciler) SetOnline() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.online {
		return
	}
	r.online = true
	r.drainLocked()
}

func (r *Reconciler) SetOffline() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online = false
}

func (r *Reconciler) Online() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.online
}

// State returns the current projection. Slices are shared with the
// internal state; the reducer never mutates them in place.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Load performs the initial bulk fetch of the feed and the principal's
// items. On failure the state carries the error message and keeps its
// lists; queued events are untouched either way.
func (r *Reconciler) Load(ctx context.Context, fetcher Fetcher) error {
	feed, err := fetcher.FeedItems(ctx)
	if err != nil {
		r.fail(err)
		return err
	}
	mine, err := fetcher.UserItems(ctx, r.principal)
	if err != nil {
		r.fail(err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Feed: feed, Mine: mine}
	if r.online {
		// Events queued during a previous failed load are applied on
		// top of the fresh snapshot.
		r.drainLocked()
	}
	return nil
}

func (r *Reconciler) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Err = err.Error()
	r.log.Warn("Bulk fetch failed", "error", err)
}

func (r *Reconciler) drainLocked() {
	for _, e := range r.queue {
		r.state = reduce(r.state, r.principal, e)
	}
	r.queue = nil
}
