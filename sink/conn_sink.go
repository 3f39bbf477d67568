package sink

import (
	"context"
	"sync"

	"live-hub/domain/event"
	"live-hub/errors"
)

// ConnSink buffers outbound events for one connection.
// The router writes into it during fan-out; the websocket write pump
// drains it. A full buffer means the consumer is too slow: the event
// is dropped rather than blocking the router past its delivery timeout.
type ConnSink struct {
	events chan event.Event

	mu     sync.Mutex
	closed bool
}

func NewConnSink(bufferSize int) *ConnSink {
	return &ConnSink{events: make(chan event.Event, bufferSize)}
}

// Events is drained by the connection's write pump.
// The channel is closed when the sink is closed.
func (s *ConnSink) Events() <-chan event.Event {
	return s.events
}

// Consume is called by the router during fan-out.
func (s *ConnSink) Consume(ctx context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSinkClosed
	}
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close makes further Consume calls fail and releases the write pump.
// Safe to call more than once.
func (s *ConnSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}
