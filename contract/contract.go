//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"live-hub/domain"
	"live-hub/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself. Supervision, restarts and panic
// recovery belong to the supervisor, not to the worker.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one delivery target for outbound events, usually the
// buffered channel feeding a connection's write pump.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// RoomChange reports a live room whose membership was mutated,
// together with the count strictly after the mutation.
type RoomChange struct {
	Room  domain.RoomID
	Kind  domain.RoomKind
	Count int
}

type IRegistry interface {
	Register(connID domain.ConnectionID, sink EventSink)
	Unregister(connID domain.ConnectionID)
	Join(roomID domain.RoomID, kind domain.RoomKind, connID domain.ConnectionID) int
	Leave(roomID domain.RoomID, connID domain.ConnectionID) int
	Start(roomID domain.RoomID, kind domain.RoomKind)
	End(roomID domain.RoomID)
	RemoveEverywhere(connID domain.ConnectionID) []RoomChange
	MemberCount(roomID domain.RoomID) int
	SinkFor(connID domain.ConnectionID) (EventSink, bool)
	SinksForRoom(roomID domain.RoomID) []EventSink
	AllSinks() []EventSink
}
