//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-mock/domain"
	"chat-mock/domain/event"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
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

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	GetSinksForChat(chatID domain.ChatID) []EventSink
	Subscribe(subscriberID string, chatID domain.ChatID, sink EventSink)
	Unsubscribe(subscriberID string, chatID domain.ChatID)
}

// Notifier receives user-visible toasts.
type Notifier interface {
	Notify(ctx context.Context, toast domain.Toast) error
}

// Clock is the time source of the store and the reply scheduler.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// ReplyTrigger decides whether a sent message gets a simulated reply.
type ReplyTrigger interface {
	ShouldReply() bool
}

// ReplyReceiver is the fire side of a simulated reply.
type ReplyReceiver interface {
	ReceiveReply(chatID domain.ChatID, text string) (domain.Message, error)
}
