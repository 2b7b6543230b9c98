package workers

import (
	"chat-mock/contract"
	"chat-mock/domain/event"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout broadcasts domain events to multiple in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. EventFanout is not a message broker.
//
// Permanent sinks receive every event; the registry adds the sinks subscribed
// to the chat the event belongs to. Each sink call is bounded by sinkTimeout.
type EventFanout struct {
	log            *slog.Logger
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	domainEvents   <-chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewEventFanout(
	log *slog.Logger,
	permanentSinks []contract.EventSink,
	registry contract.IRegistry,
	domainEvents <-chan event.DomainEvent,
	sinkTimeout time.Duration,
) *EventFanout {
	return &EventFanout{
		log:            log,
		permanentSinks: permanentSinks,
		registry:       registry,
		domainEvents:   domainEvents,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.domainEvents:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout delivers evt to every permanent sink, then to the chat subscribers.
// Sinks are called in order; a failing sink does not stop the others.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append([]contract.EventSink(nil), w.permanentSinks...)
	if w.registry != nil {
		sinks = append(sinks, w.registry.GetSinksForChat(evt.ChatID())...)
	}
	for _, sink := range sinks {
		w.consume(ctx, sink, evt)
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Error("Sink failed to consume event",
			"type", evt.Type(), "chat_id", evt.ChatID(), "error", err)
	}
}
