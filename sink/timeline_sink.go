package sink

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"chat-mock/domain/event"
	"context"
	"sync"
)

var _ contract.EventSink = (*Timeline)(nil)

const defaultTimelineCapacity = 50

// Timeline keeps the most recent events, per chat and overall.
type Timeline struct {
	mu       sync.RWMutex
	capacity int
	recent   []event.DomainEvent
	byChat   map[domain.ChatID][]event.DomainEvent
}

func NewTimeline() *Timeline {
	return &Timeline{
		capacity: defaultTimelineCapacity,
		byChat:   make(map[domain.ChatID][]event.DomainEvent),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recent = keepLast(append(t.recent, e), t.capacity)
	t.byChat[e.ChatID()] = keepLast(append(t.byChat[e.ChatID()], e), t.capacity)
	return nil
}

// Recent returns up to n events, oldest first.
func (t *Timeline) Recent(n int) []event.DomainEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyLast(t.recent, n)
}

func (t *Timeline) ForChat(chatID domain.ChatID, n int) []event.DomainEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyLast(t.byChat[chatID], n)
}

func keepLast(events []event.DomainEvent, n int) []event.DomainEvent {
	if len(events) <= n {
		return events
	}
	return append([]event.DomainEvent(nil), events[len(events)-n:]...)
}

func copyLast(events []event.DomainEvent, n int) []event.DomainEvent {
	if n <= 0 || n > len(events) {
		n = len(events)
	}
	return append([]event.DomainEvent(nil), events[len(events)-n:]...)
}
