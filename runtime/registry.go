package runtime

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"sync"
)

var _ contract.IRegistry = (*Registry)(nil)

type Set map[string]struct{}

// Registry maps subscribers to their sink and chats to their subscribers.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]contract.EventSink // subscriber -> sink
	chatMembers map[domain.ChatID]Set         // chat -> subscribers
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]contract.EventSink),
		chatMembers: make(map[domain.ChatID]Set),
	}
}

// GetSinksForChat resolves the subscribers of a chat into their sinks.
// Returns nil if nobody follows the chat.
func (r *Registry) GetSinksForChat(chatID domain.ChatID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.chatMembers[chatID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for subscriberID := range members {
		if sink, exists := r.sessions[subscriberID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers the sink of a subscriber and attaches it to a chat.
// A subscriber keeps a single sink; subscribing again replaces it.
func (r *Registry) Subscribe(subscriberID string, chatID domain.ChatID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[subscriberID] = sink

	if _, ok := r.chatMembers[chatID]; !ok {
		r.chatMembers[chatID] = make(Set)
	}
	r.chatMembers[chatID][subscriberID] = struct{}{}
}

// Unsubscribe detaches a subscriber from a chat and forgets its sink.
// Empty chat entries are removed.
func (r *Registry) Unsubscribe(subscriberID string, chatID domain.ChatID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, subscriberID)

	if members, ok := r.chatMembers[chatID]; ok {
		delete(members, subscriberID)
		if len(members) == 0 {
			delete(r.chatMembers, chatID)
		}
	}
}
