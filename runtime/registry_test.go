package runtime

import (
	"chat-mock/domain"
	"chat-mock/domain/event"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Chat_One_Subscriber(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID := uuid.NewString()
	chatID := domain.ChatID("1")
	sink := Sink{name: "detail"}

	// Given nobody follows any chat
	req.Empty(registry.sessions)
	req.Empty(registry.chatMembers)

	// When a subscriber follows a chat
	registry.Subscribe(subscriberID, chatID, sink)

	// Then
	req.Len(registry.sessions, 1)
	req.Equal(sink, registry.sessions[subscriberID])

	req.Len(registry.chatMembers, 1)
	req.Contains(registry.chatMembers[chatID], subscriberID)

	req.Len(registry.GetSinksForChat(chatID), 1)
	req.Contains(registry.GetSinksForChat(chatID), sink)
}

func TestRegistry_Subscribe_One_Chat_Multiple_Subscribers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID1 := uuid.NewString()
	subscriberID2 := uuid.NewString()
	chatID := domain.ChatID("1")
	sink1 := Sink{name: "one"}
	sink2 := Sink{name: "two"}

	registry.Subscribe(subscriberID1, chatID, sink1)
	registry.Subscribe(subscriberID2, chatID, sink2)

	req.Len(registry.sessions, 2)
	req.Len(registry.chatMembers[chatID], 2)

	req.Len(registry.GetSinksForChat(chatID), 2)
	req.Contains(registry.GetSinksForChat(chatID), sink1)
	req.Nil(registry.GetSinksForChat("2"))
}

func TestRegistry_Unsubscribe_Last_Subscriber_Removes_Chat(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID := uuid.NewString()
	chatID := domain.ChatID("1")

	// Given a subscriber follows a chat
	registry.Subscribe(subscriberID, chatID, Sink{})

	// When it stops following
	registry.Unsubscribe(subscriberID, chatID)

	// Then nothing is left
	req.Empty(registry.sessions)
	req.Empty(registry.chatMembers)
	req.Nil(registry.GetSinksForChat(chatID))
}

func TestRegistry_Unsubscribe_Keeps_Other_Subscribers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID1 := uuid.NewString()
	subscriberID2 := uuid.NewString()
	chatID := domain.ChatID("1")
	sink2 := Sink{name: "two"}

	registry.Subscribe(subscriberID1, chatID, Sink{name: "one"})
	registry.Subscribe(subscriberID2, chatID, sink2)

	registry.Unsubscribe(subscriberID1, chatID)

	req.Len(registry.sessions, 1)
	req.Len(registry.chatMembers[chatID], 1)
	req.Len(registry.GetSinksForChat(chatID), 1)
	req.Contains(registry.GetSinksForChat(chatID), sink2)
}
