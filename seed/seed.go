// Package seed builds the mock conversations loaded at startup.
package seed

import (
	"chat-mock/domain"
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"
)

const (
	LocalUserID = "current-user"
	avatarURL   = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
)

var (
	names = []string{
		"Alice", "Bob", "Charlie", "David", "Emma", "Frank", "Grace",
		"Henry", "Isabel", "James", "Kate", "Liam", "Mia", "Noah",
		"Olivia", "Peter", "Quinn", "Ryan", "Sophia", "Thomas",
	}
	groupNames = []string{
		"Sales", "Product", "Design", "Support", "Operations",
		"Finance", "HR", "Legal", "Research", "Quality",
	}
)

type fixedChat struct {
	name         string
	messages     int
	isGroup      bool
	participants int
}

var fixedChats = []fixedChat{
	{name: "Team Periskope", messages: 10, isGroup: true, participants: 5},
	{name: "John", messages: 8, participants: 1},
	{name: "Marketing", messages: 15, isGroup: true, participants: 3},
	{name: "Sarah", messages: 5, participants: 1},
	{name: "Development", messages: 20, isGroup: true, participants: 4},
}

func LocalUser() domain.User {
	return domain.User{
		ID:     LocalUserID,
		Name:   "Me",
		Avatar: fmt.Sprintf(avatarURL, "Me"),
		Status: domain.Online,
	}
}

// Generator produces mock chats. It is not safe for concurrent use.
type Generator struct {
	rng   *rand.Rand
	now   time.Time
	local domain.User
}

func NewGenerator(rng *rand.Rand, now time.Time) *Generator {
	return &Generator{rng: rng, now: now, local: LocalUser()}
}

// Chats returns the five fixed chats followed by extra random ones.
// Chat ids are "1", "2", ... in that order.
func (g *Generator) Chats(extra int) []domain.Chat {
	chats := make([]domain.Chat, 0, len(fixedChats)+extra)
	for i, f := range fixedChats {
		id := domain.ChatID(fmt.Sprint(i + 1))
		chats = append(chats, g.chat(id, f.name, g.messages(id, f.messages), f.isGroup, f.participants))
	}
	for i := 0; i < extra; i++ {
		id := domain.ChatID(fmt.Sprint(len(fixedChats) + i + 1))
		isGroup := g.rng.Float64() > 0.7
		name := lo.Ternary(isGroup, pick(g.rng, groupNames), pick(g.rng, names))
		participants := lo.Ternary(isGroup, g.rng.Intn(5)+2, 1)
		messages := g.messages(id, g.rng.Intn(20)+1)
		chats = append(chats, g.chat(id, name, messages, isGroup, participants))
	}
	return chats
}

func (g *Generator) chat(id domain.ChatID, name string, messages []domain.Message, isGroup bool, count int) domain.Chat {
	lastMessageAt := g.now
	if n := len(messages); n > 0 {
		lastMessageAt = messages[n-1].CreatedAt
	}
	participants := []domain.User{g.local}
	for i := 0; i < count; i++ {
		participants = append(participants, domain.User{
			ID:     otherUserID(id, i),
			Name:   lo.Ternary(isGroup, fmt.Sprintf("%s %d", name, i+1), name),
			Avatar: fmt.Sprintf(avatarURL, fmt.Sprintf("%s%d", name, i)),
			Status: lo.Ternary(g.rng.Float64() > 0.7, domain.Online, domain.Offline),
		})
	}
	return domain.Chat{
		ID:            id,
		Name:          lo.Ternary(isGroup, name+" Group", ""),
		Messages:      messages,
		Participants:  participants,
		LastMessageAt: lastMessageAt,
		UnreadCount:   g.rng.Intn(5),
		IsGroup:       isGroup,
	}
}

// messages spaces count messages roughly one hour apart, ending before now.
func (g *Generator) messages(id domain.ChatID, count int) []domain.Message {
	messages := make([]domain.Message, 0, count)
	for i := 0; i < count; i++ {
		hoursAgo := time.Duration(count-i) * time.Hour
		jitter := time.Duration(g.rng.Int63n(int64(time.Hour)))
		messages = append(messages, domain.Message{
			ID:        fmt.Sprintf("msg-%s-%d", id, i),
			Text:      fmt.Sprintf("This is message #%d in chat %s", i+1, id),
			SenderID:  lo.Ternary(g.rng.Float64() > 0.5, LocalUserID, otherUserID(id, 0)),
			CreatedAt: g.now.Add(-hoursAgo - jitter),
			Read:      g.rng.Float64() > 0.3,
		})
	}
	return messages
}

func otherUserID(id domain.ChatID, i int) string {
	return fmt.Sprintf("user-%s-%d", id, i)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
