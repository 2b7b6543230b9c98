package domain

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

type ChatID string

// Chat is one conversation of the canonical list.
// Messages are append-only and kept in chronological order.
type Chat struct {
	ID            ChatID
	Name          string
	Messages      []Message
	Participants  []User
	LastMessageAt time.Time
	UnreadCount   int
	IsGroup       bool
	IsPinned      bool
	IsMuted       bool
}

var phoneNumber = regexp.MustCompile(`^\+?[0-9\s]+$`)

// Clone returns a copy that shares no slices with c.
func (c Chat) Clone() Chat {
	c.Messages = slices.Clone(c.Messages)
	c.Participants = slices.Clone(c.Participants)
	return c
}

func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

func (c Chat) OtherParticipants(localID string) []User {
	return lo.Filter(c.Participants, func(u User, _ int) bool {
		return u.ID != localID
	})
}

// OtherParticipant returns the first participant that is not the local user.
func (c Chat) OtherParticipant(localID string) (User, bool) {
	return lo.Find(c.Participants, func(u User) bool {
		return u.ID != localID
	})
}

func (c Chat) Participant(userID string) (User, bool) {
	return lo.Find(c.Participants, func(u User) bool {
		return u.ID == userID
	})
}

// IsGroupLike treats a chat with several remote participants as a group
// even when the group flag is not set.
func (c Chat) IsGroupLike(localID string) bool {
	return c.IsGroup || len(c.OtherParticipants(localID)) > 1
}

// DisplayName resolves the label shown in the chat list and the header.
func (c Chat) DisplayName(localID string) string {
	if c.Name != "" {
		return c.Name
	}
	others := c.OtherParticipants(localID)
	if c.IsGroupLike(localID) {
		return "Group (" + strconv.Itoa(len(others)+1) + ")"
	}
	if len(others) == 0 {
		return "Unknown"
	}
	return others[0].Name
}

// Initials builds the avatar fallback for the chat.
func (c Chat) Initials(localID string) string {
	name := c.DisplayName(localID)
	if name == "" {
		return "?"
	}
	if c.IsGroupLike(localID) {
		if strings.HasPrefix(name, "Group") {
			return "G"
		}
		words := strings.Fields(name)
		if len(words) >= 2 {
			return strings.ToUpper(firstRune(words[0]) + firstRune(words[1]))
		}
		if utf8.RuneCountInString(name) <= 2 {
			return strings.ToUpper(name)
		}
		return strings.ToUpper(string([]rune(name)[:2]))
	}
	if phoneNumber.MatchString(name) {
		return "+"
	}
	return strings.ToUpper(firstRune(name))
}

// markRead flags every message not sent by localID as read.
func (c *Chat) markRead(localID string) {
	for i := range c.Messages {
		if c.Messages[i].SenderID != localID {
			c.Messages[i].Read = true
		}
	}
}

// Activate applies the transition into the selected state.
func (c *Chat) Activate(localID string) {
	c.markRead(localID)
	c.UnreadCount = 0
}

// Append adds a message at the end of the chat and moves LastMessageAt.
func (c *Chat) Append(m Message) {
	c.Messages = append(c.Messages, m)
	c.LastMessageAt = m.CreatedAt
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}
