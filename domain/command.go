package domain

import (
	"time"
)

type Command interface {
	Target() ChatID
}

type SendMessageCommand struct {
	ChatID ChatID
	Text   string `validate:"required"`
}

func (c SendMessageCommand) Target() ChatID {
	return c.ChatID
}

// PendingReply is a simulated reply waiting in the delayed queue.
type PendingReply struct {
	ChatID      ChatID
	Text        string
	ScheduledAt time.Time
	DueAt       time.Time
}

func (p PendingReply) Target() ChatID {
	return p.ChatID
}
