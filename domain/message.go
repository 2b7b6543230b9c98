// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable except for the read flag.
package domain

import (
	"time"
)

// Message represents a chat message.
// Read only ever moves from false to true, when the owning chat becomes active.
type Message struct {
	ID        string
	Text      string
	SenderID  string
	CreatedAt time.Time
	Read      bool
}

// Day is a calendar day bucket of messages, in chronological order.
type Day struct {
	Date     time.Time
	Messages []Message
}

// GroupMessagesByDay buckets messages by calendar day in their own location.
// Input order is preserved inside each bucket and between buckets.
func GroupMessagesByDay(messages []Message) []Day {
	var days []Day
	for _, m := range messages {
		y, mo, d := m.CreatedAt.Date()
		date := time.Date(y, mo, d, 0, 0, 0, 0, m.CreatedAt.Location())
		if n := len(days); n > 0 && days[n-1].Date.Equal(date) {
			days[n-1].Messages = append(days[n-1].Messages, m)
			continue
		}
		days = append(days, Day{Date: date, Messages: []Message{m}})
	}
	return days
}
