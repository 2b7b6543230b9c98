package event

import (
	"chat-mock/domain"
	"time"
)

type Type string

const (
	ChatSelectedType     Type = "CHAT_SELECTED"
	SelectionClearedType Type = "SELECTION_CLEARED"
	MessageSentType      Type = "MESSAGE_SENT"
	ReplyReceivedType    Type = "REPLY_RECEIVED"
	ChatPinnedType       Type = "CHAT_PINNED"
	ChatMutedType        Type = "CHAT_MUTED"
	VideoCallStartedType Type = "VIDEO_CALL_STARTED"
)

type DomainEvent interface {
	ChatID() domain.ChatID
	Type() Type
}

type ChatSelected struct {
	Chat domain.ChatID
	At   time.Time
}

func (e ChatSelected) ChatID() domain.ChatID { return e.Chat }
func (e ChatSelected) Type() Type            { return ChatSelectedType }

// SelectionCleared carries the chat that was active before.
type SelectionCleared struct {
	Chat domain.ChatID
	At   time.Time
}

func (e SelectionCleared) ChatID() domain.ChatID { return e.Chat }
func (e SelectionCleared) Type() Type            { return SelectionClearedType }

type MessageSent struct {
	Chat    domain.ChatID
	Message domain.Message
}

func (e MessageSent) ChatID() domain.ChatID { return e.Chat }
func (e MessageSent) Type() Type            { return MessageSentType }

type ReplyReceived struct {
	Chat        domain.ChatID
	Message     domain.Message
	UnreadCount int
	Muted       bool
}

func (e ReplyReceived) ChatID() domain.ChatID { return e.Chat }
func (e ReplyReceived) Type() Type            { return ReplyReceivedType }

type ChatPinned struct {
	Chat   domain.ChatID
	Pinned bool
}

func (e ChatPinned) ChatID() domain.ChatID { return e.Chat }
func (e ChatPinned) Type() Type            { return ChatPinnedType }

type ChatMuted struct {
	Chat  domain.ChatID
	Muted bool
}

func (e ChatMuted) ChatID() domain.ChatID { return e.Chat }
func (e ChatMuted) Type() Type            { return ChatMutedType }

type VideoCallStarted struct {
	Chat        domain.ChatID
	Participant string
}

func (e VideoCallStarted) ChatID() domain.ChatID { return e.Chat }
func (e VideoCallStarted) Type() Type            { return VideoCallStartedType }
