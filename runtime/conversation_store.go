package runtime

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"chat-mock/domain/event"
	"chat-mock/errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const replyPrefix = "Reply to: "

var _ contract.ReplyReceiver = (*ConversationStore)(nil)

// ConversationStore owns the canonical chat list and the active selection.
//
// The active chat is kept as an id into the canonical list, never as a copy,
// so the detail view and the list cannot drift apart. Every accessor returns
// clones: callers never hold a reference into the store state.
//
// Mutators are safe for concurrent use; the reply scheduler delivers from its
// own goroutine.
type ConversationStore struct {
	mu         sync.RWMutex
	log        *slog.Logger
	localUser  domain.User
	chats      []domain.Chat
	index      map[domain.ChatID]int
	activeID   domain.ChatID
	clock      contract.Clock
	trigger    contract.ReplyTrigger
	replies    chan<- domain.PendingReply
	events     chan<- event.DomainEvent
	replyDelay time.Duration
	validate   *validator.Validate
}

// NewConversationStore seeds the canonical list with chats, in the given order.
// A chat whose id is already present is skipped. replies and events may be nil,
// in which case simulated replies and events are not produced.
func NewConversationStore(
	log *slog.Logger,
	localUser domain.User,
	chats []domain.Chat,
	clock contract.Clock,
	trigger contract.ReplyTrigger,
	replies chan<- domain.PendingReply,
	events chan<- event.DomainEvent,
	replyDelay time.Duration,
) *ConversationStore {
	s := &ConversationStore{
		log:        log,
		localUser:  localUser,
		index:      make(map[domain.ChatID]int, len(chats)),
		clock:      clock,
		trigger:    trigger,
		replies:    replies,
		events:     events,
		replyDelay: replyDelay,
		validate:   validator.New(),
	}
	for _, c := range chats {
		if _, ok := s.index[c.ID]; ok {
			log.Warn("Duplicate chat skipped", "chat_id", c.ID)
			continue
		}
		if c.UnreadCount < 0 {
			c.UnreadCount = 0
		}
		s.index[c.ID] = len(s.chats)
		s.chats = append(s.chats, c.Clone())
	}
	return s
}

func (s *ConversationStore) LocalUser() domain.User {
	return s.localUser
}

// Chats returns the canonical list in seed order.
func (s *ConversationStore) Chats() []domain.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.chats, func(c domain.Chat, _ int) domain.Chat {
		return c.Clone()
	})
}

func (s *ConversationStore) Chat(chatID domain.ChatID) (domain.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.lookup(chatID)
	if c == nil {
		return domain.Chat{}, false
	}
	return c.Clone(), true
}

// ActiveChat returns the chat shown in the detail view, if any.
func (s *ConversationStore) ActiveChat() (domain.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.lookup(s.activeID)
	if c == nil {
		return domain.Chat{}, false
	}
	return c.Clone(), true
}

// OrderedChats returns the listing view, filtered by display name.
func (s *ConversationStore) OrderedChats(query string) []domain.Chat {
	chats := domain.FilterChats(s.Chats(), query, s.localUser.ID)
	return domain.DeriveOrderedView(chats)
}

// SelectChat makes chatID the active chat, marks the messages of the other
// participants as read and resets the unread counter.
func (s *ConversationStore) SelectChat(chatID domain.ChatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(chatID)
	if c == nil {
		s.log.Debug("Select ignored, unknown chat", "chat_id", chatID)
		return fmt.Errorf("select %q: %w", chatID, errors.ErrChatNotFound)
	}
	c.Activate(s.localUser.ID)
	s.activeID = chatID
	s.log.Debug("Chat selected", "chat_id", chatID)
	s.publish(event.ChatSelected{Chat: chatID, At: s.clock.Now()})
	return nil
}

// ClearSelection leaves the detail view, as the back button does on narrow screens.
func (s *ConversationStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return
	}
	previous := s.activeID
	s.activeID = ""
	s.publish(event.SelectionCleared{Chat: previous, At: s.clock.Now()})
}

// SendMessage appends a message from the local user to chatID.
// Blank text is rejected with ErrInvalidInput. Depending on the reply trigger,
// a simulated reply is queued for delivery after the reply delay.
func (s *ConversationStore) SendMessage(chatID domain.ChatID, text string) (domain.Message, error) {
	cmd := domain.SendMessageCommand{ChatID: chatID, Text: strings.TrimSpace(text)}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("send to %q: %w: %v", chatID, errors.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(chatID)
	if c == nil {
		s.log.Debug("Send ignored, unknown chat", "chat_id", chatID)
		return domain.Message{}, fmt.Errorf("send to %q: %w", chatID, errors.ErrChatNotFound)
	}

	now := s.clock.Now()
	message := domain.Message{
		ID:        uuid.NewString(),
		Text:      text,
		SenderID:  s.localUser.ID,
		CreatedAt: now,
		Read:      false,
	}
	c.Append(message)
	s.publish(event.MessageSent{Chat: chatID, Message: message})

	if s.trigger != nil && s.replies != nil && s.trigger.ShouldReply() {
		s.scheduleReply(domain.PendingReply{
			ChatID:      chatID,
			Text:        replyPrefix + text,
			ScheduledAt: now,
			DueAt:       now.Add(s.replyDelay),
		})
	}
	return message, nil
}

// ReceiveReply appends a simulated reply authored by the other participant of
// chatID. Whether the chat is active is evaluated now, at delivery time: an
// active chat gets the reply already read, any other chat gets one more
// unread message.
func (s *ConversationStore) ReceiveReply(chatID domain.ChatID, text string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(chatID)
	if c == nil {
		return domain.Message{}, fmt.Errorf("reply to %q: %w", chatID, errors.ErrChatNotFound)
	}
	author, ok := c.OtherParticipant(s.localUser.ID)
	if !ok {
		return domain.Message{}, fmt.Errorf("reply to %q: %w", chatID, errors.ErrNoParticipant)
	}

	active := s.activeID == chatID
	message := domain.Message{
		ID:        uuid.NewString(),
		Text:      text,
		SenderID:  author.ID,
		CreatedAt: s.clock.Now(),
		Read:      active,
	}
	c.Append(message)
	if active {
		c.UnreadCount = 0
	} else {
		c.UnreadCount++
	}
	s.log.Debug("Reply received", "chat_id", chatID, "author", author.ID, "active", active)
	s.publish(event.ReplyReceived{
		Chat:        chatID,
		Message:     message,
		UnreadCount: c.UnreadCount,
		Muted:       c.IsMuted,
	})
	return message, nil
}

// TogglePin flips the pinned flag of chatID and returns the new state.
func (s *ConversationStore) TogglePin(chatID domain.ChatID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(chatID)
	if c == nil {
		return false, fmt.Errorf("pin %q: %w", chatID, errors.ErrChatNotFound)
	}
	c.IsPinned = !c.IsPinned
	s.publish(event.ChatPinned{Chat: chatID, Pinned: c.IsPinned})
	return c.IsPinned, nil
}

// ToggleMute flips the muted flag of chatID and returns the new state.
func (s *ConversationStore) ToggleMute(chatID domain.ChatID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(chatID)
	if c == nil {
		return false, fmt.Errorf("mute %q: %w", chatID, errors.ErrChatNotFound)
	}
	c.IsMuted = !c.IsMuted
	s.publish(event.ChatMuted{Chat: chatID, Muted: c.IsMuted})
	return c.IsMuted, nil
}

// StartVideoCall announces a call with the other participant of the active chat.
func (s *ConversationStore) StartVideoCall() (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.lookup(s.activeID)
	if c == nil {
		return domain.User{}, errors.ErrNoActiveChat
	}
	other, ok := c.OtherParticipant(s.localUser.ID)
	if !ok {
		return domain.User{}, fmt.Errorf("call in %q: %w", c.ID, errors.ErrNoParticipant)
	}
	s.publish(event.VideoCallStarted{Chat: c.ID, Participant: other.Name})
	return other, nil
}

// lookup must be called with the lock held.
func (s *ConversationStore) lookup(chatID domain.ChatID) *domain.Chat {
	if chatID == "" {
		return nil
	}
	i, ok := s.index[chatID]
	if !ok {
		return nil
	}
	return &s.chats[i]
}

// publish never blocks: a full event channel drops the event.
func (s *ConversationStore) publish(evt event.DomainEvent) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- evt:
	default:
		s.log.Warn("Event channel full, dropping event", "type", evt.Type(), "chat_id", evt.ChatID())
	}
}

func (s *ConversationStore) scheduleReply(reply domain.PendingReply) {
	select {
	case s.replies <- reply:
		s.log.Debug("Reply scheduled", "chat_id", reply.ChatID, "due_at", reply.DueAt)
	default:
		s.log.Warn("Reply queue full, dropping simulated reply", "chat_id", reply.ChatID)
	}
}
