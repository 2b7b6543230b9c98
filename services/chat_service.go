package services

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"chat-mock/domain/event"
	"chat-mock/errors"
	"chat-mock/sink"
	"chat-mock/ui"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const detailPane = "detail-pane"

const help = `Commands:
  list [query]   show chats, optionally filtered by name
  open <id>      open a chat
  send <text>    send a message to the open chat
  pin [id]       toggle pin (open chat by default)
  mute [id]      toggle mute (open chat by default)
  call           start a video call in the open chat
  back           close the open chat
  log            show recent activity
  help           show this help
  quit           leave
`

// Store is the part of the conversation store the shell drives.
type Store interface {
	LocalUser() domain.User
	ActiveChat() (domain.Chat, bool)
	OrderedChats(query string) []domain.Chat
	SelectChat(chatID domain.ChatID) error
	ClearSelection()
	SendMessage(chatID domain.ChatID, text string) (domain.Message, error)
	TogglePin(chatID domain.ChatID) (bool, error)
	ToggleMute(chatID domain.ChatID) (bool, error)
	StartVideoCall() (domain.User, error)
}

type Renderer interface {
	contract.Notifier
	Render(view ui.View)
	Printf(format string, args ...any)
}

type Follower interface {
	Follow(subscriberID string, chatID domain.ChatID, s contract.EventSink)
	Unfollow(subscriberID string, chatID domain.ChatID)
}

type ActivityLog interface {
	Recent(n int) []event.DomainEvent
}

// ChatService interprets shell commands against the store.
// Expected failures (unknown chat, blank text, no open chat) become
// destructive toasts; only renderer failures are returned.
type ChatService struct {
	mu       sync.Mutex
	log      *slog.Logger
	store    Store
	renderer Renderer
	follower Follower
	activity ActivityLog
	narrow   func() bool
	query    string
	followed domain.ChatID
}

func NewChatService(
	log *slog.Logger,
	store Store,
	renderer Renderer,
	follower Follower,
	activity ActivityLog,
	narrow func() bool,
) *ChatService {
	return &ChatService{
		log:      log,
		store:    store,
		renderer: renderer,
		follower: follower,
		activity: activity,
		narrow:   narrow,
	}
}

// Handle runs one command line. It returns quit=true when the user leaves.
func (s *ChatService) Handle(ctx context.Context, line string) (quit bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var opErr error
	switch strings.ToLower(verb) {
	case "":
		return false, nil
	case "quit", "exit":
		s.unfollow()
		return true, nil
	case "help":
		s.renderer.Printf("%s", help)
		return false, nil
	case "list", "ls":
		s.query = arg
		s.render()
		return false, nil
	case "open":
		opErr = s.open(domain.ChatID(arg))
	case "send":
		opErr = s.send(arg)
	case "pin":
		opErr = s.toggle(arg, s.store.TogglePin)
	case "mute":
		opErr = s.toggle(arg, s.store.ToggleMute)
	case "call":
		_, opErr = s.store.StartVideoCall()
	case "back":
		s.unfollow()
		s.store.ClearSelection()
		s.render()
	case "log":
		s.printActivity()
	default:
		opErr = fmt.Errorf("%w: %q", errors.ErrUnknownCommand, verb)
	}
	if opErr != nil {
		return false, s.report(ctx, opErr)
	}
	return false, nil
}

func (s *ChatService) open(chatID domain.ChatID) error {
	if err := s.store.SelectChat(chatID); err != nil {
		return err
	}
	s.follow(chatID)
	s.render()
	return nil
}

func (s *ChatService) send(text string) error {
	active, ok := s.store.ActiveChat()
	if !ok {
		return errors.ErrNoActiveChat
	}
	if _, err := s.store.SendMessage(active.ID, text); err != nil {
		return err
	}
	s.render()
	return nil
}

func (s *ChatService) toggle(arg string, flip func(domain.ChatID) (bool, error)) error {
	chatID := domain.ChatID(arg)
	if chatID == "" {
		active, ok := s.store.ActiveChat()
		if !ok {
			return errors.ErrNoActiveChat
		}
		chatID = active.ID
	}
	_, err := flip(chatID)
	return err
}

// follow moves the detail pane subscription to chatID.
func (s *ChatService) follow(chatID domain.ChatID) {
	if s.follower == nil || s.followed == chatID {
		return
	}
	s.unfollow()
	s.follower.Follow(detailPane, chatID, sink.ChatFollower(s.onReply))
	s.followed = chatID
}

func (s *ChatService) unfollow() {
	if s.follower == nil || s.followed == "" {
		return
	}
	s.follower.Unfollow(detailPane, s.followed)
	s.followed = ""
}

func (s *ChatService) onReply(_ context.Context, evt event.ReplyReceived) error {
	active, ok := s.store.ActiveChat()
	if !ok || active.ID != evt.Chat {
		return nil
	}
	name := evt.Message.SenderID
	if u, found := active.Participant(evt.Message.SenderID); found {
		name = u.Name
	}
	s.renderer.Printf("%s: %s\n", name, evt.Message.Text)
	return nil
}

func (s *ChatService) render() {
	view := ui.View{Chats: s.store.OrderedChats(s.query), Narrow: s.narrow != nil && s.narrow()}
	if active, ok := s.store.ActiveChat(); ok {
		view.Active = &active
	}
	s.renderer.Render(view)
}

func (s *ChatService) printActivity() {
	if s.activity == nil {
		return
	}
	for _, e := range s.activity.Recent(10) {
		s.renderer.Printf("%-20s chat %s\n", e.Type(), e.ChatID())
	}
}

func (s *ChatService) report(ctx context.Context, err error) error {
	title := "Something went wrong"
	switch {
	case stderrors.Is(err, errors.ErrChatNotFound):
		title = "Chat not found"
	case stderrors.Is(err, errors.ErrInvalidInput):
		title = "Message is empty"
	case stderrors.Is(err, errors.ErrNoActiveChat):
		title = "No chat open"
	case stderrors.Is(err, errors.ErrUnknownCommand):
		title = "Unknown command"
	}
	s.log.Debug("Command failed", "error", err)
	return s.renderer.Notify(ctx, domain.Toast{
		Title:       title,
		Description: err.Error(),
		Variant:     domain.VariantDestructive,
	})
}
