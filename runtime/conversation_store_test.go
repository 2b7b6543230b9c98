package runtime

import (
	"chat-mock/domain"
	"chat-mock/domain/event"
	"chat-mock/errors"
	"chat-mock/mocks"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

type alwaysReply bool

func (a alwaysReply) ShouldReply() bool { return bool(a) }

var me = domain.User{ID: "me", Name: "Me"}

func contact(id, name string) domain.User {
	return domain.User{ID: id, Name: name, Status: domain.Offline}
}

func incoming(id, sender string, at time.Time) domain.Message {
	return domain.Message{ID: id, Text: "hello " + id, SenderID: sender, CreatedAt: at}
}

func newChat(id domain.ChatID, other domain.User, at time.Time, messages ...domain.Message) domain.Chat {
	return domain.Chat{
		ID:            id,
		Participants:  []domain.User{me, other},
		Messages:      messages,
		LastMessageAt: at,
	}
}

type storeFixture struct {
	store   *ConversationStore
	clock   *fixedClock
	replies chan domain.PendingReply
	events  chan event.DomainEvent
}

func newStore(t *testing.T, trigger alwaysReply, chats ...domain.Chat) storeFixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	clock := &fixedClock{now: t0}
	replies := make(chan domain.PendingReply, 10)
	events := make(chan event.DomainEvent, 100)
	store := NewConversationStore(log, me, chats, clock, trigger, replies, events, 2*time.Second)
	return storeFixture{store: store, clock: clock, replies: replies, events: events}
}

func drain(events chan event.DomainEvent) []event.DomainEvent {
	var res []event.DomainEvent
	for {
		select {
		case e := <-events:
			res = append(res, e)
		default:
			return res
		}
	}
}

// requireNoDrift checks the active chat equals its canonical entry.
func requireNoDrift(t *testing.T, store *ConversationStore) {
	t.Helper()
	active, ok := store.ActiveChat()
	require.True(t, ok)
	canonical, ok := store.Chat(active.ID)
	require.True(t, ok)
	require.Equal(t, canonical, active)
}

func TestConversationStore_SelectChat_MarksIncomingMessagesRead(t *testing.T) {
	req := require.New(t)
	alice := contact("alice", "Alice")
	chat := newChat("A", alice, t0,
		incoming("m1", alice.ID, t0.Add(-3*time.Minute)),
		domain.Message{ID: "m2", Text: "mine", SenderID: me.ID, CreatedAt: t0.Add(-2 * time.Minute)},
		incoming("m3", alice.ID, t0.Add(-time.Minute)),
		incoming("m4", alice.ID, t0),
	)
	chat.UnreadCount = 3
	f := newStore(t, false, chat)

	// When the chat with 3 unread messages is selected
	req.NoError(f.store.SelectChat("A"))

	// Then unread is reset and every incoming message is read
	got, ok := f.store.Chat("A")
	req.True(ok)
	req.Equal(0, got.UnreadCount)
	for _, m := range got.Messages {
		if m.SenderID == me.ID {
			req.False(m.Read, "local messages are untouched")
			continue
		}
		req.True(m.Read)
	}

	// And the selection mirrors the canonical entry
	requireNoDrift(t, f.store)

	events := drain(f.events)
	req.Len(events, 1)
	req.Equal(event.ChatSelected{Chat: "A", At: t0}, events[0])
}

func TestConversationStore_SelectChat_UnknownIsNoop(t *testing.T) {
	req := require.New(t)
	f := newStore(t, false, newChat("A", contact("alice", "Alice"), t0))
	req.NoError(f.store.SelectChat("A"))
	drain(f.events)

	err := f.store.SelectChat("missing")

	req.ErrorIs(err, errors.ErrChatNotFound)
	active, ok := f.store.ActiveChat()
	req.True(ok)
	req.Equal(domain.ChatID("A"), active.ID)
	req.Empty(drain(f.events))
}

func TestConversationStore_SelectChat_OnlyOneActive(t *testing.T) {
	req := require.New(t)
	f := newStore(t, false,
		newChat("A", contact("alice", "Alice"), t0),
		newChat("B", contact("bob", "Bob"), t0),
	)

	req.NoError(f.store.SelectChat("A"))
	req.NoError(f.store.SelectChat("B"))

	active, ok := f.store.ActiveChat()
	req.True(ok)
	req.Equal(domain.ChatID("B"), active.ID)

	f.store.ClearSelection()
	_, ok = f.store.ActiveChat()
	req.False(ok)
}

func TestConversationStore_SendMessage_OnEmptyChat(t *testing.T) {
	req := require.New(t)
	f := newStore(t, false, newChat("A", contact("alice", "Alice"), t0.Add(-time.Hour)))
	f.clock.now = t0

	msg, err := f.store.SendMessage("A", "hi")
	req.NoError(err)

	got, _ := f.store.Chat("A")
	req.Len(got.Messages, 1)
	last := got.Messages[0]
	req.Equal(msg, last)
	req.Equal("hi", last.Text)
	req.Equal(me.ID, last.SenderID)
	req.False(last.Read)
	req.NotEmpty(last.ID)
	req.Equal(t0, last.CreatedAt)
	req.Equal(last.CreatedAt, got.LastMessageAt)

	// No reply scheduled when the trigger does not fire
	req.Empty(f.replies)
}

func TestConversationStore_SendMessage_ActiveChatStaysInSync(t *testing.T) {
	req := require.New(t)
	f := newStore(t, false, newChat("A", contact("alice", "Alice"), t0))
	req.NoError(f.store.SelectChat("A"))

	_, err := f.store.SendMessage("A", "first")
	req.NoError(err)
	_, err = f.store.SendMessage("A", "second")
	req.NoError(err)

	requireNoDrift(t, f.store)
	active, _ := f.store.ActiveChat()
	req.Len(active.Messages, 2)
	req.Equal("second", active.Messages[1].Text)
}

func TestConversationStore_SendMessage_RejectsBlankText(t *testing.T) {
	req := require.New(t)
	f := newStore(t, true, newChat("A", contact("alice", "Alice"), t0))

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := f.store.SendMessage("A", text)
		req.ErrorIs(err, errors.ErrInvalidInput)
	}

	got, _ := f.store.Chat("A")
	req.Empty(got.Messages)
	req.Empty(f.replies)
	req.Empty(drain(f.events))
}

func TestConversationStore_SendMessage_UnknownChat(t *testing.T) {
	f := newStore(t, true, newChat("A", contact("alice", "Alice"), t0))

	_, err := f.store.SendMessage("missing", "hi")
	require.ErrorIs(t, err, errors.ErrChatNotFound)

	_, err = f.store.SendMessage("", "hi")
	require.ErrorIs(t, err, errors.ErrChatNotFound)
	require.NotErrorIs(t, err, errors.ErrInvalidInput)

	require.Empty(t, f.replies)
}

func TestConversationStore_SendMessage_SchedulesReply(t *testing.T) {
	req := require.New(t)
	f := newStore(t, true, newChat("A", contact("alice", "Alice"), t0))

	_, err := f.store.SendMessage("A", "ping")
	req.NoError(err)

	req.Len(f.replies, 1)
	reply := <-f.replies
	req.Equal(domain.PendingReply{
		ChatID:      "A",
		Text:        "Reply to: ping",
		ScheduledAt: t0,
		DueAt:       t0.Add(2 * time.Second),
	}, reply)
}

func TestConversationStore_SendMessage_UsesTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	trigger := mocks.NewMockReplyTrigger(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	replies := make(chan domain.PendingReply, 10)
	store := NewConversationStore(log, me,
		[]domain.Chat{newChat("A", contact("alice", "Alice"), t0)},
		&fixedClock{now: t0}, trigger, replies, nil, time.Second)

	// Given the trigger fires once out of two sends
	gomock.InOrder(
		trigger.EXPECT().ShouldReply().Return(true),
		trigger.EXPECT().ShouldReply().Return(false),
	)

	_, err := store.SendMessage("A", "one")
	require.NoError(t, err)
	_, err = store.SendMessage("A", "two")
	require.NoError(t, err)

	// Then a single reply is queued
	require.Len(t, replies, 1)
}

func TestConversationStore_SendMessage_FullReplyQueueDropsReply(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	replies := make(chan domain.PendingReply, 1)
	store := NewConversationStore(log, me,
		[]domain.Chat{newChat("A", contact("alice", "Alice"), t0)},
		&fixedClock{now: t0}, alwaysReply(true), replies, nil, time.Second)

	_, err := store.SendMessage("A", "one")
	req.NoError(err)
	_, err = store.SendMessage("A", "two")
	req.NoError(err)

	req.Len(replies, 1)
	got, _ := store.Chat("A")
	req.Len(got.Messages, 2)
}

func TestConversationStore_ReceiveReply_InactiveChatCountsUnread(t *testing.T) {
	req := require.New(t)
	alice := contact("alice", "Alice")
	bob := contact("bob", "Bob")
	f := newStore(t, false, newChat("A", alice, t0), newChat("B", bob, t0))

	// Given B is active while a reply arrives for A
	req.NoError(f.store.SelectChat("B"))
	f.clock.now = t0.Add(2 * time.Second)

	msg, err := f.store.ReceiveReply("A", "Reply to: hi")
	req.NoError(err)

	// Then the reply is authored by A's participant, not B's
	req.Equal(alice.ID, msg.SenderID)
	req.False(msg.Read)

	got, _ := f.store.Chat("A")
	req.Equal(1, got.UnreadCount)
	req.Equal(f.clock.now, got.LastMessageAt)
	req.Equal("Reply to: hi", got.Messages[len(got.Messages)-1].Text)

	// And the active chat is untouched
	active, _ := f.store.ActiveChat()
	req.Equal(domain.ChatID("B"), active.ID)
	req.Empty(active.Messages)
}

func TestConversationStore_ReceiveReply_ActiveChatStaysRead(t *testing.T) {
	req := require.New(t)
	alice := contact("alice", "Alice")
	f := newStore(t, false, newChat("A", alice, t0))
	req.NoError(f.store.SelectChat("A"))
	drain(f.events)

	_, err := f.store.ReceiveReply("A", "Reply to: hi")
	req.NoError(err)
	_, err = f.store.ReceiveReply("A", "Reply to: again")
	req.NoError(err)

	active, _ := f.store.ActiveChat()
	req.Equal(0, active.UnreadCount)
	req.Len(active.Messages, 2)
	req.True(active.Messages[0].Read)
	requireNoDrift(t, f.store)

	events := drain(f.events)
	req.Len(events, 2)
	received, ok := events[0].(event.ReplyReceived)
	req.True(ok)
	req.Equal(domain.ChatID("A"), received.Chat)
	req.Equal(0, received.UnreadCount)
}

func TestConversationStore_ReceiveReply_Errors(t *testing.T) {
	req := require.New(t)
	lonely := domain.Chat{ID: "solo", Participants: []domain.User{me}, LastMessageAt: t0}
	f := newStore(t, false, lonely)

	_, err := f.store.ReceiveReply("missing", "x")
	req.ErrorIs(err, errors.ErrChatNotFound)

	_, err = f.store.ReceiveReply("solo", "x")
	req.ErrorIs(err, errors.ErrNoParticipant)
}

func TestConversationStore_TogglePinAndMute_AreInvolutions(t *testing.T) {
	req := require.New(t)
	f := newStore(t, false, newChat("A", contact("alice", "Alice"), t0))
	req.NoError(f.store.SelectChat("A"))
	drain(f.events)

	pinned, err := f.store.TogglePin("A")
	req.NoError(err)
	req.True(pinned)
	requireNoDrift(t, f.store)
	active, _ := f.store.ActiveChat()
	req.True(active.IsPinned)

	pinned, err = f.store.TogglePin("A")
	req.NoError(err)
	req.False(pinned)

	mutedState, err := f.store.ToggleMute("A")
	req.NoError(err)
	req.True(mutedState)
	requireNoDrift(t, f.store)
	mutedState, err = f.store.ToggleMute("A")
	req.NoError(err)
	req.False(mutedState)

	got, _ := f.store.Chat("A")
	req.False(got.IsPinned)
	req.False(got.IsMuted)

	req.Equal([]event.DomainEvent{
		event.ChatPinned{Chat: "A", Pinned: true},
		event.ChatPinned{Chat: "A", Pinned: false},
		event.ChatMuted{Chat: "A", Muted: true},
		event.ChatMuted{Chat: "A", Muted: false},
	}, drain(f.events))
}

func TestConversationStore_Toggle_UnknownChat(t *testing.T) {
	f := newStore(t, false)

	_, err := f.store.TogglePin("missing")
	require.ErrorIs(t, err, errors.ErrChatNotFound)
	_, err = f.store.ToggleMute("missing")
	require.ErrorIs(t, err, errors.ErrChatNotFound)
}

func TestConversationStore_StartVideoCall(t *testing.T) {
	req := require.New(t)
	alice := contact("alice", "Alice")
	f := newStore(t, false, newChat("A", alice, t0))

	_, err := f.store.StartVideoCall()
	req.ErrorIs(err, errors.ErrNoActiveChat)

	req.NoError(f.store.SelectChat("A"))
	drain(f.events)
	other, err := f.store.StartVideoCall()
	req.NoError(err)
	req.Equal(alice, other)
	req.Equal([]event.DomainEvent{event.VideoCallStarted{Chat: "A", Participant: "Alice"}}, drain(f.events))
}

func TestConversationStore_OrderedChats(t *testing.T) {
	req := require.New(t)
	a := newChat("A", contact("alice", "Alice"), t0)
	b := newChat("B", contact("bob", "Bob"), t0.Add(-time.Second))
	b.IsPinned = true
	f := newStore(t, false, a, b)

	ordered := f.store.OrderedChats("")
	req.Equal([]domain.ChatID{"B", "A"}, []domain.ChatID{ordered[0].ID, ordered[1].ID})

	filtered := f.store.OrderedChats("ali")
	req.Len(filtered, 1)
	req.Equal(domain.ChatID("A"), filtered[0].ID)
}

func TestConversationStore_AccessorsReturnCopies(t *testing.T) {
	req := require.New(t)
	alice := contact("alice", "Alice")
	f := newStore(t, false, newChat("A", alice, t0, incoming("m1", alice.ID, t0)))

	got, _ := f.store.Chat("A")
	got.Messages[0].Text = "tampered"
	got.IsPinned = true

	again, _ := f.store.Chat("A")
	req.Equal("hello m1", again.Messages[0].Text)
	req.False(again.IsPinned)
}

func TestConversationStore_SkipsDuplicateSeeds(t *testing.T) {
	a := newChat("A", contact("alice", "Alice"), t0)
	dup := newChat("A", contact("bob", "Bob"), t0)

	f := newStore(t, false, a, dup)

	chats := f.store.Chats()
	require.Len(t, chats, 1)
	require.Equal(t, "alice", chats[0].Participants[1].ID)
}
