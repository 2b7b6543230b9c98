// Package ui renders the chat list and the active conversation on a terminal.
package ui

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const (
	todayLayout  = "15:04"
	olderLayout  = "02-Jan-06"
	dayLayout    = "January 2, 2006"
	emptyPreview = "No messages yet"
)

var _ contract.Notifier = (*Presenter)(nil)

var (
	accent      = color.New(color.FgGreen, color.OpBold)
	muted       = color.New(color.FgGray)
	destructive = color.New(color.FgWhite, color.BgRed)
	info        = color.New(color.FgBlack, color.BgGreen)
)

// View is what one render shows. Narrow selects the single-pane layout.
type View struct {
	Chats  []domain.Chat
	Active *domain.Chat
	Narrow bool
}

// Presenter writes views and toasts to out. Toasts may arrive from the event
// fanout goroutine, so writes are serialized.
type Presenter struct {
	mu        sync.Mutex
	out       io.Writer
	localUser domain.User
	clock     contract.Clock
	colors    bool
}

func NewPresenter(out io.Writer, localUser domain.User, clock contract.Clock, colors bool) *Presenter {
	return &Presenter{out: out, localUser: localUser, clock: clock, colors: colors}
}

// Render shows the list and the active chat. On a narrow viewport only one
// pane is shown: the chat when one is active, the list otherwise.
func (p *Presenter) Render(view View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	activeID := domain.ChatID("")
	if view.Active != nil {
		activeID = view.Active.ID
	}
	if !view.Narrow || view.Active == nil {
		p.renderChatList(view.Chats, activeID)
	}
	if view.Active != nil {
		p.renderChat(*view.Active)
	}
}

func (p *Presenter) RenderChatList(chats []domain.Chat, activeID domain.ChatID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderChatList(chats, activeID)
}

func (p *Presenter) RenderChat(chat domain.Chat) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderChat(chat)
}

// Notify prints a toast.
func (p *Presenter) Notify(_ context.Context, toast domain.Toast) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	style := info
	if toast.Variant == domain.VariantDestructive {
		style = destructive
	}
	_, err := fmt.Fprintf(p.out, "%s %s\n", p.paint(style, " "+toast.Title+" "), toast.Description)
	return err
}

func (p *Presenter) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Presenter) renderChatList(chats []domain.Chat, activeID domain.ChatID) {
	if len(chats) == 0 {
		_, _ = fmt.Fprintln(p.out, "No chats yet")
		return
	}
	now := p.clock.Now()

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"", "ID", "Chat", "Last message", "At", "Age", "Unread", "Flags"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, c := range chats {
		marker := ""
		if c.ID == activeID {
			marker = ">"
		}
		table.Append([]string{
			marker,
			string(c.ID),
			c.Initials(p.localUser.ID) + " " + c.DisplayName(p.localUser.ID),
			Preview(c, p.localUser.ID),
			ListTimestamp(c, now),
			age(c, now),
			unread(c.UnreadCount),
			flags(c),
		})
	}
	table.Render()
}

func (p *Presenter) renderChat(chat domain.Chat) {
	_, _ = fmt.Fprintf(p.out, "%s  %s\n",
		p.paint(accent, chat.DisplayName(p.localUser.ID)), p.paint(muted, p.subtitle(chat)))

	if len(chat.Messages) == 0 {
		_, _ = fmt.Fprintln(p.out, p.paint(muted, emptyPreview))
		return
	}
	for _, day := range domain.GroupMessagesByDay(chat.Messages) {
		_, _ = fmt.Fprintln(p.out, p.paint(muted, "--- "+day.Date.Format(dayLayout)+" ---"))
		previous := ""
		for _, m := range day.Messages {
			_, _ = fmt.Fprintln(p.out, p.messageLine(chat, m, m.SenderID != previous))
			previous = m.SenderID
		}
	}
}

// messageLine names the sender only when it changes, as a chat bubble would.
func (p *Presenter) messageLine(chat domain.Chat, m domain.Message, showSender bool) string {
	at := m.CreatedAt.Format(todayLayout)
	if m.SenderID == p.localUser.ID {
		tick := "✓"
		if m.Read {
			tick = "✓✓"
		}
		return fmt.Sprintf("%40s %s %s", m.Text, p.paint(muted, at), p.paint(accent, tick))
	}
	sender := ""
	if showSender {
		name := "?"
		if u, ok := chat.Participant(m.SenderID); ok {
			name = u.Name
		}
		sender = p.paint(accent, name) + ": "
	}
	return fmt.Sprintf("%s %s%s", p.paint(muted, at), sender, m.Text)
}

func (p *Presenter) subtitle(chat domain.Chat) string {
	others := chat.OtherParticipants(p.localUser.ID)
	if chat.IsGroupLike(p.localUser.ID) {
		names := make([]string, 0, len(others))
		for _, u := range others {
			names = append(names, u.Name)
		}
		return strings.Join(names, ", ")
	}
	if len(others) > 0 && others[0].IsOnline() {
		return "online"
	}
	return "offline"
}

func (p *Presenter) paint(style color.Style, s string) string {
	if !p.colors {
		return s
	}
	return style.Render(s)
}

// Preview is the last message line shown in the list.
func Preview(c domain.Chat, localID string) string {
	last, ok := c.LastMessage()
	if !ok {
		return emptyPreview
	}
	if last.SenderID == localID {
		return "You: " + last.Text
	}
	return last.Text
}

// ListTimestamp shows the time for messages of the current day, the date otherwise.
func ListTimestamp(c domain.Chat, now time.Time) string {
	last, ok := c.LastMessage()
	if !ok {
		return ""
	}
	at := last.CreatedAt.In(now.Location())
	y1, m1, d1 := at.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return at.Format(todayLayout)
	}
	return at.Format(olderLayout)
}

func age(c domain.Chat, now time.Time) string {
	if _, ok := c.LastMessage(); !ok {
		return ""
	}
	return humanize.RelTime(c.LastMessageAt, now, "ago", "from now")
}

func unread(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func flags(c domain.Chat) string {
	var f []string
	if c.IsPinned {
		f = append(f, "pinned")
	}
	if c.IsMuted {
		f = append(f, "muted")
	}
	return strings.Join(f, ",")
}
