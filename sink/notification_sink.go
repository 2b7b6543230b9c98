package sink

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"chat-mock/domain/event"
	"context"
	"fmt"
	"log/slog"
)

var _ contract.EventSink = (*NotificationSink)(nil)

// NotificationSink turns user-facing events into toasts.
// Events without a toast are ignored.
type NotificationSink struct {
	notifier contract.Notifier
	log      *slog.Logger
}

func NewNotificationSink(notifier contract.Notifier, log *slog.Logger) *NotificationSink {
	return &NotificationSink{notifier: notifier, log: log}
}

func (s *NotificationSink) Consume(ctx context.Context, e event.DomainEvent) error {
	toast, ok := ToToast(e)
	if !ok {
		return nil
	}
	if err := s.notifier.Notify(ctx, toast); err != nil {
		return fmt.Errorf("notify %s: %w", e.Type(), err)
	}
	s.log.Debug("Toast sent", "type", e.Type(), "title", toast.Title)
	return nil
}

// ToToast maps an event to the toast shown for it.
func ToToast(e event.DomainEvent) (domain.Toast, bool) {
	switch evt := e.(type) {
	case event.ChatPinned:
		if evt.Pinned {
			return domain.Toast{Title: "Chat pinned", Description: "Chat has been pinned to the top", Variant: domain.VariantDefault}, true
		}
		return domain.Toast{Title: "Chat unpinned", Description: "Chat has been removed from pinned", Variant: domain.VariantDefault}, true
	case event.ChatMuted:
		if evt.Muted {
			return domain.Toast{Title: "Chat muted", Description: "You won't receive notifications", Variant: domain.VariantDefault}, true
		}
		return domain.Toast{Title: "Chat unmuted", Description: "You will now receive notifications", Variant: domain.VariantDefault}, true
	case event.VideoCallStarted:
		return domain.Toast{
			Title:       "Video call initiated",
			Description: fmt.Sprintf("Starting video call with %s", evt.Participant),
			Variant:     domain.VariantDefault,
		}, true
	}
	return domain.Toast{}, false
}
