package sink

import (
	"chat-mock/contract"
	"chat-mock/domain/event"
	"context"
)

var _ contract.EventSink = ChatFollower(nil)

// ChatFollower forwards the replies of a followed chat to a callback,
// typically the detail pane refreshing itself.
type ChatFollower func(ctx context.Context, evt event.ReplyReceived) error

func (f ChatFollower) Consume(ctx context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.ReplyReceived); ok {
		return f(ctx, evt)
	}
	return nil
}
