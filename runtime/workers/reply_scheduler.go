package workers

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"context"
	"log/slog"
)

var _ contract.Worker = (*ReplyScheduler)(nil)

// ReplyScheduler is the delayed queue of simulated replies.
//
// Replies share one fixed delay, so FIFO order of the queue is also the order
// of their due times: a single loop waiting for the head is enough. Replies are
// never cancelled; stopping the worker drops what is still queued.
type ReplyScheduler struct {
	log      *slog.Logger
	clock    contract.Clock
	pending  <-chan domain.PendingReply
	receiver contract.ReplyReceiver
}

func NewReplyScheduler(
	log *slog.Logger,
	clock contract.Clock,
	pending <-chan domain.PendingReply,
	receiver contract.ReplyReceiver,
) *ReplyScheduler {
	return &ReplyScheduler{log: log, clock: clock, pending: pending, receiver: receiver}
}

func (w *ReplyScheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping reply scheduler")
			return nil
		case reply, ok := <-w.pending:
			if !ok {
				w.log.Debug("Reply queue closed")
				return nil
			}
			if !w.wait(ctx, reply) {
				return nil
			}
			w.deliver(reply)
		}
	}
}

// wait blocks until the reply is due. It returns false when ctx ends first.
func (w *ReplyScheduler) wait(ctx context.Context, reply domain.PendingReply) bool {
	delay := reply.DueAt.Sub(w.clock.Now())
	if delay <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-w.clock.After(delay):
		return true
	}
}

func (w *ReplyScheduler) deliver(reply domain.PendingReply) {
	message, err := w.receiver.ReceiveReply(reply.ChatID, reply.Text)
	if err != nil {
		w.log.Warn("Simulated reply skipped", "chat_id", reply.ChatID, "error", err)
		return
	}
	w.log.Debug("Simulated reply delivered",
		"chat_id", reply.ChatID, "message_id", message.ID, "delay", message.CreatedAt.Sub(reply.ScheduledAt))
}
