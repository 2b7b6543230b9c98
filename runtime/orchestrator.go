// Package runtime owns the conversation store and the workers around it.
// It orchestrates the system without containing presentation logic.
package runtime

import (
	"chat-mock/contract"
	"chat-mock/domain"
	"chat-mock/domain/event"
	"chat-mock/runtime/workers"
	"chat-mock/sink"
	"context"
	"log/slog"
	"sync"
	"time"
)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	clock          contract.Clock
	store          *ConversationStore
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	timeline       *sink.Timeline
	permanentSinks []contract.EventSink
	replies        chan domain.PendingReply
	domainEvents   chan event.DomainEvent
	sinkTimeout    time.Duration
	monitor        monitoring
}

type monitoring struct {
	interval             time.Duration
	lowCapacityThreshold int
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	registry contract.IRegistry,
	clock contract.Clock,
	trigger contract.ReplyTrigger,
	localUser domain.User,
	chats []domain.Chat,
	bufferSize int,
	replyDelay, sinkTimeout time.Duration,
) *Orchestrator {
	replies := make(chan domain.PendingReply, bufferSize)
	domainEvents := make(chan event.DomainEvent, bufferSize)
	return &Orchestrator{
		log:          log,
		clock:        clock,
		store:        NewConversationStore(log, localUser, chats, clock, trigger, replies, domainEvents, replyDelay),
		supervisor:   supervisor,
		registry:     registry,
		timeline:     sink.NewTimeline(),
		replies:      replies,
		domainEvents: domainEvents,
		sinkTimeout:  sinkTimeout,
	}
}

func (o *Orchestrator) Store() *ConversationStore {
	return o.store
}

func (o *Orchestrator) Timeline() *sink.Timeline {
	return o.timeline
}

// Add registers sinks receiving every event. Sinks added after Start are ignored.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Monitor enables periodic sampling of the queues and of the process stats.
// It must be called before Start. A non-positive interval disables it.
func (o *Orchestrator) Monitor(interval time.Duration, lowCapacityThreshold int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.monitor = monitoring{interval: interval, lowCapacityThreshold: lowCapacityThreshold}
}

// Follow subscribes a sink to the events of a single chat.
func (o *Orchestrator) Follow(subscriberID string, chatID domain.ChatID, s contract.EventSink) {
	o.registry.Subscribe(subscriberID, chatID, s)
}

func (o *Orchestrator) Unfollow(subscriberID string, chatID domain.ChatID) {
	o.registry.Unsubscribe(subscriberID, chatID)
}

// Start registers the reply scheduler and the event fanout on the supervisor
// and blocks until ctx is cancelled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	scheduler := workers.NewReplyScheduler(o.log, o.clock, o.replies, o.store)

	o.mu.Lock()
	sinks := append([]contract.EventSink{o.timeline}, o.permanentSinks...)
	fanout := workers.NewEventFanout(o.log, sinks, o.registry, o.domainEvents, o.sinkTimeout)
	o.supervisor.Add(scheduler, fanout)
	if o.monitor.interval > 0 {
		o.supervisor.Add(
			workers.NewChannelCapacityWorker(o.log, []workers.NamedChannel{
				{Name: "domain_events", Channel: o.domainEvents},
				{Name: "pending_replies", Channel: o.replies},
			}, o.monitor.interval, o.monitor.lowCapacityThreshold),
			workers.NewProcessStatsWorker(o.log, o.monitor.interval),
		)
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "sinks", len(sinks))
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised context. Pending replies are dropped.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
