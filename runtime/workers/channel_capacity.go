package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

type ChannelUsage struct {
	Name     string
	Length   int
	Capacity int
}

// Left is the room remaining before a send would block or be dropped.
func (u ChannelUsage) Left() int {
	return u.Capacity - u.Length
}

// ChannelCapacityWorker periodically samples the length and capacity of the
// event and reply queues. Reading len and cap never blocks, so sampling does
// not interfere with producers or consumers.
type ChannelCapacityWorker struct {
	log                  *slog.Logger
	channels             []NamedChannel
	interval             time.Duration
	lowCapacityThreshold int
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	interval time.Duration, lowCapacityThreshold int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:                  log,
		channels:             channels,
		interval:             interval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel capacity sampling")
			return nil
		case <-ticker.C:
			for _, usage := range w.Sample() {
				w.report(usage)
			}
		}
	}
}

// Sample reads the current usage of every monitored channel.
// Values that are not channels are skipped.
func (w *ChannelCapacityWorker) Sample() []ChannelUsage {
	usages := make([]ChannelUsage, 0, len(w.channels))
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		usages = append(usages, ChannelUsage{Name: nc.Name, Length: v.Len(), Capacity: v.Cap()})
	}
	return usages
}

func (w *ChannelCapacityWorker) report(u ChannelUsage) {
	w.log.Debug("Channel usage", "channel", u.Name, "length", u.Length, "capacity", u.Capacity)
	if u.Capacity <= 0 {
		// unbuffered
		return
	}
	if u.Left() <= w.lowCapacityThreshold {
		w.log.Warn("Channel close to full, events may be dropped", "channel", u.Name, "left", u.Left())
	}
}
