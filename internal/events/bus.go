package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"storefront/pkg/logkey"
)

// DefaultBuffer is the queue size used when NewBus is given a non-positive one.
const DefaultBuffer = 256

// drainTimeout bounds delivery of events still queued at shutdown.
const drainTimeout = 5 * time.Second

// Sink receives every event in publish order.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Bus decouples the publishers, which must never block, from the sinks.
// Publish enqueues; Run delivers. A full queue drops the event.
type Bus struct {
	queue   chan Event
	sinks   []Sink
	dropped atomic.Uint64

	closeOnce sync.Once
	closed    chan struct{}
}

func NewBus(buffer int, sinks ...Sink) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		queue:  make(chan Event, buffer),
		sinks:  sinks,
		closed: make(chan struct{}),
	}
}

// Publish enqueues the events without blocking, keeping their order.
func (b *Bus) Publish(evs ...Event) {
	for _, ev := range evs {
		select {
		case <-b.closed:
			return
		default:
		}
		select {
		case b.queue <- ev:
		default:
			b.dropped.Add(1)
			slog.Warn("event queue full, dropping event", slog.String(logkey.Event, string(ev.Name)))
		}
	}
}

// Dropped is the number of events lost to a full queue.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Close stops accepting events. Run delivers what is already queued and returns.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// Run delivers queued events until ctx is cancelled or the bus is closed,
// then drains whatever is left with a short deadline.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case ev := <-b.queue:
			b.deliver(ctx, ev)
		case <-ctx.Done():
			b.drain()
			return
		case <-b.closed:
			b.drain()
			return
		}
	}
}

func (b *Bus) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-b.queue:
			b.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (b *Bus) deliver(ctx context.Context, ev Event) {
	for _, s := range b.sinks {
		if err := s.Deliver(ctx, ev); err != nil {
			slog.Error("event delivery failed",
				slog.String(logkey.Event, string(ev.Name)),
				slog.String("sink", s.Name()),
				slog.String(logkey.ERROR, err.Error()))
		}
	}
}
