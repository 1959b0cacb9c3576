package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api/metrics"
)

const channelBuffer = 64

// Subscriber consumes domain events. Handle errors are logged and swallowed;
// a subscriber can never fail the operation that emitted the event.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, e Event) error
}

// Bus fans events out to its subscribers over per-subscriber buffered
// channels. Delivery is fire-and-forget: a full channel drops the event, and
// nothing is retried or persisted for disconnected recipients.
type Bus struct {
	subs []subscription
	log  zerolog.Logger
}

type subscription struct {
	sub Subscriber
	ch  chan Event
}

// NewBus creates an empty bus. Subscribe before Start.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe registers a subscriber. Not safe to call after Start.
func (b *Bus) Subscribe(sub Subscriber) {
	b.subs = append(b.subs, subscription{sub: sub, ch: make(chan Event, channelBuffer)})
}

// Start launches one delivery goroutine per subscriber. Goroutines stop when
// ctx is cancelled.
func (b *Bus) Start(ctx context.Context) {
	for _, s := range b.subs {
		go b.deliver(ctx, s)
	}
}

// Publish hands the event to every subscriber channel without blocking.
func (b *Bus) Publish(e Event) {
	metrics.EventsPublishedTotal.WithLabelValues(string(e.Type)).Inc()
	for _, s := range b.subs {
		select {
		case s.ch <- e:
		default:
			b.log.Warn().
				Str("subscriber", s.sub.Name()).
				Str("event", string(e.Type)).
				Msg("event dropped, subscriber channel full")
		}
	}
}

func (b *Bus) deliver(ctx context.Context, s subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-s.ch:
			if !ok {
				return
			}
			if err := s.sub.Handle(ctx, e); err != nil {
				b.log.Error().Err(err).
					Str("subscriber", s.sub.Name()).
					Str("event", string(e.Type)).
					Msg("event handling failed")
			}
		}
	}
}
