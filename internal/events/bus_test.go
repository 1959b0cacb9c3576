package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var discardLogger = zerolog.Nop()

type recordingSubscriber struct {
	mu     sync.Mutex
	got    []Event
	err    error
	notify chan struct{}
}

func newRecordingSubscriber() *recordingSubscriber {
	return &recordingSubscriber{notify: make(chan struct{}, channelBuffer)}
}

func (r *recordingSubscriber) Name() string { return "recorder" }

func (r *recordingSubscriber) Handle(_ context.Context, e Event) error {
	r.mu.Lock()
	r.got = append(r.got, e)
	r.mu.Unlock()
	r.notify <- struct{}{}
	return r.err
}

func (r *recordingSubscriber) wait(t *testing.T, n int) []Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d events", n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.got...)
}

func startBus(t *testing.T, subs ...Subscriber) *Bus {
	t.Helper()
	bus := NewBus(discardLogger)
	for _, s := range subs {
		bus.Subscribe(s)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	bus.Start(ctx)
	return bus
}

func TestBus_Publish_DeliversToAllSubscribers(t *testing.T) {
	first := newRecordingSubscriber()
	second := newRecordingSubscriber()
	bus := startBus(t, first, second)

	bus.Publish(Event{Type: ProjectCreated, ProjectID: "p-1"})

	for _, sub := range []*recordingSubscriber{first, second} {
		got := sub.wait(t, 1)
		if got[0].Type != ProjectCreated || got[0].ProjectID != "p-1" {
			t.Errorf("wrong event: %+v", got[0])
		}
	}
}

func TestBus_Publish_PreservesOrderPerSubscriber(t *testing.T) {
	sub := newRecordingSubscriber()
	bus := startBus(t, sub)

	bus.Publish(Event{Type: UserRegistered})
	bus.Publish(Event{Type: ProjectCreated})
	bus.Publish(Event{Type: ProjectStatusChanged})

	got := sub.wait(t, 3)
	want := []Type{UserRegistered, ProjectCreated, ProjectStatusChanged}
	for i, w := range want {
		if got[i].Type != w {
			t.Errorf("event %d: got %q, want %q", i, got[i].Type, w)
		}
	}
}

func TestBus_Publish_NoSubscribersIsSafe(t *testing.T) {
	bus := NewBus(discardLogger)
	bus.Publish(Event{Type: ContactReceived})
}

func TestBus_Publish_FullChannelDropsInsteadOfBlocking(t *testing.T) {
	// A subscriber that never drains lets its channel fill up.
	stuck := newRecordingSubscriber()
	bus := NewBus(discardLogger)
	bus.Subscribe(stuck)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			bus.Publish(Event{Type: FileUploaded})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full channel")
	}
}

func TestBus_SubscriberError_DoesNotStopDelivery(t *testing.T) {
	sub := newRecordingSubscriber()
	sub.err = errors.New("handler failed")
	bus := startBus(t, sub)

	bus.Publish(Event{Type: ProjectCreated})
	bus.Publish(Event{Type: ProjectStatusChanged})

	got := sub.wait(t, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}
