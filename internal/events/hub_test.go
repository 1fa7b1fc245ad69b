package events

import (
	"testing"
	"time"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

func TestPublishFansOut(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	if hub.SubscriberCount() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", hub.SubscriberCount())
	}

	hub.Publish(Event{Type: TypeTaskCreated, Task: &domain.Task{ID: "t-1"}})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != TypeTaskCreated || ev.Task.ID != "t-1" {
				t.Fatalf("subscriber %d got wrong event: %+v", i, ev)
			}
			if ev.At.IsZero() {
				t.Fatalf("publish must stamp the event time")
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()

	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after cancel, got %d", hub.SubscriberCount())
	}
	if _, open := <-ch; open {
		t.Fatalf("channel should be closed after cancel")
	}

	// Cancel is safe to call twice
	cancel()

	// Publishing with no subscribers must not panic
	hub.Publish(Event{Type: TypeTaskUpdated})
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Overfill the subscriber buffer; Publish must drop, not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(Event{Type: TypeTaskUpdated, Task: &domain.Task{ID: "t"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a slow subscriber")
	}
}
