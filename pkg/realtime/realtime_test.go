package realtime

import (
	"sync"
	"testing"
	"time"
)

func TestPublishFansOut(t *testing.T) {
	hub := NewHub(4)
	id1, ch1 := hub.Register()
	id2, ch2 := hub.Register()
	defer hub.Unregister(id1)
	defer hub.Unregister(id2)

	hub.Publish(Event{Type: ReindexStarted, JobID: "job-1"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != ReindexStarted || ev.JobID != "job-1" {
				t.Errorf("listener %d: unexpected event %+v", i, ev)
			}
			if ev.Time.IsZero() {
				t.Errorf("listener %d: expected event time to be set", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("listener %d: timed out waiting for event", i)
		}
	}
}

func TestSlowListenerDropsEvents(t *testing.T) {
	hub := NewHub(1)
	id, ch := hub.Register()
	defer hub.Unregister(id)

	hub.Publish(Event{Type: ReindexStarted})
	hub.Publish(Event{Type: ReindexFinished})

	ev := <-ch
	if ev.Type != ReindexStarted {
		t.Errorf("Expected first event to be kept, got %s", ev.Type)
	}
	select {
	case ev := <-ch:
		t.Errorf("Expected second event to be dropped, got %+v", ev)
	default:
	}
}

func TestUnregister(t *testing.T) {
	hub := NewHub(0)
	id, ch := hub.Register()
	if hub.Size() != 1 {
		t.Fatalf("Expected 1 listener, got %d", hub.Size())
	}

	hub.Unregister(id)
	hub.Unregister(id)
	if hub.Size() != 0 {
		t.Errorf("Expected 0 listeners, got %d", hub.Size())
	}
	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}
}

func TestNilHubPublish(t *testing.T) {
	var hub *Hub
	hub.Publish(Event{Type: ReindexFailed})
}

func TestConcurrentPublish(t *testing.T) {
	hub := NewHub(100)
	id, ch := hub.Register()
	defer hub.Unregister(id)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(Event{Type: ReindexFinished})
		}()
	}
	wg.Wait()

	if len(ch) != 10 {
		t.Errorf("Expected 10 buffered events, got %d", len(ch))
	}
}
