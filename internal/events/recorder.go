package events

import (
	"context"
	"sync"
)

// Recorded is one event captured by a Recorder.
type Recorded struct {
	Topic string
	Event any
}

// Recorder keeps published events in memory. Handy for tests and for
// inspecting what the service would have published.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func (r *Recorder) Publish(_ context.Context, topic string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Topic: topic, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}
