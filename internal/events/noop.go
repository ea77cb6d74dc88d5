package events

import "context"

// NoopPublisher discards every event. Used when NATS_URL is not set.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
