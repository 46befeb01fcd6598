package events

import (
	"context"

	"givepact/pkg/platform/sentinel"
)

// ChannelPublisher hands events to an in-process worker over a buffered
// channel. Used in dev mode when no broker is configured.
type ChannelPublisher struct {
	outbox chan<- Event
}

func NewChannelPublisher(outbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{outbox: outbox}
}

// Emit enqueues the event. A full outbox counts as an unavailable sink rather
// than blocking the caller's request.
func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.outbox <- event:
		return nil
	default:
		return sentinel.ErrUnavailable
	}
}
