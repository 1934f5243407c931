// Package nop provides the event publisher used when eventstream.driver is
// "nop" or unset: events are checked and then dropped.
package nop

import (
	"context"

	"github.com/papercomputeco/disrello/pkg/eventstream"
)

var _ eventstream.Publisher = (*Publisher)(nil)

// Publisher drops every board event.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish rejects a nil event like the kafka publisher does and discards
// anything else.
func (*Publisher) Publish(_ context.Context, event *eventstream.Event) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

func (*Publisher) Close() error { return nil }
