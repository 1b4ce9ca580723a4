// internal/adapter/feed/nats.go

package feed

import (
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// EventFeed is the realtime change channel for the events table, carried
// over NATS. Writers publish a change kind ("insert", "update", "delete")
// after mutating the table; subscribers refetch the whole collection on
// any of them.
type EventFeed struct {
	conn    *nats.Conn
	subject string
}

// NewEventFeed creates a change feed on the given subject
func NewEventFeed(conn *nats.Conn, subject string) *EventFeed {
	return &EventFeed{
		conn:    conn,
		subject: subject,
	}
}

// Subscribe registers a handler for change notifications. The returned
// function unsubscribes and releases the underlying NATS subscription.
func (f *EventFeed) Subscribe(handler func()) (func(), error) {
	sub, err := f.conn.Subscribe(f.subject, func(msg *nats.Msg) {
		handler()
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", f.subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("event feed: unsubscribe failed: %v", err)
		}
	}, nil
}

// Notify publishes a change notification
func (f *EventFeed) Notify(change string) error {
	if err := f.conn.Publish(f.subject, []byte(change)); err != nil {
		return fmt.Errorf("publish to %s: %w", f.subject, err)
	}
	return nil
}
