// Package stream carries the stop-store change feed. Writers publish one
// event per affected reference; the notifier consumes them.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
)

const (
	SubjectStopChanges = "fleetadmin.stops.changes"

	retryInterval = 5 * time.Second
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent mirrors the store's {eventType, old, new} change payload.
// Old is nil for inserts, New is nil for deletes.
type ChangeEvent struct {
	Type  EventType          `json:"event_type"`
	Table string             `json:"table"`
	Old   *models.StopRecord `json:"old,omitempty"`
	New   *models.StopRecord `json:"new,omitempty"`
}

// Publisher is the write side of the feed. Repositories hold this interface
// so tests can swap in a recorder.
type Publisher interface {
	PublishChange(ev ChangeEvent) error
}

// Feed is the NATS-backed implementation of both sides of the change feed.
type Feed struct {
	nc *nats.Conn
}

func Connect(url string) (*Feed, error) {
	nc, err := nats.Connect(url,
		nats.Name("fleetadmin"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Feed{nc: nc}, nil
}

// Close is safe on a nil feed so callers can defer it unconditionally.
func (f *Feed) Close() {
	if f != nil && f.nc != nil {
		_ = f.nc.Drain()
		f.nc.Close()
	}
}

func (f *Feed) PublishChange(ev ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return f.nc.Publish(SubjectStopChanges, data)
}

// Listen subscribes to the change feed and invokes handler for every event.
// A failed subscribe is retried every 5 seconds for as long as ctx lives;
// subscription errors are logged, never returned to the operator.
func (f *Feed) Listen(ctx context.Context, handler func(ChangeEvent)) {
	for {
		sub, err := f.nc.Subscribe(SubjectStopChanges, func(msg *nats.Msg) {
			var ev ChangeEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				log.Printf("[FEED] action=decode msg=bad change event: %v", err)
				return
			}
			handler(ev)
		})
		if err != nil {
			subErr := domain.SubscriptionError{Subject: SubjectStopChanges, Err: err}
			log.Printf("[FEED] action=subscribe msg=%s, retrying in %s", subErr.Error(), retryInterval)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryInterval):
				continue
			}
		}

		<-ctx.Done()
		_ = sub.Unsubscribe()
		return
	}
}
