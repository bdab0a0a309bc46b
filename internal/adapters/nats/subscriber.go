package natsadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// Subscriber implements ports.LocationSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := Connect(url, "poi-subscriber")
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStreams(js); err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeLocations delivers device positions through a durable queue
// consumer so several trackers share the load. Malformed messages are
// terminated; handler failures are redelivered up to three times.
func (s *Subscriber) SubscribeLocations(ctx context.Context, handler func(ctx context.Context, u *domain.LocationUpdate) error) error {
	sub, err := s.js.QueueSubscribe(LocationSubjects, "tracker", func(msg *nats.Msg) {
		u, err := decodeLocation(msg.Subject, msg.Data)
		if err != nil {
			slog.Warn("dropping location message", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, u); err != nil {
			slog.Warn("location handler failed", "device", u.DeviceID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("location-tracker"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
