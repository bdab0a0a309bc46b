package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// Publisher implements ports.EventPublisher and ports.RoutePresenter using
// NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// Connect dials NATS with the reconnect policy shared by every component.
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// Streams are created or updated on startup.
var Streams = []nats.StreamConfig{
	{
		Name:      "POI_LOCATIONS",
		Subjects:  []string{LocationSubjects},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    10 * time.Minute,
		Storage:   nats.FileStorage,
	},
	{
		Name:              "POI_ROUTES",
		Subjects:          []string{RouteSubjects},
		Retention:         nats.LimitsPolicy,
		MaxAge:            1 * time.Hour,
		MaxMsgsPerSubject: 16,
		Storage:           nats.FileStorage,
	},
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url, "poi-publisher")
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

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	for _, cfg := range Streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

// Present publishes every planned route on its strategy subject.
func (p *Publisher) Present(ctx context.Context, route domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(RouteSubject(route.Strategy), data, nats.Context(ctx))
	return err
}

// PublishRoute sends a route to one device.
func (p *Publisher) PublishRoute(ctx context.Context, deviceID string, route *domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(DeviceRouteSubject(deviceID), data, nats.Context(ctx))
	return err
}

// PublishLocation reports a device position for the tracker.
func (p *Publisher) PublishLocation(ctx context.Context, u *domain.LocationUpdate) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(LocationSubject(u.DeviceID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish(BroadcastSubject, data)
}

// Conn exposes the underlying connection for core subscriptions.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
