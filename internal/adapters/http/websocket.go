package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/nats"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/metrics"
)

// wsMessage is sent by clients.
//
//	{"action":"subscribe","strategy":"exact"}          routes planned with one strategy
//	{"action":"subscribe","device":"phone-1"}          routes planned for one device
//	{"action":"unsubscribe", ...}                      same selectors
//	{"action":"locate","device":"phone-1","location":{"lat":..,"lon":..}}
type wsMessage struct {
	Action   string             `json:"action"`
	Device   string             `json:"device,omitempty"`
	Strategy string             `json:"strategy,omitempty"`
	Location *domain.Coordinate `json:"location,omitempty"`
}

// wsSubject maps a subscription selector onto its NATS subject. No selector
// means every strategy route.
func wsSubject(m wsMessage) (string, error) {
	switch {
	case m.Device != "":
		return natsadapter.DeviceRouteSubject(m.Device), nil
	case m.Strategy != "":
		s, err := domain.ParseStrategy(m.Strategy)
		if err != nil {
			return "", err
		}
		return natsadapter.RouteSubject(s), nil
	}
	return natsadapter.StrategyRoutes, nil
}

// locationUpdate validates a locate message.
func locationUpdate(m wsMessage) (*domain.LocationUpdate, error) {
	if m.Device == "" {
		return nil, errors.New("device is required")
	}
	if m.Location == nil {
		return nil, errors.New("location is required")
	}
	if err := m.Location.Validate(); err != nil {
		return nil, err
	}
	var strategy domain.Strategy
	if m.Strategy != "" {
		s, err := domain.ParseStrategy(m.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = s
	}
	return &domain.LocationUpdate{
		DeviceID: m.Device,
		Location: *m.Location,
		Strategy: strategy,
		Time:     time.Now().UTC(),
	}, nil
}

// WebSocketHandler relays planned routes from NATS to connected clients and
// forwards the positions they report to the tracker. New connections are
// subscribed to every strategy route.
func WebSocketHandler(nc *nats.Conn, locations LocationPublisher) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		log := slog.Default().With("remote", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) { _ = writeJSON(json.RawMessage(msg.Data)) }

		subs := make(map[string]*nats.Subscription)
		defer func() {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			log.Info("ws client disconnected")
		}()

		if nc != nil {
			sub, err := nc.Subscribe(natsadapter.StrategyRoutes, relay)
			if err != nil {
				log.Error("ws default subscribe failed", "error", err)
				return
			}
			subs[natsadapter.StrategyRoutes] = sub
		}

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}

			var m wsMessage
			if err := json.Unmarshal(data, &m); err != nil {
				_ = writeJSON(wsError("invalid JSON"))
				continue
			}

			switch m.Action {
			case "subscribe", "unsubscribe":
				if nc == nil {
					_ = writeJSON(wsError("route stream not available"))
					continue
				}
				subject, err := wsSubject(m)
				if err != nil {
					_ = writeJSON(wsError(err.Error()))
					continue
				}
				_ = writeJSON(toggleSubscription(nc, subs, m.Action, subject, relay))

			case "locate":
				u, err := locationUpdate(m)
				if err != nil {
					_ = writeJSON(wsError(err.Error()))
					continue
				}
				if locations == nil {
					_ = writeJSON(wsError("location updates not available"))
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err = locations.PublishLocation(ctx, u)
				cancel()
				if err != nil {
					log.Warn("ws publish location failed", "device", u.DeviceID, "error", err)
					_ = writeJSON(wsError("publish failed"))
					continue
				}
				_ = writeJSON(map[string]string{"status": "accepted", "device": u.DeviceID})

			default:
				_ = writeJSON(wsError("unknown action: " + m.Action))
			}
		}
	}
}

func toggleSubscription(nc *nats.Conn, subs map[string]*nats.Subscription, action, subject string, relay nats.MsgHandler) map[string]string {
	s, exists := subs[subject]
	if action == "unsubscribe" {
		if !exists {
			return wsError("not subscribed to " + subject)
		}
		_ = s.Unsubscribe()
		delete(subs, subject)
		return map[string]string{"status": "unsubscribed", "subject": subject}
	}

	if exists {
		return map[string]string{"status": "already subscribed", "subject": subject}
	}
	s, err := nc.Subscribe(subject, relay)
	if err != nil {
		return wsError("subscribe failed: " + err.Error())
	}
	subs[subject] = s
	return map[string]string{"status": "subscribed", "subject": subject}
}

func wsError(msg string) map[string]string {
	return map[string]string{"error": msg}
}
