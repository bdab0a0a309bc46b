package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/seed"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
)

func TestTrackingService_PublishesEveryUpdate(t *testing.T) {
	routes := usecases.NewRouteService(&mockProvider{points: seed.WinnipegPOIs()}, nil, nil, usecases.DefaultRoutingOptions())
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(routes, pub)

	u := &domain.LocationUpdate{DeviceID: "phone-1", Location: seed.DefaultReference, Strategy: domain.StrategyExact}
	for i := 0; i < 2; i++ {
		if err := svc.ProcessLocationUpdate(context.Background(), u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(pub.routes) != 2 {
		t.Fatalf("expected 2 publishes for 2 identical updates, got %d", len(pub.routes))
	}
	if pub.devices[0] != "phone-1" {
		t.Errorf("expected device phone-1, got %s", pub.devices[0])
	}
	if pub.routes[0].Points[0].Title != "Darlene's Dumplings" {
		t.Errorf("unexpected first stop %s", pub.routes[0].Points[0].Title)
	}
	if u.Time.IsZero() {
		t.Error("expected update time to be stamped")
	}
}

func TestTrackingService_MissingDevice(t *testing.T) {
	routes := usecases.NewRouteService(&mockProvider{}, nil, nil, usecases.DefaultRoutingOptions())
	svc := usecases.NewTrackingService(routes, &mockPublisher{})

	if err := svc.ProcessLocationUpdate(context.Background(), &domain.LocationUpdate{Location: seed.DefaultReference}); err == nil {
		t.Error("expected error for missing device id")
	}
}

func TestTrackingService_PublishError(t *testing.T) {
	boom := errors.New("nats down")
	routes := usecases.NewRouteService(&mockProvider{points: seed.WinnipegPOIs()}, nil, nil, usecases.DefaultRoutingOptions())
	svc := usecases.NewTrackingService(routes, &mockPublisher{err: boom})

	err := svc.ProcessLocationUpdate(context.Background(), &domain.LocationUpdate{DeviceID: "d", Location: seed.DefaultReference})
	if !errors.Is(err, boom) {
		t.Errorf("expected publish error, got %v", err)
	}
}

func TestTrackingService_InvalidLocation(t *testing.T) {
	routes := usecases.NewRouteService(&mockProvider{points: seed.WinnipegPOIs()}, nil, nil, usecases.DefaultRoutingOptions())
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(routes, pub)

	err := svc.ProcessLocationUpdate(context.Background(), &domain.LocationUpdate{DeviceID: "d", Location: domain.Coordinate{Lat: -95}})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if len(pub.routes) != 0 {
		t.Error("nothing should be published for an invalid location")
	}
}
