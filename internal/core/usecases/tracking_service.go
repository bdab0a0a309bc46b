package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/metrics"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/telemetry"
)

// TrackingService re-plans a device's route whenever its location changes.
type TrackingService struct {
	routes    *RouteService
	publisher ports.EventPublisher
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(routes *RouteService, publisher ports.EventPublisher) *TrackingService {
	return &TrackingService{routes: routes, publisher: publisher}
}

// ProcessLocationUpdate plans from the reported location and publishes the
// route for the device. Every update is recomputed.
func (s *TrackingService) ProcessLocationUpdate(ctx context.Context, u *domain.LocationUpdate) error {
	ctx, span := telemetry.Tracer().Start(ctx, "TrackingService.ProcessLocationUpdate")
	defer span.End()
	span.SetAttributes(telemetry.AttrDeviceID.String(u.DeviceID))

	if u.DeviceID == "" {
		metrics.LocationUpdates.WithLabelValues("invalid").Inc()
		return fmt.Errorf("location update without device id")
	}
	if u.Time.IsZero() {
		u.Time = time.Now().UTC()
	}

	route, err := s.routes.Plan(ctx, u.Location, u.Strategy)
	if err != nil {
		metrics.LocationUpdates.WithLabelValues("error").Inc()
		return fmt.Errorf("plan route for %s: %w", u.DeviceID, err)
	}

	if err := s.publisher.PublishRoute(ctx, u.DeviceID, route); err != nil {
		metrics.LocationUpdates.WithLabelValues("error").Inc()
		return fmt.Errorf("publish route for %s: %w", u.DeviceID, err)
	}

	metrics.LocationUpdates.WithLabelValues("ok").Inc()
	return nil
}
