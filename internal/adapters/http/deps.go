package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/postgres"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/valkey"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
)

// LocationPublisher forwards device positions reported over the WebSocket.
type LocationPublisher interface {
	PublishLocation(ctx context.Context, u *domain.LocationUpdate) error
}

// Dependencies holds all services needed by HTTP handlers.
// Infrastructure fields are nil when the component is not configured.
type Dependencies struct {
	Points    *usecases.PointService
	Routes    *usecases.RouteService
	Locations LocationPublisher
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
	DocsPath  string // OpenAPI document served at /docs/openapi.yaml
}
