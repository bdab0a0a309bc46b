package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxOrderPoints  = 1000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report query/json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fe.Field()+" is required")
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), strings.TrimSpace(fe.Tag()+" "+fe.Param())))
	}
	return strings.Join(msgs, "; ")
}

// parseStrategy leaves an empty name empty so the service default applies.
func parseStrategy(name string) (domain.Strategy, error) {
	if name == "" {
		return "", nil
	}
	return domain.ParseStrategy(name)
}

type nearbyQuery struct {
	Lat    *float64 `query:"lat" validate:"required,latitude"`
	Lon    *float64 `query:"lon" validate:"required,longitude"`
	Radius float64  `query:"radius" validate:"omitempty,gt=0,lte=50000"`
	Limit  int      `query:"limit" validate:"omitempty,gte=1,lte=50"`
}

type routeQuery struct {
	Lat      *float64 `query:"lat" validate:"required,latitude"`
	Lon      *float64 `query:"lon" validate:"required,longitude"`
	Strategy string   `query:"strategy"`
}

// orderRequest is the body of POST /v1/route.
type orderRequest struct {
	Reference domain.Coordinate `json:"reference"`
	Strategy  string            `json:"strategy"`
	Points    []domain.POI      `json:"points" validate:"dive"`
}

// ListPointsHandler returns one page of the point catalogue.
func ListPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, defaultPageSize, maxPageSize)

		pois, total, err := deps.Points.List(c.UserContext(), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		if pois == nil {
			pois = []domain.POI{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: pois, Pagination: pg})
	}
}

// NearbyPointsHandler returns points within a radius of lat/lon, closest first.
func NearbyPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q nearbyQuery
		if err := c.QueryParser(&q); err != nil {
			return errBadRequest(c, "invalid query: "+err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return errBadRequest(c, validationMessage(err))
		}

		pois, err := deps.Points.FindNearby(c.UserContext(), domain.Coordinate{Lat: *q.Lat, Lon: *q.Lon}, q.Radius, q.Limit)
		if err != nil {
			return respondError(c, err)
		}
		if pois == nil {
			pois = []domain.POI{}
		}
		return c.JSON(pois)
	}
}

// GetPointHandler returns a single point by ID.
func GetPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "point id is required")
		}

		poi, err := deps.Points.GetByID(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		if poi == nil {
			return errNotFound(c, "point not found")
		}
		return c.JSON(poi)
	}
}

// PlanRouteHandler orders the current point set from the lat/lon reference.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q routeQuery
		if err := c.QueryParser(&q); err != nil {
			return errBadRequest(c, "invalid query: "+err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return errBadRequest(c, validationMessage(err))
		}
		strategy, err := parseStrategy(q.Strategy)
		if err != nil {
			return respondError(c, err)
		}

		route, err := deps.Routes.Plan(c.UserContext(), domain.Coordinate{Lat: *q.Lat, Lon: *q.Lon}, strategy)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(route)
	}
}

// OrderRouteHandler orders the points supplied in the request body.
func OrderRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req orderRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) > maxOrderPoints {
			return errUnprocessable(c, fmt.Sprintf("at most %d points per request", maxOrderPoints))
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, validationMessage(err))
		}
		strategy, err := parseStrategy(req.Strategy)
		if err != nil {
			return respondError(c, err)
		}

		route, err := deps.Routes.Order(c.UserContext(), req.Points, req.Reference, strategy)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(route)
	}
}
