package natsadapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// Subject layout:
//
//	poi.location.<device>       device -> tracker, LocationUpdate JSON
//	poi.route.<strategy>        every planned route, Route JSON
//	                            (StrategyRoutes matches only these)
//	poi.route.device.<device>   tracker -> device, Route JSON
//	poi.updates.broadcast       free-form fan-out
const (
	locationPrefix    = "poi.location."
	routePrefix       = "poi.route."
	deviceRoutePrefix = "poi.route.device."

	LocationSubjects  = locationPrefix + ">"
	RouteSubjects     = routePrefix + ">"
	StrategyRoutes    = routePrefix + "*"
	BroadcastSubject  = "poi.updates.broadcast"
	deviceTokenEscape = "_"
)

var tokenReplacer = strings.NewReplacer(".", deviceTokenEscape, "*", deviceTokenEscape, ">", deviceTokenEscape, " ", deviceTokenEscape)

// token makes s safe to use as a single subject token.
func token(s string) string {
	if s == "" {
		return deviceTokenEscape
	}
	return tokenReplacer.Replace(s)
}

// LocationSubject is where a device reports its position.
func LocationSubject(deviceID string) string { return locationPrefix + token(deviceID) }

// RouteSubject carries every route planned with strategy.
func RouteSubject(strategy domain.Strategy) string { return routePrefix + token(string(strategy)) }

// DeviceRouteSubject carries the routes planned for one device.
func DeviceRouteSubject(deviceID string) string { return deviceRoutePrefix + token(deviceID) }

// decodeLocation parses a location message. A missing device id is taken
// from the subject.
func decodeLocation(subject string, data []byte) (*domain.LocationUpdate, error) {
	var u domain.LocationUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	if u.DeviceID == "" {
		u.DeviceID = strings.TrimPrefix(subject, locationPrefix)
	}
	if err := u.Location.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}
