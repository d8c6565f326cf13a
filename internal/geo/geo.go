package geo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/peterstace/simplefeatures/geom"

	"safelink-service/internal/model"
)

const (
	EarthRadiusKm     = 6371.0
	DefaultSpeedKmh   = 40.0
	DefaultRouteSteps = 20
)

// DistanceKm is the haversine great-circle distance on a spherical Earth.
func DistanceKm(a, b model.Location) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// ETAMinutes rounds travel time up to whole minutes. A non-positive speed
// falls back to DefaultSpeedKmh.
func ETAMinutes(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return int(math.Ceil(distanceKm / speedKmh * 60))
}

// InterpolateRoute returns steps+1 waypoints on the straight lat/lng line
// from -> to. Waypoints share one generation timestamp.
func InterpolateRoute(from, to model.Location, steps int) []model.Location {
	if steps <= 0 {
		steps = DefaultRouteSteps
	}
	now := time.Now()
	route := make([]model.Location, 0, steps+1)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		route = append(route, model.Location{
			Lat:       from.Lat + (to.Lat-from.Lat)*t,
			Lng:       from.Lng + (to.Lng-from.Lng)*t,
			Timestamp: now,
		})
	}
	// last waypoint is exactly the target
	return append(route, model.Location{Lat: to.Lat, Lng: to.Lng, Timestamp: now})
}

// ErrRouteStationary is returned for a route whose waypoints all share one
// position, which happens when a vehicle is sent to where it already stands.
var ErrRouteStationary = errors.New("route has a single distinct position")

// RouteLineString converts waypoints to a LineString in lng/lat axis order.
// An empty route yields an empty LineString.
func RouteLineString(route []model.Location) (geom.LineString, error) {
	if len(route) == 0 {
		return geom.LineString{}, nil
	}
	coords := make([]float64, 0, len(route)*2)
	for _, p := range route {
		coords = append(coords, p.Lng, p.Lat)
	}
	ls, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		if stationary(route) {
			return geom.LineString{}, fmt.Errorf("%w: %v", ErrRouteStationary, err)
		}
		return geom.LineString{}, fmt.Errorf("build route line string: %w", err)
	}
	return ls, nil
}

// RouteGeometry is the GeoJSON form of a route: a LineString while there is
// ground to cover, a Point at the target when the route is stationary.
func RouteGeometry(route []model.Location) (geom.Geometry, error) {
	ls, err := RouteLineString(route)
	if err == nil {
		return ls.AsGeometry(), nil
	}
	if !errors.Is(err, ErrRouteStationary) {
		return geom.Geometry{}, err
	}

	target := route[len(route)-1]
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: target.Lng, Y: target.Lat}, Type: geom.DimXY})
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("build route point: %w", err)
	}
	return pt.AsGeometry(), nil
}

func stationary(route []model.Location) bool {
	for _, p := range route[1:] {
		if !p.SamePoint(route[0]) {
			return false
		}
	}
	return true
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
