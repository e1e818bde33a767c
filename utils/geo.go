package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinate represents a geographic coordinate with latitude and longitude
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts to orb's lon/lat order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// ParseCoordinate parses "lat,lng".
func ParseCoordinate(s string) (Coordinate, error) {
	latS, lngS, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, errors.New("coordinate must be lat,lng")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude: %w", err)
	}
	c := Coordinate{Lat: lat, Lng: lng}
	if err := validateCoordinate(c); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// validateCoordinate validates a single coordinate
func validateCoordinate(coord Coordinate) error {
	if math.IsNaN(coord.Lat) || math.IsNaN(coord.Lng) {
		return errors.New("coordinate is not a number")
	}
	if coord.Lat < -90 || coord.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", coord.Lat)
	}
	if coord.Lng < -180 || coord.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", coord.Lng)
	}
	return nil
}

// DistanceKm is the haversine distance between two coordinates.
func DistanceKm(a, b Coordinate) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point()) / 1000
}

// WithinRadius reports whether p lies within radiusKm of center.
func WithinRadius(center, p Coordinate, radiusKm float64) bool {
	return DistanceKm(center, p) <= radiusKm
}

// NearFilter selects points within RadiusKm of Center.
type NearFilter struct {
	Center   Coordinate
	RadiusKm float64
}

// DefaultRadiusKm applies when no radius is given.
const DefaultRadiusKm = 5.0

// ParseNear parses a "lat,lng" center and an optional radius in km.
func ParseNear(center, radius string) (NearFilter, error) {
	c, err := ParseCoordinate(center)
	if err != nil {
		return NearFilter{}, err
	}
	n := NearFilter{Center: c, RadiusKm: DefaultRadiusKm}
	if radius != "" {
		r, err := strconv.ParseFloat(radius, 64)
		if err != nil || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return NearFilter{}, fmt.Errorf("invalid radius %q", radius)
		}
		n.RadiusKm = r
	}
	return n, nil
}

// String encodes the filter as "lat,lng,radiusKm".
func (n NearFilter) String() string {
	return fmt.Sprintf("%g,%g,%g", n.Center.Lat, n.Center.Lng, n.RadiusKm)
}

// ParseNearValue decodes the String form.
func ParseNearValue(v string) (NearFilter, error) {
	i := strings.LastIndex(v, ",")
	if i < 0 {
		return NearFilter{}, errors.New("near filter must be lat,lng,radiusKm")
	}
	return ParseNear(v[:i], v[i+1:])
}

// Contains reports whether c is inside the filter radius.
func (n NearFilter) Contains(c Coordinate) bool {
	return WithinRadius(n.Center, c, n.RadiusKm)
}
