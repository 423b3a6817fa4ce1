package kernel

import (
	"fmt"
	"math"

	"opencourier/internal/pkg/errs"
)

const (
	// LatitudeMin and LatitudeMax bound valid latitudes in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0
	// LongitudeMin and LongitudeMax bound valid longitudes in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0
)

// GeoPoint is a geographic coordinate pair in decimal degrees.
//
// The fields are exported because GeoPoint is part of the wire representation
// of pickup/dropoff locations; use NewGeoPoint when constructing values in
// code and Validate when accepting values from the outside.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewGeoPoint creates a GeoPoint, rejecting coordinates outside the valid
// latitude/longitude ranges.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// Validate checks that both coordinates are within their valid degree ranges.
func (p GeoPoint) Validate() error {
	if p.Lat < LatitudeMin || p.Lat > LatitudeMax || math.IsNaN(p.Lat) {
		return errs.NewValueIsOutOfRangeError("latitude", p.Lat, LatitudeMin, LatitudeMax)
	}
	if p.Lng < LongitudeMin || p.Lng > LongitudeMax || math.IsNaN(p.Lng) {
		return errs.NewValueIsOutOfRangeError("longitude", p.Lng, LongitudeMin, LongitudeMax)
	}
	return nil
}

// DistanceTo returns the great-circle distance to other in meters, computed
// with the haversine formula. The result is symmetric and zero for identical
// points.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// String returns a human-readable representation for logs and debugging.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.Lat, p.Lng)
}
