// pkg/valueobjects/geopoint.go
package valueobjects

import (
	"fmt"

	"github.com/NomadCrew/school-dashboard/errors"
)

// GeoPoint is a validated forecast location.
type GeoPoint struct {
	latitude  float64
	longitude float64
}

// NewGeoPoint creates a new GeoPoint with validation
func NewGeoPoint(lat, lng float64) (*GeoPoint, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	return &GeoPoint{
		latitude:  lat,
		longitude: lng,
	}, nil
}

func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// String returns "(lat, lng)" with six decimals.
func (g GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", g.latitude, g.longitude)
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lat != lat {
		return errors.ValidationFailed("invalid latitude", fmt.Sprintf("latitude must be between -90 and 90, got %f", lat))
	}
	if lng < -180 || lng > 180 || lng != lng {
		return errors.ValidationFailed("invalid longitude", fmt.Sprintf("longitude must be between -180 and 180, got %f", lng))
	}
	return nil
}
