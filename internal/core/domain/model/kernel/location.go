package kernel

import (
	"errors"
	"fmt"
	"math"

	"pricing/internal/pkg/errs"
	"pricing/internal/pkg/guard"
)

const (
	// LongitudeMin is the smallest valid longitude in decimal degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the largest valid longitude in decimal degrees.
	LongitudeMax = 180.0
	// LatitudeMin is the smallest valid latitude in decimal degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the largest valid latitude in decimal degrees.
	LatitudeMax = 90.0

	earthRadiusKm = 6371.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a WGS84 point given as longitude/latitude in decimal degrees.
// It is an immutable value object; the zero value is invalid.
//
// Example:
//
//	pickup, err := kernel.NewLocation(28.0473, -26.2041)
//	if err != nil {
//	    return err // malformed coordinates are input errors
//	}
//	fmt.Println(pickup.Bucket()) // "28.05,-26.20"
type Location struct { //nolint:recvcheck //using for validation
	longitude float64
	latitude  float64
	guard     guard.ConstructorGuard
}

// NewLocation validates and creates a Location.
// Both coordinates must be finite; longitude must lie in [-180, 180] and
// latitude in [-90, 90]. All violations are reported together.
func NewLocation(longitude, latitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLongitude(longitude), loc.setLatitude(latitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate checks that the Location was built through NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Longitude returns the longitude in decimal degrees.
func (l Location) Longitude() float64 {
	return l.longitude
}

// Latitude returns the latitude in decimal degrees.
func (l Location) Latitude() float64 {
	return l.latitude
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%g,%g)", l.longitude, l.latitude)
}

// IsEqual reports whether both locations are valid and share the same coordinates.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// Bucket returns the demand-aggregation bucket key of this location.
func (l Location) Bucket() string {
	return Bucket(l.longitude, l.latitude)
}

// DistanceKm returns the great-circle (haversine) distance to other in kilometres.
//
// Example:
//
//	a, _ := kernel.NewLocation(0, 0)
//	b, _ := kernel.NewLocation(1, 0)
//	km, _ := a.DistanceKm(b) // ≈ 111.19
func (l Location) DistanceKm(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := degreesToRadians(other.latitude - l.latitude)
	dLng := degreesToRadians(other.longitude - l.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(l.latitude))*math.Cos(degreesToRadians(other.latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLongitude and setLatitude use pointer receivers so the constructor can
// validate and assign in one step.
func (l *Location) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) {
		return errs.NewValueIsInvalidErrorWithCause("longitude", errors.New("NaN is not a coordinate"))
	}
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	l.longitude = longitude
	return nil
}

func (l *Location) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) {
		return errs.NewValueIsInvalidErrorWithCause("latitude", errors.New("NaN is not a coordinate"))
	}
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	l.latitude = latitude
	return nil
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
