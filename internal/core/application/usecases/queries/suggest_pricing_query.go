package queries

import (
	"errors"
	"time"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/parcel"
	"pricing/internal/core/domain/services"
	"pricing/internal/pkg/guard"
)

var ErrSuggestPricingQueryIsNotConstructed = errors.New(
	"SuggestPricingQuery must be created via NewSuggestPricingQuery constructor",
)

// SuggestPricingQuery is a validated request for tiered price suggestions.
// When no distance is given, the great-circle distance from pickup to dropoff
// is used.
//
// Example:
//
//	query, err := NewSuggestPricingQuery(pickup, dropoff, nil, parcel.Parcel{Size: parcel.Medium}, nil)
//	if errs.IsInputError(err) {
//	    // reject the request, nothing was queried
//	}
type SuggestPricingQuery struct { //nolint:recvcheck //using for validation
	pickup      kernel.Location
	dropoff     kernel.Location
	distanceKm  float64
	estimated   bool
	parcel      parcel.Parcel
	requestedAt *time.Time

	guard guard.ConstructorGuard
}

// NewSuggestPricingQuery validates all inputs and reports every violation together.
func NewSuggestPricingQuery(
	pickup, dropoff kernel.Location,
	distanceKm *float64,
	p parcel.Parcel,
	requestedAt *time.Time,
) (SuggestPricingQuery, error) {
	q := SuggestPricingQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setRoute(pickup, dropoff, distanceKm),
		q.setParcel(p),
	); err != nil {
		return SuggestPricingQuery{}, err
	}
	if requestedAt != nil {
		at := *requestedAt
		q.requestedAt = &at
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q SuggestPricingQuery) Validate() error {
	return q.guard.Validate(ErrSuggestPricingQueryIsNotConstructed)
}

// Pickup returns the pickup point; its bucket drives the demand multiplier.
func (q SuggestPricingQuery) Pickup() kernel.Location {
	return q.pickup
}

// Dropoff returns the dropoff point.
func (q SuggestPricingQuery) Dropoff() kernel.Location {
	return q.dropoff
}

// DistanceKm returns the route length.
func (q SuggestPricingQuery) DistanceKm() float64 {
	return q.distanceKm
}

// DistanceEstimated reports whether DistanceKm is the great-circle estimate
// rather than a caller-supplied route distance.
func (q SuggestPricingQuery) DistanceEstimated() bool {
	return q.estimated
}

// Parcel returns the package attributes.
func (q SuggestPricingQuery) Parcel() parcel.Parcel {
	return q.parcel
}

// RequestedAt returns the requested delivery time, or nil for "no preference".
func (q SuggestPricingQuery) RequestedAt() *time.Time {
	return q.requestedAt
}

func (q *SuggestPricingQuery) setRoute(pickup, dropoff kernel.Location, distanceKm *float64) error {
	if err := errors.Join(pickup.Validate(), dropoff.Validate()); err != nil {
		return err
	}

	var km float64
	estimated := distanceKm == nil
	if !estimated {
		km = *distanceKm
	} else {
		d, err := pickup.DistanceKm(dropoff)
		if err != nil {
			return err
		}
		km = d
	}
	if err := services.ValidateDistance(km); err != nil {
		return err
	}

	q.pickup = pickup
	q.dropoff = dropoff
	q.distanceKm = km
	q.estimated = estimated
	return nil
}

func (q *SuggestPricingQuery) setParcel(p parcel.Parcel) error {
	if err := p.Validate(); err != nil {
		return err
	}

	q.parcel = p
	return nil
}
