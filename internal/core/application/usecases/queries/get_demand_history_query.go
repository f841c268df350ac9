package queries

import (
	"errors"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/pkg/errs"
	"pricing/internal/pkg/guard"
)

var ErrGetDemandHistoryQueryIsNotConstructed = errors.New(
	"GetDemandHistoryQuery must be created via NewGetDemandHistoryQuery constructor",
)

// GetDemandHistoryQuery reads the stored demand of one bucket over the last
// days days. Zero days means demand.DefaultHistoryDays.
type GetDemandHistoryQuery struct {
	location kernel.Location
	days     int

	guard guard.ConstructorGuard
}

// NewGetDemandHistoryQuery validates the location and the window.
func NewGetDemandHistoryQuery(location kernel.Location, days int) (GetDemandHistoryQuery, error) {
	if days == 0 {
		days = demand.DefaultHistoryDays
	}

	var errList []error
	if err := location.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("location", err))
	}
	if days < demand.MinHistoryDays || days > demand.MaxHistoryDays {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"days", days, demand.MinHistoryDays, demand.MaxHistoryDays))
	}
	if err := errors.Join(errList...); err != nil {
		return GetDemandHistoryQuery{}, err
	}

	return GetDemandHistoryQuery{
		location: location,
		days:     days,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDemandHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetDemandHistoryQueryIsNotConstructed)
}

// Location returns the point whose bucket is summarised.
func (q GetDemandHistoryQuery) Location() kernel.Location {
	return q.location
}

// Days returns the window length.
func (q GetDemandHistoryQuery) Days() int {
	return q.days
}
