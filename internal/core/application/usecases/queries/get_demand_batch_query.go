// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
package queries

import (
	"errors"
	"fmt"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/pkg/errs"
	"pricing/internal/pkg/guard"
)

var ErrGetDemandBatchQueryIsNotConstructed = errors.New(
	"GetDemandBatchQuery must be created via NewGetDemandBatchQuery constructor",
)

// GetDemandBatchQuery reads the current demand records of several locations.
//
// Example:
//
//	query, err := NewGetDemandBatchQuery([]kernel.Location{a, b, c})
//	if err != nil {
//	    return err
//	}
//	records, err := handler.Handle(ctx, query)
//	// len(records) <= 3: buckets without a record are skipped
type GetDemandBatchQuery struct {
	locations []kernel.Location

	guard guard.ConstructorGuard
}

// NewGetDemandBatchQuery validates every location and creates the query.
func NewGetDemandBatchQuery(locations []kernel.Location) (GetDemandBatchQuery, error) {
	var errList []error
	for i, loc := range locations {
		if err := loc.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("location %d: %w", i, err))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return GetDemandBatchQuery{}, errs.NewValueIsInvalidErrorWithCause("locations", err)
	}

	return GetDemandBatchQuery{
		locations: append([]kernel.Location(nil), locations...),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDemandBatchQuery) Validate() error {
	return q.guard.Validate(ErrGetDemandBatchQueryIsNotConstructed)
}

// Locations returns the requested locations.
func (q GetDemandBatchQuery) Locations() []kernel.Location {
	return q.locations
}
