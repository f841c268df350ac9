package commands

import (
	"errors"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/pkg/guard"
)

var ErrRefreshDemandCommandIsNotConstructed = errors.New(
	"RefreshDemandCommand must be created via NewRefreshDemandCommand constructor",
)

// RefreshDemandCommand asks for the demand record of the bucket containing a
// location. Without force the current record is reused while it is fresh.
//
// Example:
//
//	cmd, err := NewRefreshDemandCommand(pickup, false)
//	if err != nil {
//	    return err
//	}
//	rec, err := handler.Handle(ctx, cmd)
type RefreshDemandCommand struct { //nolint:recvcheck //using for validation
	location    kernel.Location
	forceUpdate bool

	guard guard.ConstructorGuard
}

// NewRefreshDemandCommand validates the location and creates the command.
func NewRefreshDemandCommand(location kernel.Location, forceUpdate bool) (RefreshDemandCommand, error) {
	cmd := RefreshDemandCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setLocation(location); err != nil {
		return RefreshDemandCommand{}, err
	}
	cmd.forceUpdate = forceUpdate

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RefreshDemandCommand) Validate() error {
	return c.guard.Validate(ErrRefreshDemandCommandIsNotConstructed)
}

// Location returns the point whose bucket is refreshed.
func (c RefreshDemandCommand) Location() kernel.Location {
	return c.location
}

// ForceUpdate reports whether a fresh record must be recomputed anyway.
func (c RefreshDemandCommand) ForceUpdate() bool {
	return c.forceUpdate
}

func (c *RefreshDemandCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
