package commands

import (
	"errors"

	"pricing/internal/pkg/guard"
)

var ErrSeedDefaultTiersCommandIsNotConstructed = errors.New(
	"SeedDefaultTiersCommand must be created via NewSeedDefaultTiersCommand constructor",
)

// SeedDefaultTiersCommand asks for the canonical tier catalog to be present.
// It is safe to send at every process start.
type SeedDefaultTiersCommand struct {
	guard guard.ConstructorGuard
}

// NewSeedDefaultTiersCommand creates the command.
func NewSeedDefaultTiersCommand() SeedDefaultTiersCommand {
	return SeedDefaultTiersCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c SeedDefaultTiersCommand) Validate() error {
	return c.guard.Validate(ErrSeedDefaultTiersCommandIsNotConstructed)
}
