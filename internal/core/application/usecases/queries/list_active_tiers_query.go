package queries

import (
	"errors"

	"pricing/internal/pkg/guard"
)

var ErrListActiveTiersQueryIsNotConstructed = errors.New(
	"ListActiveTiersQuery must be created via NewListActiveTiersQuery constructor",
)

// ListActiveTiersQuery reads the active tier catalog, fastest tier first.
type ListActiveTiersQuery struct {
	guard guard.ConstructorGuard
}

// NewListActiveTiersQuery creates the query.
func NewListActiveTiersQuery() ListActiveTiersQuery {
	return ListActiveTiersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListActiveTiersQuery) Validate() error {
	return q.guard.Validate(ErrListActiveTiersQueryIsNotConstructed)
}
