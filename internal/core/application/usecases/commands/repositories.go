// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
package commands

import (
	"context"

	"pricing/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// TierRepoFactory provides access to the tier repository within a transaction.
	TierRepoFactory interface {
		TierRepository() ports.TierRepository
	}

	// TierUoW manages transactions for catalog operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   created, err := uow.TierRepository().AddIfAbsent(ctx, t)
	//   // ...
	//   err = uow.Commit(ctx)
	TierUoW interface {
		TxManager
		TierRepoFactory
	}

	// TierUoWFactory creates new tier unit of work instances.
	TierUoWFactory interface {
		Create() TierUoW
	}
)
