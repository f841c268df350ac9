package queries

import (
	"context"

	"pricing/internal/core/domain/model/tier"
	"pricing/internal/pkg/errs"
)

// TierLister is the read side of ports.TierRepository.
type TierLister interface {
	ListActive(ctx context.Context) ([]*tier.Tier, error)
}

// ListActiveTiersQueryHandler returns the active tiers.
// An empty catalog is returned as an empty slice, not as an error.
//
// Example:
//
//	handler := NewListActiveTiersQueryHandler(tierCache)
//	tiers, err := handler.Handle(ctx, NewListActiveTiersQuery())
type ListActiveTiersQueryHandler struct {
	tiers TierLister
}

// NewListActiveTiersQueryHandler creates a handler over any tier lister,
// typically the cached tier repository.
func NewListActiveTiersQueryHandler(tiers TierLister) ListActiveTiersQueryHandler {
	return ListActiveTiersQueryHandler{tiers: tiers}
}

// Handle lists the active tiers.
func (h ListActiveTiersQueryHandler) Handle(ctx context.Context, query ListActiveTiersQuery) ([]*tier.Tier, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tiers, err := h.tiers.ListActive(ctx)
	if err != nil {
		return nil, errs.NewUpstreamQueryError("list active tiers", err)
	}
	if tiers == nil {
		tiers = []*tier.Tier{}
	}

	return tiers, nil
}
