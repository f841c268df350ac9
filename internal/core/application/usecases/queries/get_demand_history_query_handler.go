package queries

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/ports"
	"pricing/internal/pkg/errs"
)

// DemandHistoryReader is the history side of ports.DemandRecordRepository.
type DemandHistoryReader interface {
	ListSince(ctx context.Context, bucket string, from time.Time) ([]*demand.Record, error)
}

// GetDemandHistoryQueryHandler summarises the stored records of a bucket.
// The window ends with the current hour slot and covers Days full days of
// slots before it.
//
// Example:
//
//	query, _ := NewGetDemandHistoryQuery(loc, 7)
//	h, err := handler.Handle(ctx, query)
//	// h.PeakHours lists the UTC hours that usually price above neutral
type GetDemandHistoryQueryHandler struct {
	repo  DemandHistoryReader
	clock ports.Clock
}

// NewGetDemandHistoryQueryHandler creates a handler for demand history reads.
func NewGetDemandHistoryQueryHandler(repo DemandHistoryReader, clock ports.Clock) GetDemandHistoryQueryHandler {
	return GetDemandHistoryQueryHandler{repo: repo, clock: clock}
}

// Handle reads the window and folds it into a demand.History.
func (h GetDemandHistoryQueryHandler) Handle(ctx context.Context, query GetDemandHistoryQuery) (demand.History, error) {
	if err := query.Validate(); err != nil {
		return demand.History{}, err
	}

	bucket := query.Location().Bucket()
	from := kernel.TimeSlot(h.clock.Now()).AddDate(0, 0, -query.Days())

	records, err := h.repo.ListSince(ctx, bucket, from)
	if err != nil {
		return demand.History{}, errs.NewUpstreamQueryError("load demand history", err)
	}

	return demand.Summarize(bucket, records, query.Days()), nil
}
