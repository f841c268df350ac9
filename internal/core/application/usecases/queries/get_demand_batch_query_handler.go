package queries

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/ports"
	"pricing/internal/pkg/errs"

	"github.com/samber/lo"
)

// DemandRecordReader is the read side of ports.DemandRecordRepository.
type DemandRecordReader interface {
	GetMany(ctx context.Context, buckets []string, slot time.Time) ([]*demand.Record, error)
}

// GetDemandBatchQueryHandler returns the records that already exist for the
// current hour slot. It never triggers a refresh; callers that need data for
// every location refresh them one by one first.
type GetDemandBatchQueryHandler struct {
	repo  DemandRecordReader
	clock ports.Clock
}

// NewGetDemandBatchQueryHandler creates a handler for batch demand reads.
func NewGetDemandBatchQueryHandler(repo DemandRecordReader, clock ports.Clock) GetDemandBatchQueryHandler {
	return GetDemandBatchQueryHandler{repo: repo, clock: clock}
}

// Handle looks the distinct buckets of the query up in one round trip.
func (h GetDemandBatchQueryHandler) Handle(ctx context.Context, query GetDemandBatchQuery) ([]*demand.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	buckets := lo.Uniq(lo.Map(query.Locations(), func(loc kernel.Location, _ int) string {
		return loc.Bucket()
	}))
	if len(buckets) == 0 {
		return []*demand.Record{}, nil
	}

	records, err := h.repo.GetMany(ctx, buckets, kernel.TimeSlot(h.clock.Now()))
	if err != nil {
		return nil, errs.NewUpstreamQueryError("load demand records", err)
	}

	return records, nil
}
