package ports

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/demand"
)

// DemandRecordRepository stores demand records keyed by (bucket, time slot).
// The pair is unique at the storage level.
type DemandRecordRepository interface {
	// Get returns the record of (bucket, slot). A missing record is not an
	// error: it is reported as (nil, nil).
	Get(ctx context.Context, bucket string, slot time.Time) (*demand.Record, error)

	// GetMany returns the records that exist for the given buckets in slot.
	// Buckets without a record are skipped.
	GetMany(ctx context.Context, buckets []string, slot time.Time) ([]*demand.Record, error)

	// ListSince returns the records of bucket whose slot is at or after from,
	// oldest first.
	ListSince(ctx context.Context, bucket string, from time.Time) ([]*demand.Record, error)

	// Upsert inserts rec, or overwrites the counts of the existing record of the
	// same (bucket, slot) if another writer got there first. Last write wins.
	// The stored record is returned; its ID is the one of the first insert.
	Upsert(ctx context.Context, rec *demand.Record) (*demand.Record, error)
}
