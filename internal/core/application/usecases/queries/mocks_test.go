package queries_test

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/tier"

	"github.com/stretchr/testify/mock"
)

type MockDemandRecordReader struct{ mock.Mock }

func (m *MockDemandRecordReader) GetMany(ctx context.Context, buckets []string, slot time.Time) ([]*demand.Record, error) {
	args := m.Called(ctx, buckets, slot)
	recs, _ := args.Get(0).([]*demand.Record)
	return recs, args.Error(1)
}

type MockDemandHistoryReader struct{ mock.Mock }

func (m *MockDemandHistoryReader) ListSince(ctx context.Context, bucket string, from time.Time) ([]*demand.Record, error) {
	args := m.Called(ctx, bucket, from)
	recs, _ := args.Get(0).([]*demand.Record)
	return recs, args.Error(1)
}

type MockTierLister struct{ mock.Mock }

func (m *MockTierLister) ListActive(ctx context.Context) ([]*tier.Tier, error) {
	args := m.Called(ctx)
	tiers, _ := args.Get(0).([]*tier.Tier)
	return tiers, args.Error(1)
}
